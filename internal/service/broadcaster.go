package service

import (
	"encoding/json"

	"github.com/sirupsen/logrus"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/repository"
	"go-scrapyard-ws/internal/ws"
)

// Broadcaster owns the shared "refresh mirror, publish snapshot" path used
// by every service that mutates state. Screens always receive the full
// current snapshot and replace their working set, never incremental patches.
type Broadcaster struct {
	txRepo  repository.TransactionRepository
	invRepo repository.InventoryRepository
	local   *fallback.Store
	hub     *ws.Hub
	log     *logrus.Logger
}

func NewBroadcaster(txRepo repository.TransactionRepository, invRepo repository.InventoryRepository, local *fallback.Store, hub *ws.Hub, log *logrus.Logger) *Broadcaster {
	return &Broadcaster{txRepo: txRepo, invRepo: invRepo, local: local, hub: hub, log: log}
}

// refreshAndPublish pulls the authoritative state from the record store into
// the mirror and broadcasts it. On a store failure it publishes the mirror
// as-is and flags the connection degraded.
func (b *Broadcaster) refreshAndPublish(message string) {
	txs, err := b.txRepo.FindAll()
	if err != nil {
		b.local.MarkConnected(false)
		b.log.WithError(err).Warn("snapshot refresh failed, publishing local mirror")
		b.publishMirror(message)
		return
	}
	items, err := b.invRepo.FindAll()
	if err != nil {
		b.local.MarkConnected(false)
		b.log.WithError(err).Warn("snapshot refresh failed, publishing local mirror")
		b.publishMirror(message)
		return
	}

	b.local.MarkConnected(true)
	b.local.ReplaceSnapshot(txs, items)
	b.publishMirror(message)
}

// publishMirror broadcasts whatever the mirror currently holds.
func (b *Broadcaster) publishMirror(message string) {
	txs, items, version := b.local.Snapshot()
	payload := map[string]interface{}{
		"type":         "snapshot",
		"version":      version,
		"connected":    b.local.Connected(),
		"transactions": txs,
		"inventory":    items,
		"message":      message,
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		b.log.WithError(err).Error("failed to marshal snapshot")
		return
	}
	go b.hub.PublishSnapshot(msg)
}

// loadTransactions reads the ledger, falling back to the local mirror when
// the record store is unreachable so reports still render (possibly stale).
func loadTransactions(txRepo repository.TransactionRepository, local *fallback.Store, log *logrus.Logger) []model.Transaction {
	txs, err := txRepo.FindAll()
	if err != nil {
		local.MarkConnected(false)
		log.WithError(err).Warn("ledger read failed, serving local mirror")
		txs, _, _ = local.Snapshot()
		return txs
	}
	return txs
}

// loadInventory mirrors loadTransactions for the inventory collection.
func loadInventory(invRepo repository.InventoryRepository, local *fallback.Store, log *logrus.Logger) []model.InventoryItem {
	items, err := invRepo.FindAll()
	if err != nil {
		local.MarkConnected(false)
		log.WithError(err).Warn("inventory read failed, serving local mirror")
		_, items, _ = local.Snapshot()
		return items
	}
	return items
}
