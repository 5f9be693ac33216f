package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/reconcile"
	"go-scrapyard-ws/internal/repository"
)

// SyncStatus is the connectivity view exposed to the UI.
type SyncStatus struct {
	Connected     bool   `json:"connected"`
	Version       uint64 `json:"version"`
	PendingOutbox int    `json:"pending_outbox"`
	Syncing       bool   `json:"syncing"`
}

// SyncService performs manual pull refreshes. A refresh while one is already
// in flight is a no-op, and a slow refresh that finishes after a newer push
// is discarded: the latest snapshot always wins.
type SyncService interface {
	Refresh() (bool, error)
	Status() SyncStatus
}

type syncService struct {
	txRepo   repository.TransactionRepository
	invRepo  repository.InventoryRepository
	local    *fallback.Store
	bc       *Broadcaster
	replayer interface{ ReplayOutbox() }
	log      *logrus.Logger
}

func NewSyncService(txRepo repository.TransactionRepository, invRepo repository.InventoryRepository, local *fallback.Store, bc *Broadcaster, replayer interface{ ReplayOutbox() }, log *logrus.Logger) SyncService {
	return &syncService{txRepo: txRepo, invRepo: invRepo, local: local, bc: bc, replayer: replayer, log: log}
}

// Refresh returns (false, nil) when another refresh is already running.
func (s *syncService) Refresh() (bool, error) {
	if !s.local.BeginSync() {
		return false, nil
	}
	defer s.local.EndSync()

	s.replayer.ReplayOutbox()

	sinceVersion := s.local.Version()

	txs, err := s.txRepo.FindAll()
	if err != nil {
		s.local.MarkConnected(false)
		return false, fmt.Errorf("%w: %v", reconcile.ErrStoreUnavailable, err)
	}
	items, err := s.invRepo.FindAll()
	if err != nil {
		s.local.MarkConnected(false)
		return false, fmt.Errorf("%w: %v", reconcile.ErrStoreUnavailable, err)
	}

	s.local.MarkConnected(true)
	if !s.local.CommitSnapshot(sinceVersion, txs, items) {
		// A push-based snapshot arrived while this pull was in flight;
		// the fetched data is older, drop it.
		s.log.Info("manual refresh discarded, newer snapshot already installed")
		return true, nil
	}

	s.bc.publishMirror("manual refresh")
	return true, nil
}

func (s *syncService) Status() SyncStatus {
	return SyncStatus{
		Connected:     s.local.Connected(),
		Version:       s.local.Version(),
		PendingOutbox: s.local.PendingOutbox(),
		Syncing:       s.local.Syncing(),
	}
}
