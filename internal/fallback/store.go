// Package fallback keeps a best-effort in-process mirror of the ledger and
// inventory for use when the record store is unreachable. Writes made while
// disconnected are flagged unsynced and queued in an outbox that is replayed
// on the next successful store round-trip.
package fallback

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"go-scrapyard-ws/internal/model"
)

type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Entry is one queued offline write awaiting replay.
type Entry struct {
	Op          Op
	Transaction model.Transaction
	QueuedAt    time.Time
}

// Store mirrors the record store's two collections. Every mutation bumps a
// monotonically increasing version; consumers replace their working set with
// whole snapshots and the latest version always wins, so a slow manual
// refresh can never regress a newer push.
type Store struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]model.Transaction
	inventory    map[string]model.InventoryItem
	outbox       []Entry
	version      uint64
	connected    bool
	syncing      bool
}

func NewStore() *Store {
	return &Store{
		transactions: map[uuid.UUID]model.Transaction{},
		inventory:    map[string]model.InventoryItem{},
		connected:    true,
	}
}

// Version returns the current snapshot version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Connected reports whether the last record store call succeeded.
func (s *Store) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

func (s *Store) MarkConnected(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

// BeginSync claims the refresh slot. It returns false when a refresh is
// already in flight, making re-entrant manual refreshes no-ops.
func (s *Store) BeginSync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.syncing {
		return false
	}
	s.syncing = true
	return true
}

func (s *Store) EndSync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncing = false
}

// Syncing reports whether a manual refresh is currently in flight.
func (s *Store) Syncing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.syncing
}

// ReplaceSnapshot installs an authoritative snapshot of both collections and
// returns the new version.
func (s *Store) ReplaceSnapshot(txs []model.Transaction, items []model.InventoryItem) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(txs, items)
	return s.version
}

// CommitSnapshot installs a snapshot only if no newer one arrived since the
// caller read sinceVersion. A false return means the fetched data is stale
// and must be discarded.
func (s *Store) CommitSnapshot(sinceVersion uint64, txs []model.Transaction, items []model.InventoryItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version != sinceVersion {
		return false
	}
	s.replaceLocked(txs, items)
	return true
}

func (s *Store) replaceLocked(txs []model.Transaction, items []model.InventoryItem) {
	s.transactions = make(map[uuid.UUID]model.Transaction, len(txs))
	for _, t := range txs {
		s.transactions[t.ID] = t
	}
	s.inventory = make(map[string]model.InventoryItem, len(items))
	for _, item := range items {
		s.inventory[item.Material] = item
	}
	s.version++
}

// Snapshot returns copies of both collections with the version they belong
// to. Transactions are ordered by business timestamp descending.
func (s *Store) Snapshot() ([]model.Transaction, []model.InventoryItem, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := make([]model.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		txs = append(txs, t)
	}
	sortByTimestampDesc(txs)

	items := make([]model.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		items = append(items, item)
	}
	sortByMaterial(items)

	return txs, items, s.version
}

// GetTransaction looks a single transaction up in the mirror.
func (s *Store) GetTransaction(id uuid.UUID) (model.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[id]
	return t, ok
}

// RecordLocal persists an offline write to the mirror, marks it unsynced and
// queues it for replay. Delete entries remove the mirror row instead.
func (s *Store) RecordLocal(op Op, t model.Transaction) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.Unsynced = true
	switch op {
	case OpDelete:
		delete(s.transactions, t.ID)
	default:
		s.transactions[t.ID] = t
	}
	s.outbox = append(s.outbox, Entry{Op: op, Transaction: t, QueuedAt: time.Now()})
	s.connected = false
	s.version++
	return s.version
}

// PendingOutbox returns how many offline writes await replay.
func (s *Store) PendingOutbox() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outbox)
}

// DrainOutbox removes and returns all queued entries in FIFO order.
func (s *Store) DrainOutbox() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	drained := s.outbox
	s.outbox = nil
	return drained
}

// Requeue puts entries back at the front of the outbox after a failed replay.
func (s *Store) Requeue(entries []Entry) {
	if len(entries) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outbox = append(entries, s.outbox...)
}
