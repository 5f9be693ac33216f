package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/reconcile"
	"go-scrapyard-ws/internal/repository"
)

// LedgerService is the write path of the ledger. Every mutation goes through
// normalize/compute-total first, applies its inventory delta under a row
// lock, and ends in a full snapshot broadcast. When the record store is
// unreachable the write lands in the local fallback store instead, flagged
// unsynced and queued for replay.
type LedgerService interface {
	CreateTransaction(raw map[string]any, operator string) (*model.Transaction, []*reconcile.ReconciliationWarning, error)
	UpdateTransaction(id uuid.UUID, raw map[string]any, operator string) (*model.Transaction, []*reconcile.ReconciliationWarning, error)
	DeleteTransaction(id uuid.UUID, operator string) ([]*reconcile.ReconciliationWarning, error)
	ListTransactions() ([]model.Transaction, error)
	GetTransaction(id uuid.UUID) (*model.Transaction, error)
	ReplayOutbox()
}

type ledgerService struct {
	txRepo  repository.TransactionRepository
	invRepo repository.InventoryRepository
	db      *gorm.DB
	local   *fallback.Store
	bc      *Broadcaster
	policy  reconcile.NegativeStockPolicy
	log     *logrus.Logger
}

func NewLedgerService(txRepo repository.TransactionRepository, invRepo repository.InventoryRepository, db *gorm.DB, local *fallback.Store, bc *Broadcaster, policy reconcile.NegativeStockPolicy, log *logrus.Logger) LedgerService {
	return &ledgerService{
		txRepo:  txRepo,
		invRepo: invRepo,
		db:      db,
		local:   local,
		bc:      bc,
		policy:  policy,
		log:     log,
	}
}

// isStoreFailure separates infrastructure failures, which degrade to the
// fallback store, from domain errors, which are surfaced to the caller.
func isStoreFailure(err error) bool {
	if err == nil {
		return false
	}
	var vErr *reconcile.ValidationError
	if errors.As(err, &vErr) {
		return false
	}
	if errors.Is(err, reconcile.ErrNegativeStock) || errors.Is(err, reconcile.ErrNotFound) {
		return false
	}
	return true
}

func (s *ledgerService) CreateTransaction(raw map[string]any, operator string) (*model.Transaction, []*reconcile.ReconciliationWarning, error) {
	t, err := reconcile.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	total, err := reconcile.ComputeTotal(t.Type, t.Quantity, t.UnitPrice, t.TotalValue)
	if err != nil {
		return nil, nil, err
	}
	t.TotalValue = total
	t.ID = uuid.New()
	t.CreatedBy = operator
	t.UpdatedBy = operator

	s.ReplayOutbox()

	warns, err := s.applyCreate(t)
	s.logWarnings(warns)
	if err != nil {
		if !isStoreFailure(err) {
			return nil, warns, err
		}
		s.local.RecordLocal(fallback.OpCreate, *t)
		t.Unsynced = true
		s.log.WithError(err).Warn("record store unavailable, transaction kept locally")
		s.bc.publishMirror(fmt.Sprintf("%s recorded a %s locally (offline)", operator, t.Type))
		return t, warns, nil
	}

	s.bc.refreshAndPublish(fmt.Sprintf("%s recorded a %s", operator, t.Type))
	return t, warns, nil
}

func (s *ledgerService) UpdateTransaction(id uuid.UUID, raw map[string]any, operator string) (*model.Transaction, []*reconcile.ReconciliationWarning, error) {
	t, err := reconcile.Normalize(raw)
	if err != nil {
		return nil, nil, err
	}
	total, err := reconcile.ComputeTotal(t.Type, t.Quantity, t.UnitPrice, t.TotalValue)
	if err != nil {
		return nil, nil, err
	}
	t.TotalValue = total
	t.ID = id
	t.UpdatedBy = operator

	s.ReplayOutbox()

	warns, err := s.applyUpdate(t)
	s.logWarnings(warns)
	if err != nil {
		if !isStoreFailure(err) {
			return nil, warns, err
		}
		s.local.RecordLocal(fallback.OpUpdate, *t)
		t.Unsynced = true
		s.log.WithError(err).Warn("record store unavailable, update kept locally")
		s.bc.publishMirror(fmt.Sprintf("%s edited a transaction locally (offline)", operator))
		return t, warns, nil
	}

	s.bc.refreshAndPublish(fmt.Sprintf("%s edited a transaction", operator))
	return t, warns, nil
}

func (s *ledgerService) DeleteTransaction(id uuid.UUID, operator string) ([]*reconcile.ReconciliationWarning, error) {
	s.ReplayOutbox()

	warns, err := s.applyDelete(id)
	s.logWarnings(warns)
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			// Delete-after-delete race: benign no-op.
			return warns, reconcile.ErrNotFound
		}
		if !isStoreFailure(err) {
			return warns, err
		}
		if t, ok := s.local.GetTransaction(id); ok {
			s.local.RecordLocal(fallback.OpDelete, t)
			s.log.WithError(err).Warn("record store unavailable, delete kept locally")
			s.bc.publishMirror(fmt.Sprintf("%s deleted a transaction locally (offline)", operator))
			return warns, nil
		}
		return warns, fmt.Errorf("%w: %v", reconcile.ErrStoreUnavailable, err)
	}

	s.bc.refreshAndPublish(fmt.Sprintf("%s deleted a transaction", operator))
	return warns, nil
}

func (s *ledgerService) ListTransactions() ([]model.Transaction, error) {
	return loadTransactions(s.txRepo, s.local, s.log), nil
}

func (s *ledgerService) GetTransaction(id uuid.UUID) (*model.Transaction, error) {
	t, err := s.txRepo.FindByID(id)
	if err == nil {
		return t, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reconcile.ErrNotFound
	}
	s.local.MarkConnected(false)
	if mirrored, ok := s.local.GetTransaction(id); ok {
		return &mirrored, nil
	}
	return nil, reconcile.ErrNotFound
}

// applyCreate persists the transaction and its inventory delta atomically.
func (s *ledgerService) applyCreate(t *model.Transaction) ([]*reconcile.ReconciliationWarning, error) {
	var warns []*reconcile.ReconciliationWarning
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		if t.MovesStock() {
			item, err := s.invRepo.LockByMaterial(dbtx, t.Material)
			if err != nil {
				return err
			}
			warn, err := reconcile.ApplyToInventory(item, t, reconcile.Apply, s.policy)
			if warn != nil {
				warns = append(warns, warn)
			}
			if err != nil {
				return err
			}
			item.UpdatedBy = t.UpdatedBy
			if err := s.invRepo.Save(dbtx, item); err != nil {
				return err
			}
		}
		return s.txRepo.Create(dbtx, t)
	})
	return warns, err
}

// applyUpdate reverts the persisted before-state's deltas, applies the new
// deltas, and saves, all in one store transaction.
func (s *ledgerService) applyUpdate(t *model.Transaction) ([]*reconcile.ReconciliationWarning, error) {
	var warns []*reconcile.ReconciliationWarning
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		var before model.Transaction
		if err := dbtx.First(&before, "id = ?", t.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reconcile.ErrNotFound
			}
			return err
		}
		t.CreatedAt = before.CreatedAt
		t.CreatedBy = before.CreatedBy

		if before.MovesStock() {
			item, err := s.invRepo.LockByMaterial(dbtx, before.Material)
			if err != nil {
				return err
			}
			warn, err := reconcile.ApplyToInventory(item, &before, reconcile.Revert, s.policy)
			if warn != nil {
				warns = append(warns, warn)
			}
			if err != nil {
				return err
			}
			if err := s.invRepo.Save(dbtx, item); err != nil {
				return err
			}
		}

		if t.MovesStock() {
			item, err := s.invRepo.LockByMaterial(dbtx, t.Material)
			if err != nil {
				return err
			}
			warn, err := reconcile.ApplyToInventory(item, t, reconcile.Apply, s.policy)
			if warn != nil {
				warns = append(warns, warn)
			}
			if err != nil {
				return err
			}
			item.UpdatedBy = t.UpdatedBy
			if err := s.invRepo.Save(dbtx, item); err != nil {
				return err
			}
		}

		return s.txRepo.Update(dbtx, t)
	})
	return warns, err
}

func (s *ledgerService) applyDelete(id uuid.UUID) ([]*reconcile.ReconciliationWarning, error) {
	var warns []*reconcile.ReconciliationWarning
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		var before model.Transaction
		if err := dbtx.First(&before, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return reconcile.ErrNotFound
			}
			return err
		}

		if before.MovesStock() {
			item, err := s.invRepo.LockByMaterial(dbtx, before.Material)
			if err != nil {
				return err
			}
			warn, err := reconcile.ApplyToInventory(item, &before, reconcile.Revert, s.policy)
			if warn != nil {
				warns = append(warns, warn)
			}
			if err != nil {
				return err
			}
			if err := s.invRepo.Save(dbtx, item); err != nil {
				return err
			}
		}

		return s.txRepo.Delete(dbtx, id)
	})
	return warns, err
}

// ReplayOutbox pushes queued offline writes back to the record store in FIFO
// order. On the first failure the remainder is requeued and the connection
// stays flagged degraded.
func (s *ledgerService) ReplayOutbox() {
	if s.local.PendingOutbox() == 0 {
		return
	}

	entries := s.local.DrainOutbox()
	for i, e := range entries {
		var err error
		t := e.Transaction
		t.Unsynced = false

		switch e.Op {
		case fallback.OpCreate:
			_, err = s.applyCreate(&t)
		case fallback.OpUpdate:
			_, err = s.applyUpdate(&t)
		case fallback.OpDelete:
			_, err = s.applyDelete(t.ID)
		}

		// A row that disappeared server-side while we were offline is not a
		// replay failure.
		if errors.Is(err, reconcile.ErrNotFound) {
			err = nil
		}
		if err != nil {
			s.local.Requeue(entries[i:])
			s.local.MarkConnected(false)
			s.log.WithError(err).WithField("pending", len(entries)-i).Warn("outbox replay interrupted")
			return
		}
	}

	s.local.MarkConnected(true)
	s.log.WithField("replayed", len(entries)).Info("outbox replay complete")
}

func (s *ledgerService) logWarnings(warns []*reconcile.ReconciliationWarning) {
	for _, w := range warns {
		s.log.WithFields(logrus.Fields{
			"material": w.Material,
			"policy":   string(w.Policy),
		}).Warn(w.String())
	}
}
