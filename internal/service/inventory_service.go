package service

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"go-scrapyard-ws/internal/fallback"
	"go-scrapyard-ws/internal/model"
	"go-scrapyard-ws/internal/repository"
	"go-scrapyard-ws/pkg/validator"
)

// InventoryService reads stock positions and maintains the manually
// configured price/threshold columns. Quantity on hand is never edited here;
// it is owned by ledger reconciliation.
type InventoryService interface {
	GetInventory() ([]model.InventoryItem, error)
	UpdateMaterial(material string, req *model.InventoryItem, operator string) (*model.InventoryItem, error)
	SeedDefaults() error
}

type inventoryService struct {
	invRepo repository.InventoryRepository
	db      *gorm.DB
	local   *fallback.Store
	bc      *Broadcaster
	log     *logrus.Logger
}

func NewInventoryService(invRepo repository.InventoryRepository, db *gorm.DB, local *fallback.Store, bc *Broadcaster, log *logrus.Logger) InventoryService {
	return &inventoryService{invRepo: invRepo, db: db, local: local, bc: bc, log: log}
}

func (s *inventoryService) GetInventory() ([]model.InventoryItem, error) {
	return loadInventory(s.invRepo, s.local, s.log), nil
}

// UpdateMaterial sets purchase/sale prices and the minimum stock level.
// Concurrent edits from two screens remain last-write-wins on the row; this
// is a documented limitation at the yard's write concurrency, not a bug to
// paper over here.
func (s *inventoryService) UpdateMaterial(material string, req *model.InventoryItem, operator string) (*model.InventoryItem, error) {
	req.Material = material
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	var updated *model.InventoryItem
	err := s.db.Transaction(func(dbtx *gorm.DB) error {
		item, err := s.invRepo.LockByMaterial(dbtx, material)
		if err != nil {
			return err
		}
		item.PurchasePrice = req.PurchasePrice
		item.SalePrice = req.SalePrice
		item.MinimumStockLevel = req.MinimumStockLevel
		item.UpdatedBy = operator
		if err := s.invRepo.Save(dbtx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.bc.refreshAndPublish(fmt.Sprintf("%s updated prices for '%s'", operator, material))
	return updated, nil
}

// SeedDefaults installs the default materials-price table when the yard
// starts with an empty inventory.
func (s *inventoryService) SeedDefaults() error {
	count, err := s.invRepo.Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, item := range model.DefaultMaterials {
		seed := item
		seed.CreatedBy = "system"
		seed.UpdatedBy = "system"
		if err := s.invRepo.Save(nil, &seed); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return err
		}
	}
	s.log.WithField("materials", len(model.DefaultMaterials)).Info("seeded default materials price table")
	return nil
}
