package repository

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-scrapyard-ws/internal/model"
)

type InventoryRepository interface {
	FindAll() ([]model.InventoryItem, error)
	FindByMaterial(material string) (*model.InventoryItem, error)
	LockByMaterial(tx *gorm.DB, material string) (*model.InventoryItem, error)
	Save(tx *gorm.DB, item *model.InventoryItem) error
	Count() (int64, error)
	GetDashboardStats() (*DashboardStats, error)
}

// DashboardStats is the overview card data for the dashboard screen.
type DashboardStats struct {
	TotalMaterials int64           `json:"total_materials"`
	LowStockCount  int64           `json:"low_stock_count"`
	StockValuation decimal.Decimal `json:"stock_valuation"`
}

type inventoryRepo struct {
	db *gorm.DB
}

func NewInventoryRepo(db *gorm.DB) InventoryRepository {
	return &inventoryRepo{db}
}

func (r *inventoryRepo) FindAll() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.Order("material ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) FindByMaterial(material string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.First(&item, "material = ?", material).Error
	return &item, err
}

// LockByMaterial loads the material's row FOR UPDATE so the stock delta is
// applied under a pessimistic lock. A material with no existing row is
// implicitly created at zero.
func (r *inventoryRepo) LockByMaterial(tx *gorm.DB, material string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.Set("gorm:query_option", "FOR UPDATE").First(&item, "material = ?", material).Error
	if err == nil {
		return &item, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item = model.InventoryItem{Material: material}
	if err := tx.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepo) Save(tx *gorm.DB, item *model.InventoryItem) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(item).Error
}

func (r *inventoryRepo) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.InventoryItem{}).Count(&count).Error
	return count, err
}

func (r *inventoryRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.InventoryItem{}).Count(&stats.TotalMaterials).Error; err != nil {
		return nil, err
	}

	// Low stock is per-material: below the configured minimum level.
	if err := r.db.Model(&model.InventoryItem{}).
		Where("minimum_stock_level > 0 AND quantity_on_hand < minimum_stock_level").
		Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&model.InventoryItem{}).
		Select("COALESCE(SUM(quantity_on_hand * purchase_price), 0)").
		Scan(&stats.StockValuation).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
