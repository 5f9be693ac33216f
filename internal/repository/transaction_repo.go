package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-scrapyard-ws/internal/model"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, t *model.Transaction) error
	Update(tx *gorm.DB, t *model.Transaction) error
	Delete(tx *gorm.DB, id uuid.UUID) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	GetMovement(startDate, endDate time.Time) ([]MovementPoint, error)
}

// MovementPoint is one day of kilogram flow for the dashboard chart.
type MovementPoint struct {
	Date        string          `json:"date"`
	PurchasedKg decimal.Decimal `json:"purchased_kg"`
	SoldKg      decimal.Decimal `json:"sold_kg"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create accepts the gorm handle so it can run inside a reconciliation
// transaction together with the inventory update.
func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(t).Error
}

func (r *transactionRepo) Update(tx *gorm.DB, t *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Save(t).Error
}

func (r *transactionRepo) Delete(tx *gorm.DB, id uuid.UUID) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Delete(&model.Transaction{}, "id = ?", id).Error
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Order("timestamp DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) GetMovement(startDate, endDate time.Time) ([]MovementPoint, error) {
	var results []MovementPoint

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(timestamp) as date,
			COALESCE(SUM(CASE WHEN type = 'purchase' THEN quantity ELSE 0 END), 0) as purchased_kg,
			COALESCE(SUM(CASE WHEN type = 'sale' THEN quantity ELSE 0 END), 0) as sold_kg
		`).
		Where("timestamp BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(timestamp)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var point MovementPoint
		if err := rows.Scan(&point.Date, &point.PurchasedKg, &point.SoldKg); err != nil {
			return nil, err
		}
		results = append(results, point)
	}

	return results, nil
}
