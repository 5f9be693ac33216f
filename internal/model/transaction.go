package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TypePurchase TransactionType = "purchase"
	TypeSale     TransactionType = "sale"
	TypeExpense  TransactionType = "expense"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentPix  PaymentMethod = "pix"
)

// Transaction is one ledger entry. Quantities are kilograms, money values
// are currency amounts. TotalValue is always computed for purchase/sale
// (quantity * unit price, rounded to 2 places) and entered directly only
// for expenses.
type Transaction struct {
	BaseModel
	Type             TransactionType `gorm:"type:varchar(10);not null;index" json:"type" validate:"required,oneof=purchase sale expense"`
	Material         string          `gorm:"type:varchar(100);index" json:"material"`
	Quantity         decimal.Decimal `gorm:"type:numeric(14,3)" json:"quantity"`
	UnitPrice        decimal.Decimal `gorm:"type:numeric(14,2)" json:"unitPrice"`
	TotalValue       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"totalValue"`
	CounterpartyName string          `gorm:"type:varchar(255)" json:"counterpartyName,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`

	// Business date of the transaction, not the row creation date.
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	PaymentMethod    PaymentMethod `gorm:"type:varchar(20);default:cash" json:"paymentMethod"`
	PaymentReference string        `gorm:"type:varchar(255)" json:"paymentReference,omitempty"`

	// Set when the record was written to the local fallback store while the
	// record store was unreachable and has not been confirmed yet.
	Unsynced bool `gorm:"default:false" json:"unsynced,omitempty"`
}

// MovesStock reports whether this transaction type changes inventory.
func (t *Transaction) MovesStock() bool {
	return t.Type == TypePurchase || t.Type == TypeSale
}

// EffectivePaymentMethod treats an absent payment method as cash.
func (t *Transaction) EffectivePaymentMethod() PaymentMethod {
	if t.PaymentMethod == "" {
		return PaymentCash
	}
	return t.PaymentMethod
}
