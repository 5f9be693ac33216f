package model

import (
	"github.com/shopspring/decimal"
)

// InventoryItem holds the current stock position for one material.
// QuantityOnHand is governed by the signed deltas of all purchase/sale
// transactions for the material; the price columns are configured manually
// and only serve as defaults when entering new transactions.
type InventoryItem struct {
	BaseModel
	Material          string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"material" validate:"required"`
	QuantityOnHand    decimal.Decimal `gorm:"type:numeric(14,3);default:0" json:"quantityOnHand"`
	PurchasePrice     decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"purchasePrice" validate:"dec_nonneg"`
	SalePrice         decimal.Decimal `gorm:"type:numeric(14,2);default:0" json:"salePrice" validate:"dec_nonneg"`
	MinimumStockLevel decimal.Decimal `gorm:"type:numeric(14,3);default:0" json:"minimumStockLevel" validate:"dec_nonneg"`
}

// LowStock reports whether the material is below its configured threshold.
func (i *InventoryItem) LowStock() bool {
	if i.MinimumStockLevel.IsZero() {
		return false
	}
	return i.QuantityOnHand.LessThan(i.MinimumStockLevel)
}

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

// DefaultMaterials is the seed price table applied when the yard starts
// with an empty inventory. Prices are per kilogram.
var DefaultMaterials = []InventoryItem{
	{Material: "iron", PurchasePrice: price("0.50"), SalePrice: price("0.80"), MinimumStockLevel: price("500")},
	{Material: "copper", PurchasePrice: price("25.00"), SalePrice: price("32.00"), MinimumStockLevel: price("20")},
	{Material: "aluminum", PurchasePrice: price("4.00"), SalePrice: price("6.00"), MinimumStockLevel: price("100")},
	{Material: "stainless", PurchasePrice: price("3.00"), SalePrice: price("4.50"), MinimumStockLevel: price("50")},
	{Material: "brass", PurchasePrice: price("18.00"), SalePrice: price("23.00"), MinimumStockLevel: price("10")},
	{Material: "battery", PurchasePrice: price("3.50"), SalePrice: price("5.00"), MinimumStockLevel: price("30")},
}
