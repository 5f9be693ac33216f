package reconcile

import (
	"github.com/shopspring/decimal"

	"go-scrapyard-ws/internal/model"
)

// Direction selects whether a transaction's inventory delta is being applied
// (on create) or reverted (on delete, or for the before-state of an edit).
type Direction int

const (
	Apply Direction = iota
	Revert
)

// NegativeStockPolicy decides what happens when an out-of-band delete or
// edit would force quantity on hand below zero. This is an explicit
// configuration choice, never a hidden default.
type NegativeStockPolicy string

const (
	// PolicyClamp floors quantity on hand at zero.
	PolicyClamp NegativeStockPolicy = "clamp"
	// PolicyAllow lets the quantity go negative ("ghost stock").
	PolicyAllow NegativeStockPolicy = "allow"
	// PolicyReject refuses the operation with ErrNegativeStock.
	PolicyReject NegativeStockPolicy = "reject"
)

// ParsePolicy maps a configuration string onto a policy, defaulting to clamp.
func ParsePolicy(s string) NegativeStockPolicy {
	switch NegativeStockPolicy(s) {
	case PolicyAllow:
		return PolicyAllow
	case PolicyReject:
		return PolicyReject
	default:
		return PolicyClamp
	}
}

// ComputeTotal returns the monetary total of a transaction: quantity * unit
// price rounded to 2 places for purchase/sale, the entered amount unchanged
// for expense.
func ComputeTotal(txType model.TransactionType, quantity, unitPrice, enteredTotal decimal.Decimal) (decimal.Decimal, error) {
	switch txType {
	case model.TypePurchase, model.TypeSale:
		if quantity.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, validationErr("quantity", "must be greater than zero")
		}
		if unitPrice.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, validationErr("unitPrice", "must be greater than zero")
		}
		return quantity.Mul(unitPrice).Round(2), nil
	case model.TypeExpense:
		if enteredTotal.LessThanOrEqual(decimal.Zero) {
			return decimal.Zero, validationErr("totalValue", "must be greater than zero")
		}
		return enteredTotal, nil
	default:
		return decimal.Zero, validationErr("type", "must be one of purchase, sale, expense")
	}
}

// StockDelta returns the signed kilogram delta a transaction implies for its
// material: purchases add stock, sales subtract, expenses move nothing.
// Reverting flips the sign.
func StockDelta(t *model.Transaction, dir Direction) decimal.Decimal {
	if !t.MovesStock() {
		return decimal.Zero
	}
	delta := t.Quantity
	if t.Type == model.TypeSale {
		delta = delta.Neg()
	}
	if dir == Revert {
		delta = delta.Neg()
	}
	return delta
}

// ApplyToInventory mutates the material's quantity on hand by the
// transaction's stock delta. When the result would be negative the configured
// policy decides the outcome, and a ReconciliationWarning is returned in
// every case so the caller can log and surface it.
func ApplyToInventory(item *model.InventoryItem, t *model.Transaction, dir Direction, policy NegativeStockPolicy) (*ReconciliationWarning, error) {
	delta := StockDelta(t, dir)
	if delta.IsZero() {
		return nil, nil
	}

	next := item.QuantityOnHand.Add(delta)
	if !next.IsNegative() {
		item.QuantityOnHand = next
		return nil, nil
	}

	warn := &ReconciliationWarning{
		Material:  item.Material,
		Requested: delta.Abs(),
		Available: item.QuantityOnHand,
		Policy:    policy,
	}

	switch policy {
	case PolicyReject:
		return warn, ErrNegativeStock
	case PolicyAllow:
		item.QuantityOnHand = next
	default: // clamp
		item.QuantityOnHand = decimal.Zero
	}
	return warn, nil
}
