package reconcile

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound marks operations against a transaction that no longer
	// exists. Callers treat it as a benign no-op, not a hard failure.
	ErrNotFound = errors.New("transaction not found")

	// ErrNegativeStock is returned when the configured policy rejects an
	// inventory delta that would drive quantity on hand below zero.
	ErrNegativeStock = errors.New("operation would drive stock negative")

	// ErrStoreUnavailable wraps record store failures that were recovered
	// by the local fallback store.
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// ValidationError reports a required field that is missing, non-numeric, or
// non-positive where a positive value is required. It always names the
// offending field so the form can highlight it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' %s", e.Field, e.Message)
}

func validationErr(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ReconciliationWarning records an inventory delta that would have driven a
// material's quantity on hand below zero. It is emitted regardless of the
// negative-stock policy in effect and is never fatal.
type ReconciliationWarning struct {
	Material  string              `json:"material"`
	Requested decimal.Decimal     `json:"requested"`
	Available decimal.Decimal     `json:"available"`
	Policy    NegativeStockPolicy `json:"policy"`
}

func (w *ReconciliationWarning) String() string {
	return fmt.Sprintf("stock for '%s' would go negative: requested %s, available %s (policy %s)",
		w.Material, w.Requested.String(), w.Available.String(), w.Policy)
}
