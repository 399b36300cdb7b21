package models

import "github.com/shopspring/decimal"

// Settlement represents a recorded payment between two members to clear
// outstanding balances. Settlements are append-only: they are never edited,
// only superseded by a later compensating settlement.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"group_id"`

	// FromID is the member who paid (debtor settling up).
	FromID string `json:"from_id"`

	// ToID is the member who received payment (creditor being paid).
	ToID string `json:"to_id"`

	// Amount is the payment amount, always positive.
	Amount decimal.Decimal `json:"amount"`

	// BillID optionally ties the payment to a specific bill for audit.
	// It is informational only: balances always read the live settlement
	// list, so a settlement stays valid after its bill is deleted.
	BillID string `json:"bill_id,omitempty"`

	// Memo is an optional description.
	Memo string `json:"memo,omitempty"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"created_at"`
}
