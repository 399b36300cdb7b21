package models

import "github.com/shopspring/decimal"

// Adjustment modes for tax and discount on a bill.
const (
	AdjustAbs = "abs" // literal amount
	AdjustPct = "pct" // percentage of the base amount
)

// Contribution records how much a member actually paid toward a bill at
// creation time. A bill may carry several contributions (split payment).
type Contribution struct {
	// MemberID is the member who paid.
	MemberID string `json:"member_id"`

	// Amount is how much they paid.
	Amount decimal.Decimal `json:"amount"`
}

// Split records how much a member owes for a bill and whether that
// obligation has been cleared.
type Split struct {
	// MemberID is the member who owes.
	MemberID string `json:"member_id"`

	// Share is this member's portion of the bill's final amount.
	Share decimal.Decimal `json:"share"`

	// Settled marks the obligation as cleared. This is a lightweight
	// "I consider this square" marker; recorded money movement lives in
	// Settlement instead.
	Settled bool `json:"settled"`
}

// Bill represents a shared expense: who paid, and who owes what.
//
// Invariants, established at creation and frozen thereafter:
//   - FinalAmount = Amount + tax adjustment - discount adjustment
//   - sum of Contributions.Amount == FinalAmount
//   - sum of Splits.Share == FinalAmount
type Bill struct {
	// ID is the unique identifier for the bill (UUID format).
	ID string `json:"id"`

	// GroupID is the group this bill belongs to.
	GroupID string `json:"group_id"`

	// Title is the human-readable name for the bill.
	Title string `json:"title"`

	// Amount is the base amount before tax and discount.
	Amount decimal.Decimal `json:"amount"`

	// Tax is the tax term, interpreted per TaxMode. Zero means no tax.
	Tax decimal.Decimal `json:"tax"`

	// TaxMode is AdjustAbs or AdjustPct.
	TaxMode string `json:"tax_mode,omitempty"`

	// Discount is the discount term, interpreted per DiscountMode.
	Discount decimal.Decimal `json:"discount"`

	// DiscountMode is AdjustAbs or AdjustPct.
	DiscountMode string `json:"discount_mode,omitempty"`

	// FinalAmount is the amount actually owed after tax and discount,
	// computed by the split calculator at creation.
	FinalAmount decimal.Decimal `json:"final_amount"`

	// Contributions records who funded the bill.
	Contributions []Contribution `json:"contributions"`

	// Splits records who owes what.
	Splits []Split `json:"splits"`

	// PaidBy is the single payer when the bill was funded by one member;
	// empty for multi-payer bills.
	PaidBy string `json:"paid_by,omitempty"`

	// CreatedAt is the Unix timestamp when the bill was created.
	CreatedAt int64 `json:"created_at"`
}

// SplitFor returns the split for the given member, or nil if the member has
// no share on this bill.
func (b *Bill) SplitFor(memberID string) *Split {
	for i := range b.Splits {
		if b.Splits[i].MemberID == memberID {
			return &b.Splits[i]
		}
	}
	return nil
}
