// Package ledger owns the mutating operations of the group expense engine:
// building and validating bills, flipping split-settled markers, deleting
// bills, and recording settlements.
//
// Every operation here is a synchronous, single-writer mutation of an
// in-memory models.Group. The package performs no locking and no IO; callers
// serialize writes to the same group and persist the result. Balance and plan
// computation live in the calculator package and may run freely between
// mutations.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/calculator"
	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/money"
)

// BillInput describes a bill to be created.
type BillInput struct {
	Title string

	// Amount is the base amount before tax and discount.
	Amount decimal.Decimal

	Tax          decimal.Decimal
	TaxMode      string // models.AdjustAbs (default) or models.AdjustPct
	Discount     decimal.Decimal
	DiscountMode string

	Strategy     calculator.Strategy
	Participants []string

	// Weights feeds StrategyWeight; Amounts feeds StrategyExact and
	// StrategyShare.
	Weights map[string]decimal.Decimal
	Amounts map[string]decimal.Decimal

	// PaidBy names a single payer funding the whole bill. Alternatively,
	// Contributions lists multiple payers; their amounts must sum to the
	// bill's final amount.
	PaidBy        string
	Contributions []models.Contribution
}

// AddBill runs the split calculator, assembles contributions, validates the
// sum invariants, and appends the new bill to the group. The group is fully
// funded at creation: partial payment is represented later via settlements,
// never by editing contributions.
func AddBill(g *models.Group, in BillInput) (*models.Bill, error) {
	for _, id := range in.Participants {
		m := g.MemberByID(id)
		if m == nil {
			return nil, fmt.Errorf("%w: member %q not in group", ErrInvalidInput, id)
		}
		if m.Archived {
			return nil, fmt.Errorf("%w: member %q is archived", ErrInvalidInput, id)
		}
	}

	result, err := calculator.ComputeSplit(calculator.SplitInput{
		BaseAmount:   in.Amount,
		Tax:          calculator.Adjustment{Mode: in.TaxMode, Value: in.Tax},
		Discount:     calculator.Adjustment{Mode: in.DiscountMode, Value: in.Discount},
		Participants: in.Participants,
		Strategy:     in.Strategy,
		Weights:      in.Weights,
		Amounts:      in.Amounts,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	contributions, paidBy, err := buildContributions(g, in, result.FinalAmount)
	if err != nil {
		return nil, err
	}

	bill := models.Bill{
		ID:            uuid.New().String(),
		GroupID:       g.ID,
		Title:         in.Title,
		Amount:        in.Amount,
		Tax:           in.Tax,
		TaxMode:       in.TaxMode,
		Discount:      in.Discount,
		DiscountMode:  in.DiscountMode,
		FinalAmount:   result.FinalAmount,
		Contributions: contributions,
		Splits:        result.Shares,
		PaidBy:        paidBy,
		CreatedAt:     time.Now().Unix(),
	}

	if err := checkBillInvariants(&bill); err != nil {
		return nil, err
	}

	g.Bills = append(g.Bills, bill)
	return &g.Bills[len(g.Bills)-1], nil
}

// buildContributions resolves the funding side of a bill: either explicit
// multi-payer contributions summing to the final amount, or a single payer
// covering the whole thing.
func buildContributions(g *models.Group, in BillInput, final decimal.Decimal) ([]models.Contribution, string, error) {
	if len(in.Contributions) > 0 {
		sum := decimal.Zero
		for _, c := range in.Contributions {
			m := g.MemberByID(c.MemberID)
			if m == nil {
				return nil, "", fmt.Errorf("%w: contributor %q not in group", ErrInvalidInput, c.MemberID)
			}
			if m.Archived {
				return nil, "", fmt.Errorf("%w: contributor %q is archived", ErrInvalidInput, c.MemberID)
			}
			if !c.Amount.IsPositive() {
				return nil, "", fmt.Errorf("%w: contribution must be positive", ErrInvalidInput)
			}
			sum = sum.Add(c.Amount)
		}
		if !sum.Equal(final) {
			return nil, "", fmt.Errorf("%w: contributions sum to %s, final amount is %s",
				ErrInvalidInput, sum, final)
		}
		contributions := make([]models.Contribution, len(in.Contributions))
		copy(contributions, in.Contributions)
		return contributions, "", nil
	}

	if in.PaidBy == "" {
		return nil, "", fmt.Errorf("%w: missing payer", ErrInvalidInput)
	}
	m := g.MemberByID(in.PaidBy)
	if m == nil {
		return nil, "", fmt.Errorf("%w: payer %q not in group", ErrInvalidInput, in.PaidBy)
	}
	if m.Archived {
		return nil, "", fmt.Errorf("%w: payer %q is archived", ErrInvalidInput, in.PaidBy)
	}
	return []models.Contribution{{MemberID: in.PaidBy, Amount: final}}, in.PaidBy, nil
}

// checkBillInvariants asserts the two sum invariants hold. A failure here is
// a calculator bug, not bad user input.
func checkBillInvariants(b *models.Bill) error {
	shares := decimal.Zero
	for _, s := range b.Splits {
		shares = shares.Add(s.Share)
	}
	if shares.Sub(b.FinalAmount).Abs().GreaterThan(money.SettleEpsilon) {
		return fmt.Errorf("%w: splits sum to %s, final amount is %s",
			ErrInconsistent, shares, b.FinalAmount)
	}
	paid := decimal.Zero
	for _, c := range b.Contributions {
		paid = paid.Add(c.Amount)
	}
	if !paid.Equal(b.FinalAmount) {
		return fmt.Errorf("%w: contributions sum to %s, final amount is %s",
			ErrInconsistent, paid, b.FinalAmount)
	}
	return nil
}

// FindBill returns the bill with the given ID.
func FindBill(g *models.Group, billID string) (*models.Bill, error) {
	if b := g.BillByID(billID); b != nil {
		return b, nil
	}
	return nil, fmt.Errorf("%w: bill %q", ErrNotFound, billID)
}

// MarkSplitPaid flips the settled flag on one member's split. It is a
// lightweight "I consider this square" marker and does not create a
// settlement record. Marking an already-settled split is a no-op.
func MarkSplitPaid(g *models.Group, billID, memberID string) error {
	bill, err := FindBill(g, billID)
	if err != nil {
		return err
	}
	split := bill.SplitFor(memberID)
	if split == nil {
		return fmt.Errorf("%w: member %q has no split on bill %q", ErrNotFound, memberID, billID)
	}
	split.Settled = true
	return nil
}

// DeleteBill removes the bill from the group. Settlements referencing the
// bill are left untouched: their BillID is informational only and balance
// computation always reads the live settlement list, so deleting a bill
// never corrupts the balance ledger.
func DeleteBill(g *models.Group, billID string) error {
	for i := range g.Bills {
		if g.Bills[i].ID == billID {
			g.Bills = append(g.Bills[:i], g.Bills[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: bill %q", ErrNotFound, billID)
}
