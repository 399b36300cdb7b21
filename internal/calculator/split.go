// Package calculator implements the pure numeric core of the group expense
// ledger: the split calculator, the balance engine and the settlement
// planner. Nothing in this package mutates a group or touches storage.
package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/money"
)

// Strategy selects how a bill's final amount is divided among participants.
type Strategy string

const (
	// StrategyEqual divides the final amount evenly.
	StrategyEqual Strategy = "equal"
	// StrategyWeight divides the final amount proportionally to per-member weights.
	StrategyWeight Strategy = "weight"
	// StrategyExact takes explicit per-member shares of the base amount and
	// distributes tax/discount proportionally to them.
	StrategyExact Strategy = "exact"
	// StrategyShare takes raw entered amounts; any gap between their sum and
	// the base amount is folded into the tax rate so totals still reconcile.
	StrategyShare Strategy = "share"
)

// ErrInvalidSplitInput is returned for empty participant sets, non-positive
// base amounts, malformed adjustments, and strategy maps referencing members
// outside the participant list.
var ErrInvalidSplitInput = errors.New("invalid split input")

// Adjustment is a tax or discount term on a bill.
// A zero-value Adjustment means "none".
type Adjustment struct {
	// Mode is models.AdjustAbs (literal amount, the default) or
	// models.AdjustPct (percentage of the base amount).
	Mode  string
	Value decimal.Decimal
}

// SplitInput carries everything the calculator needs to split one bill.
type SplitInput struct {
	// BaseAmount is the bill amount before tax and discount. Must be > 0.
	BaseAmount decimal.Decimal

	Tax      Adjustment
	Discount Adjustment

	// Participants are the member IDs splitting the bill, in input order.
	// Input order matters: remainder cents always land on the first
	// participant so the shares sum to the final amount exactly.
	Participants []string

	Strategy Strategy

	// Weights maps member ID to weight for StrategyWeight.
	Weights map[string]decimal.Decimal

	// Amounts maps member ID to an explicit amount: a share of the base for
	// StrategyExact, or a raw entered amount for StrategyShare.
	Amounts map[string]decimal.Decimal
}

// SplitResult is the calculator's output: the bill's final amount and one
// share per participant, summing to FinalAmount exactly.
type SplitResult struct {
	FinalAmount    decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	Shares         []models.Split
}

// ComputeSplit computes per-participant shares for a bill.
//
// FinalAmount = base + tax - discount, clamped at zero. For every strategy
// the rounded shares sum to FinalAmount to the cent: each share is rounded
// half-up, and the first participant absorbs the leftover cents.
func ComputeSplit(in SplitInput) (*SplitResult, error) {
	if len(in.Participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidSplitInput)
	}
	if seen := duplicateID(in.Participants); seen != "" {
		return nil, fmt.Errorf("%w: duplicate participant %q", ErrInvalidSplitInput, seen)
	}
	if !in.BaseAmount.IsPositive() {
		return nil, fmt.Errorf("%w: base amount must be positive", ErrInvalidSplitInput)
	}
	if err := validateAdjustment("tax", in.Tax); err != nil {
		return nil, err
	}
	if err := validateAdjustment("discount", in.Discount); err != nil {
		return nil, err
	}

	switch in.Strategy {
	case StrategyEqual, "":
		return splitEqual(in)
	case StrategyWeight:
		return splitWeighted(in)
	case StrategyExact:
		return splitExact(in)
	case StrategyShare:
		return splitByAmounts(in)
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidSplitInput, in.Strategy)
	}
}

// adjustmentAmount resolves an Adjustment against a base: the literal value
// in abs mode, base*value/100 in pct mode.
func adjustmentAmount(a Adjustment, base decimal.Decimal) decimal.Decimal {
	if a.Mode == models.AdjustPct {
		return money.Percent(base, a.Value)
	}
	return a.Value
}

// finalAmount applies tax and discount to the base and clamps at zero.
func finalAmount(base, tax, discount decimal.Decimal) decimal.Decimal {
	final := money.Round(base.Add(tax).Sub(discount))
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

func validateAdjustment(name string, a Adjustment) error {
	switch a.Mode {
	case "", models.AdjustAbs, models.AdjustPct:
	default:
		return fmt.Errorf("%w: unknown %s mode %q", ErrInvalidSplitInput, name, a.Mode)
	}
	if a.Value.IsNegative() {
		return fmt.Errorf("%w: negative %s", ErrInvalidSplitInput, name)
	}
	return nil
}

func duplicateID(ids []string) string {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return id
		}
		seen[id] = true
	}
	return ""
}

// checkMembers verifies every key in the map is a participant.
func checkMembers(m map[string]decimal.Decimal, participants []string) error {
	in := make(map[string]bool, len(participants))
	for _, p := range participants {
		in[p] = true
	}
	for id, v := range m {
		if !in[id] {
			return fmt.Errorf("%w: %q is not a participant", ErrInvalidSplitInput, id)
		}
		if v.IsNegative() {
			return fmt.Errorf("%w: negative value for %q", ErrInvalidSplitInput, id)
		}
	}
	return nil
}

// reconcile turns raw (unrounded) proportional shares into exact cent shares.
// Every participant after the first gets their share rounded half-up; the
// first participant gets whatever remains, so the total is exact.
func reconcile(final decimal.Decimal, participants []string, raw func(id string) decimal.Decimal) []models.Split {
	shares := make([]models.Split, len(participants))
	rest := decimal.Zero
	for i := 1; i < len(participants); i++ {
		share := money.Round(raw(participants[i]))
		shares[i] = models.Split{MemberID: participants[i], Share: share}
		rest = rest.Add(share)
	}
	shares[0] = models.Split{MemberID: participants[0], Share: final.Sub(rest)}
	return shares
}

func splitEqual(in SplitInput) (*SplitResult, error) {
	tax := adjustmentAmount(in.Tax, in.BaseAmount)
	discount := adjustmentAmount(in.Discount, in.BaseAmount)
	final := finalAmount(in.BaseAmount, tax, discount)

	n := decimal.NewFromInt(int64(len(in.Participants)))
	per := final.Div(n)
	return &SplitResult{
		FinalAmount:    final,
		TaxAmount:      money.Round(tax),
		DiscountAmount: money.Round(discount),
		Shares: reconcile(final, in.Participants, func(string) decimal.Decimal {
			return per
		}),
	}, nil
}

func splitWeighted(in SplitInput) (*SplitResult, error) {
	if err := checkMembers(in.Weights, in.Participants); err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, id := range in.Participants {
		total = total.Add(in.Weights[id])
	}
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: weights sum to zero", ErrInvalidSplitInput)
	}

	tax := adjustmentAmount(in.Tax, in.BaseAmount)
	discount := adjustmentAmount(in.Discount, in.BaseAmount)
	final := finalAmount(in.BaseAmount, tax, discount)

	return &SplitResult{
		FinalAmount:    final,
		TaxAmount:      money.Round(tax),
		DiscountAmount: money.Round(discount),
		Shares: reconcile(final, in.Participants, func(id string) decimal.Decimal {
			return final.Mul(in.Weights[id]).Div(total)
		}),
	}, nil
}

// splitExact distributes tax/discount proportionally to explicit per-member
// shares of the base amount. The entered shares must cover the base.
func splitExact(in SplitInput) (*SplitResult, error) {
	if err := checkMembers(in.Amounts, in.Participants); err != nil {
		return nil, err
	}
	entered := decimal.Zero
	for _, id := range in.Participants {
		entered = entered.Add(in.Amounts[id])
	}
	if entered.Sub(in.BaseAmount).Abs().GreaterThan(money.SettleEpsilon) {
		return nil, fmt.Errorf("%w: exact shares sum to %s, base is %s",
			ErrInvalidSplitInput, entered, in.BaseAmount)
	}

	tax := adjustmentAmount(in.Tax, in.BaseAmount)
	discount := adjustmentAmount(in.Discount, in.BaseAmount)
	final := finalAmount(in.BaseAmount, tax, discount)

	return &SplitResult{
		FinalAmount:    final,
		TaxAmount:      money.Round(tax),
		DiscountAmount: money.Round(discount),
		Shares: reconcile(final, in.Participants, func(id string) decimal.Decimal {
			return final.Mul(in.Amounts[id]).Div(entered)
		}),
	}, nil
}

// splitByAmounts handles the "who owes what in dollars" strategy. If the
// entered amounts do not cover the base, the gap is converted into an extra
// tax percentage on the entered sum, so a price carrying ad-hoc surcharges
// reconciles without a separate fees field.
func splitByAmounts(in SplitInput) (*SplitResult, error) {
	if err := checkMembers(in.Amounts, in.Participants); err != nil {
		return nil, err
	}
	entered := decimal.Zero
	for _, id := range in.Participants {
		entered = entered.Add(in.Amounts[id])
	}
	if !entered.IsPositive() {
		return nil, fmt.Errorf("%w: entered amounts sum to zero", ErrInvalidSplitInput)
	}

	// The entered sum becomes the new base. gap% = (base - entered)/entered x 100
	// is folded into the tax rate; an absolute tax keeps the gap as a flat add.
	gap := in.BaseAmount.Sub(entered)
	var tax decimal.Decimal
	if in.Tax.Mode == models.AdjustPct {
		gapPct := gap.Div(entered).Mul(decimal.NewFromInt(100))
		tax = money.Percent(entered, in.Tax.Value.Add(gapPct))
	} else {
		tax = in.Tax.Value.Add(gap)
	}
	discount := adjustmentAmount(in.Discount, in.BaseAmount)
	final := finalAmount(entered, tax, discount)

	return &SplitResult{
		FinalAmount:    final,
		TaxAmount:      money.Round(tax),
		DiscountAmount: money.Round(discount),
		Shares: reconcile(final, in.Participants, func(id string) decimal.Decimal {
			return final.Mul(in.Amounts[id]).Div(entered)
		}),
	}, nil
}
