// Package money centralizes the monetary arithmetic conventions used by the
// ledger: decimal amounts, round-half-up to cents, and a single settled
// epsilon shared by the balance engine and the settlement planner so they can
// never disagree about whether a group is square.
package money

import "github.com/shopspring/decimal"

// SettleEpsilon is the band within which a balance counts as settled.
// Anything at or under a cent of residue is noise, not debt.
var SettleEpsilon = decimal.RequireFromString("0.009")

var hundred = decimal.NewFromInt(100)

// Round rounds an amount to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns pct percent of amount, unrounded.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// IsSettled reports whether a balance is within the settled band.
func IsSettled(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(SettleEpsilon)
}

// IsOwed reports whether the member holding this balance is owed money.
func IsOwed(d decimal.Decimal) bool {
	return d.GreaterThan(SettleEpsilon)
}

// Owes reports whether the member holding this balance owes money.
func Owes(d decimal.Decimal) bool {
	return d.LessThan(SettleEpsilon.Neg())
}
