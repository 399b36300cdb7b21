package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/models"
)

// Balances computes each member's net position in the group:
//
//	balance = paid contributions - owed splits + settlements received - settlements paid
//
// Positive means the member is owed money, negative means they owe. The fold
// is pure and side-effect free; re-deriving after every mutation is the
// correctness mechanism, so callers should not cache the result.
//
// Conservation invariant: the balances of all members sum to zero. Every bill
// contributes and owes the same final amount, and every settlement moves the
// same amount from one member to another.
func Balances(g *models.Group) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(g.Members))
	for _, m := range g.Members {
		balances[m.ID] = decimal.Zero
	}

	for i := range g.Bills {
		b := &g.Bills[i]
		for _, c := range b.Contributions {
			balances[c.MemberID] = balances[c.MemberID].Add(c.Amount)
		}
		for _, s := range b.Splits {
			balances[s.MemberID] = balances[s.MemberID].Sub(s.Share)
		}
	}

	for _, s := range g.Settlements {
		balances[s.FromID] = balances[s.FromID].Add(s.Amount)
		balances[s.ToID] = balances[s.ToID].Sub(s.Amount)
	}

	return balances
}
