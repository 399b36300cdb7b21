package calculator

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/money"
)

// Edge is one planned transfer: From pays To the given amount.
type Edge struct {
	FromID string          `json:"from_id"`
	ToID   string          `json:"to_id"`
	Amount decimal.Decimal `json:"amount"`
}

// party is a member tagged with the magnitude of their outstanding balance.
type party struct {
	id     string
	amount decimal.Decimal
}

// Plan produces a transfer plan that zeroes every member's balance.
//
// The algorithm is greedy debt simplification: partition members into
// creditors and debtors, sort both descending by amount (stable on member
// join order, so the plan is deterministic), then repeatedly match the
// largest remaining debtor against the largest remaining creditor for
// min(debt, credit). The plan has at most creditors+debtors-1 edges and its
// total equals the total outstanding positive balance.
//
// Greedy matching is not provably transaction-count-optimal, but it is
// deterministic and simple, which is the right trade for small groups.
func Plan(g *models.Group) []Edge {
	balances := Balances(g)

	var creditors, debtors []party
	for _, m := range g.Members {
		bal := money.Round(balances[m.ID])
		switch {
		case money.IsOwed(bal):
			creditors = append(creditors, party{id: m.ID, amount: bal})
		case money.Owes(bal):
			debtors = append(debtors, party{id: m.ID, amount: bal.Neg()})
		}
	}
	if len(creditors) == 0 || len(debtors) == 0 {
		return nil
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount.GreaterThan(creditors[j].amount)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].amount.GreaterThan(debtors[j].amount)
	})

	var edges []Edge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		transfer := decimal.Min(debtors[i].amount, creditors[j].amount)
		edges = append(edges, Edge{
			FromID: debtors[i].id,
			ToID:   creditors[j].id,
			Amount: transfer,
		})

		debtors[i].amount = debtors[i].amount.Sub(transfer)
		creditors[j].amount = creditors[j].amount.Sub(transfer)
		if money.IsSettled(debtors[i].amount) {
			i++
		}
		if money.IsSettled(creditors[j].amount) {
			j++
		}
	}
	return edges
}
