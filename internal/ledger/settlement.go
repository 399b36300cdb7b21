package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/calculator"
	"github.com/junman99/fingrow-sub006/internal/models"
)

// AddSettlement records a payment between two members and appends it to the
// group. The pair does not have to be in deficit/surplus right now: users may
// record out-of-band payments, though callers typically record the edges of a
// computed plan. Archived members may still settle old debts.
func AddSettlement(g *models.Group, fromID, toID string, amount decimal.Decimal, billID, memo string) (*models.Settlement, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive", ErrInvalidInput)
	}
	if fromID == toID {
		return nil, fmt.Errorf("%w: cannot settle with yourself", ErrInvalidInput)
	}
	if g.MemberByID(fromID) == nil {
		return nil, fmt.Errorf("%w: member %q", ErrNotFound, fromID)
	}
	if g.MemberByID(toID) == nil {
		return nil, fmt.Errorf("%w: member %q", ErrNotFound, toID)
	}

	settlement := models.Settlement{
		ID:        uuid.New().String(),
		GroupID:   g.ID,
		FromID:    fromID,
		ToID:      toID,
		Amount:    amount,
		BillID:    billID,
		Memo:      memo,
		CreatedAt: time.Now().Unix(),
	}
	g.Settlements = append(g.Settlements, settlement)
	return &g.Settlements[len(g.Settlements)-1], nil
}

// ApplyPlan records every edge of an approved plan as an independent
// settlement. On error the settlements recorded so far stay in the group:
// a partial application leaves a valid, if incompletely settled, ledger.
// Recording a full plan leaves every planned member's balance at zero.
func ApplyPlan(g *models.Group, edges []calculator.Edge, memo string) ([]*models.Settlement, error) {
	recorded := make([]*models.Settlement, 0, len(edges))
	for _, e := range edges {
		s, err := AddSettlement(g, e.FromID, e.ToID, e.Amount, "", memo)
		if err != nil {
			return recorded, fmt.Errorf("apply plan edge %s->%s: %w", e.FromID, e.ToID, err)
		}
		recorded = append(recorded, s)
	}
	return recorded, nil
}
