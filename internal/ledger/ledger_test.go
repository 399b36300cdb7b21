package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/calculator"
	"github.com/junman99/fingrow-sub006/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newGroup(memberIDs ...string) *models.Group {
	g := &models.Group{ID: "g1", Name: "trip"}
	for _, id := range memberIDs {
		g.Members = append(g.Members, models.Member{ID: id, Name: id})
	}
	return g
}

func mustAddBill(t *testing.T, g *models.Group, in BillInput) *models.Bill {
	t.Helper()
	bill, err := AddBill(g, in)
	if err != nil {
		t.Fatalf("AddBill failed: %v", err)
	}
	return bill
}

func TestAddBill_EqualSinglePayer(t *testing.T) {
	g := newGroup("alice", "bob", "carol")

	bill := mustAddBill(t, g, BillInput{
		Title:        "Dinner",
		Amount:       dec("30"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob", "carol"},
		PaidBy:       "alice",
	})

	if bill.ID == "" || bill.CreatedAt == 0 {
		t.Error("expected generated ID and timestamp")
	}
	if !bill.FinalAmount.Equal(dec("30")) {
		t.Errorf("final = %s, want 30", bill.FinalAmount)
	}
	if len(bill.Contributions) != 1 || bill.Contributions[0].MemberID != "alice" {
		t.Errorf("expected single alice contribution, got %+v", bill.Contributions)
	}
	if bill.PaidBy != "alice" {
		t.Errorf("paid by = %s, want alice", bill.PaidBy)
	}
	if len(g.Bills) != 1 {
		t.Errorf("expected bill appended to group")
	}

	balances := calculator.Balances(g)
	want := map[string]string{"alice": "20", "bob": "-10", "carol": "-10"}
	for id, w := range want {
		if !balances[id].Equal(dec(w)) {
			t.Errorf("%s balance = %s, want %s", id, balances[id], w)
		}
	}
}

func TestAddBill_MultiPayerContributions(t *testing.T) {
	g := newGroup("alice", "bob")

	bill := mustAddBill(t, g, BillInput{
		Title:        "Groceries",
		Amount:       dec("50"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob"},
		Contributions: []models.Contribution{
			{MemberID: "alice", Amount: dec("30")},
			{MemberID: "bob", Amount: dec("20")},
		},
	})

	if bill.PaidBy != "" {
		t.Errorf("multi-payer bill should have empty PaidBy, got %s", bill.PaidBy)
	}
	balances := calculator.Balances(g)
	if !balances["alice"].Equal(dec("5")) || !balances["bob"].Equal(dec("-5")) {
		t.Errorf("balances = %v, want alice 5 bob -5", balances)
	}
}

func TestAddBill_Validation(t *testing.T) {
	tests := []struct {
		name  string
		input BillInput
	}{
		{
			name: "unknown participant",
			input: BillInput{
				Amount:       dec("10"),
				Participants: []string{"alice", "ghost"},
				PaidBy:       "alice",
			},
		},
		{
			name: "missing payer",
			input: BillInput{
				Amount:       dec("10"),
				Participants: []string{"alice", "bob"},
			},
		},
		{
			name: "payer not in group",
			input: BillInput{
				Amount:       dec("10"),
				Participants: []string{"alice", "bob"},
				PaidBy:       "ghost",
			},
		},
		{
			name: "contributions do not cover final amount",
			input: BillInput{
				Amount:       dec("10"),
				Participants: []string{"alice", "bob"},
				Contributions: []models.Contribution{
					{MemberID: "alice", Amount: dec("4")},
				},
			},
		},
		{
			name: "archived participant",
			input: BillInput{
				Amount:       dec("10"),
				Participants: []string{"alice", "zoe"},
				PaidBy:       "alice",
			},
		},
		{
			name: "non-positive amount",
			input: BillInput{
				Amount:       dec("-5"),
				Participants: []string{"alice"},
				PaidBy:       "alice",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGroup("alice", "bob")
			g.Members = append(g.Members, models.Member{ID: "zoe", Name: "zoe", Archived: true})

			_, err := AddBill(g, tt.input)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
			if len(g.Bills) != 0 {
				t.Error("failed AddBill must not append a bill")
			}
		})
	}
}

func TestMarkSplitPaid_Idempotent(t *testing.T) {
	g := newGroup("alice", "bob")
	bill := mustAddBill(t, g, BillInput{
		Amount:       dec("20"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob"},
		PaidBy:       "alice",
	})

	if err := MarkSplitPaid(g, bill.ID, "bob"); err != nil {
		t.Fatalf("MarkSplitPaid failed: %v", err)
	}
	if err := MarkSplitPaid(g, bill.ID, "bob"); err != nil {
		t.Fatalf("second MarkSplitPaid failed: %v", err)
	}

	split := g.Bills[0].SplitFor("bob")
	if split == nil || !split.Settled {
		t.Error("expected bob's split settled")
	}
	// The marker is bookkeeping only: balances are untouched.
	if bal := calculator.Balances(g)["bob"]; !bal.Equal(dec("-10")) {
		t.Errorf("bob balance = %s, want -10", bal)
	}
}

func TestMarkSplitPaid_NotFound(t *testing.T) {
	g := newGroup("alice", "bob")
	bill := mustAddBill(t, g, BillInput{
		Amount:       dec("20"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob"},
		PaidBy:       "alice",
	})

	if err := MarkSplitPaid(g, "nope", "bob"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown bill: error = %v, want ErrNotFound", err)
	}
	if err := MarkSplitPaid(g, bill.ID, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown member: error = %v, want ErrNotFound", err)
	}
}

func TestDeleteBill(t *testing.T) {
	g := newGroup("alice", "bob")
	bill := mustAddBill(t, g, BillInput{
		Amount:       dec("20"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob"},
		PaidBy:       "alice",
	})

	if err := DeleteBill(g, bill.ID); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}
	if len(g.Bills) != 0 {
		t.Error("expected bill removed")
	}
	if err := DeleteBill(g, bill.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// Deleting a bill orphans settlements that reference it, and that is fine:
// the settlement records stay untouched and balances stay conserved.
func TestDeleteBill_OrphanedSettlementsSurvive(t *testing.T) {
	g := newGroup("alice", "bob")
	bill := mustAddBill(t, g, BillInput{
		Amount:       dec("20"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob"},
		PaidBy:       "alice",
	})
	if _, err := AddSettlement(g, "bob", "alice", dec("10"), bill.ID, "dinner squared"); err != nil {
		t.Fatalf("AddSettlement failed: %v", err)
	}

	if err := DeleteBill(g, bill.ID); err != nil {
		t.Fatalf("DeleteBill failed: %v", err)
	}

	if len(g.Settlements) != 1 {
		t.Fatalf("expected settlement to survive bill deletion")
	}
	if g.Settlements[0].BillID != bill.ID {
		t.Errorf("settlement BillID changed on delete")
	}

	// Bill gone, settlement still counted: bob overpaid by 10.
	balances := calculator.Balances(g)
	if !balances["bob"].Equal(dec("10")) || !balances["alice"].Equal(dec("-10")) {
		t.Errorf("balances = %v, want bob 10 alice -10", balances)
	}
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	if !sum.IsZero() {
		t.Errorf("balances sum to %s after delete, want 0", sum)
	}
}

func TestAddSettlement_Validation(t *testing.T) {
	g := newGroup("alice", "bob")

	if _, err := AddSettlement(g, "alice", "bob", dec("0"), "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("zero amount: error = %v, want ErrInvalidInput", err)
	}
	if _, err := AddSettlement(g, "alice", "alice", dec("5"), "", ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self settlement: error = %v, want ErrInvalidInput", err)
	}
	if _, err := AddSettlement(g, "ghost", "bob", dec("5"), "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown from: error = %v, want ErrNotFound", err)
	}
	if _, err := AddSettlement(g, "alice", "ghost", dec("5"), "", ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown to: error = %v, want ErrNotFound", err)
	}
}

// Recording the full plan from a computed settlement plan zeroes every
// member's balance.
func TestApplyPlan_SettlesGroup(t *testing.T) {
	g := newGroup("alice", "bob", "carol")
	mustAddBill(t, g, BillInput{
		Title:        "Taxi",
		Amount:       dec("30"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob", "carol"},
		PaidBy:       "alice",
	})

	edges := calculator.Plan(g)
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges, got %d", len(edges))
	}

	recorded, err := ApplyPlan(g, edges, "settle up")
	if err != nil {
		t.Fatalf("ApplyPlan failed: %v", err)
	}
	if len(recorded) != 2 {
		t.Fatalf("expected 2 settlements recorded, got %d", len(recorded))
	}

	for id, bal := range calculator.Balances(g) {
		if !bal.IsZero() {
			t.Errorf("%s balance = %s after applying plan, want 0", id, bal)
		}
	}
}

// A failing edge mid-plan leaves the settlements recorded so far intact and
// the ledger valid.
func TestApplyPlan_PartialFailureKeepsLedgerValid(t *testing.T) {
	g := newGroup("alice", "bob", "carol")
	mustAddBill(t, g, BillInput{
		Amount:       dec("30"),
		Strategy:     calculator.StrategyEqual,
		Participants: []string{"alice", "bob", "carol"},
		PaidBy:       "alice",
	})

	edges := []calculator.Edge{
		{FromID: "bob", ToID: "alice", Amount: dec("10")},
		{FromID: "ghost", ToID: "alice", Amount: dec("10")},
	}

	recorded, err := ApplyPlan(g, edges, "")
	if err == nil {
		t.Fatal("expected error on unknown member edge")
	}
	if len(recorded) != 1 || len(g.Settlements) != 1 {
		t.Fatalf("expected exactly the first edge recorded, got %d", len(g.Settlements))
	}

	sum := decimal.Zero
	for _, b := range calculator.Balances(g) {
		sum = sum.Add(b)
	}
	if !sum.IsZero() {
		t.Errorf("balances sum to %s after partial apply, want 0", sum)
	}
}
