package calculator

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/models"
)

func testGroup(memberIDs ...string) *models.Group {
	g := &models.Group{ID: "g1", Name: "trip"}
	for _, id := range memberIDs {
		g.Members = append(g.Members, models.Member{ID: id, Name: id})
	}
	return g
}

// equalBill builds a fully-funded bill paid by one member and split equally.
func equalBill(g *models.Group, payer string, amount string, participants ...string) {
	total := dec(amount)
	splits := make([]models.Split, len(participants))
	n := decimal.NewFromInt(int64(len(participants)))
	rest := decimal.Zero
	for i := 1; i < len(participants); i++ {
		share := total.Div(n).Round(2)
		splits[i] = models.Split{MemberID: participants[i], Share: share}
		rest = rest.Add(share)
	}
	splits[0] = models.Split{MemberID: participants[0], Share: total.Sub(rest)}
	g.Bills = append(g.Bills, models.Bill{
		ID:            "bill-" + payer + amount,
		GroupID:       g.ID,
		Amount:        total,
		FinalAmount:   total,
		Contributions: []models.Contribution{{MemberID: payer, Amount: total}},
		Splits:        splits,
		PaidBy:        payer,
	})
}

func settle(g *models.Group, from, to, amount string) {
	g.Settlements = append(g.Settlements, models.Settlement{
		ID: "s-" + from + to, GroupID: g.ID,
		FromID: from, ToID: to, Amount: dec(amount),
	})
}

func checkZeroSum(t *testing.T, balances map[string]decimal.Decimal) {
	t.Helper()
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	if !sum.IsZero() {
		t.Errorf("balances sum to %s, want 0", sum)
	}
}

func TestBalances_EqualBillSinglePayer(t *testing.T) {
	g := testGroup("alice", "bob", "carol")
	equalBill(g, "alice", "30", "alice", "bob", "carol")

	balances := Balances(g)
	checkZeroSum(t, balances)

	want := map[string]string{"alice": "20", "bob": "-10", "carol": "-10"}
	for id, w := range want {
		if !balances[id].Equal(dec(w)) {
			t.Errorf("%s balance = %s, want %s", id, balances[id], w)
		}
	}
}

func TestBalances_SettlementMovesBalance(t *testing.T) {
	g := testGroup("alice", "bob", "carol")
	equalBill(g, "alice", "30", "alice", "bob", "carol")
	settle(g, "bob", "alice", "10")

	balances := Balances(g)
	checkZeroSum(t, balances)

	if !balances["bob"].IsZero() {
		t.Errorf("bob balance = %s, want 0", balances["bob"])
	}
	if !balances["alice"].Equal(dec("10")) {
		t.Errorf("alice balance = %s, want 10", balances["alice"])
	}
	if !balances["carol"].Equal(dec("-10")) {
		t.Errorf("carol balance = %s, want -10", balances["carol"])
	}
}

func TestBalances_MultiPayerBill(t *testing.T) {
	g := testGroup("alice", "bob", "carol")
	g.Bills = append(g.Bills, models.Bill{
		ID: "b1", GroupID: g.ID,
		Amount:      dec("90"),
		FinalAmount: dec("90"),
		Contributions: []models.Contribution{
			{MemberID: "alice", Amount: dec("60")},
			{MemberID: "bob", Amount: dec("30")},
		},
		Splits: []models.Split{
			{MemberID: "alice", Share: dec("30")},
			{MemberID: "bob", Share: dec("30")},
			{MemberID: "carol", Share: dec("30")},
		},
	})

	balances := Balances(g)
	checkZeroSum(t, balances)

	want := map[string]string{"alice": "30", "bob": "0", "carol": "-30"}
	for id, w := range want {
		if !balances[id].Equal(dec(w)) {
			t.Errorf("%s balance = %s, want %s", id, balances[id], w)
		}
	}
}

func TestBalances_EmptyGroupAllZero(t *testing.T) {
	g := testGroup("alice", "bob")
	balances := Balances(g)
	if len(balances) != 2 {
		t.Fatalf("expected 2 balances, got %d", len(balances))
	}
	for id, b := range balances {
		if !b.IsZero() {
			t.Errorf("%s balance = %s, want 0", id, b)
		}
	}
}

// Conservation must hold after every operation, not just at the end.
func TestBalances_ConservationAfterEveryOperation(t *testing.T) {
	g := testGroup("alice", "bob", "carol", "dave")

	steps := []func(){
		func() { equalBill(g, "alice", "100", "alice", "bob", "carol") },
		func() { equalBill(g, "bob", "45.67", "bob", "carol", "dave") },
		func() { settle(g, "carol", "alice", "12.34") },
		func() { equalBill(g, "dave", "0.05", "alice", "bob", "carol", "dave") },
		func() { settle(g, "dave", "bob", "3.21") },
	}
	for i, step := range steps {
		step()
		balances := Balances(g)
		sum := decimal.Zero
		for _, b := range balances {
			sum = sum.Add(b)
		}
		if !sum.IsZero() {
			t.Fatalf("after step %d: balances sum to %s, want 0", i+1, sum)
		}
	}
}
