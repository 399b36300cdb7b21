package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "fingrow-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	owner := models.NewUser("owner@example.com", "Owner", "hash")
	if err := store.CreateUser(ctx, owner); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	group := &models.Group{
		OwnerID:  owner.ID,
		Name:     "Ski Trip",
		Currency: "SGD",
		Members: []models.Member{
			{Name: "Alice"},
			{Name: "Bob", Contact: "bob@example.com"},
			{Name: "Carol"},
		},
	}

	t.Run("CreateGroup generates IDs", func(t *testing.T) {
		if err := store.CreateGroup(ctx, group); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" || group.CreatedAt == 0 {
			t.Error("expected group ID and timestamp generated")
		}
		for _, m := range group.Members {
			if m.ID == "" {
				t.Errorf("expected member ID generated for %s", m.Name)
			}
		}
	})

	alice, bob, carol := group.Members[0].ID, group.Members[1].ID, group.Members[2].ID

	t.Run("GetGroup preserves member join order", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Members) != 3 {
			t.Fatalf("expected 3 members, got %d", len(got.Members))
		}
		for i, want := range []string{"Alice", "Bob", "Carol"} {
			if got.Members[i].Name != want {
				t.Errorf("member %d = %s, want %s", i, got.Members[i].Name, want)
			}
		}
		if got.Members[1].Contact != "bob@example.com" {
			t.Errorf("bob contact = %q", got.Members[1].Contact)
		}
	})

	t.Run("Bill round trip keeps amounts exact", func(t *testing.T) {
		bill := &models.Bill{
			GroupID:     group.ID,
			Title:       "Dinner",
			Amount:      dec("100"),
			Tax:         dec("7.77"),
			TaxMode:     models.AdjustAbs,
			Discount:    dec("0"),
			FinalAmount: dec("107.77"),
			PaidBy:      alice,
			Contributions: []models.Contribution{
				{MemberID: alice, Amount: dec("107.77")},
			},
			Splits: []models.Split{
				{MemberID: alice, Share: dec("35.93")},
				{MemberID: bob, Share: dec("35.92")},
				{MemberID: carol, Share: dec("35.92")},
			},
		}
		if err := store.CreateBill(ctx, bill); err != nil {
			t.Fatalf("CreateBill failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Bills) != 1 {
			t.Fatalf("expected 1 bill, got %d", len(got.Bills))
		}
		b := got.Bills[0]
		if !b.FinalAmount.Equal(dec("107.77")) {
			t.Errorf("final amount = %s, want 107.77", b.FinalAmount)
		}
		if !b.Tax.Equal(dec("7.77")) {
			t.Errorf("tax = %s, want 7.77", b.Tax)
		}
		sum := decimal.Zero
		for _, sp := range b.Splits {
			sum = sum.Add(sp.Share)
		}
		if !sum.Equal(b.FinalAmount) {
			t.Errorf("splits sum to %s after round trip, want %s", sum, b.FinalAmount)
		}
		if len(b.Contributions) != 1 || !b.Contributions[0].Amount.Equal(dec("107.77")) {
			t.Errorf("contributions = %+v", b.Contributions)
		}
	})

	t.Run("SetSplitSettled", func(t *testing.T) {
		got, _ := store.GetGroup(ctx, group.ID)
		billID := got.Bills[0].ID

		if err := store.SetSplitSettled(ctx, billID, bob, true); err != nil {
			t.Fatalf("SetSplitSettled failed: %v", err)
		}
		got, _ = store.GetGroup(ctx, group.ID)
		if sp := got.Bills[0].SplitFor(bob); sp == nil || !sp.Settled {
			t.Error("expected bob's split settled after update")
		}

		err := store.SetSplitSettled(ctx, billID, "ghost", true)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("unknown member: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Settlement survives bill deletion", func(t *testing.T) {
		got, _ := store.GetGroup(ctx, group.ID)
		billID := got.Bills[0].ID

		settlement := &models.Settlement{
			GroupID: group.ID,
			FromID:  bob,
			ToID:    alice,
			Amount:  dec("35.92"),
			BillID:  billID,
			Memo:    "dinner",
		}
		if err := store.CreateSettlement(ctx, settlement); err != nil {
			t.Fatalf("CreateSettlement failed: %v", err)
		}

		if err := store.DeleteBill(ctx, billID); err != nil {
			t.Fatalf("DeleteBill failed: %v", err)
		}

		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if len(got.Bills) != 0 {
			t.Errorf("expected bills deleted, got %d", len(got.Bills))
		}
		if len(got.Settlements) != 1 {
			t.Fatalf("expected settlement to survive, got %d", len(got.Settlements))
		}
		if got.Settlements[0].BillID != billID {
			t.Errorf("settlement bill_id changed: %s", got.Settlements[0].BillID)
		}
		if !got.Settlements[0].Amount.Equal(dec("35.92")) {
			t.Errorf("settlement amount = %s, want 35.92", got.Settlements[0].Amount)
		}
	})

	t.Run("AddMembers continues join order", func(t *testing.T) {
		if err := store.AddMembers(ctx, group.ID, []models.Member{{Name: "Dave"}}); err != nil {
			t.Fatalf("AddMembers failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		if len(got.Members) != 4 || got.Members[3].Name != "Dave" {
			t.Errorf("expected Dave appended last, got %+v", got.Members)
		}
	})

	t.Run("ArchiveMember", func(t *testing.T) {
		if err := store.ArchiveMember(ctx, group.ID, carol); err != nil {
			t.Fatalf("ArchiveMember failed: %v", err)
		}
		got, _ := store.GetGroup(ctx, group.ID)
		m := got.MemberByID(carol)
		if m == nil || !m.Archived {
			t.Error("expected carol archived")
		}

		err := store.ArchiveMember(ctx, group.ID, "ghost")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("unknown member: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("Users", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "OWNER@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != owner.ID {
			t.Errorf("got user %s, want %s", got.ID, owner.ID)
		}

		_, err = store.GetUserByID(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("unknown user: error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListGroupsByOwner", func(t *testing.T) {
		groups, err := store.ListGroupsByOwner(ctx, owner.ID)
		if err != nil {
			t.Fatalf("ListGroupsByOwner failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Errorf("expected the one group, got %d", len(groups))
		}
		if len(groups[0].Members) != 4 {
			t.Errorf("expected members loaded in listing, got %d", len(groups[0].Members))
		}
	})

	t.Run("GetGroup unknown id", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nope")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}
