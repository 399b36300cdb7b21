package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/junman99/fingrow-sub006/internal/models"
	"github.com/junman99/fingrow-sub006/internal/storage"
)

// CreateBill persists a bill with its contributions and splits.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, group_id, title, amount, tax, tax_mode, discount, discount_mode, final_amount, paid_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.GroupID, bill.Title,
		bill.Amount.String(), bill.Tax.String(), bill.TaxMode,
		bill.Discount.String(), bill.DiscountMode,
		bill.FinalAmount.String(), bill.PaidBy, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i, c := range bill.Contributions {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_contributions (bill_id, member_id, amount, position) VALUES (?, ?, ?, ?)",
			bill.ID, c.MemberID, c.Amount.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}

	for i, sp := range bill.Splits {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO bill_splits (bill_id, member_id, share, settled, position) VALUES (?, ?, ?, ?, ?)",
			bill.ID, sp.MemberID, sp.Share.String(), sp.Settled, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadBills returns a group's bills in creation order, contributions and
// splits included.
func (s *SQLiteStore) loadBills(ctx context.Context, groupID string) ([]models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, amount, tax, tax_mode, discount, discount_mode, final_amount, paid_by, created_at
		 FROM bills WHERE group_id = ? ORDER BY created_at, id`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get bills: %w", err)
	}
	defer rows.Close()

	var bills []models.Bill
	for rows.Next() {
		var b models.Bill
		var amount, tax, discount, final string
		if err := rows.Scan(&b.ID, &b.GroupID, &b.Title, &amount, &tax, &b.TaxMode,
			&discount, &b.DiscountMode, &final, &b.PaidBy, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		if b.Amount, err = parseAmount("bill amount", amount); err != nil {
			return nil, err
		}
		if b.Tax, err = parseAmount("bill tax", tax); err != nil {
			return nil, err
		}
		if b.Discount, err = parseAmount("bill discount", discount); err != nil {
			return nil, err
		}
		if b.FinalAmount, err = parseAmount("bill final amount", final); err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	for i := range bills {
		if bills[i].Contributions, err = s.loadContributions(ctx, bills[i].ID); err != nil {
			return nil, err
		}
		if bills[i].Splits, err = s.loadSplits(ctx, bills[i].ID); err != nil {
			return nil, err
		}
	}
	return bills, nil
}

func (s *SQLiteStore) loadContributions(ctx context.Context, billID string) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, amount FROM bill_contributions WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get contributions: %w", err)
	}
	defer rows.Close()

	var contributions []models.Contribution
	for rows.Next() {
		var c models.Contribution
		var amount string
		if err := rows.Scan(&c.MemberID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		if c.Amount, err = parseAmount("contribution amount", amount); err != nil {
			return nil, err
		}
		contributions = append(contributions, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contributions: %w", err)
	}
	return contributions, nil
}

func (s *SQLiteStore) loadSplits(ctx context.Context, billID string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id, share, settled FROM bill_splits WHERE bill_id = ? ORDER BY position",
		billID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var sp models.Split
		var share string
		if err := rows.Scan(&sp.MemberID, &share, &sp.Settled); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if sp.Share, err = parseAmount("split share", share); err != nil {
			return nil, err
		}
		splits = append(splits, sp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return splits, nil
}

// DeleteBill removes a bill; contributions and splits cascade. Settlements
// referencing the bill are untouched.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: bill %s", storage.ErrNotFound, billID)
	}
	return nil
}

// SetSplitSettled updates one split's settled flag.
func (s *SQLiteStore) SetSplitSettled(ctx context.Context, billID, memberID string, settled bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE bill_splits SET settled = ? WHERE bill_id = ? AND member_id = ?",
		settled, billID, memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: split for member %s on bill %s", storage.ErrNotFound, memberID, billID)
	}
	return nil
}
