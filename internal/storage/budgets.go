package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

const budgetColumns = `b.budget_id, b.user_id, b.category_id, c.name,
	b.amount, b.start_date, b.end_date, b.createdAt, b.modifiedAt`

func scanBudget(row interface{ Scan(...any) error }) (core.Budget, error) {
	var (
		b      core.Budget
		amount float64
	)
	err := row.Scan(&b.ID, &b.OwnerID, &b.CategoryID, &b.CategoryName,
		&amount, &b.StartDate, &b.EndDate, &b.CreatedAt, &b.ModifiedAt)
	if err != nil {
		return core.Budget{}, err
	}
	b.Amount = core.Money{Cents: core.CentsFromDecimal(amount)}
	return b, nil
}

// isUniqueViolation detects the budgets unique index firing when two
// concurrent inserts both pass the duplicate check.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// InsertBudget creates a budget after verifying no budget exists for the
// same owner, category and month. Check and insert run in one database
// transaction; the unique index catches the remaining race and is reported
// the same way, as core.ErrDuplicateBudget.
func (r *Repository) InsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, wrap("begin budget insert", err)
	}
	defer tx.Rollback()

	var existing int64
	err = tx.QueryRowContext(ctx,
		`SELECT budget_id FROM budgets
		 WHERE user_id = ? AND category_id = ? AND start_date = ?`,
		b.OwnerID, b.CategoryID, dateOnly(b.StartDate)).Scan(&existing)
	switch {
	case err == nil:
		return core.Budget{}, core.ErrDuplicateBudget
	case !errors.Is(err, sql.ErrNoRows):
		return core.Budget{}, wrap("check duplicate budget", err)
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO budgets
		 (user_id, category_id, amount, start_date, end_date, createdAt, modifiedAt)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.OwnerID, b.CategoryID, b.Amount.Decimal(),
		dateOnly(b.StartDate), dateOnly(b.EndDate), now, now)
	if isUniqueViolation(err) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	if err != nil {
		return core.Budget{}, wrap("insert budget", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, wrap("insert budget", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Budget{}, wrap("commit budget insert", err)
	}

	return r.GetBudget(ctx, id, b.OwnerID)
}

// UpdateBudget rewrites amount and period of an owned budget. The update
// enforces the same invariants as insert: the row must match id and owner,
// and the new month must not collide with another budget for the same
// category.
func (r *Repository) UpdateBudget(ctx context.Context, budgetID, ownerID int64, amount core.Money, start, end time.Time) (core.Budget, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.Budget{}, wrap("begin budget update", err)
	}
	defer tx.Rollback()

	var categoryID int64
	err = tx.QueryRowContext(ctx,
		`SELECT category_id FROM budgets WHERE budget_id = ? AND user_id = ?`,
		budgetID, ownerID).Scan(&categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, wrap("load budget", err)
	}

	var conflict int64
	err = tx.QueryRowContext(ctx,
		`SELECT budget_id FROM budgets
		 WHERE user_id = ? AND category_id = ? AND start_date = ? AND budget_id <> ?`,
		ownerID, categoryID, dateOnly(start), budgetID).Scan(&conflict)
	switch {
	case err == nil:
		return core.Budget{}, core.ErrDuplicateBudget
	case !errors.Is(err, sql.ErrNoRows):
		return core.Budget{}, wrap("check duplicate budget", err)
	}

	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE budgets
		 SET amount = ?, start_date = ?, end_date = ?, modifiedAt = ?
		 WHERE budget_id = ? AND user_id = ?`,
		amount.Decimal(), dateOnly(start), dateOnly(end), now, budgetID, ownerID)
	if isUniqueViolation(err) {
		return core.Budget{}, core.ErrDuplicateBudget
	}
	if err != nil {
		return core.Budget{}, wrap("update budget", err)
	}
	if err := tx.Commit(); err != nil {
		return core.Budget{}, wrap("commit budget update", err)
	}

	return r.GetBudget(ctx, budgetID, ownerID)
}

// DeleteBudget removes an owned budget; zero affected rows is
// core.ErrNotFound.
func (r *Repository) DeleteBudget(ctx context.Context, budgetID, ownerID int64) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE budget_id = ? AND user_id = ?`,
		budgetID, ownerID)
	if err != nil {
		return wrap("delete budget", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("delete budget", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetBudget loads one owned budget joined with its category name.
func (r *Repository) GetBudget(ctx context.Context, budgetID, ownerID int64) (core.Budget, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+`
		 FROM budgets b
		 JOIN categories c ON c.category_id = b.category_id
		 WHERE b.budget_id = ? AND b.user_id = ?`,
		budgetID, ownerID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrNotFound
	}
	if err != nil {
		return core.Budget{}, wrap("get budget", err)
	}
	return b, nil
}

// ListBudgets returns the owner's budgets joined with category names,
// newest period first.
func (r *Repository) ListBudgets(ctx context.Context, ownerID int64) ([]core.Budget, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+budgetColumns+`
		 FROM budgets b
		 JOIN categories c ON c.category_id = b.category_id
		 WHERE b.user_id = ?
		 ORDER BY b.start_date DESC, b.budget_id`,
		ownerID)
	if err != nil {
		return nil, wrap("list budgets", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, wrap("scan budget", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list budgets", err)
	}
	return out, nil
}
