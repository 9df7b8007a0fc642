package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

// Export states for the async spreadsheet export.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

const transactionColumns = `t.transaction_id, t.user_id, t.amount, t.type,
	t.category_id, IFNULL(c.name, ''), t.description, t.transaction_date,
	t.createdAt, t.modifiedAt`

func scanTransaction(row interface{ Scan(...any) error }) (core.Transaction, error) {
	var (
		t      core.Transaction
		amount float64
		kind   string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &amount, &kind, &t.CategoryID,
		&t.CategoryName, &t.Description, &t.Date, &t.CreatedAt, &t.ModifiedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.Money{Cents: core.CentsFromDecimal(amount)}
	t.Kind = core.Kind(kind)
	return t, nil
}

// InsertTransaction writes a validated ledger entry and returns it with its
// assigned id. New rows start in the pending export state.
func (r *Repository) InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (user_id, amount, type, category_id, description, transaction_date, createdAt, modifiedAt, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.OwnerID, t.Amount.Decimal(), string(t.Kind), t.CategoryID,
		t.Description, dateOnly(t.Date), now, now, SyncPending)
	if err != nil {
		return core.Transaction{}, wrap("insert transaction", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, wrap("insert transaction", err)
	}

	t.ID = id
	t.Date = dateOnly(t.Date)
	t.CreatedAt = now
	t.ModifiedAt = now
	return t, nil
}

// UpdateTransaction rewrites every mutable field of the row matching both
// id and owner. Zero matched rows means the row does not exist or belongs
// to someone else: core.ErrNotFound either way.
func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET amount = ?, type = ?, category_id = ?, description = ?,
		     transaction_date = ?, modifiedAt = ?, sync_status = ?
		 WHERE transaction_id = ? AND user_id = ?`,
		t.Amount.Decimal(), string(t.Kind), t.CategoryID, t.Description,
		dateOnly(t.Date), now, SyncPending, t.ID, t.OwnerID)
	if err != nil {
		return core.Transaction{}, wrap("update transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return core.Transaction{}, wrap("update transaction", err)
	}
	if n == 0 {
		return core.Transaction{}, core.ErrNotFound
	}

	t.Date = dateOnly(t.Date)
	t.ModifiedAt = now
	return t, nil
}

// DeleteTransaction removes the row matching both id and owner. Deleting a
// missing or foreign row affects zero rows and is reported as
// core.ErrNotFound, never raised as a failure.
func (r *Repository) DeleteTransaction(ctx context.Context, transactionID, ownerID int64) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE transaction_id = ? AND user_id = ?`,
		transactionID, ownerID)
	if err != nil {
		return wrap("delete transaction", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("delete transaction", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

// GetTransaction loads one owned transaction with its category name.
func (r *Repository) GetTransaction(ctx context.Context, transactionID, ownerID int64) (core.Transaction, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON c.category_id = t.category_id
		 WHERE t.transaction_id = ? AND t.user_id = ?`,
		transactionID, ownerID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, wrap("get transaction", err)
	}
	return t, nil
}

// GetTransactionForExport loads one transaction by id alone. Only the
// export worker may use this; user-facing reads stay owner-scoped.
func (r *Repository) GetTransactionForExport(ctx context.Context, transactionID int64) (core.Transaction, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON c.category_id = t.category_id
		 WHERE t.transaction_id = ?`,
		transactionID)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, wrap("get transaction for export", err)
	}
	return t, nil
}

// ListTransactions returns the owner's ledger, newest transaction date
// first. A non-empty search narrows to rows whose description or category
// name contains it, case-insensitively.
func (r *Repository) ListTransactions(ctx context.Context, ownerID int64, search string) ([]core.Transaction, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	query := `SELECT ` + transactionColumns + `
		 FROM transactions t
		 LEFT JOIN categories c ON c.category_id = t.category_id
		 WHERE t.user_id = ?`
	args := []any{ownerID}

	if s := strings.TrimSpace(search); s != "" {
		pattern := "%" + strings.ToLower(s) + "%"
		query += ` AND (LOWER(t.description) LIKE ? OR LOWER(IFNULL(c.name, '')) LIKE ?)`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY t.transaction_date DESC, t.transaction_id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list transactions", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, wrap("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list transactions", err)
	}
	return out, nil
}

// ListPendingExport returns up to limit transactions awaiting spreadsheet
// export, oldest first so the sheet stays roughly chronological.
func (r *Repository) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+`
		 FROM transactions t
		 LEFT JOIN categories c ON c.category_id = t.category_id
		 WHERE t.sync_status = ?
		 ORDER BY t.transaction_id
		 LIMIT ?`,
		SyncPending, limit)
	if err != nil {
		return nil, wrap("list pending export", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, wrap("scan transaction", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list pending export", err)
	}
	return out, nil
}

// MarkExported flags a transaction as written to the spreadsheet.
func (r *Repository) MarkExported(ctx context.Context, transactionID int64) error {
	return r.setSyncStatus(ctx, transactionID, SyncDone)
}

// MarkExportError flags a transaction whose export failed permanently.
func (r *Repository) MarkExportError(ctx context.Context, transactionID int64) error {
	return r.setSyncStatus(ctx, transactionID, SyncError)
}

func (r *Repository) setSyncStatus(ctx context.Context, transactionID int64, status string) error {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET sync_status = ? WHERE transaction_id = ?`,
		status, transactionID)
	if err != nil {
		return wrap("set sync status", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("set sync status", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}
