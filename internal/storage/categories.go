package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

// CreateCategory inserts a category owned by ownerID. createdBy records
// provenance and always equals the owner in this system.
func (r *Repository) CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (name, user_id, createdBy, createdAt, modifiedAt)
		 VALUES (?, ?, ?, ?, ?)`,
		name, ownerID, ownerID, now, now)
	if err != nil {
		return core.Category{}, wrap("create category", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Category{}, wrap("create category", err)
	}
	return core.Category{
		ID:         id,
		Name:       name,
		OwnerID:    ownerID,
		CreatedBy:  ownerID,
		CreatedAt:  now,
		ModifiedAt: now,
	}, nil
}

// GetCategory is the ownership capability check: it finds the category only
// when it belongs to ownerID, otherwise core.ErrNotFound.
func (r *Repository) GetCategory(ctx context.Context, categoryID, ownerID int64) (core.Category, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT category_id, name, user_id, createdBy, createdAt, modifiedAt
		 FROM categories
		 WHERE category_id = ? AND user_id = ?`,
		categoryID, ownerID).
		Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedBy, &c.CreatedAt, &c.ModifiedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, wrap("get category", err)
	}
	return c, nil
}

// ListCategories returns the owner's categories in insertion order.
func (r *Repository) ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT category_id, name, user_id, createdBy, createdAt, modifiedAt
		 FROM categories
		 WHERE user_id = ?
		 ORDER BY category_id`,
		ownerID)
	if err != nil {
		return nil, wrap("list categories", err)
	}
	defer rows.Close()

	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.OwnerID, &c.CreatedBy, &c.CreatedAt, &c.ModifiedAt); err != nil {
			return nil, wrap("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list categories", err)
	}
	return out, nil
}
