// Package storage is the persistence backend: a sqlite database holding the
// users, categories, transactions and budgets tables. Every query and
// mutation below the users table carries the owner's user id in its WHERE
// clause; zero affected rows is reported as core.ErrNotFound so a row owned
// by someone else is indistinguishable from a missing one.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"

	_ "modernc.org/sqlite"
)

// DefaultTimeout bounds connection acquisition and single statements when
// the caller does not configure one.
const DefaultTimeout = 5 * time.Second

type Repository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewRepository opens (or creates) the database at dbPath, applies pending
// migrations and returns a ready repository. Pass ":memory:" for an
// in-process database, used by tests.
func NewRepository(dbPath string, timeout time.Duration) (*Repository, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	dsn := dbPath
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn = "file:" + dbPath
	}
	dsn += "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single connection keeps an in-memory database alive across calls
	// and serializes writers, which sqlite wants anyway.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %v", core.ErrBackendUnavailable, err)
	}

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	slog.Info("Storage ready", "path", dbPath)

	return &Repository{db: db, timeout: timeout}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// opContext derives the bounded per-operation context.
func (r *Repository) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// wrap translates low-level failures into the error taxonomy: timeouts and
// connection loss become core.ErrBackendUnavailable, everything else is
// wrapped with the operation name.
func wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%s: %w: %v", op, core.ErrBackendUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// dateOnly truncates a timestamp to its calendar date so date equality and
// range comparisons are stable regardless of the caller's clock.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CreateUser inserts a user row. Registration itself (input handling,
// password hashing) lives outside the core; this is the storage primitive
// under it and under cmd/adduser.
func (r *Repository) CreateUser(ctx context.Context, username, passwordHash string) (core.User, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, passwordHash)
	if err != nil {
		return core.User{}, wrap("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.User{}, wrap("create user", err)
	}
	return core.User{ID: id, Username: username, PasswordHash: passwordHash}, nil
}

// GetUserByUsername returns core.ErrNotFound for unknown usernames.
func (r *Repository) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	var u core.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = ?`,
		username).Scan(&u.ID, &u.Username, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, core.ErrNotFound
	}
	if err != nil {
		return core.User{}, wrap("get user", err)
	}
	return u, nil
}
