package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

// TransactionInput carries the already-parsed fields of an add or update
// request. The caller (web form, CLI) is responsible for parsing strings;
// the service is responsible for every domain rule.
type TransactionInput struct {
	Amount      core.Money
	Kind        core.Kind
	CategoryID  *int64
	Description string
	Date        time.Time
}

// LedgerService owns transaction mutations and reads. Every operation is
// scoped to the acting user; a category supplied on a write must belong to
// that user or the write is rejected before touching the table.
type LedgerService struct {
	repo      *storage.Repository
	publisher ExportPublisher
	overviews OverviewInvalidator
}

// NewLedgerService wires the ledger. publisher and overviews may be nil
// when export or caching is disabled.
func NewLedgerService(repo *storage.Repository, publisher ExportPublisher, overviews OverviewInvalidator) *LedgerService {
	return &LedgerService{repo: repo, publisher: publisher, overviews: overviews}
}

// assertOwnsCategory is the explicit capability check: the category must
// exist and belong to ownerID. A foreign category id is a validation
// failure, not a not-found, because the caller chose the reference.
func (s *LedgerService) assertOwnsCategory(ctx context.Context, categoryID, ownerID int64) error {
	_, err := s.repo.GetCategory(ctx, categoryID, ownerID)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrCategoryNotOwned
	}
	return err
}

// AddTransaction validates and inserts a ledger entry, then queues it for
// export. No partial write: validation happens entirely before the insert.
func (s *LedgerService) AddTransaction(ctx context.Context, ownerID int64, in TransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Kind:        in.Kind,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if in.CategoryID != nil {
		if err := s.assertOwnsCategory(ctx, *in.CategoryID, ownerID); err != nil {
			return core.Transaction{}, err
		}
	}

	created, err := s.repo.InsertTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	s.afterMutation(ctx, ownerID)
	s.publishSync(ctx, created.ID)

	slog.InfoContext(ctx, "Transaction added",
		"user_id", ownerID, "transaction_id", created.ID,
		"kind", string(created.Kind), "amount_cents", created.Amount.Cents)
	return created, nil
}

// UpdateTransaction rewrites an owned transaction. The same validation as
// add applies; a row matching neither id nor owner yields core.ErrNotFound.
func (s *LedgerService) UpdateTransaction(ctx context.Context, transactionID, ownerID int64, in TransactionInput) (core.Transaction, error) {
	t := core.Transaction{
		ID:          transactionID,
		OwnerID:     ownerID,
		Amount:      in.Amount,
		Kind:        in.Kind,
		CategoryID:  in.CategoryID,
		Description: in.Description,
		Date:        in.Date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if in.CategoryID != nil {
		if err := s.assertOwnsCategory(ctx, *in.CategoryID, ownerID); err != nil {
			return core.Transaction{}, err
		}
	}

	updated, err := s.repo.UpdateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, err
	}

	s.afterMutation(ctx, ownerID)
	s.publishSync(ctx, updated.ID)

	slog.InfoContext(ctx, "Transaction updated",
		"user_id", ownerID, "transaction_id", updated.ID)
	return updated, nil
}

// DeleteTransaction removes an owned transaction. Deleting a missing or
// foreign row reports core.ErrNotFound so the caller can flash a message;
// it is never treated as a silent success.
func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionID, ownerID int64) error {
	if err := s.repo.DeleteTransaction(ctx, transactionID, ownerID); err != nil {
		return err
	}

	s.afterMutation(ctx, ownerID)
	if s.publisher != nil {
		if err := s.publisher.PublishTransactionDelete(ctx, transactionID); err != nil {
			slog.ErrorContext(ctx, "Failed to publish delete message",
				"transaction_id", transactionID, "error", err)
			// The local delete already happened; export is best-effort.
		}
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"user_id", ownerID, "transaction_id", transactionID)
	return nil
}

// ListTransactions returns the owner's ledger, optionally narrowed by a
// case-insensitive search over description and category name.
func (s *LedgerService) ListTransactions(ctx context.Context, ownerID int64, search string) ([]core.Transaction, error) {
	return s.repo.ListTransactions(ctx, ownerID, search)
}

func (s *LedgerService) afterMutation(_ context.Context, ownerID int64) {
	if s.overviews != nil {
		s.overviews.InvalidateUser(ownerID)
	}
}

func (s *LedgerService) publishSync(ctx context.Context, transactionID int64) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, transactionID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"transaction_id", transactionID, "error", err)
		// The row stays in the pending state; the worker sweep picks it up.
	}
}
