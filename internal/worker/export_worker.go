package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MilanBeharee27/finance-tracker/internal/amqp"
	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/sheets"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

// ExportWorker mirrors ledger rows from SQLite to the export sheet. It is
// driven two ways: AMQP messages for near-real-time sync, and a periodic
// sweep of pending rows as a backstop for lost messages.
type ExportWorker struct {
	storage   *storage.Repository
	writer    sheets.TransactionWriter
	remover   sheets.TransactionRemover
	batchSize int
}

func NewExportWorker(storage *storage.Repository, writer sheets.TransactionWriter, remover sheets.TransactionRemover, batchSize int) *ExportWorker {
	return &ExportWorker{
		storage:   storage,
		writer:    writer,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleMessage dispatches one export queue message.
func (w *ExportWorker) HandleMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	switch msg.Op {
	case amqp.OpDelete:
		return w.HandleDeleteMessage(ctx, msg)
	default:
		return w.HandleSyncMessage(ctx, msg)
	}
}

// HandleSyncMessage re-reads the transaction and pushes it to the sheet.
// A row deleted between publish and delivery is not an error; the delete
// message for it is already in flight.
func (w *ExportWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "version", msg.Version)

	t, err := w.storage.GetTransactionForExport(ctx, msg.ID)
	if errors.Is(err, core.ErrNotFound) {
		slog.InfoContext(ctx, "Transaction gone before export, skipping", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.exportTransaction(ctx, t)
}

// HandleDeleteMessage clears the exported row of a removed transaction.
func (w *ExportWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if w.remover == nil {
		slog.WarnContext(ctx, "No sheet remover configured, skipping deletion", "id", msg.ID)
		return nil
	}

	if err := w.remover.Remove(ctx, msg.ID); err != nil {
		return fmt.Errorf("remove exported row: %w", err)
	}
	return nil
}

// ProcessPendingTransactions exports rows still marked pending. This is the
// backstop for AMQP messages lost to a broker outage.
func (w *ExportWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.exportTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction", "id", t.ID, "error", err)
		}
	}
	return nil
}

// StartupCheck drains a larger pending backlog once at worker start, to
// recover from downtime while mutations kept accumulating.
func (w *ExportWorker) StartupCheck(ctx context.Context) error {
	pending, err := w.storage.ListPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending transactions for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup", "count", len(pending))

	synced := 0
	failed := 0
	for _, t := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.exportTransaction(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup", "id", t.ID, "error", err)
			failed++
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending), "synced", synced, "errors", failed)
	return nil
}

func (w *ExportWorker) exportTransaction(ctx context.Context, t core.Transaction) error {
	ref, err := w.writer.Append(ctx, t)
	if err != nil {
		if markErr := w.storage.MarkExportError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	// The append itself succeeded, so a failed status write is logged but
	// not raised; the next sweep re-exports harmlessly.
	if err := w.storage.MarkExported(ctx, t.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported transaction",
		"id", t.ID, "sheet_ref", ref, "amount_cents", t.Amount.Cents)
	return nil
}
