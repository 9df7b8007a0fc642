package sheets

import (
	"context"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

// Ports for outbound export adapters.
type (
	// TransactionWriter mirrors ledger rows into an external sheet. Append
	// is keyed by the transaction id so re-delivered messages overwrite the
	// same row instead of duplicating it.
	TransactionWriter interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover clears the exported row of a deleted transaction.
	TransactionRemover interface {
		Remove(ctx context.Context, transactionID int64) error
	}
)
