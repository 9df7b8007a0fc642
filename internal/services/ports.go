// Package services orchestrates the core operations: validation and
// ownership checks in front of storage, export message publishing behind
// mutations, and overview assembly for the presentation layer.
package services

import "context"

// ExportPublisher queues a transaction for asynchronous spreadsheet export.
// Implementations must be safe to skip: a nil publisher disables export.
type ExportPublisher interface {
	PublishTransactionSync(ctx context.Context, transactionID, version int64) error
	PublishTransactionDelete(ctx context.Context, transactionID int64) error
}

// OverviewInvalidator drops cached per-user overviews after a mutation.
type OverviewInvalidator interface {
	InvalidateUser(userID int64)
}
