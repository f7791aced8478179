package tracker

import (
	"context"

	"github.com/piresc/payon/internal/pkg/models"
)

// TrackerUC defines the interface for transaction tracking business logic
type TrackerUC interface {
	// CreateTransaction submits a transfer to the backend
	CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error)
	// GetView fetches the authoritative status and renders it as a view model
	GetView(ctx context.Context, transactionID string) (*models.TransactionView, error)
	// UpdateComment validates then forwards a comment update
	UpdateComment(ctx context.Context, transactionID, comment string) error
	// Diagnostics lists recorded defect and degradation signals for a transaction
	Diagnostics(ctx context.Context, transactionID string, limit int) ([]models.Diagnostic, error)

	// Track starts pushing status views of a transaction to a browser client
	Track(ctx context.Context, clientID, transactionID string) error
	// Untrack cancels the subscription of one client for one transaction
	Untrack(clientID, transactionID string)
	// UntrackAll cancels every subscription held by a client
	UntrackAll(clientID string)
	// Close cancels every subscription and waits for them to finish
	Close()
}

// Notifier pushes an event to a connected browser client
type Notifier interface {
	NotifyClient(clientID, event string, data interface{})
}
