package tracker

import (
	"context"

	"github.com/piresc/payon/internal/pkg/models"
)

// BackendGW defines the request/response calls made to the payment backend
type BackendGW interface {
	CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error)
	GetStatus(ctx context.Context, transactionID string) (*models.StatusResponse, error)
	UpdateComment(ctx context.Context, transactionID, comment string) error
}

// EventSource opens a live status stream for one transaction
type EventSource interface {
	Open(ctx context.Context, transactionID string) (EventStream, error)
	Name() string
}

// EventStream is one open live connection. Events is closed when the
// transport drops or after Close; Err then reports why it dropped.
type EventStream interface {
	Events() <-chan models.StatusEvent
	Err() error
	Close() error
}
