package tracker

import (
	"context"

	"github.com/piresc/payon/internal/pkg/models"
)

// DiagnosticRepo persists diagnostics raised while tracking transactions
type DiagnosticRepo interface {
	Record(ctx context.Context, d *models.Diagnostic) error
	ListByTransaction(ctx context.Context, transactionID string, limit int) ([]models.Diagnostic, error)
}
