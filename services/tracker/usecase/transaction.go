package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/piresc/payon/internal/pkg/logger"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/services/tracker/projection"
)

// ErrInvalidRequest wraps request validation failures
var ErrInvalidRequest = models.ErrInvalidRequest

// CreateTransaction validates the transfer request and submits it to the backend
func (uc *TrackerUC) CreateTransaction(ctx context.Context, req *models.CreateTransactionRequest) (*models.Transaction, error) {
	if err := uc.validate.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, describe(err))
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidRequest)
	}
	if req.Comment != "" {
		comment, err := ValidateComment(req.Comment)
		if err != nil {
			return nil, err
		}
		req.Comment = comment
	}

	tx, err := uc.backendGW.CreateTransaction(ctx, req)
	if err != nil {
		var rej *models.CreationRejectedError
		if errors.As(err, &rej) {
			logger.InfoCtx(ctx, "Transaction refused by backend",
				logger.String("code", rej.Code))
		}
		return nil, err
	}

	logger.InfoCtx(ctx, "Transaction created",
		logger.TransactionID(tx.ID),
		logger.Status("status", tx.Status))
	return tx, nil
}

// GetView fetches the authoritative status of a transaction and renders it
func (uc *TrackerUC) GetView(ctx context.Context, transactionID string) (*models.TransactionView, error) {
	resp, err := uc.backendGW.GetStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	p := projection.New(transactionID, models.TransactionStatusPending, uc.recordDiagnostic)
	if err := p.OnEvent(models.StatusEvent{
		TransactionID: transactionID,
		NewStatus:     resp.Status,
		Timestamp:     resp.UpdatedAt,
		Origin:        models.OriginResync,
	}); err != nil {
		return nil, err
	}
	view := p.View()
	return &view, nil
}

// UpdateComment validates the comment locally, then forwards it trimmed
func (uc *TrackerUC) UpdateComment(ctx context.Context, transactionID, comment string) error {
	trimmed, err := ValidateComment(comment)
	if err != nil {
		return err
	}
	if err := uc.backendGW.UpdateComment(ctx, transactionID, trimmed); err != nil {
		return err
	}
	logger.InfoCtx(ctx, "Transaction comment updated", logger.TransactionID(transactionID))
	return nil
}

// Diagnostics lists recorded diagnostics, newest first. The backend must first
// confirm that the caller can see the transaction.
func (uc *TrackerUC) Diagnostics(ctx context.Context, transactionID string, limit int) ([]models.Diagnostic, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if _, err := uc.backendGW.GetStatus(ctx, transactionID); err != nil {
		return nil, err
	}
	return uc.diagRepo.ListByTransaction(ctx, transactionID, limit)
}

// recordDiagnostic logs a diagnostic and persists it; persistence failures are only logged
func (uc *TrackerUC) recordDiagnostic(d models.Diagnostic) {
	l := uc.logger.WithTransaction(d.TransactionID)
	fields := []logger.Field{
		logger.String("kind", string(d.Kind)),
		logger.Status("from", d.FromStatus),
		logger.Status("to", d.ToStatus),
		logger.String("origin", string(d.Origin)),
		logger.String("detail", d.Detail),
	}
	if d.Kind == models.DiagnosticStaleStatus {
		l.Debug("Discarded stale status", fields...)
	} else {
		l.Warn("Status diagnostic", fields...)
	}

	if uc.diagRepo == nil {
		return
	}
	if err := uc.diagRepo.Record(context.Background(), &d); err != nil {
		l.Error("Failed to persist diagnostic", logger.Err(err))
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("field %s failed on %s", fe.Field(), fe.Tag())
}
