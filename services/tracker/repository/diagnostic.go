package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/piresc/payon/internal/pkg/models"
	"github.com/piresc/payon/internal/pkg/observability"
	"github.com/piresc/payon/services/tracker"
)

// DiagnosticRepo stores diagnostics in the status_diagnostics table
type DiagnosticRepo struct {
	db     *sqlx.DB
	tracer observability.Tracer
}

// NewDiagnosticRepository creates a Postgres backed diagnostic repository
func NewDiagnosticRepository(db *sqlx.DB, tracer observability.Tracer) tracker.DiagnosticRepo {
	if tracer == nil {
		tracer = observability.NewNoOpTracer()
	}
	return &DiagnosticRepo{db: db, tracer: tracer}
}

// Record inserts one diagnostic
func (r *DiagnosticRepo) Record(ctx context.Context, d *models.Diagnostic) error {
	defer r.tracer.StartSegment(ctx, observability.SegmentDatastore)()

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO status_diagnostics (
			id, transaction_id, kind, from_status, to_status, origin, detail, observed_at
		) VALUES (
			:id, :transaction_id, :kind, :from_status, :to_status, :origin, :detail, :observed_at
		)
	`, d)
	if err != nil {
		return fmt.Errorf("failed to record diagnostic: %w", err)
	}
	return nil
}

// ListByTransaction returns the latest diagnostics of a transaction, newest first
func (r *DiagnosticRepo) ListByTransaction(ctx context.Context, transactionID string, limit int) ([]models.Diagnostic, error) {
	defer r.tracer.StartSegment(ctx, observability.SegmentDatastore)()

	var out []models.Diagnostic
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, transaction_id, kind, from_status, to_status, origin, detail, observed_at
		FROM status_diagnostics
		WHERE transaction_id = $1
		ORDER BY observed_at DESC
		LIMIT $2
	`, transactionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list diagnostics: %w", err)
	}
	return out, nil
}
