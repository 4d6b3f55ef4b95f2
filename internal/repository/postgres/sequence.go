package postgres

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/domain/invoice"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/types"
	"github.com/jmoiron/sqlx"
)

type sequenceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewSequenceRepository creates a postgres-backed invoice number sequence
func NewSequenceRepository(db postgres.IClient, logger *logger.Logger) invoice.SequenceRepository {
	return &sequenceRepository{db: db, logger: logger}
}

// Next bumps the tenant's counter atomically. The upsert creates the row on
// first use; RETURNING makes the increment and read one statement, so two
// concurrent invoices can never share a number.
func (r *sequenceRepository) Next(ctx context.Context) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (tenant_id, last_value, updated_at)
		VALUES ($1, 1, $2)
		ON CONFLICT (tenant_id)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1, updated_at = $2
		RETURNING last_value`

	var next int64
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &next, query,
		types.GetTenantID(ctx), time.Now().UTC())
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to allocate invoice number").
			Mark(ierr.ErrDatabase)
	}
	return next, nil
}
