package postgres

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/domain/usage"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/types"
	"github.com/jmoiron/sqlx"
)

type usageRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewUsageRepository creates a postgres-backed usage repository. Client and
// invoice usage is derived from the entity tables; document and email usage
// comes from recorded usage events windowed to the current calendar month.
func NewUsageRepository(db postgres.IClient, logger *logger.Logger) usage.Repository {
	return &usageRepository{db: db, logger: logger}
}

func (r *usageRepository) Count(ctx context.Context, kind types.ResourceKind) (int, error) {
	switch kind {
	case types.ResourceKindClient:
		return r.countRows(ctx,
			`SELECT COUNT(*) FROM clients WHERE tenant_id = $1 AND status = $2`,
			types.GetTenantID(ctx), types.StatusPublished)
	case types.ResourceKindInvoice:
		return r.countRows(ctx,
			`SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND invoice_status != $2`,
			types.GetTenantID(ctx), types.InvoiceStatusArchived)
	case types.ResourceKindDocument, types.ResourceKindEmail:
		start, end := types.MonthWindow(time.Now())
		return r.countRows(ctx,
			`SELECT COUNT(*) FROM usage_events
			 WHERE tenant_id = $1 AND resource_kind = $2
			   AND created_at >= $3 AND created_at < $4`,
			types.GetTenantID(ctx), kind, start, end)
	default:
		return 0, ierr.NewError("unknown resource kind").
			WithHintf("Resource kind %s is not countable", kind).
			Mark(ierr.ErrValidation)
	}
}

func (r *usageRepository) Record(ctx context.Context, kind types.ResourceKind) error {
	if !kind.MonthWindowed() {
		// Clients and invoices are counted from their own tables; recording
		// an event for them would double count.
		return nil
	}

	query := `
		INSERT INTO usage_events (id, resource_kind, tenant_id, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Querier(ctx).ExecContext(ctx, query,
		types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USAGE_EVENT),
		kind,
		types.GetTenantID(ctx),
		time.Now().UTC(),
		types.GetUserID(ctx))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record usage").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *usageRepository) countRows(ctx context.Context, query string, args ...interface{}) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db.Querier(ctx), &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count usage").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
