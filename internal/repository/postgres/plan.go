package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/invomate/invomate/internal/domain/plan"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/types"
	"github.com/jmoiron/sqlx"
)

type planRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewPlanRepository creates a postgres-backed plan repository
func NewPlanRepository(db postgres.IClient, logger *logger.Logger) plan.Repository {
	return &planRepository{db: db, logger: logger}
}

// planRow flattens the nested limits for sqlx scanning.
type planRow struct {
	ID             string         `db:"id"`
	Tier           types.PlanTier `db:"tier"`
	Name           string         `db:"name"`
	LimitClients   int            `db:"limit_clients"`
	LimitInvoices  int            `db:"limit_invoices"`
	LimitDocuments int            `db:"limit_documents"`
	LimitEmails    int            `db:"limit_emails"`

	types.BaseModel
}

func (r *planRepository) GetActivePlan(ctx context.Context) (*plan.Plan, error) {
	query := `
		SELECT id, tier, name,
		       limit_clients, limit_invoices, limit_documents, limit_emails,
		       tenant_id, status, created_at, updated_at, created_by, updated_by
		FROM plans
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var row planRow
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &row, query,
		types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Tenants start on the free tier until a plan row is created.
			return plan.DefaultPlan(), nil
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get active plan").
			Mark(ierr.ErrDatabase)
	}

	return &plan.Plan{
		ID:   row.ID,
		Tier: row.Tier,
		Name: row.Name,
		Limits: plan.Limits{
			Clients:   row.LimitClients,
			Invoices:  row.LimitInvoices,
			Documents: row.LimitDocuments,
			Emails:    row.LimitEmails,
		},
		BaseModel: row.BaseModel,
	}, nil
}
