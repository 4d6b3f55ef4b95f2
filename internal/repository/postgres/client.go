package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/invomate/invomate/internal/domain/client"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/types"
	"github.com/jmoiron/sqlx"
)

type clientRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewClientRepository creates a postgres-backed client repository
func NewClientRepository(db postgres.IClient, logger *logger.Logger) client.Repository {
	return &clientRepository{db: db, logger: logger}
}

func (r *clientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `
		INSERT INTO clients (
			id, name, email, company, phone, address, tax_id, notes, metadata,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :name, :email, :company, :phone, :address, :tax_id, :notes, :metadata,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create client").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	query := `SELECT * FROM clients WHERE id = $1 AND tenant_id = $2`

	var c client.Client
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &c, query, id, types.GetTenantID(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("client not found").
				WithHintf("Client %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get client").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *clientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `
		UPDATE clients SET
			name = :name,
			email = :email,
			company = :company,
			phone = :phone,
			address = :address,
			tax_id = :tax_id,
			notes = :notes,
			metadata = :metadata,
			status = :status,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, c)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update client").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("client not found").
			WithHintf("Client %s does not exist", c.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter types.Filter) ([]*client.Client, error) {
	query := `
		SELECT * FROM clients
		WHERE tenant_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	clients := make([]*client.Client, 0)
	err := sqlx.SelectContext(ctx, r.db.Querier(ctx), &clients, query,
		types.GetTenantID(ctx), types.StatusPublished, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list clients").
			Mark(ierr.ErrDatabase)
	}
	return clients, nil
}

func (r *clientRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM clients WHERE tenant_id = $1 AND status = $2`

	var count int
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &count, query,
		types.GetTenantID(ctx), types.StatusPublished)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count clients").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}
