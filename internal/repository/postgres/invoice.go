package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/invomate/invomate/internal/domain/invoice"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/types"
	"github.com/jmoiron/sqlx"
)

type invoiceRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewInvoiceRepository creates a postgres-backed invoice repository
func NewInvoiceRepository(db postgres.IClient, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (
			id, client_id, invoice_number, invoice_status, payment_status,
			currency, subtotal, tax_amount, discount, shipping, total_amount,
			paid_amount, due_date, paid_at, sent_at, notes, metadata,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :client_id, :invoice_number, :invoice_status, :payment_status,
			:currency, :subtotal, :tax_amount, :discount, :shipping, :total_amount,
			:paid_amount, :due_date, :paid_at, :sent_at, :notes, :metadata,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, inv); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create invoice").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *invoiceRepository) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1 AND tenant_id = $2`

	var inv invoice.Invoice
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &inv, query, id, types.GetTenantID(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) FindByID(ctx context.Context, id string) (*invoice.Invoice, error) {
	query := `SELECT * FROM invoices WHERE id = $1`

	var inv invoice.Invoice
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &inv, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("invoice not found").
				WithHintf("Invoice %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get invoice").
			Mark(ierr.ErrDatabase)
	}
	return &inv, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices SET
			invoice_status = :invoice_status,
			payment_status = :payment_status,
			paid_amount = :paid_amount,
			due_date = :due_date,
			paid_at = :paid_at,
			sent_at = :sent_at,
			notes = :notes,
			metadata = :metadata,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id AND tenant_id = :tenant_id`

	result, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, inv)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update invoice").
			Mark(ierr.ErrDatabase)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ierr.NewError("invoice not found").
			WithHintf("Invoice %s does not exist", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (r *invoiceRepository) List(ctx context.Context, filter types.Filter) ([]*invoice.Invoice, error) {
	query := `
		SELECT * FROM invoices
		WHERE tenant_id = $1 AND invoice_status != $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	invoices := make([]*invoice.Invoice, 0)
	err := sqlx.SelectContext(ctx, r.db.Querier(ctx), &invoices, query,
		types.GetTenantID(ctx), types.InvoiceStatusArchived, filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM invoices WHERE tenant_id = $1 AND invoice_status != $2`

	var count int
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &count, query,
		types.GetTenantID(ctx), types.InvoiceStatusArchived)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count invoices").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *invoiceRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]*invoice.Invoice, error) {
	query := `
		SELECT * FROM invoices
		WHERE invoice_status = $1
		  AND payment_status IN ($2, $3, $4)
		  AND due_date IS NOT NULL
		  AND due_date < $5
		ORDER BY due_date ASC`

	invoices := make([]*invoice.Invoice, 0)
	err := sqlx.SelectContext(ctx, r.db.Querier(ctx), &invoices, query,
		types.InvoiceStatusSent,
		types.InvoicePaymentStatusUnpaid,
		types.InvoicePaymentStatusPending,
		types.InvoicePaymentStatusPartial,
		cutoff)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list due invoices").
			Mark(ierr.ErrDatabase)
	}
	return invoices, nil
}
