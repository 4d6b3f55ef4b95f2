package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/invomate/invomate/internal/domain/payment"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/postgres"
	"github.com/invomate/invomate/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type paymentRepository struct {
	db     postgres.IClient
	logger *logger.Logger
}

// NewPaymentRepository creates a postgres-backed payment repository
func NewPaymentRepository(db postgres.IClient, logger *logger.Logger) payment.Repository {
	return &paymentRepository{db: db, logger: logger}
}

func (r *paymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	query := `
		INSERT INTO payments (
			id, invoice_id, receipt_number, idempotency_key, payment_method_type,
			payment_gateway, gateway_payment_id, amount, currency,
			payment_date, note,
			tenant_id, status, created_at, updated_at, created_by, updated_by
		) VALUES (
			:id, :invoice_id, :receipt_number, :idempotency_key, :payment_method_type,
			:payment_gateway, :gateway_payment_id, :amount, :currency,
			:payment_date, :note,
			:tenant_id, :status, :created_at, :updated_at, :created_by, :updated_by
		)`

	if _, err := sqlx.NamedExecContext(ctx, r.db.Querier(ctx), query, p); err != nil {
		// The unique constraint on idempotency_key is the last line of
		// defense against concurrent duplicate deliveries.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ierr.WithError(err).
				WithHint("A payment with this idempotency key already exists").
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create payment").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id string) (*payment.Payment, error) {
	query := `SELECT * FROM payments WHERE id = $1 AND tenant_id = $2`

	var p payment.Payment
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &p, query, id, types.GetTenantID(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment not found").
				WithHintf("Payment %s does not exist", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *paymentRepository) List(ctx context.Context, filter types.Filter) ([]*payment.Payment, error) {
	query := `
		SELECT * FROM payments
		WHERE tenant_id = $1
		ORDER BY payment_date DESC
		LIMIT $2 OFFSET $3`

	payments := make([]*payment.Payment, 0)
	err := sqlx.SelectContext(ctx, r.db.Querier(ctx), &payments, query,
		types.GetTenantID(ctx), filter.GetLimit(), filter.GetOffset())
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

func (r *paymentRepository) ListByInvoice(ctx context.Context, invoiceID string) ([]*payment.Payment, error) {
	query := `
		SELECT * FROM payments
		WHERE tenant_id = $1 AND invoice_id = $2
		ORDER BY payment_date ASC`

	payments := make([]*payment.Payment, 0)
	err := sqlx.SelectContext(ctx, r.db.Querier(ctx), &payments, query,
		types.GetTenantID(ctx), invoiceID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoice payments").
			Mark(ierr.ErrDatabase)
	}
	return payments, nil
}

func (r *paymentRepository) GetByIdempotencyKey(ctx context.Context, key string) (*payment.Payment, error) {
	query := `SELECT * FROM payments WHERE idempotency_key = $1 AND tenant_id = $2`

	var p payment.Payment
	err := sqlx.GetContext(ctx, r.db.Querier(ctx), &p, query, key, types.GetTenantID(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.NewError("payment not found").
				WithHint("No payment recorded for this idempotency key").
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get payment by idempotency key").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}
