package payment

import (
	"context"

	"github.com/invomate/invomate/internal/types"
)

// Repository defines the interface for payment persistence. The ledger is
// append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, payment *Payment) error
	Get(ctx context.Context, id string) (*Payment, error)
	List(ctx context.Context, filter types.Filter) ([]*Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]*Payment, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*Payment, error)
}
