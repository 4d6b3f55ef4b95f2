package invoice

import (
	"context"
	"time"

	"github.com/invomate/invomate/internal/types"
)

// Repository defines the interface for invoice persistence
type Repository interface {
	Create(ctx context.Context, invoice *Invoice) error
	Get(ctx context.Context, id string) (*Invoice, error)
	Update(ctx context.Context, invoice *Invoice) error
	List(ctx context.Context, filter types.Filter) ([]*Invoice, error)
	Count(ctx context.Context) (int, error)

	// ListDueBefore returns sent, unpaid invoices whose due date has passed,
	// across all tenants. The overdue sweep runs as a background job with no
	// tenant context.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]*Invoice, error)

	// FindByID looks an invoice up without tenant scoping. Gateway webhooks
	// arrive unauthenticated, so the tenant is resolved from the invoice row
	// itself.
	FindByID(ctx context.Context, id string) (*Invoice, error)
}
