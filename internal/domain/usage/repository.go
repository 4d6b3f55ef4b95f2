package usage

import (
	"context"

	"github.com/invomate/invomate/internal/types"
)

// Repository supplies current usage counts per resource kind for the tenant
// in context. Counts are derived, not persisted: clients and invoices come
// from their own tables, documents and emails from recorded usage events
// scoped to the current calendar month.
type Repository interface {
	// Count returns the tenant's current usage for the given kind.
	Count(ctx context.Context, kind types.ResourceKind) (int, error)

	// Record registers one unit of month-windowed usage (documents, emails).
	Record(ctx context.Context, kind types.ResourceKind) error
}
