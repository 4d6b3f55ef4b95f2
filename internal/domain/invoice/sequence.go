package invoice

import (
	"context"
	"fmt"
	"time"
)

// Sequence holds a tenant's monotonic invoice-number counter.
type Sequence struct {
	TenantID  string    `db:"tenant_id"`
	LastValue int64     `db:"last_value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SequenceRepository hands out gap-free invoice numbers per tenant.
type SequenceRepository interface {
	// Next atomically increments and returns the tenant's next sequence value.
	Next(ctx context.Context) (int64, error)
}

// FormatInvoiceNumber renders a sequence value as the human-facing invoice
// number, e.g. INV-000042.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}
