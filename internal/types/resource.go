package types

import (
	"fmt"

	"github.com/samber/lo"
)

// ResourceKind identifies a gated resource counted against plan limits.
type ResourceKind string

const (
	ResourceKindClient   ResourceKind = "clients"
	ResourceKindInvoice  ResourceKind = "invoices"
	ResourceKindDocument ResourceKind = "pdfs"
	ResourceKindEmail    ResourceKind = "emails"
)

func (k ResourceKind) String() string {
	return string(k)
}

func (k ResourceKind) Validate() error {
	allowed := []ResourceKind{
		ResourceKindClient,
		ResourceKindInvoice,
		ResourceKindDocument,
		ResourceKindEmail,
	}
	if !lo.Contains(allowed, k) {
		return fmt.Errorf("invalid resource kind: %s", k)
	}
	return nil
}

// MonthWindowed reports whether usage for this kind is counted per calendar
// month rather than all-time. Clients and invoices accumulate for the life of
// the tenant; documents and emails reset every month.
func (k ResourceKind) MonthWindowed() bool {
	return k == ResourceKindDocument || k == ResourceKindEmail
}
