package plan

import (
	"github.com/invomate/invomate/internal/types"
)

// Plan describes a subscription tier and the ceilings it imposes on gated
// resource creation.
type Plan struct {
	ID     string         `db:"id" json:"id"`
	Tier   types.PlanTier `db:"tier" json:"tier"`
	Name   string         `db:"name" json:"name"`
	Limits Limits         `json:"limits"`

	types.BaseModel
}

// Limits holds one ceiling per resource kind. types.UnlimitedLimit (-1)
// means no ceiling.
type Limits struct {
	Clients   int `db:"limit_clients" json:"clients"`
	Invoices  int `db:"limit_invoices" json:"invoices"`
	Documents int `db:"limit_documents" json:"pdfs"`
	Emails    int `db:"limit_emails" json:"emails"`
}

// For returns the ceiling for the given resource kind. Unknown kinds are
// treated as unlimited rather than silently blocking creation.
func (l Limits) For(kind types.ResourceKind) int {
	switch kind {
	case types.ResourceKindClient:
		return l.Clients
	case types.ResourceKindInvoice:
		return l.Invoices
	case types.ResourceKindDocument:
		return l.Documents
	case types.ResourceKindEmail:
		return l.Emails
	default:
		return types.UnlimitedLimit
	}
}

// DefaultPlan is the free tier applied to tenants that have no plan row yet.
func DefaultPlan() *Plan {
	return &Plan{
		ID:   "plan_free_default",
		Tier: types.PlanTierFree,
		Name: "Free",
		Limits: Limits{
			Clients:   5,
			Invoices:  10,
			Documents: 10,
			Emails:    5,
		},
	}
}

// UnlimitedLimits returns limits with every ceiling disabled.
func UnlimitedLimits() Limits {
	return Limits{
		Clients:   types.UnlimitedLimit,
		Invoices:  types.UnlimitedLimit,
		Documents: types.UnlimitedLimit,
		Emails:    types.UnlimitedLimit,
	}
}
