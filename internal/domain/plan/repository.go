package plan

import "context"

// Repository defines the interface for plan configuration lookups.
type Repository interface {
	// GetActivePlan returns the plan for the tenant in context.
	GetActivePlan(ctx context.Context) (*Plan, error)
}
