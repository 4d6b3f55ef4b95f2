package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/invomate/invomate/internal/domain/plan"
	"github.com/invomate/invomate/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// GateDecision is the tri-state outcome of a limit check. Unknown means the
// gate could not determine usage or limits; callers must treat it as
// allowed so infrastructure failures never block legitimate creation.
type GateDecision string

const (
	GateDecisionAllowed GateDecision = "allowed"
	GateDecisionDenied  GateDecision = "denied"
	GateDecisionUnknown GateDecision = "unknown"
)

// GateResult carries the decision plus the numbers needed to render a
// limit-reached message. Limit of types.UnlimitedLimit (-1) means unlimited.
type GateResult struct {
	Decision GateDecision `json:"decision"`
	Current  int          `json:"current"`
	Limit    int          `json:"limit"`
}

// CanCreate collapses the tri-state decision for callers that only need a
// boolean: everything except an explicit denial allows creation.
func (r GateResult) CanCreate() bool {
	return r.Decision != GateDecisionDenied
}

// planLimitsCacheTTL bounds how stale a cached limit table can get.
const planLimitsCacheTTL = 5 * time.Minute

// UsageGateService decides whether a tenant may create one more unit of a
// gated resource kind.
type UsageGateService interface {
	// CheckLimits evaluates the gate for one resource kind. It never
	// returns an error: failures resolve to the fail-open Unknown result.
	CheckLimits(ctx context.Context, kind types.ResourceKind) GateResult

	// Snapshot evaluates all resource kinds, fanning the count queries out
	// in parallel.
	Snapshot(ctx context.Context) map[types.ResourceKind]GateResult
}

type usageGateService struct {
	ServiceParams
}

// NewUsageGateService creates a new usage gate service
func NewUsageGateService(params ServiceParams) UsageGateService {
	return &usageGateService{ServiceParams: params}
}

// failOpenResult is returned whenever usage or limits cannot be computed.
// The exact shape matters: current 0 and limit -1 so UIs render nothing
// blocked.
func failOpenResult() GateResult {
	return GateResult{
		Decision: GateDecisionUnknown,
		Current:  0,
		Limit:    types.UnlimitedLimit,
	}
}

func (s *usageGateService) CheckLimits(ctx context.Context, kind types.ResourceKind) GateResult {
	if err := kind.Validate(); err != nil {
		s.Logger.Warnw("usage gate called with unknown resource kind",
			"kind", kind,
			"error", err)
		return failOpenResult()
	}

	limits, err := s.planLimits(ctx)
	if err != nil {
		s.Logger.Warnw("failed to load plan limits, failing open",
			"kind", kind,
			"tenant_id", types.GetTenantID(ctx),
			"error", err)
		return failOpenResult()
	}

	current, err := s.UsageRepo.Count(ctx, kind)
	if err != nil {
		s.Logger.Warnw("failed to count usage, failing open",
			"kind", kind,
			"tenant_id", types.GetTenantID(ctx),
			"error", err)
		return failOpenResult()
	}

	limit := limits.For(kind)

	// The check is strictly "<": a tenant sitting exactly at the limit
	// cannot create one more.
	decision := GateDecisionDenied
	if limit == types.UnlimitedLimit || current < limit {
		decision = GateDecisionAllowed
	}

	return GateResult{
		Decision: decision,
		Current:  current,
		Limit:    limit,
	}
}

func (s *usageGateService) Snapshot(ctx context.Context) map[types.ResourceKind]GateResult {
	kinds := []types.ResourceKind{
		types.ResourceKindClient,
		types.ResourceKindInvoice,
		types.ResourceKindDocument,
		types.ResourceKindEmail,
	}

	var mu sync.Mutex
	results := make(map[types.ResourceKind]GateResult, len(kinds))

	p := pool.New()
	for _, kind := range kinds {
		kind := kind
		p.Go(func() {
			result := s.CheckLimits(ctx, kind)
			mu.Lock()
			results[kind] = result
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}

// planLimits resolves the tenant's limit table, caching it briefly since
// plan changes are rare and every gated create consults it.
func (s *usageGateService) planLimits(ctx context.Context) (plan.Limits, error) {
	cacheKey := fmt.Sprintf("plan_limits:%s", types.GetTenantID(ctx))

	if cached, ok := s.Cache.Get(ctx, cacheKey); ok {
		if limits, ok := cached.(plan.Limits); ok {
			return limits, nil
		}
	}

	p, err := s.PlanRepo.GetActivePlan(ctx)
	if err != nil {
		return plan.Limits{}, err
	}

	s.Cache.Set(ctx, cacheKey, p.Limits, planLimitsCacheTTL)
	return p.Limits, nil
}
