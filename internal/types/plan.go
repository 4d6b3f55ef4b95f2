package types

import (
	"fmt"

	"github.com/samber/lo"
)

// PlanTier is a subscription level determining numeric ceilings on resource
// creation.
type PlanTier string

const (
	PlanTierFree    PlanTier = "free"
	PlanTierStarter PlanTier = "starter"
	PlanTierPro     PlanTier = "pro"
)

func (t PlanTier) String() string {
	return string(t)
}

func (t PlanTier) Validate() error {
	allowed := []PlanTier{
		PlanTierFree,
		PlanTierStarter,
		PlanTierPro,
	}
	if !lo.Contains(allowed, t) {
		return fmt.Errorf("invalid plan tier: %s", t)
	}
	return nil
}

// UnlimitedLimit is the sentinel ceiling meaning "no limit" for a resource
// kind. Absent limits are normalized to this value.
const UnlimitedLimit = -1
