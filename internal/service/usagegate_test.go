package service

import (
	"testing"

	"github.com/invomate/invomate/internal/domain/plan"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/types"
	"github.com/stretchr/testify/suite"
)

type UsageGateServiceSuite struct {
	suite.Suite
	testCtx
	gate UsageGateService
}

func TestUsageGateService(t *testing.T) {
	suite.Run(t, new(UsageGateServiceSuite))
}

func (s *UsageGateServiceSuite) SetupTest() {
	s.setup()
	s.gate = NewUsageGateService(s.params)
}

func (s *UsageGateServiceSuite) TestAllowedUnderLimit() {
	s.planStore.SetLimits(plan.Limits{Clients: 5, Invoices: 10, Documents: 10, Emails: 5})
	s.usageStore.SetCount(types.ResourceKindClient, 4)

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)

	s.Equal(GateDecisionAllowed, result.Decision)
	s.Equal(4, result.Current)
	s.Equal(5, result.Limit)
	s.True(result.CanCreate())
}

func (s *UsageGateServiceSuite) TestDeniedAtLimit() {
	// The check is strictly "<": sitting exactly at the limit blocks.
	s.planStore.SetLimits(plan.Limits{Clients: 5, Invoices: 10, Documents: 10, Emails: 5})
	s.usageStore.SetCount(types.ResourceKindClient, 5)

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)

	s.Equal(GateDecisionDenied, result.Decision)
	s.False(result.CanCreate())
}

func (s *UsageGateServiceSuite) TestDeniedOverLimit() {
	s.planStore.SetLimits(plan.Limits{Invoices: 10})
	s.usageStore.SetCount(types.ResourceKindInvoice, 25)

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindInvoice)

	s.Equal(GateDecisionDenied, result.Decision)
	s.Equal(25, result.Current)
	s.Equal(10, result.Limit)
}

func (s *UsageGateServiceSuite) TestUnlimitedAlwaysAllows() {
	s.planStore.SetLimits(plan.UnlimitedLimits())
	s.usageStore.SetCount(types.ResourceKindInvoice, 1000000)

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindInvoice)

	s.Equal(GateDecisionAllowed, result.Decision)
	s.Equal(types.UnlimitedLimit, result.Limit)
}

func (s *UsageGateServiceSuite) TestZeroLimitBlocksFirstCreate() {
	s.planStore.SetLimits(plan.Limits{Clients: 0})
	s.usageStore.SetCount(types.ResourceKindClient, 0)

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)

	s.Equal(GateDecisionDenied, result.Decision)
}

func (s *UsageGateServiceSuite) TestFailsOpenOnPlanError() {
	s.planStore.SetError(ierr.NewError("boom").Mark(ierr.ErrDatabase))

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)

	s.Equal(GateDecisionUnknown, result.Decision)
	s.Equal(0, result.Current)
	s.Equal(types.UnlimitedLimit, result.Limit)
	s.True(result.CanCreate())
}

func (s *UsageGateServiceSuite) TestFailsOpenOnUsageError() {
	s.planStore.SetLimits(plan.Limits{Clients: 5})
	s.usageStore.SetError(ierr.NewError("boom").Mark(ierr.ErrDatabase))

	result := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)

	s.Equal(GateDecisionUnknown, result.Decision)
	s.True(result.CanCreate())
}

func (s *UsageGateServiceSuite) TestFailsOpenOnUnknownKind() {
	result := s.gate.CheckLimits(s.ctx, types.ResourceKind("widgets"))

	s.Equal(GateDecisionUnknown, result.Decision)
	s.True(result.CanCreate())
}

func (s *UsageGateServiceSuite) TestSnapshotCoversAllKinds() {
	s.planStore.SetLimits(plan.Limits{Clients: 1, Invoices: 2, Documents: 3, Emails: 4})
	s.usageStore.SetCount(types.ResourceKindClient, 1)
	s.usageStore.SetCount(types.ResourceKindInvoice, 1)

	snapshot := s.gate.Snapshot(s.ctx)

	s.Len(snapshot, 4)
	s.Equal(GateDecisionDenied, snapshot[types.ResourceKindClient].Decision)
	s.Equal(GateDecisionAllowed, snapshot[types.ResourceKindInvoice].Decision)
	s.Equal(GateDecisionAllowed, snapshot[types.ResourceKindDocument].Decision)
	s.Equal(GateDecisionAllowed, snapshot[types.ResourceKindEmail].Decision)
}

func (s *UsageGateServiceSuite) TestPlanLimitsAreCached() {
	s.planStore.SetLimits(plan.Limits{Clients: 5})
	s.usageStore.SetCount(types.ResourceKindClient, 1)

	first := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)
	s.Equal(5, first.Limit)

	// A plan change does not show up until the cache entry expires.
	s.planStore.SetLimits(plan.Limits{Clients: 100})
	second := s.gate.CheckLimits(s.ctx, types.ResourceKindClient)
	s.Equal(5, second.Limit)
}

