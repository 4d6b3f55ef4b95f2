package service

import (
	"context"

	"github.com/invomate/invomate/internal/cache"
	"github.com/invomate/invomate/internal/config"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/testutil"
)

// testCtx bundles the in-memory stores every service suite needs. Suites
// embed it and call setup() from SetupTest.
type testCtx struct {
	ctx          context.Context
	params       ServiceParams
	clientStore  *testutil.InMemoryClientStore
	invoiceStore *testutil.InMemoryInvoiceStore
	paymentStore *testutil.InMemoryPaymentStore
	planStore    *testutil.InMemoryPlanStore
	usageStore   *testutil.InMemoryUsageStore
	seqStore     *testutil.InMemorySequenceStore
}

func (tc *testCtx) setup() {
	tc.ctx = testutil.SetupContext()
	tc.clientStore = testutil.NewInMemoryClientStore()
	tc.invoiceStore = testutil.NewInMemoryInvoiceStore()
	tc.paymentStore = testutil.NewInMemoryPaymentStore()
	tc.planStore = testutil.NewInMemoryPlanStore()
	tc.usageStore = testutil.NewInMemoryUsageStore()
	tc.seqStore = testutil.NewInMemorySequenceStore()

	cfg := config.GetDefaultConfig()

	tc.params = ServiceParams{
		Logger:       logger.NewNopLogger(),
		Config:       cfg,
		DB:           testutil.NewMockPostgresClient(),
		Cache:        cache.NewInMemoryCache(cfg),
		ClientRepo:   tc.clientStore,
		InvoiceRepo:  tc.invoiceStore,
		SequenceRepo: tc.seqStore,
		PaymentRepo:  tc.paymentStore,
		PlanRepo:     tc.planStore,
		UsageRepo:    tc.usageStore,
	}
}
