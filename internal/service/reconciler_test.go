package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/invomate/invomate/internal/domain/invoice"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/integration/nowpay"
	"github.com/invomate/invomate/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReconcilerServiceSuite struct {
	suite.Suite
	testCtx
	reconciler ReconcilerService
	inv        *invoice.Invoice
}

func TestReconcilerService(t *testing.T) {
	suite.Run(t, new(ReconcilerServiceSuite))
}

func (s *ReconcilerServiceSuite) SetupTest() {
	s.setup()
	s.reconciler = NewReconcilerService(s.params)

	s.inv = &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ClientID:      "client_test",
		InvoiceNumber: "INV-000001",
		InvoiceStatus: types.InvoiceStatusSent,
		PaymentStatus: types.InvoicePaymentStatusUnpaid,
		Currency:      "USD",
		Subtotal:      decimal.NewFromInt(100),
		TotalAmount:   decimal.NewFromInt(100),
		PaidAmount:    decimal.Zero,
		BaseModel:     types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.invoiceStore.Create(s.ctx, s.inv))
}

func (s *ReconcilerServiceSuite) event(status types.GatewayPaymentStatus) *ReconcileEvent {
	return &ReconcileEvent{
		Gateway:          types.PaymentGatewayTypeNowPay,
		GatewayPaymentID: "4937492",
		Status:           status,
		OrderID:          s.inv.ID,
	}
}

func (s *ReconcilerServiceSuite) storedInvoice() *invoice.Invoice {
	inv, err := s.invoiceStore.Get(s.ctx, s.inv.ID)
	s.Require().NoError(err)
	return inv
}

func (s *ReconcilerServiceSuite) TestMissingOrderIDRejected() {
	ev := s.event(types.GatewayPaymentStatusFinished)
	ev.OrderID = ""

	_, err := s.reconciler.Reconcile(s.ctx, ev)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReconcilerServiceSuite) TestUnknownInvoiceRejected() {
	ev := s.event(types.GatewayPaymentStatusFinished)
	ev.OrderID = "inv_does_not_exist"

	_, err := s.reconciler.Reconcile(s.ctx, ev)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReconcilerServiceSuite) TestWaitingMapsToPending() {
	result, err := s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatusWaiting))
	s.NoError(err)

	s.Equal(types.InvoicePaymentStatusPending, result.PaymentStatus)
	s.False(result.LedgerRecorded)

	stored := s.storedInvoice()
	s.Equal(types.InvoicePaymentStatusPending, stored.PaymentStatus)
	// Lifecycle status does not move on non-terminal notifications.
	s.Equal(types.InvoiceStatusSent, stored.InvoiceStatus)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Empty(payments)
}

func (s *ReconcilerServiceSuite) TestFailedMapsToFailedWithoutLedger() {
	result, err := s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatusFailed))
	s.NoError(err)

	s.Equal(types.InvoicePaymentStatusFailed, result.PaymentStatus)
	s.False(result.LedgerRecorded)

	stored := s.storedInvoice()
	s.Equal(types.InvoicePaymentStatusFailed, stored.PaymentStatus)
	s.Equal(types.InvoiceStatusSent, stored.InvoiceStatus)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Empty(payments)
}

func (s *ReconcilerServiceSuite) TestUnrecognizedStatusMapsToPending() {
	result, err := s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatus("partially_paid")))
	s.NoError(err)

	s.Equal(types.InvoicePaymentStatusPending, result.PaymentStatus)
	s.False(result.LedgerRecorded)
}

func (s *ReconcilerServiceSuite) TestFinishedMarksPaidAndRecordsLedger() {
	ev := s.event(types.GatewayPaymentStatusFinished)
	ev.ActuallyPaid = lo.ToPtr(decimal.NewFromFloat(99.5))

	result, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)

	s.Equal(types.InvoicePaymentStatusPaid, result.PaymentStatus)
	s.True(result.LedgerRecorded)
	s.False(result.Duplicate)

	stored := s.storedInvoice()
	s.Equal(types.InvoicePaymentStatusPaid, stored.PaymentStatus)
	s.Equal(types.InvoiceStatusPaid, stored.InvoiceStatus)
	s.True(stored.PaidAmount.Equal(decimal.NewFromFloat(99.5)))
	s.NotNil(stored.PaidAt)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Require().Len(payments, 1)
	s.Equal(types.PaymentMethodTypeCrypto, payments[0].PaymentMethodType)
	s.Equal("nowpay", *payments[0].PaymentGateway)
	s.Equal("4937492", *payments[0].GatewayPaymentID)
	s.True(payments[0].Amount.Equal(decimal.NewFromFloat(99.5)))
}

func (s *ReconcilerServiceSuite) TestConfirmedAndSendingAlsoSettle() {
	for _, status := range []types.GatewayPaymentStatus{
		types.GatewayPaymentStatusConfirmed,
		types.GatewayPaymentStatusSending,
	} {
		s.SetupTest()
		result, err := s.reconciler.Reconcile(s.ctx, s.event(status))
		s.NoError(err)
		s.Equal(types.InvoicePaymentStatusPaid, result.PaymentStatus)
		s.True(result.LedgerRecorded)
	}
}

func (s *ReconcilerServiceSuite) TestAmountFallsBackToPayAmount() {
	ev := s.event(types.GatewayPaymentStatusFinished)
	// Gateways report actually_paid as 0 until settlement; zero falls
	// through like missing.
	ev.ActuallyPaid = lo.ToPtr(decimal.Zero)
	ev.PayAmount = lo.ToPtr(decimal.NewFromInt(75))

	_, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)

	s.True(s.storedInvoice().PaidAmount.Equal(decimal.NewFromInt(75)))
}

func (s *ReconcilerServiceSuite) TestAmountFallsBackToInvoiceTotal() {
	_, err := s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatusFinished))
	s.NoError(err)

	s.True(s.storedInvoice().PaidAmount.Equal(decimal.NewFromInt(100)))
}

func (s *ReconcilerServiceSuite) TestDuplicateFinishedRecordsOneLedgerEntry() {
	ev := s.event(types.GatewayPaymentStatusFinished)

	first, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)
	s.True(first.LedgerRecorded)

	second, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)
	s.False(second.LedgerRecorded)
	s.True(second.Duplicate)
	s.Equal(types.InvoicePaymentStatusPaid, second.PaymentStatus)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Len(payments, 1)
}

func (s *ReconcilerServiceSuite) TestDistinctPaymentIDsRecordSeparately() {
	ev := s.event(types.GatewayPaymentStatusFinished)
	_, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)

	other := s.event(types.GatewayPaymentStatusFinished)
	other.GatewayPaymentID = "9999999"
	_, err = s.reconciler.Reconcile(s.ctx, other)
	s.NoError(err)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Len(payments, 2)
}

func (s *ReconcilerServiceSuite) TestStripeEventsRecordCardPayments() {
	ev := &ReconcileEvent{
		Gateway:          types.PaymentGatewayTypeStripe,
		GatewayPaymentID: "pi_3abc",
		Status:           types.GatewayPaymentStatusFinished,
		OrderID:          s.inv.ID,
		ActuallyPaid:     lo.ToPtr(decimal.NewFromInt(100)),
	}

	_, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Require().Len(payments, 1)
	s.Equal(types.PaymentMethodTypeCard, payments[0].PaymentMethodType)
	s.Equal("stripe", *payments[0].PaymentGateway)
}

func (s *ReconcilerServiceSuite) TestRepeatedPendingDoesNotTouchInvoice() {
	_, err := s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatusWaiting))
	s.NoError(err)
	updatedAt := s.storedInvoice().UpdatedAt

	time.Sleep(5 * time.Millisecond)

	_, err = s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatusConfirming))
	s.NoError(err)

	// Same mapped status, so no write happened.
	s.Equal(updatedAt, s.storedInvoice().UpdatedAt)
}

type stubCryptoGateway struct {
	status *nowpay.PaymentStatusResponse
	err    error
}

func (g *stubCryptoGateway) GetPaymentStatus(_ context.Context, _ string) (*nowpay.PaymentStatusResponse, error) {
	return g.status, g.err
}

func (s *ReconcilerServiceSuite) TestRefreshPaymentSettlesInvoice() {
	s.params.CryptoGateway = &stubCryptoGateway{
		status: &nowpay.PaymentStatusResponse{
			PaymentID:     json.Number("4937492"),
			PaymentStatus: types.GatewayPaymentStatusFinished,
			OrderID:       s.inv.ID,
			ActuallyPaid:  lo.ToPtr(decimal.NewFromInt(100)),
		},
	}
	s.reconciler = NewReconcilerService(s.params)

	result, err := s.reconciler.RefreshPayment(s.ctx, "4937492")
	s.NoError(err)
	s.True(result.LedgerRecorded)

	stored := s.storedInvoice()
	s.Equal(types.InvoicePaymentStatusPaid, stored.PaymentStatus)
	s.Equal(types.InvoiceStatusPaid, stored.InvoiceStatus)
}

func (s *ReconcilerServiceSuite) TestRefreshPaymentRequiresPaymentID() {
	s.params.CryptoGateway = &stubCryptoGateway{}
	s.reconciler = NewReconcilerService(s.params)

	_, err := s.reconciler.RefreshPayment(s.ctx, "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ReconcilerServiceSuite) TestRefreshPaymentWithoutGatewayConfigured() {
	_, err := s.reconciler.RefreshPayment(s.ctx, "4937492")
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *ReconcilerServiceSuite) TestRefreshPaymentScopedToTenant() {
	s.params.CryptoGateway = &stubCryptoGateway{
		status: &nowpay.PaymentStatusResponse{
			PaymentID:     json.Number("4937492"),
			PaymentStatus: types.GatewayPaymentStatusFinished,
			OrderID:       s.inv.ID,
		},
	}
	s.reconciler = NewReconcilerService(s.params)

	otherTenant := types.SetTenantID(s.ctx, "tenant_other")
	_, err := s.reconciler.RefreshPayment(otherTenant, "4937492")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *ReconcilerServiceSuite) TestRedeliveryWithoutPaymentIDRecordedOnce() {
	ev := s.event(types.GatewayPaymentStatusFinished)
	ev.GatewayPaymentID = ""

	first, err := s.reconciler.Reconcile(s.ctx, ev)
	s.NoError(err)
	s.True(first.LedgerRecorded)

	// Without a gateway payment id the pre-check cannot run; the unique
	// constraint on the idempotency key must still collapse the redelivery
	// into a duplicate ack instead of an error.
	again := s.event(types.GatewayPaymentStatusFinished)
	again.GatewayPaymentID = ""
	second, err := s.reconciler.Reconcile(s.ctx, again)
	s.NoError(err)
	s.True(second.Duplicate)
	s.False(second.LedgerRecorded)
	s.Equal(types.InvoicePaymentStatusPaid, second.PaymentStatus)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Len(payments, 1)
}

func (s *ReconcilerServiceSuite) TestLedgerEntriesCarryReceiptNumbers() {
	_, err := s.reconciler.Reconcile(s.ctx, s.event(types.GatewayPaymentStatusFinished))
	s.NoError(err)

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, s.inv.ID)
	s.Require().Len(payments, 1)
	s.True(strings.HasPrefix(payments[0].ReceiptNumber, types.SHORTID_PREFIX_RECEIPT))
	s.LessOrEqual(len(payments[0].ReceiptNumber), 12)
}
