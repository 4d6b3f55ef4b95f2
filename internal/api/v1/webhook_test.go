package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/invomate/invomate/internal/cache"
	"github.com/invomate/invomate/internal/config"
	"github.com/invomate/invomate/internal/domain/invoice"
	"github.com/invomate/invomate/internal/integration/nowpay"
	"github.com/invomate/invomate/internal/logger"
	"github.com/invomate/invomate/internal/rest/middleware"
	"github.com/invomate/invomate/internal/service"
	"github.com/invomate/invomate/internal/testutil"
	"github.com/invomate/invomate/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type WebhookHandlerSuite struct {
	suite.Suite
	router       *gin.Engine
	cfg          *config.Configuration
	invoiceStore *testutil.InMemoryInvoiceStore
	paymentStore *testutil.InMemoryPaymentStore
	inv          *invoice.Invoice
}

func TestWebhookHandler(t *testing.T) {
	suite.Run(t, new(WebhookHandlerSuite))
}

func (s *WebhookHandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	ctx := testutil.SetupContext()
	s.cfg = config.GetDefaultConfig()
	s.invoiceStore = testutil.NewInMemoryInvoiceStore()
	s.paymentStore = testutil.NewInMemoryPaymentStore()

	log := logger.NewNopLogger()
	params := service.ServiceParams{
		Logger:       log,
		Config:       s.cfg,
		DB:           testutil.NewMockPostgresClient(),
		Cache:        cache.NewInMemoryCache(s.cfg),
		ClientRepo:   testutil.NewInMemoryClientStore(),
		InvoiceRepo:  s.invoiceStore,
		SequenceRepo: testutil.NewInMemorySequenceStore(),
		PaymentRepo:  s.paymentStore,
		PlanRepo:     testutil.NewInMemoryPlanStore(),
		UsageRepo:    testutil.NewInMemoryUsageStore(),
	}

	s.inv = &invoice.Invoice{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE),
		ClientID:      "client_test",
		InvoiceNumber: "INV-000001",
		InvoiceStatus: types.InvoiceStatusSent,
		PaymentStatus: types.InvoicePaymentStatusUnpaid,
		Currency:      "USD",
		Subtotal:      decimal.NewFromInt(100),
		TotalAmount:   decimal.NewFromInt(100),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	s.Require().NoError(s.invoiceStore.Create(ctx, s.inv))

	handler := NewWebhookHandler(service.NewReconcilerService(params), s.cfg, log)

	s.router = gin.New()
	s.router.Use(middleware.ErrorHandler(log))
	s.router.POST("/webhooks/crypto", handler.HandleCryptoWebhook)
}

func (s *WebhookHandlerSuite) postIPN(body []byte, sign bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/crypto", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sign {
		sig, err := nowpay.Sign(body, s.cfg.Webhook.NowPayIPNSecret)
		s.Require().NoError(err)
		req.Header.Set(nowpay.SignatureHeader, sig)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *WebhookHandlerSuite) ipnBody(status string) []byte {
	body, err := json.Marshal(map[string]interface{}{
		"payment_id":     4937492,
		"payment_status": status,
		"order_id":       s.inv.ID,
		"actually_paid":  99.5,
	})
	s.Require().NoError(err)
	return body
}

func (s *WebhookHandlerSuite) TestFinishedNotificationSettlesInvoice() {
	w := s.postIPN(s.ipnBody("finished"), true)

	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true}`, w.Body.String())

	ctx := testutil.SetupContext()
	stored, err := s.invoiceStore.Get(ctx, s.inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoicePaymentStatusPaid, stored.PaymentStatus)
	s.Equal(types.InvoiceStatusPaid, stored.InvoiceStatus)

	payments, _ := s.paymentStore.ListByInvoice(ctx, s.inv.ID)
	s.Len(payments, 1)
}

func (s *WebhookHandlerSuite) TestRedeliveryIsAcknowledgedOnce() {
	s.Equal(http.StatusOK, s.postIPN(s.ipnBody("finished"), true).Code)
	s.Equal(http.StatusOK, s.postIPN(s.ipnBody("finished"), true).Code)

	ctx := testutil.SetupContext()
	payments, _ := s.paymentStore.ListByInvoice(ctx, s.inv.ID)
	s.Len(payments, 1)
}

func (s *WebhookHandlerSuite) TestMissingSignatureRejected() {
	w := s.postIPN(s.ipnBody("finished"), false)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *WebhookHandlerSuite) TestTamperedPayloadRejected() {
	body := s.ipnBody("finished")
	sig, err := nowpay.Sign(body, "wrong-secret")
	s.Require().NoError(err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/crypto", bytes.NewReader(body))
	req.Header.Set(nowpay.SignatureHeader, sig)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *WebhookHandlerSuite) TestMissingOrderIDRejected() {
	body, err := json.Marshal(map[string]interface{}{
		"payment_id":     4937492,
		"payment_status": "finished",
	})
	s.Require().NoError(err)

	w := s.postIPN(body, true)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *WebhookHandlerSuite) TestUnknownInvoiceReported() {
	body, err := json.Marshal(map[string]interface{}{
		"payment_id":     4937492,
		"payment_status": "finished",
		"order_id":       "inv_unknown",
	})
	s.Require().NoError(err)

	// No orphan ledger row and no success ack for an invoice we do not know;
	// the gateway will redeliver once the invoice exists.
	w := s.postIPN(body, true)
	s.Equal(http.StatusNotFound, w.Code)

	ctx := testutil.SetupContext()
	payments, _ := s.paymentStore.ListByInvoice(ctx, "inv_unknown")
	s.Empty(payments)
}

func (s *WebhookHandlerSuite) TestUnrecognizedStatusStillAcknowledged() {
	w := s.postIPN(s.ipnBody("partially_paid_v2"), true)
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"success":true}`, w.Body.String())

	ctx := testutil.SetupContext()
	stored, err := s.invoiceStore.Get(ctx, s.inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoicePaymentStatusPending, stored.PaymentStatus)

	payments, _ := s.paymentStore.ListByInvoice(ctx, s.inv.ID)
	s.Empty(payments)
}

func (s *WebhookHandlerSuite) TestWaitingNotificationLeavesLifecycleAlone() {
	w := s.postIPN(s.ipnBody("waiting"), true)
	s.Equal(http.StatusOK, w.Code)

	ctx := testutil.SetupContext()
	stored, err := s.invoiceStore.Get(ctx, s.inv.ID)
	s.Require().NoError(err)
	s.Equal(types.InvoicePaymentStatusPending, stored.PaymentStatus)
	s.Equal(types.InvoiceStatusSent, stored.InvoiceStatus)
}
