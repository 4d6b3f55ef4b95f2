package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/invomate/invomate/internal/api/dto"
	"github.com/invomate/invomate/internal/domain/client"
	"github.com/invomate/invomate/internal/domain/plan"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/invomate/invomate/internal/integration/stripe"
	"github.com/invomate/invomate/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvoiceServiceSuite struct {
	suite.Suite
	testCtx
	service InvoiceService
	client  *client.Client
}

func TestInvoiceService(t *testing.T) {
	suite.Run(t, new(InvoiceServiceSuite))
}

func (s *InvoiceServiceSuite) SetupTest() {
	s.setup()
	s.service = NewInvoiceService(s.params)

	s.client = &client.Client{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		Name:      "Acme Corp",
		Email:     "billing@acme.test",
		BaseModel: types.GetDefaultBaseModel(s.ctx),
	}
	s.NoError(s.clientStore.Create(s.ctx, s.client))
}

func (s *InvoiceServiceSuite) createRequest() dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientID:  s.client.ID,
		Currency:  "USD",
		Subtotal:  decimal.NewFromInt(100),
		TaxAmount: decimal.NewFromInt(10),
		Shipping:  decimal.NewFromInt(5),
	}
}

func (s *InvoiceServiceSuite) TestCreateInvoice() {
	resp, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	s.Equal("INV-000001", resp.InvoiceNumber)
	s.Equal(types.InvoiceStatusDraft, resp.InvoiceStatus)
	s.Equal(types.InvoicePaymentStatusUnpaid, resp.PaymentStatus)
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(115)))
}

func (s *InvoiceServiceSuite) TestInvoiceNumbersIncrement() {
	first, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)
	second, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	s.Equal("INV-000001", first.InvoiceNumber)
	s.Equal("INV-000002", second.InvoiceNumber)
}

func (s *InvoiceServiceSuite) TestCreateBlockedAtPlanLimit() {
	s.planStore.SetLimits(plan.Limits{Clients: -1, Invoices: 2, Documents: -1, Emails: -1})
	s.usageStore.SetCount(types.ResourceKindInvoice, 2)

	_, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrPermissionDenied))
}

func (s *InvoiceServiceSuite) TestCreateRequiresExistingClient() {
	req := s.createRequest()
	req.ClientID = "client_missing"

	_, err := s.service.CreateInvoice(s.ctx, req)
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *InvoiceServiceSuite) TestPromoCodeAppliesPercentDiscount() {
	s.params.PromoLookup = staticPromo{percentOff: decimal.NewFromInt(20)}
	s.service = NewInvoiceService(s.params)

	req := s.createRequest()
	req.PromoCode = "SAVE20"

	resp, err := s.service.CreateInvoice(s.ctx, req)
	s.NoError(err)

	s.True(resp.Discount.Equal(decimal.NewFromInt(20)))
	// 100 - 20 + 10 + 5
	s.True(resp.TotalAmount.Equal(decimal.NewFromInt(95)))
}

func (s *InvoiceServiceSuite) TestSendInvoice() {
	created, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	sent, err := s.service.SendInvoice(s.ctx, created.ID)
	s.NoError(err)

	s.Equal(types.InvoiceStatusSent, sent.InvoiceStatus)
	s.NotNil(sent.SentAt)

	// Sending twice is an invalid operation.
	_, err = s.service.SendInvoice(s.ctx, created.ID)
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestRecordOfflinePaymentPartial() {
	created, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	resp, err := s.service.RecordOfflinePayment(s.ctx, created.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(50),
		Note:   "bank transfer",
	})
	s.NoError(err)

	s.Equal(types.InvoicePaymentStatusPartial, resp.PaymentStatus)
	s.True(resp.PaidAmount.Equal(decimal.NewFromInt(50)))

	payments, _ := s.paymentStore.ListByInvoice(s.ctx, created.ID)
	s.Require().Len(payments, 1)
	s.Equal(types.PaymentMethodTypeOffline, payments[0].PaymentMethodType)
	s.True(strings.HasPrefix(payments[0].ReceiptNumber, types.SHORTID_PREFIX_RECEIPT))
}

func (s *InvoiceServiceSuite) TestRecordOfflinePaymentSettles() {
	created, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	_, err = s.service.RecordOfflinePayment(s.ctx, created.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(50),
	})
	s.NoError(err)

	resp, err := s.service.RecordOfflinePayment(s.ctx, created.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(65),
	})
	s.NoError(err)

	s.Equal(types.InvoicePaymentStatusPaid, resp.PaymentStatus)
	s.Equal(types.InvoiceStatusPaid, resp.InvoiceStatus)
	s.NotNil(resp.PaidAt)
}

func (s *InvoiceServiceSuite) TestArchivedInvoiceRejectsPayments() {
	created, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)
	s.NoError(s.service.ArchiveInvoice(s.ctx, created.ID))

	_, err = s.service.RecordOfflinePayment(s.ctx, created.ID, dto.RecordPaymentRequest{
		Amount: decimal.NewFromInt(10),
	})
	s.Error(err)
	s.True(ierr.IsInvalidOperation(err))
}

func (s *InvoiceServiceSuite) TestGenerateDocumentGatedAndCounted() {
	created, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	doc, err := s.service.GenerateDocument(s.ctx, created.ID)
	s.NoError(err)
	s.Equal(created.ID, doc.Invoice.ID)
	s.Equal(s.client.ID, doc.Client.ID)

	count, _ := s.usageStore.Count(s.ctx, types.ResourceKindDocument)
	s.Equal(1, count)

	s.planStore.SetLimits(plan.Limits{Clients: -1, Invoices: -1, Documents: 1, Emails: -1})
	s.params.Cache.Flush(s.ctx)

	_, err = s.service.GenerateDocument(s.ctx, created.ID)
	s.Error(err)
	s.True(ierr.Is(err, ierr.ErrPermissionDenied))
}

func (s *InvoiceServiceSuite) TestMarkOverdueInvoices() {
	created, err := s.service.CreateInvoice(s.ctx, s.createRequest())
	s.NoError(err)

	inv, err := s.invoiceStore.Get(s.ctx, created.ID)
	s.NoError(err)
	inv.InvoiceStatus = types.InvoiceStatusSent
	inv.DueDate = lo.ToPtr(time.Now().UTC().Add(-48 * time.Hour))
	s.NoError(s.invoiceStore.Update(s.ctx, inv))

	updated, err := s.service.MarkOverdueInvoices(s.ctx)
	s.NoError(err)
	s.Equal(1, updated)

	stored, _ := s.invoiceStore.Get(s.ctx, created.ID)
	s.Equal(types.InvoiceStatusOverdue, stored.InvoiceStatus)

	// Paid invoices are left alone on the next sweep.
	updated, err = s.service.MarkOverdueInvoices(s.ctx)
	s.NoError(err)
	s.Equal(0, updated)
}

// staticPromo is a PromoLookup stub returning a fixed discount.
type staticPromo struct {
	percentOff decimal.Decimal
}

func (p staticPromo) Lookup(ctx context.Context, code string) (*stripe.PromoCode, error) {
	return &stripe.PromoCode{Code: code, PercentOff: p.percentOff}, nil
}
