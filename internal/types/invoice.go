package types

import (
	"fmt"

	"github.com/samber/lo"
)

// InvoiceStatus represents the lifecycle of an invoice.
// Invoices are never physically deleted, only archived.
type InvoiceStatus string

const (
	InvoiceStatusDraft    InvoiceStatus = "DRAFT"
	InvoiceStatusSent     InvoiceStatus = "SENT"
	InvoiceStatusPaid     InvoiceStatus = "PAID"
	InvoiceStatusOverdue  InvoiceStatus = "OVERDUE"
	InvoiceStatusArchived InvoiceStatus = "ARCHIVED"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
		InvoiceStatusArchived,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid invoice status: %s", s)
	}
	return nil
}

// InvoicePaymentStatus is the payment axis of an invoice, independent of the
// lifecycle status above.
type InvoicePaymentStatus string

const (
	InvoicePaymentStatusUnpaid  InvoicePaymentStatus = "UNPAID"
	InvoicePaymentStatusPending InvoicePaymentStatus = "PENDING"
	InvoicePaymentStatusPartial InvoicePaymentStatus = "PARTIAL"
	InvoicePaymentStatusPaid    InvoicePaymentStatus = "PAID"
	InvoicePaymentStatusFailed  InvoicePaymentStatus = "FAILED"
)

func (s InvoicePaymentStatus) String() string {
	return string(s)
}

func (s InvoicePaymentStatus) Validate() error {
	allowed := []InvoicePaymentStatus{
		InvoicePaymentStatusUnpaid,
		InvoicePaymentStatusPending,
		InvoicePaymentStatusPartial,
		InvoicePaymentStatusPaid,
		InvoicePaymentStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return fmt.Errorf("invalid invoice payment status: %s", s)
	}
	return nil
}
