package invoice

import "github.com/invomate/invomate/internal/types"

// GatewayOutcome is the result of mapping a vendor payment status onto our
// invoice state. PaymentStatus is always applied; the lifecycle status flips
// to PAID and a ledger entry is recorded only when RecordLedger is set.
type GatewayOutcome struct {
	PaymentStatus types.InvoicePaymentStatus
	MarkPaid      bool
	RecordLedger  bool
}

// OutcomeForGatewayStatus maps the gateway's status vocabulary to internal
// invoice state:
//
//	waiting, confirming          -> PENDING, no ledger effect
//	confirmed, sending, finished -> PAID, lifecycle PAID, ledger entry
//	failed, refunded, expired    -> FAILED, no ledger effect
//	anything else                -> PENDING (default), no ledger effect
//
// Unrecognized statuses default to PENDING so the gateway is still
// acknowledged and does not retry indefinitely.
func OutcomeForGatewayStatus(status types.GatewayPaymentStatus) GatewayOutcome {
	switch {
	case status.IsTerminalSuccess():
		return GatewayOutcome{
			PaymentStatus: types.InvoicePaymentStatusPaid,
			MarkPaid:      true,
			RecordLedger:  true,
		}
	case status.IsTerminalFailure():
		return GatewayOutcome{
			PaymentStatus: types.InvoicePaymentStatusFailed,
		}
	default:
		return GatewayOutcome{
			PaymentStatus: types.InvoicePaymentStatusPending,
		}
	}
}
