package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Mode string

const (
	// ModeTotal settles the full remaining obligation, optionally adjusted
	// by interest and discount.
	ModeTotal Mode = "total"
	// ModePartial applies an explicitly chosen smaller amount and leaves a
	// remainder outstanding.
	ModePartial Mode = "partial"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeTotal, ModePartial:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown payment mode: %s", s)
	}
}

// AccountState is the slice of a payable/receivable account the reconciler
// reads. It never owns or mutates the account; the caller commits the
// returned transition.
type AccountState struct {
	OriginalAmount    decimal.Decimal
	OutstandingAmount decimal.Decimal
}

type Request struct {
	Mode     Mode
	Interest decimal.Decimal
	Discount decimal.Decimal
	// ExplicitAmount is meaningful only for ModePartial.
	ExplicitAmount decimal.Decimal
	PaymentDate    time.Time
	BankAccountRef string
}

type Result struct {
	AppliedAmount  decimal.Decimal
	NewOutstanding decimal.Decimal
	BecameSettled  bool
}

type ReconciliationReason string

const (
	ReasonNonPositiveAmount    ReconciliationReason = "NON_POSITIVE_AMOUNT"
	ReasonExceedsOutstanding   ReconciliationReason = "EXCEEDS_OUTSTANDING"
	ReasonMissingRequiredField ReconciliationReason = "MISSING_REQUIRED_FIELD"
)

// ReconciliationError is a value result, not control flow: payments fail
// routinely on user input and the caller renders a message per reason.
type ReconciliationError struct {
	Reason  ReconciliationReason
	Message string
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// Apply computes the amount a payment request settles against an account and
// the resulting outstanding balance.
//
// Total mode applies originalAmount + interest - discount. Partial mode
// applies exactly the explicit amount; interest and discount carry no meaning
// there (the capture form disables those fields) and a partial payment large
// enough to fully settle the obligation is rejected, the caller must use
// total mode instead.
func Apply(account AccountState, req Request) (Result, *ReconciliationError) {
	if req.PaymentDate.IsZero() {
		return Result{}, &ReconciliationError{
			Reason:  ReasonMissingRequiredField,
			Message: "payment date is required",
		}
	}
	if req.BankAccountRef == "" {
		return Result{}, &ReconciliationError{
			Reason:  ReasonMissingRequiredField,
			Message: "bank account is required",
		}
	}

	switch req.Mode {
	case ModeTotal:
		applied := account.OriginalAmount.Add(req.Interest).Sub(req.Discount)
		if applied.LessThanOrEqual(decimal.Zero) {
			return Result{}, &ReconciliationError{
				Reason:  ReasonNonPositiveAmount,
				Message: "discount cannot reduce the payment to zero or below",
			}
		}
		outstanding := account.OriginalAmount.Sub(applied)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		return Result{
			AppliedAmount:  applied,
			NewOutstanding: outstanding,
			BecameSettled:  outstanding.IsZero(),
		}, nil

	case ModePartial:
		applied := req.ExplicitAmount
		if applied.LessThanOrEqual(decimal.Zero) {
			return Result{}, &ReconciliationError{
				Reason:  ReasonNonPositiveAmount,
				Message: "partial amount must be > 0",
			}
		}
		if applied.GreaterThanOrEqual(account.OriginalAmount) {
			return Result{}, &ReconciliationError{
				Reason:  ReasonExceedsOutstanding,
				Message: "partial amount would settle the obligation, use a total payment",
			}
		}
		outstanding := account.OutstandingAmount.Sub(applied)
		if outstanding.IsNegative() {
			outstanding = decimal.Zero
		}
		return Result{
			AppliedAmount:  applied,
			NewOutstanding: outstanding,
			BecameSettled:  outstanding.IsZero(),
		}, nil

	default:
		return Result{}, &ReconciliationError{
			Reason:  ReasonMissingRequiredField,
			Message: "payment mode is required",
		}
	}
}
