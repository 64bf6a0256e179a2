package payment

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validRequest(mode Mode) Request {
	return Request{
		Mode:           mode,
		PaymentDate:    time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		BankAccountRef: "acc-1",
	}
}

func account(original, outstanding string) AccountState {
	return AccountState{
		OriginalAmount:    decimal.RequireFromString(original),
		OutstandingAmount: decimal.RequireFromString(outstanding),
	}
}

func TestApply_TotalSettlesAccount(t *testing.T) {
	res, rerr := Apply(account("500.00", "500.00"), validRequest(ModeTotal))
	if rerr != nil {
		t.Fatalf("unexpected error: %v", rerr)
	}
	if !res.AppliedAmount.Equal(decimal.RequireFromString("500.00")) {
		t.Fatalf("expected applied 500.00, got %s", res.AppliedAmount)
	}
	if !res.NewOutstanding.IsZero() || !res.BecameSettled {
		t.Fatalf("expected settled account, got outstanding %s settled %v", res.NewOutstanding, res.BecameSettled)
	}
}

func TestApply_TotalWithInterestAndDiscount(t *testing.T) {
	req := validRequest(ModeTotal)
	req.Interest = decimal.RequireFromString("12.50")
	req.Discount = decimal.RequireFromString("2.50")

	res, rerr := Apply(account("500.00", "500.00"), req)
	if rerr != nil {
		t.Fatalf("unexpected error: %v", rerr)
	}
	if !res.AppliedAmount.Equal(decimal.RequireFromString("510.00")) {
		t.Fatalf("expected applied 510.00, got %s", res.AppliedAmount)
	}
	// Interest over the original amount still closes the account.
	if !res.NewOutstanding.IsZero() || !res.BecameSettled {
		t.Fatalf("expected settled account, got outstanding %s", res.NewOutstanding)
	}
}

func TestApply_TotalDiscountCannotZeroOutPayment(t *testing.T) {
	req := validRequest(ModeTotal)
	req.Discount = decimal.RequireFromString("500.00")

	_, rerr := Apply(account("500.00", "500.00"), req)
	if rerr == nil || rerr.Reason != ReasonNonPositiveAmount {
		t.Fatalf("expected %s, got %v", ReasonNonPositiveAmount, rerr)
	}
}

func TestApply_PartialLeavesRemainder(t *testing.T) {
	req := validRequest(ModePartial)
	req.ExplicitAmount = decimal.RequireFromString("150.00")

	res, rerr := Apply(account("500.00", "400.00"), req)
	if rerr != nil {
		t.Fatalf("unexpected error: %v", rerr)
	}
	if !res.AppliedAmount.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("expected applied 150.00, got %s", res.AppliedAmount)
	}
	if !res.NewOutstanding.Equal(decimal.RequireFromString("250.00")) {
		t.Fatalf("expected outstanding 250.00, got %s", res.NewOutstanding)
	}
	if res.BecameSettled {
		t.Fatalf("partial payment must not settle the account")
	}
}

func TestApply_PartialIgnoresInterestAndDiscount(t *testing.T) {
	req := validRequest(ModePartial)
	req.ExplicitAmount = decimal.RequireFromString("100.00")
	req.Interest = decimal.RequireFromString("99.00")
	req.Discount = decimal.RequireFromString("99.00")

	res, rerr := Apply(account("500.00", "500.00"), req)
	if rerr != nil {
		t.Fatalf("unexpected error: %v", rerr)
	}
	if !res.AppliedAmount.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected applied 100.00, got %s", res.AppliedAmount)
	}
	if !res.NewOutstanding.Equal(decimal.RequireFromString("400.00")) {
		t.Fatalf("expected outstanding 400.00, got %s", res.NewOutstanding)
	}
}

func TestApply_PartialRejectsFullSettlement(t *testing.T) {
	for _, amount := range []string{"500.00", "650.00"} {
		req := validRequest(ModePartial)
		req.ExplicitAmount = decimal.RequireFromString(amount)

		_, rerr := Apply(account("500.00", "500.00"), req)
		if rerr == nil || rerr.Reason != ReasonExceedsOutstanding {
			t.Fatalf("amount %s: expected %s, got %v", amount, ReasonExceedsOutstanding, rerr)
		}
	}
}

func TestApply_PartialRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []string{"0", "-5.00"} {
		req := validRequest(ModePartial)
		req.ExplicitAmount = decimal.RequireFromString(amount)

		_, rerr := Apply(account("500.00", "500.00"), req)
		if rerr == nil || rerr.Reason != ReasonNonPositiveAmount {
			t.Fatalf("amount %s: expected %s, got %v", amount, ReasonNonPositiveAmount, rerr)
		}
	}
}

func TestApply_RequiresPaymentDateAndBankAccount(t *testing.T) {
	req := validRequest(ModeTotal)
	req.PaymentDate = time.Time{}
	if _, rerr := Apply(account("500.00", "500.00"), req); rerr == nil || rerr.Reason != ReasonMissingRequiredField {
		t.Fatalf("expected %s for missing date, got %v", ReasonMissingRequiredField, rerr)
	}

	req = validRequest(ModeTotal)
	req.BankAccountRef = ""
	if _, rerr := Apply(account("500.00", "500.00"), req); rerr == nil || rerr.Reason != ReasonMissingRequiredField {
		t.Fatalf("expected %s for missing bank account, got %v", ReasonMissingRequiredField, rerr)
	}
}

func TestApply_PartialSequenceDrainsOutstandingWithoutDrift(t *testing.T) {
	acc := account("500.00", "500.00")
	for i := 0; i < 4; i++ {
		req := validRequest(ModePartial)
		req.ExplicitAmount = decimal.RequireFromString("100.00")
		res, rerr := Apply(acc, req)
		if rerr != nil {
			t.Fatalf("payment %d: unexpected error: %v", i, rerr)
		}
		acc.OutstandingAmount = res.NewOutstanding
	}
	if !acc.OutstandingAmount.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("expected outstanding 100.00 after four partials, got %s", acc.OutstandingAmount)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("total"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseMode("partial"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseMode("installment"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
