package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestValidate_AcceptsGeneratedPlan(t *testing.T) {
	total := decimal.RequireFromString("1000.00")
	plan := Generate(total, date(2024, time.January, 1), Intent{Kind: IntentByCount, Count: 3}, false)
	if err := Validate(plan, total); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RejectsEditedSumMismatch(t *testing.T) {
	total := decimal.RequireFromString("1000.00")
	plan := Generate(total, date(2024, time.January, 1), Intent{Kind: IntentByCount, Count: 3}, false)
	plan[1].Amount = plan[1].Amount.Add(decimal.RequireFromString("0.01"))

	err := Validate(plan, total)
	ve, ok := err.(ValidationError)
	if !ok || ve.Code != "PLAN_SUM_MISMATCH" {
		t.Fatalf("expected PLAN_SUM_MISMATCH, got %v", err)
	}
}

func TestValidate_RejectsNonPositiveAmount(t *testing.T) {
	plan := []Installment{
		{Number: 1, Amount: decimal.RequireFromString("100.00"), DueDate: date(2024, time.February, 1)},
		{Number: 2, Amount: decimal.Zero, DueDate: date(2024, time.March, 1)},
	}
	err := Validate(plan, decimal.RequireFromString("100.00"))
	ve, ok := err.(ValidationError)
	if !ok || ve.Code != "INSTALLMENT_AMOUNT_INVALID" {
		t.Fatalf("expected INSTALLMENT_AMOUNT_INVALID, got %v", err)
	}
}

func TestValidate_RejectsEmptyAndOversizedPlans(t *testing.T) {
	if err := Validate(nil, decimal.RequireFromString("10.00")); err == nil {
		t.Fatalf("expected error for empty plan")
	}

	var plan []Installment
	for i := 0; i < MaxInstallments+1; i++ {
		plan = append(plan, Installment{Number: i + 1, Amount: decimal.RequireFromString("1.00"), DueDate: date(2024, time.February, 1)})
	}
	if err := Validate(plan, decimal.RequireFromString("13.00")); err == nil {
		t.Fatalf("expected error for oversized plan")
	}
}

func TestValidate_RejectsMissingDueDate(t *testing.T) {
	plan := []Installment{
		{Number: 1, Amount: decimal.RequireFromString("100.00")},
	}
	err := Validate(plan, decimal.RequireFromString("100.00"))
	ve, ok := err.(ValidationError)
	if !ok || ve.Code != "INSTALLMENT_DUE_DATE_INVALID" {
		t.Fatalf("expected INSTALLMENT_DUE_DATE_INVALID, got %v", err)
	}
}
