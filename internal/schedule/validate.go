package schedule

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Validate re-checks an installment plan before it is persisted. Plans are
// user-editable between generation and submission, so a plan that came out of
// Generate can still arrive here broken.
func Validate(installments []Installment, total decimal.Decimal) error {
	if len(installments) == 0 || len(installments) > MaxInstallments {
		return ValidationError{
			Code:    "PLAN_LENGTH_INVALID",
			Message: fmt.Sprintf("plan must have between 1 and %d installments", MaxInstallments),
		}
	}

	sum := decimal.Zero
	for _, ins := range installments {
		if ins.Amount.LessThanOrEqual(decimal.Zero) {
			return ValidationError{
				Code:    "INSTALLMENT_AMOUNT_INVALID",
				Message: fmt.Sprintf("installment %d amount must be > 0", ins.Number),
			}
		}
		if ins.DueDate.IsZero() {
			return ValidationError{
				Code:    "INSTALLMENT_DUE_DATE_INVALID",
				Message: fmt.Sprintf("installment %d is missing a due date", ins.Number),
			}
		}
		sum = sum.Add(ins.Amount)
	}

	if !sum.Equal(total.Round(int32(DefaultCurrencyScale))) {
		return ValidationError{
			Code:    "PLAN_SUM_MISMATCH",
			Message: fmt.Sprintf("installments sum to %s, order total is %s", sum, total),
		}
	}

	return nil
}
