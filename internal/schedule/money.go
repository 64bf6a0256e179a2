package schedule

import (
	"github.com/shopspring/decimal"
)

type CurrencyScale int32

const DefaultCurrencyScale CurrencyScale = 2

// RoundCents rounds an amount to cent precision using half-up rounding.
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(int32(DefaultCurrencyScale))
}

// RedistributeRemainder forces a list of rounded amounts to sum exactly to
// target by applying the whole difference to the last element.
//
// The correction is intentionally not spread across rows: the last installment
// absorbing the remainder is a user-visible policy, and it gives a single
// predictable correction point when reconciling against the originating total.
func RedistributeRemainder(amounts []decimal.Decimal, target decimal.Decimal) []decimal.Decimal {
	if len(amounts) == 0 {
		return amounts
	}

	sum := decimal.Zero
	for _, a := range amounts {
		sum = sum.Add(a)
	}

	diff := target.Round(int32(DefaultCurrencyScale)).Sub(sum)
	if diff.IsZero() {
		return amounts
	}

	out := make([]decimal.Decimal, len(amounts))
	copy(out, amounts)
	last := len(out) - 1
	out[last] = RoundCents(out[last].Add(diff))
	return out
}
