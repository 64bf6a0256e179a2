package schedule

import (
	"time"

	"github.com/shopspring/decimal"
)

// Installment is one amount/due-date row in a payment plan. Number is the
// 1-based position within the plan.
type Installment struct {
	Number  int             `json:"number"`
	Amount  decimal.Decimal `json:"amount"`
	DueDate time.Time       `json:"dueDate"`
}

// monthStepDays is the fixed step for count-based ungrouped plans.
// Deliberately 30 flat days rather than calendar-month arithmetic; the
// back office has always scheduled this way and existing plans depend on it.
const monthStepDays = 30

// settlementGraceDays is added after a grouped bucket's Sunday close so the
// due date always lands on the Friday of the following week.
const settlementGraceDays = 5

// Generate expands an Intent into the full installment plan for an order.
//
// Amounts are total/n rounded per row, with any rounding remainder applied to
// the last row so the plan sums exactly to total. Due date placement depends
// on the intent:
//   - count-based, ungrouped: anchor + 30, 60, 90, ... days
//   - count-based, grouped: weekly buckets starting from the Monday on or
//     before the anchor; each bucket is due the Friday after its Sunday close
//   - offset-based: anchor + each supplied day offset, in supplied order
//     (offsets are not sorted; display order follows user input)
//
// Generate cannot fail on an Intent produced by ParseSpec. Plans are editable
// after generation, so callers revalidate with Validate before persisting.
func Generate(total decimal.Decimal, anchor time.Time, intent Intent, grouped bool) []Installment {
	anchor = dateOnly(anchor)

	if intent.Kind == IntentByOffsets {
		n := len(intent.Offsets)
		amounts := splitEven(total, n)
		out := make([]Installment, n)
		for i, off := range intent.Offsets {
			out[i] = Installment{
				Number:  i + 1,
				Amount:  amounts[i],
				DueDate: anchor.AddDate(0, 0, off),
			}
		}
		return out
	}

	n := intent.Count
	amounts := splitEven(total, n)
	out := make([]Installment, n)

	if grouped {
		firstMonday := mondayOnOrBefore(anchor)
		for i := 0; i < n; i++ {
			weekEnd := firstMonday.AddDate(0, 0, 7*i+6)
			out[i] = Installment{
				Number:  i + 1,
				Amount:  amounts[i],
				DueDate: weekEnd.AddDate(0, 0, settlementGraceDays),
			}
		}
		return out
	}

	for i := 0; i < n; i++ {
		out[i] = Installment{
			Number:  i + 1,
			Amount:  amounts[i],
			DueDate: anchor.AddDate(0, 0, monthStepDays*(i+1)),
		}
	}
	return out
}

// splitEven divides total into n per-row rounded amounts that sum exactly to
// total, the remainder landing on the last row.
func splitEven(total decimal.Decimal, n int) []decimal.Decimal {
	per := total.Div(decimal.NewFromInt(int64(n)))
	amounts := make([]decimal.Decimal, n)
	for i := range amounts {
		amounts[i] = RoundCents(per)
	}
	return RedistributeRemainder(amounts, total)
}

func mondayOnOrBefore(d time.Time) time.Time {
	switch wd := d.Weekday(); wd {
	case time.Sunday:
		return d.AddDate(0, 0, -6)
	default:
		return d.AddDate(0, 0, -(int(wd) - 1))
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
