package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerate_MonthlyThreeWay(t *testing.T) {
	total := decimal.RequireFromString("1000.00")
	got := Generate(total, date(2024, time.January, 1), Intent{Kind: IntentByCount, Count: 3}, false)

	if len(got) != 3 {
		t.Fatalf("expected 3 installments, got %d", len(got))
	}

	wantAmounts := []string{"333.33", "333.33", "333.34"}
	wantDates := []time.Time{
		date(2024, time.January, 31),
		date(2024, time.March, 1),
		date(2024, time.March, 31),
	}
	sum := decimal.Zero
	for i, ins := range got {
		if ins.Number != i+1 {
			t.Fatalf("installment %d: expected number %d, got %d", i, i+1, ins.Number)
		}
		if !ins.Amount.Equal(decimal.RequireFromString(wantAmounts[i])) {
			t.Fatalf("installment %d: expected amount %s, got %s", i, wantAmounts[i], ins.Amount)
		}
		if !ins.DueDate.Equal(wantDates[i]) {
			t.Fatalf("installment %d: expected due %s, got %s", i, wantDates[i], ins.DueDate)
		}
		sum = sum.Add(ins.Amount)
	}
	if !sum.Equal(total) {
		t.Fatalf("expected sum %s, got %s", total, sum)
	}
}

func TestGenerate_GroupedWeeklyBuckets(t *testing.T) {
	total := decimal.RequireFromString("600.00")
	// 2024-03-06 is a Wednesday; the bucket week starts Monday 2024-03-04.
	got := Generate(total, date(2024, time.March, 6), Intent{Kind: IntentByCount, Count: 2}, true)

	if len(got) != 2 {
		t.Fatalf("expected 2 installments, got %d", len(got))
	}
	if !got[0].DueDate.Equal(date(2024, time.March, 15)) {
		t.Fatalf("expected first due 2024-03-15, got %s", got[0].DueDate)
	}
	if !got[1].DueDate.Equal(date(2024, time.March, 22)) {
		t.Fatalf("expected second due 2024-03-22, got %s", got[1].DueDate)
	}
	for i, ins := range got {
		if !ins.Amount.Equal(decimal.RequireFromString("300.00")) {
			t.Fatalf("installment %d: expected 300.00, got %s", i, ins.Amount)
		}
	}
}

func TestGenerate_GroupedDueDatesAreFridaysSevenDaysApart(t *testing.T) {
	total := decimal.RequireFromString("840.55")
	// One anchor per weekday.
	for day := 4; day <= 10; day++ {
		got := Generate(total, date(2024, time.March, day), Intent{Kind: IntentByCount, Count: 6}, true)
		for i, ins := range got {
			if ins.DueDate.Weekday() != time.Friday {
				t.Fatalf("anchor day %d installment %d: due %s is a %s, expected Friday",
					day, i, ins.DueDate, ins.DueDate.Weekday())
			}
			if i > 0 {
				if gap := ins.DueDate.Sub(got[i-1].DueDate); gap != 7*24*time.Hour {
					t.Fatalf("anchor day %d: expected 7-day gap, got %s", day, gap)
				}
			}
		}
	}
}

func TestGenerate_GroupedSundayAnchorStepsBackSixDays(t *testing.T) {
	// 2024-03-10 is a Sunday; its bucket week starts Monday 2024-03-04.
	got := Generate(decimal.RequireFromString("100.00"), date(2024, time.March, 10), Intent{Kind: IntentByCount, Count: 1}, true)
	if !got[0].DueDate.Equal(date(2024, time.March, 15)) {
		t.Fatalf("expected due 2024-03-15, got %s", got[0].DueDate)
	}
}

func TestGenerate_Offsets(t *testing.T) {
	total := decimal.RequireFromString("150.00")
	got := Generate(total, date(2024, time.May, 1), Intent{Kind: IntentByOffsets, Offsets: []int{30, 60, 90}}, false)

	wantDates := []time.Time{
		date(2024, time.May, 31),
		date(2024, time.June, 30),
		date(2024, time.July, 30),
	}
	for i, ins := range got {
		if !ins.Amount.Equal(decimal.RequireFromString("50.00")) {
			t.Fatalf("installment %d: expected 50.00, got %s", i, ins.Amount)
		}
		if !ins.DueDate.Equal(wantDates[i]) {
			t.Fatalf("installment %d: expected due %s, got %s", i, wantDates[i], ins.DueDate)
		}
	}
}

func TestGenerate_OffsetsKeepSuppliedOrder(t *testing.T) {
	got := Generate(decimal.RequireFromString("90.00"), date(2024, time.May, 1), Intent{Kind: IntentByOffsets, Offsets: []int{60, 15, 45}}, false)
	wantDates := []time.Time{
		date(2024, time.June, 30),
		date(2024, time.May, 16),
		date(2024, time.June, 15),
	}
	for i, ins := range got {
		if !ins.DueDate.Equal(wantDates[i]) {
			t.Fatalf("installment %d: expected due %s, got %s", i, wantDates[i], ins.DueDate)
		}
	}
}

func TestGenerate_SumInvariantAcrossCounts(t *testing.T) {
	for _, totalStr := range []string{"1000.00", "99.99", "0.13", "123456.78", "100.01"} {
		total := decimal.RequireFromString(totalStr)
		for count := 1; count <= MaxInstallments; count++ {
			got := Generate(total, date(2024, time.January, 15), Intent{Kind: IntentByCount, Count: count}, false)
			if len(got) != count {
				t.Fatalf("total %s count %d: got %d installments", totalStr, count, len(got))
			}
			sum := decimal.Zero
			for _, ins := range got {
				sum = sum.Add(ins.Amount)
			}
			if !sum.Equal(total) {
				t.Fatalf("total %s count %d: sum %s", totalStr, count, sum)
			}
		}
	}
}

func TestGenerate_SumInvariantAcrossOffsetCounts(t *testing.T) {
	total := decimal.RequireFromString("777.77")
	for n := 1; n <= MaxInstallments; n++ {
		offsets := make([]int, n)
		for i := range offsets {
			offsets[i] = 15 * (i + 1)
		}
		got := Generate(total, date(2024, time.January, 15), Intent{Kind: IntentByOffsets, Offsets: offsets}, false)
		if len(got) != n {
			t.Fatalf("%d offsets: got %d installments", n, len(got))
		}
		sum := decimal.Zero
		for _, ins := range got {
			sum = sum.Add(ins.Amount)
		}
		if !sum.Equal(total) {
			t.Fatalf("%d offsets: sum %s", n, sum)
		}
	}
}

func TestGenerate_OnlyLastRowDiffersFromEvenSplit(t *testing.T) {
	total := decimal.RequireFromString("100.00")
	got := Generate(total, date(2024, time.January, 1), Intent{Kind: IntentByCount, Count: 7}, false)

	even := RoundCents(total.Div(decimal.NewFromInt(7)))
	for i := 0; i < len(got)-1; i++ {
		if !got[i].Amount.Equal(even) {
			t.Fatalf("installment %d: expected even split %s, got %s", i, even, got[i].Amount)
		}
	}
}

func TestRedistributeRemainder_AppliesWholeDiffToLast(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("33.33"),
		decimal.RequireFromString("33.33"),
		decimal.RequireFromString("33.33"),
	}
	got := RedistributeRemainder(amounts, decimal.RequireFromString("100.00"))
	if !got[0].Equal(amounts[0]) || !got[1].Equal(amounts[1]) {
		t.Fatalf("leading rows must be untouched, got %v", got)
	}
	if !got[2].Equal(decimal.RequireFromString("33.34")) {
		t.Fatalf("expected last row 33.34, got %s", got[2])
	}
}

func TestRedistributeRemainder_NoDiffLeavesAmountsAlone(t *testing.T) {
	amounts := []decimal.Decimal{
		decimal.RequireFromString("50.00"),
		decimal.RequireFromString("50.00"),
	}
	got := RedistributeRemainder(amounts, decimal.RequireFromString("100.00"))
	for i := range got {
		if !got[i].Equal(amounts[i]) {
			t.Fatalf("row %d changed: %s", i, got[i])
		}
	}
}
