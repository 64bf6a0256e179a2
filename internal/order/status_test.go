package order

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusScheduled, true},
		{StatusDraft, StatusSettled, false},
		{StatusScheduled, StatusScheduled, true}, // regeneration keeps the order scheduled
		{StatusScheduled, StatusSettled, true},
		{StatusSettled, StatusScheduled, false},
		{StatusCancelled, StatusScheduled, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s, %s): expected %v, got %v", c.from, c.to, c.want, got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("Scheduled"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("Shipped"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
}
