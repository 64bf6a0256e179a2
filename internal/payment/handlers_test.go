package payment

import (
	"testing"
	"time"
)

func TestParseDueWindow_BothBounds(t *testing.T) {
	from, to, err := parseDueWindow("2024-06-01", "2024-06-30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.Equal(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected from 2024-06-01, got %s", from)
	}
	if !to.Equal(time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected to 2024-06-30, got %s", to)
	}
}

func TestParseDueWindow_OpenBoundsStayZero(t *testing.T) {
	from, to, err := parseDueWindow("", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !from.IsZero() || !to.IsZero() {
		t.Fatalf("expected zero bounds, got %s / %s", from, to)
	}

	from, to, err = parseDueWindow("2024-06-01", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if from.IsZero() || !to.IsZero() {
		t.Fatalf("expected open upper bound, got %s / %s", from, to)
	}
}

func TestParseDueWindow_RejectsBadFormat(t *testing.T) {
	if _, _, err := parseDueWindow("06/01/2024", ""); err == nil {
		t.Fatalf("expected error for bad dueFrom")
	}
	if _, _, err := parseDueWindow("", "yesterday"); err == nil {
		t.Fatalf("expected error for bad dueTo")
	}
}

func TestParseDueWindow_RejectsInvertedWindow(t *testing.T) {
	if _, _, err := parseDueWindow("2024-07-01", "2024-06-01"); err == nil {
		t.Fatalf("expected error for dueFrom after dueTo")
	}
}
