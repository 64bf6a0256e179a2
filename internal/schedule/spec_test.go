package schedule

import "testing"

func TestParseSpec_CountForm(t *testing.T) {
	intent, perr := ParseSpec("3x", false)
	if perr != nil {
		t.Fatalf("unexpected error: %v", perr)
	}
	if intent.Kind != IntentByCount || intent.Count != 3 {
		t.Fatalf("expected ByCount{3}, got %+v", intent)
	}
}

func TestParseSpec_CountFormCaseInsensitive(t *testing.T) {
	intent, perr := ParseSpec("2X", false)
	if perr != nil {
		t.Fatalf("unexpected error: %v", perr)
	}
	if intent.Kind != IntentByCount || intent.Count != 2 {
		t.Fatalf("expected ByCount{2}, got %+v", intent)
	}
}

func TestParseSpec_CountFormAcceptedForGrouped(t *testing.T) {
	intent, perr := ParseSpec("3x", true)
	if perr != nil {
		t.Fatalf("unexpected error: %v", perr)
	}
	if intent.Kind != IntentByCount || intent.Count != 3 {
		t.Fatalf("expected ByCount{3}, got %+v", intent)
	}
}

func TestParseSpec_OffsetsRejectedForGrouped(t *testing.T) {
	_, perr := ParseSpec("30/60/90", true)
	if perr == nil {
		t.Fatalf("expected error")
	}
	if perr.Reason != ReasonInvalidFormatForGrouped {
		t.Fatalf("expected %s, got %s", ReasonInvalidFormatForGrouped, perr.Reason)
	}
}

func TestParseSpec_CountBounds(t *testing.T) {
	if _, perr := ParseSpec("13x", false); perr == nil || perr.Reason != ReasonCountOutOfRange {
		t.Fatalf("expected %s for 13x, got %v", ReasonCountOutOfRange, perr)
	}
	if _, perr := ParseSpec("0x", false); perr == nil || perr.Reason != ReasonCountOutOfRange {
		t.Fatalf("expected %s for 0x, got %v", ReasonCountOutOfRange, perr)
	}
	if _, perr := ParseSpec("12x", false); perr != nil {
		t.Fatalf("unexpected error for 12x: %v", perr)
	}
}

func TestParseSpec_OffsetsSlashAndComma(t *testing.T) {
	for _, text := range []string{"30/60/90", "30,60,90"} {
		intent, perr := ParseSpec(text, false)
		if perr != nil {
			t.Fatalf("%s: unexpected error: %v", text, perr)
		}
		if intent.Kind != IntentByOffsets {
			t.Fatalf("%s: expected ByOffsets, got %+v", text, intent)
		}
		want := []int{30, 60, 90}
		for i, off := range intent.Offsets {
			if off != want[i] {
				t.Fatalf("%s: expected offsets %v, got %v", text, want, intent.Offsets)
			}
		}
	}
}

func TestParseSpec_OffsetsPreserveInputOrder(t *testing.T) {
	intent, perr := ParseSpec("90/30/60", false)
	if perr != nil {
		t.Fatalf("unexpected error: %v", perr)
	}
	want := []int{90, 30, 60}
	for i, off := range intent.Offsets {
		if off != want[i] {
			t.Fatalf("expected offsets %v, got %v", want, intent.Offsets)
		}
	}
}

func TestParseSpec_OffsetsCountBound(t *testing.T) {
	_, perr := ParseSpec("1/2/3/4/5/6/7/8/9/10/11/12/13", false)
	if perr == nil || perr.Reason != ReasonOffsetsCountOutOfRange {
		t.Fatalf("expected %s, got %v", ReasonOffsetsCountOutOfRange, perr)
	}
}

func TestParseSpec_GarbageRejectedForUngrouped(t *testing.T) {
	for _, text := range []string{"", "abc", "3x3", "30", "30/", "/30", "30//60"} {
		_, perr := ParseSpec(text, false)
		if perr == nil {
			t.Fatalf("%q: expected error", text)
		}
		if perr.Reason != ReasonInvalidFormatForUngrouped {
			t.Fatalf("%q: expected %s, got %s", text, ReasonInvalidFormatForUngrouped, perr.Reason)
		}
	}
}
