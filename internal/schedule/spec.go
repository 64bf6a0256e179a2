package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MaxInstallments bounds both count-based and offset-based plans.
const MaxInstallments = 12

type IntentKind string

const (
	IntentByCount   IntentKind = "by_count"
	IntentByOffsets IntentKind = "by_offsets"
)

// Intent is the structured form of a user-entered installment spec.
// Count is set for IntentByCount; Offsets (day offsets from the anchor date,
// in the order the user supplied them) for IntentByOffsets.
type Intent struct {
	Kind    IntentKind
	Count   int
	Offsets []int
}

type ParseReason string

const (
	ReasonInvalidFormatForGrouped   ParseReason = "INVALID_FORMAT_FOR_GROUPED"
	ReasonInvalidFormatForUngrouped ParseReason = "INVALID_FORMAT_FOR_UNGROUPED"
	ReasonCountOutOfRange           ParseReason = "COUNT_OUT_OF_RANGE"
	ReasonOffsetsCountOutOfRange    ParseReason = "OFFSETS_COUNT_OUT_OF_RANGE"
)

// ParseError is returned as a value, never panicked: bad installment specs are
// routine user input and the caller renders a distinct message per reason.
type ParseError struct {
	Reason  ParseReason
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

var (
	countSpecRe   = regexp.MustCompile(`(?i)^(\d+)x$`)
	offsetsSpecRe = regexp.MustCompile(`^(\d+)([/,](\d+))+$`)
)

// ParseSpec parses a free-text installment spec ("3x", "30/60/90", "30,60,90")
// into an Intent.
//
// Grouped orders consolidate on a rolling weekly basis and must settle in
// whole weekly buckets, so only the count form ("Nx") is accepted for them.
func ParseSpec(text string, grouped bool) (Intent, *ParseError) {
	text = strings.TrimSpace(text)

	if m := countSpecRe.FindStringSubmatch(text); m != nil {
		count, err := strconv.Atoi(m[1])
		if err != nil || count < 1 || count > MaxInstallments {
			return Intent{}, &ParseError{
				Reason:  ReasonCountOutOfRange,
				Message: fmt.Sprintf("installment count must be between 1 and %d", MaxInstallments),
			}
		}
		return Intent{Kind: IntentByCount, Count: count}, nil
	}

	if grouped {
		return Intent{}, &ParseError{
			Reason:  ReasonInvalidFormatForGrouped,
			Message: "grouped orders accept only a count spec such as 3x",
		}
	}

	if !offsetsSpecRe.MatchString(text) {
		return Intent{}, &ParseError{
			Reason:  ReasonInvalidFormatForUngrouped,
			Message: "expected a count spec such as 3x or day offsets such as 30/60/90",
		}
	}

	parts := strings.FieldsFunc(text, func(r rune) bool { return r == '/' || r == ',' })
	if len(parts) > MaxInstallments {
		return Intent{}, &ParseError{
			Reason:  ReasonOffsetsCountOutOfRange,
			Message: fmt.Sprintf("at most %d day offsets are allowed", MaxInstallments),
		}
	}

	offsets := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Intent{}, &ParseError{
				Reason:  ReasonInvalidFormatForUngrouped,
				Message: "day offsets must be non-negative integers",
			}
		}
		offsets = append(offsets, n)
	}

	return Intent{Kind: IntentByOffsets, Offsets: offsets}, nil
}
