package planning

import (
	"fmt"
	"strings"
	"time"

	"planboard/internal/model"
)

// Verify cross-checks the extracted (year, month, weekday-of-day-1) triple
// against Gregorian calendar arithmetic.
//
// Day-number and weekday-label extraction are independently fragile; this
// is the only signal that the whole period was read correctly, so its
// message is meant for operators and must not be swallowed by callers.
func Verify(year int, month string, weekdayOf map[int]string) model.ConsistencyReport {
	wdRaw, hasDayOne := weekdayOf[1]
	if year == 0 || month == "" || !hasDayOne {
		return model.ConsistencyReport{
			IsConsistent: false,
			Message:      "insufficient data to verify period (need year, month and a weekday for day 1)",
		}
	}

	m, ok := frenchMonths[strings.ToLower(strings.TrimSpace(month))]
	if !ok {
		return model.ConsistencyReport{
			IsConsistent: false,
			Message:      fmt.Sprintf("unknown month name %q", month),
		}
	}

	extracted, ok := weekdayOrdinals[strings.ToLower(strings.TrimSpace(wdRaw))]
	if !ok {
		return model.ConsistencyReport{
			IsConsistent: false,
			Message:      fmt.Sprintf("unknown weekday abbreviation %q for day 1", wdRaw),
		}
	}

	// time.Weekday starts on Sunday; shift to 0=Monday.
	actual := (int(time.Date(year, m, 1, 0, 0, 0, 0, time.UTC).Weekday()) + 6) % 7

	if actual == extracted {
		return model.ConsistencyReport{
			IsConsistent: true,
			Message:      fmt.Sprintf("1 %s %d falls on %s, matching the planning header", month, year, weekdayNames[actual]),
		}
	}

	return model.ConsistencyReport{
		IsConsistent: false,
		Message: fmt.Sprintf("calendar mismatch: 1 %s %d should be %s but the planning header shows %s",
			month, year, weekdayNames[actual], weekdayNames[extracted]),
	}
}
