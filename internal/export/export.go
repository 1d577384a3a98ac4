// Package export converts an extracted schedule into an iCalendar feed so
// a person's planning can be subscribed to from a regular calendar client.
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"planboard/internal/model"
)

// slotHours maps each shift slot to its local start/end hour.
var slotHours = map[model.Slot][2]int{
	model.SlotMorning: {7, 12},
	model.SlotDay:     {12, 18},
	model.SlotEvening: {18, 22},
}

// Options controls ICS generation.
type Options struct {
	// Person selects which grid entry to export; required.
	Person string
	// Location is the timezone events are anchored in. If nil, time.Local.
	Location *time.Location
	// ProdID overrides the calendar PRODID line.
	ProdID string
}

// GridToICS renders one person's non-empty events from grid into an ICS
// payload. The period supplies year and month; export fails when either is
// missing or the month name is not recognized, since event timestamps
// cannot be anchored without them.
func GridToICS(grid *model.ScheduleGrid, period *model.Period, opts Options) (string, error) {
	if grid == nil || period == nil {
		return "", fmt.Errorf("export: grid and period are required")
	}
	if opts.Person == "" {
		return "", fmt.Errorf("export: person is required")
	}

	ps, ok := grid.Users[opts.Person]
	if !ok {
		return "", fmt.Errorf("export: person %q not in grid", opts.Person)
	}

	month, ok := monthFromName(period.Month)
	if !ok {
		return "", fmt.Errorf("export: unrecognized month %q", period.Month)
	}
	if period.Year == 0 {
		return "", fmt.Errorf("export: period has no usable year (raw %q)", period.YearRaw)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	if opts.ProdID != "" {
		cal.SetProductId(opts.ProdID)
	}

	now := time.Now().In(loc)

	// Deterministic output: walk days and slots in fixed order.
	days := make([]int, 0, len(ps.Days))
	for d := range ps.Days {
		days = append(days, d)
	}
	sort.Ints(days)

	for _, day := range days {
		slots := ps.Days[day]
		for _, slot := range model.Slots {
			ev, ok := slots[slot]
			if !ok || ev.IsEmpty || ev.Type == model.TypeWeekend {
				continue
			}

			hours := slotHours[slot]
			start := time.Date(period.Year, month, day, hours[0], 0, 0, 0, loc)
			end := time.Date(period.Year, month, day, hours[1], 0, 0, 0, loc)

			uid := fmt.Sprintf("%s-%04d%02d%02d-%s@planboard",
				sanitizeUID(opts.Person), period.Year, int(month), day, slot)

			ve := cal.AddEvent(uid)
			ve.SetDtStampTime(now)
			ve.SetStartAt(start)
			ve.SetEndAt(end)
			ve.SetSummary(eventSummary(ev))
			if desc := eventDescription(ev); desc != "" {
				ve.SetDescription(desc)
			}
		}
	}

	return cal.Serialize(), nil
}

// monthFromName resolves a French month name (any case, accented or plain
// spelling) to a time.Month.
func monthFromName(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(frenchMonthNames[m], name) || strings.EqualFold(plainMonthNames[m], name) {
			return m, true
		}
	}
	return 0, false
}

var frenchMonthNames = map[time.Month]string{
	time.January: "janvier", time.February: "février", time.March: "mars",
	time.April: "avril", time.May: "mai", time.June: "juin",
	time.July: "juillet", time.August: "août", time.September: "septembre",
	time.October: "octobre", time.November: "novembre", time.December: "décembre",
}

var plainMonthNames = map[time.Month]string{
	time.January: "janvier", time.February: "fevrier", time.March: "mars",
	time.April: "avril", time.May: "mai", time.June: "juin",
	time.July: "juillet", time.August: "aout", time.September: "septembre",
	time.October: "octobre", time.November: "novembre", time.December: "decembre",
}

func eventSummary(ev model.Event) string {
	if ev.Content != "" {
		return fmt.Sprintf("%s (%s)", ev.Content, ev.Type)
	}
	return string(ev.Type)
}

func eventDescription(ev model.Event) string {
	parts := make([]string, 0, 2)
	if ev.Comment != "" {
		parts = append(parts, ev.Comment)
	}
	if ev.LastModifiedAt != "" {
		parts = append(parts, fmt.Sprintf("modified %s by %s", ev.LastModifiedAt, ev.LastModifiedBy))
	}
	return strings.Join(parts, "\n")
}

func sanitizeUID(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, s)
}
