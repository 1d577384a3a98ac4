package planning

import (
	"planboard/internal/model"
)

// Raw-HTML entry points. Callers that already hold a parsed document should
// use the document-based extractors directly; these wrappers parse first
// and are what the HTTP layer consumes.

// RosterFromHTML parses rawHTML and extracts the roster.
func RosterFromHTML(rawHTML string) ([]string, error) {
	doc, err := ParseHTML(rawHTML)
	if err != nil {
		return []string{}, err
	}
	return ExtractRoster(doc), nil
}

// PeriodFromHTML parses rawHTML and extracts the calendar period. A parse
// failure is folded into the period's Error field: the function is total.
func PeriodFromHTML(rawHTML string) model.Period {
	doc, err := ParseHTML(rawHTML)
	if err != nil {
		return model.Period{
			Days:      []int{},
			WeekdayOf: []model.DayWeekday{},
			Error:     "html parse failed: " + err.Error(),
		}
	}
	return ExtractPeriod(doc)
}

// GridFromHTML parses rawHTML and extracts the schedule grid. personIndex
// < 0 extracts every person; daysFilter nil/empty extracts every day.
func GridFromHTML(rawHTML string, daysFilter []int, personIndex int) model.ScheduleGrid {
	doc, err := ParseHTML(rawHTML)
	if err != nil {
		return model.ScheduleGrid{
			Users: map[string]model.PersonSchedule{},
			Error: "html parse failed: " + err.Error(),
		}
	}
	return ExtractGrid(doc, personIndex, daysFilter)
}

// DebugDayFromHTML parses rawHTML and runs DebugDay.
func DebugDayFromHTML(rawHTML string, day, personIndex int) DayDebug {
	doc, err := ParseHTML(rawHTML)
	if err != nil {
		return DayDebug{
			PersonIndex: personIndex,
			Day:         day,
			Slots:       map[model.Slot]CellDebug{},
			Error:       "html parse failed: " + err.Error(),
		}
	}
	return DebugDay(doc, day, personIndex)
}
