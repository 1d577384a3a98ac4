package planning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"planboard/internal/model"
)

// personSectionSelector matches the body sections that hold one person's
// three slot rows (distinct from the header body).
const personSectionSelector = "tbody.ressource"

// slotRowCount is the fixed number of shift rows per person section; it is
// also the rowspan value the site puts on merged leading cells.
const slotRowCount = len(model.Slots)

// ExtractGrid extracts the per-day, per-slot event grid.
//
// personIndex selects one person section by position (0-based); pass a
// negative index to extract every person. daysFilter restricts extraction
// to the given days; nil or empty means all days.
//
// ExtractGrid is total: structural problems (missing table, short
// sections) are reported through the result's Error field with whatever
// was extracted so far, and internal faults are recovered at this boundary.
func ExtractGrid(doc *goquery.Document, personIndex int, daysFilter []int) (grid model.ScheduleGrid) {
	defer func() {
		if r := recover(); r != nil {
			grid.Error = joinNotes(grid.Error, fmt.Sprintf("grid extraction fault: %v", r))
		}
	}()

	grid.Users = make(map[string]model.PersonSchedule)

	table, _, _ := LocateMainTable(doc)
	if table == nil {
		return grid
	}

	sections := table.Find(personSectionSelector)
	if sections.Length() == 0 {
		return grid
	}

	wanted := newDaySet(daysFilter)
	var notes []string

	extractOne := func(idx int, body *goquery.Selection) {
		name := extractPersonName(personNameCell(body))
		if name == "" {
			name = "person_" + strconv.Itoa(idx+1)
		}
		days, err := extractPersonDays(body, wanted)
		if err != nil {
			notes = append(notes, fmt.Sprintf("%s: %v", name, err))
		}
		grid.Users[name] = model.PersonSchedule{Days: days}
	}

	if personIndex >= 0 {
		if personIndex >= sections.Length() {
			grid.Error = fmt.Sprintf("person index %d out of range (%d person sections)", personIndex, sections.Length())
			return grid
		}
		extractOne(personIndex, sections.Eq(personIndex))
	} else {
		sections.Each(extractOne)
	}

	grid.Error = joinNotes(grid.Error, strings.Join(notes, "; "))
	grid.Summary = model.Summarize(&grid)
	return grid
}

// extractPersonDays walks the three slot rows of one person section.
//
// The morning row's leading cell(s) are marked rowspan=3 and shared with
// the two rows below, so the morning row carries extra cells the other rows
// do not repeat. The number of cells to skip is counted from the markup,
// not assumed.
func extractPersonDays(body *goquery.Selection, wanted map[int]bool) (map[int]model.DaySchedule, error) {
	days := make(map[int]model.DaySchedule)

	rows := body.Find("tr")
	var err error
	if rows.Length() < slotRowCount {
		err = fmt.Errorf("expected %d slot rows, found %d", slotRowCount, rows.Length())
	}

	for si, slot := range model.Slots {
		if si >= rows.Length() {
			break
		}
		row := rows.Eq(si)
		cells := row.Find("td")

		skip := 0
		if si == 0 {
			skip = leadingSpannedCells(cells)
		}

		pos := 0
		cells.Each(func(ci int, cell *goquery.Selection) {
			if ci < skip {
				return
			}
			pos++

			res := ResolveDay(cell, pos)
			if !res.Resolved() {
				return
			}
			if wanted != nil && !wanted[res.Day] {
				return
			}

			if days[res.Day] == nil {
				days[res.Day] = make(model.DaySchedule)
			}
			days[res.Day][slot] = Classify(cell)
		})
	}

	return days, err
}

// leadingSpannedCells counts how many leading cells span all slot rows.
// Counting (rather than hardcoding) matters: layouts with one or two merged
// leading columns have both been observed, and a wrong constant silently
// shifts every day by one.
func leadingSpannedCells(cells *goquery.Selection) int {
	span := strconv.Itoa(slotRowCount)
	count := 0
	cells.EachWithBreak(func(_ int, cell *goquery.Selection) bool {
		if strings.TrimSpace(cell.AttrOr("rowspan", "")) != span {
			return false
		}
		count++
		return true
	})
	return count
}

// newDaySet converts a days filter into a lookup set; nil means all days.
func newDaySet(days []int) map[int]bool {
	if len(days) == 0 {
		return nil
	}
	set := make(map[int]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	return set
}

func joinNotes(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}
