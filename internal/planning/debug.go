package planning

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"planboard/internal/model"
)

// Debug introspection for markup drift. These entry points expose the raw
// intermediate signals the extractors act on, so that a change on the
// planning site can be diagnosed from API output instead of from a browser
// inspector. They are not used on normal extraction paths.

// CellDebug is the full signal set for one cell.
type CellDebug struct {
	CellID        string        `json:"cell_id,omitempty"`
	CellClasses   []string      `json:"cell_classes"`
	AnchorID      string        `json:"anchor_id,omitempty"`
	AnchorClasses []string      `json:"anchor_classes"`
	AnchorHref    string        `json:"anchor_href,omitempty"`
	ContentLabel  string        `json:"content_label,omitempty"`
	CommentText   string        `json:"comment_text,omitempty"`
	Day           DayResolution `json:"day"`
	Event         model.Event   `json:"event"`
}

// DayDebug is the per-slot signal set for one (person, day) pair.
type DayDebug struct {
	PersonIndex   int                      `json:"person_index"`
	Person        string                   `json:"person,omitempty"`
	Day           int                      `json:"day"`
	RowspanOffset int                      `json:"rowspan_offset"`
	Slots         map[model.Slot]CellDebug `json:"slots"`
	Error         string                   `json:"error,omitempty"`
}

// DebugCell captures every signal the day resolver and classifier read from
// a single cell. The day cascade runs without a positional fallback, so an
// untagged cell shows up as unresolved here rather than defaulting.
func DebugCell(cell *goquery.Selection) CellDebug {
	dbg := CellDebug{
		CellClasses:   []string{},
		AnchorClasses: []string{},
	}
	if cell == nil || cell.Length() == 0 {
		dbg.Day = ResolveDay(cell, 0)
		dbg.Event = Classify(cell)
		return dbg
	}

	dbg.CellID = cell.AttrOr("id", "")
	dbg.CellClasses = append(dbg.CellClasses, classTokens(cell)...)

	a := cell.Find("a").First()
	if a.Length() > 0 {
		dbg.AnchorID = a.AttrOr("id", "")
		dbg.AnchorClasses = append(dbg.AnchorClasses, classTokens(a)...)
		dbg.AnchorHref = a.AttrOr("href", "")
	}

	dbg.ContentLabel = strings.TrimSpace(cell.Find("a div.href").First().Text())
	dbg.CommentText = strings.TrimSpace(cell.Find("span.notooltip").First().Text())

	dbg.Day = ResolveDay(cell, 0)
	dbg.Event = Classify(cell)
	return dbg
}

// DebugDay inspects one person's three slot cells for a single day,
// including the computed rowspan offset that was the historical source of
// silent day misalignment.
func DebugDay(doc *goquery.Document, day, personIndex int) DayDebug {
	dbg := DayDebug{
		PersonIndex: personIndex,
		Day:         day,
		Slots:       make(map[model.Slot]CellDebug),
	}

	table, _, _ := LocateMainTable(doc)
	if table == nil {
		dbg.Error = "main table not found"
		return dbg
	}

	sections := table.Find(personSectionSelector)
	if personIndex < 0 || personIndex >= sections.Length() {
		dbg.Error = fmt.Sprintf("person index %d out of range (%d person sections)", personIndex, sections.Length())
		return dbg
	}

	body := sections.Eq(personIndex)
	dbg.Person = extractPersonName(personNameCell(body))

	rows := body.Find("tr")
	if rows.Length() < slotRowCount {
		dbg.Error = fmt.Sprintf("expected %d slot rows, found %d", slotRowCount, rows.Length())
	}

	for si, slot := range model.Slots {
		if si >= rows.Length() {
			break
		}
		cells := rows.Eq(si).Find("td")

		skip := 0
		if si == 0 {
			skip = leadingSpannedCells(cells)
			dbg.RowspanOffset = skip
		}

		pos := 0
		cells.EachWithBreak(func(ci int, cell *goquery.Selection) bool {
			if ci < skip {
				return true
			}
			pos++
			if res := ResolveDay(cell, pos); res.Day == day {
				dbg.Slots[slot] = DebugCell(cell)
				return false
			}
			return true
		})
	}

	return dbg
}
