package planning

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"planboard/internal/model"
)

const (
	// weekendClass is the exact class token marking weekend columns.
	weekendClass = "weekend"

	// annotationStyleFragment identifies the inline-styled element carrying
	// "<timestamp> (<author>)" modification metadata.
	annotationStyleFragment = "font-size:9px"
)

// modificationRe parses the annotation text, e.g. "12/03/2024 14:32 (MARTIN P)".
var modificationRe = regexp.MustCompile(`(\d{2}/\d{2}/\d{4}(?:\s+\d{2}:\d{2}(?::\d{2})?)?)\s*\(([^)]+)\)`)

// classifyStage fills only the Event fields it owns and never overwrites a
// field set by an earlier stage. Precedence is the order of classifyStages.
type classifyStage struct {
	name  string
	apply func(cell *goquery.Selection, ev *model.Event)
}

var classifyStages = []classifyStage{
	{"weekend", stageWeekend},
	{"modification", stageModification},
	{"comment", stageComment},
	{"content", stageContent},
	{"color_type", stageColorType},
	{"content_type", stageContentType},
	{"finalize", stageFinalize},
}

// Classify inspects a single planning cell and produces its typed Event.
func Classify(cell *goquery.Selection) model.Event {
	ev := model.Event{IsEmpty: true}
	if cell == nil || cell.Length() == 0 {
		ev.Type = model.TypeEmpty
		return ev
	}
	for _, st := range classifyStages {
		st.apply(cell, &ev)
	}
	return ev
}

// stageWeekend: a weekend column is meaningful in itself, so it is never
// empty even with no content at all.
func stageWeekend(cell *goquery.Selection, ev *model.Event) {
	if cell.HasClass(weekendClass) {
		ev.IsWeekend = true
		ev.Type = model.TypeWeekend
		ev.IsEmpty = false
	}
}

// stageModification parses last-modified metadata. It never affects
// emptiness: an audit trail is not schedule content.
func stageModification(cell *goquery.Selection, ev *model.Event) {
	ann := cell.Find(`div[style*="` + annotationStyleFragment + `"]`).First()
	if ann.Length() == 0 {
		return
	}
	m := modificationRe.FindStringSubmatch(strings.TrimSpace(ann.Text()))
	if m == nil {
		return
	}
	ev.LastModifiedAt = strings.TrimSpace(m[1])
	ev.LastModifiedBy = strings.TrimSpace(m[2])
}

// stageComment: text inside the non-interactive wrapper, or failing that
// any rounded badge element. A comment alone makes the cell non-empty.
func stageComment(cell *goquery.Selection, ev *model.Event) {
	comment := strings.TrimSpace(cell.Find("span.notooltip").First().Text())
	if comment == "" {
		comment = strings.TrimSpace(cell.Find(".rounded").First().Text())
	}
	if comment == "" {
		return
	}
	ev.Comment = comment
	ev.IsEmpty = false
}

// stageContent: the primary label lives in a nested div.href inside the
// cell's anchor. Labels matching the context-menu denylist are artifacts of
// shared menu markup and are discarded.
func stageContent(cell *goquery.Selection, ev *model.Event) {
	label := strings.TrimSpace(cell.Find("a div.href").First().Text())
	if label == "" || contentDenylist[label] {
		return
	}
	ev.Content = label
}

// stageColorType consults the color class table. The first matching class
// token wins; a holiday color additionally raises the holiday flag. The
// weekend type from stage 1 is never overwritten.
func stageColorType(cell *goquery.Selection, ev *model.Event) {
	for _, tok := range classTokens(cell) {
		t, ok := colorTypes[tok]
		if !ok {
			continue
		}
		ev.ColorClass = tok
		ev.IsEmpty = false
		if holidayColors[tok] {
			ev.IsHoliday = true
		}
		if ev.Type == "" {
			ev.Type = t
		}
		return
	}
}

// stageContentType maps the cell label's short code to a type when no color
// class already decided one. Unrecognized non-empty content is "other".
func stageContentType(_ *goquery.Selection, ev *model.Event) {
	if ev.Type != "" || ev.Content == "" {
		return
	}
	if t, ok := contentTypes[ev.Content]; ok {
		ev.Type = t
	} else {
		ev.Type = model.TypeOther
	}
	ev.IsEmpty = false
}

// stageFinalize settles cells no earlier stage could type.
func stageFinalize(_ *goquery.Selection, ev *model.Event) {
	if ev.Type != "" {
		return
	}
	if ev.Comment != "" {
		ev.Type = model.TypeComment
		return
	}
	ev.Type = model.TypeEmpty
	ev.IsEmpty = true
}
