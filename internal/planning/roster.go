package planning

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Person-name markup comes in three flavors depending on how the row was
// created on the site (assigned resource, manually typed, legacy import).
// Each flavor gets its own strategy; the first non-empty result wins.

// nameStrategy attempts to extract a "Lastname Firstname" display name from
// the leading cell of a person section.
type nameStrategy struct {
	name  string
	apply func(cell *goquery.Selection) string
}

var nameStrategies = []nameStrategy{
	{"resource", nameFromResource},
	{"styled", nameFromStyledCell},
	{"raw", nameFromRawText},
}

// ExtractRoster walks the planning table's body sections and returns the
// ordered, deduplicated list of person display names.
//
// The first body section holds column headers and is skipped. Sections
// whose name cell yields nothing are skipped silently: rows without an
// assigned person are legitimate.
func ExtractRoster(doc *goquery.Document) []string {
	names := make([]string, 0)

	_, _, bodies := LocateMainTable(doc)
	if bodies == nil {
		return names
	}

	seen := make(map[string]bool)
	bodies.Each(func(i int, body *goquery.Selection) {
		if i == 0 {
			// Header body, not a person.
			return
		}
		name := extractPersonName(personNameCell(body))
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})

	sort.Strings(names)
	return names
}

// personNameCell returns the cell holding the person's identity for a body
// section: the first cell of the section's first row.
func personNameCell(body *goquery.Selection) *goquery.Selection {
	return body.Find("tr").First().Find("td").First()
}

// extractPersonName runs the name strategies in order and returns the first
// non-empty, trimmed result.
func extractPersonName(cell *goquery.Selection) string {
	if cell == nil || cell.Length() == 0 {
		return ""
	}
	for _, st := range nameStrategies {
		if name := strings.TrimSpace(st.apply(cell)); name != "" {
			return name
		}
	}
	return ""
}

// nameFromResource handles the structured variant: a .resource element
// holds the full "Lastname Firstname" text and a nested .firstname element
// holds the first name on its own. Subtracting the latter from the former
// recovers the last name regardless of which order the site printed them.
func nameFromResource(cell *goquery.Selection) string {
	res := cell.Find(".resource").First()
	if res.Length() == 0 {
		return ""
	}

	full := strings.TrimSpace(res.Text())
	first := strings.TrimSpace(res.Find(".firstname").First().Text())
	if first == "" {
		return full
	}

	last := strings.TrimSpace(strings.Replace(full, first, "", 1))
	return joinName(last, first)
}

// nameFromStyledCell handles the variant where the cell is flagged with the
// manual-entry style marker and the last name is bolded. Without a bold
// element the raw text is split on whitespace: first token is the last
// name, the remainder the first name.
func nameFromStyledCell(cell *goquery.Selection) string {
	if !cell.HasClass("saisie") {
		return ""
	}

	full := strings.TrimSpace(textBeforeBreak(cell))
	if full == "" {
		return ""
	}

	bold := strings.TrimSpace(cell.Find("b").First().Text())
	if bold != "" {
		first := strings.TrimSpace(strings.Replace(full, bold, "", 1))
		return joinName(bold, first)
	}

	parts := strings.Fields(full)
	if len(parts) == 0 {
		return ""
	}
	return joinName(parts[0], strings.Join(parts[1:], " "))
}

// nameFromRawText is the last resort: the cell's visible text, truncated at
// the first line break to drop decorative suffixes such as role labels.
func nameFromRawText(cell *goquery.Selection) string {
	return textBeforeBreak(cell)
}

func joinName(last, first string) string {
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	switch {
	case last == "":
		return first
	case first == "":
		return last
	default:
		return last + " " + first
	}
}
