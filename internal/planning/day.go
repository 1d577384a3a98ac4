package planning

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The site has used at least three different conventions for tagging which
// calendar day a cell belongs to (an id on the cell's anchor, a numeric
// class token, a day= query parameter in the anchor's target). None of them
// is guaranteed present in any given document variant, so day identity is
// resolved through an ordered cascade of independent strategies.

// DayResolution is the outcome of the day-identity cascade for one cell.
type DayResolution struct {
	// Day is the resolved day-of-month (1..31) when resolution succeeded.
	Day int `json:"day,omitempty"`
	// Unknown carries an opaque marker identifying the cell when no
	// strategy (including the fallback) produced a day. Callers report it
	// instead of silently mis-assigning the cell.
	Unknown string `json:"unknown,omitempty"`
	// Source names the cascade step that matched, for diagnostics.
	Source string `json:"source"`
}

// Resolved reports whether the cascade produced a usable day number.
func (r DayResolution) Resolved() bool {
	return r.Day >= 1 && r.Day <= 31
}

// dayStrategy inspects one convention and returns (day, true) on success.
type dayStrategy struct {
	name  string
	apply func(cell *goquery.Selection) (int, bool)
}

// dayStrategies is the cascade, highest priority first. New markup variants
// are supported by appending a strategy, not by editing existing ones.
var dayStrategies = []dayStrategy{
	{"anchor_id", dayFromAnchorID},
	{"anchor_class", dayFromAnchorClass},
	{"href_query", dayFromHrefQuery},
	{"cell_class", dayFromCellClass},
}

// ResolveDay determines which day-of-month the given cell represents.
//
// fallbackIndex is the caller's 1-based positional guess for the cell; it
// is consulted only when every markup-based strategy fails. Pass a value
// <= 0 to signal that no positional fallback is available, in which case an
// unresolvable cell yields an opaque Unknown marker.
func ResolveDay(cell *goquery.Selection, fallbackIndex int) DayResolution {
	if cell != nil && cell.Length() > 0 {
		for _, st := range dayStrategies {
			if day, ok := st.apply(cell); ok && dayInRange(day) {
				return DayResolution{Day: day, Source: st.name}
			}
		}
	}

	if fallbackIndex > 0 {
		if dayInRange(fallbackIndex) {
			return DayResolution{Day: fallbackIndex, Source: "fallback"}
		}
		return DayResolution{Day: 1, Source: "default"}
	}

	return DayResolution{Unknown: unknownDayMarker(cell), Source: "unresolved"}
}

func dayInRange(d int) bool {
	return d >= 1 && d <= 31
}

// dayFromAnchorID reads the anchor's id attribute.
func dayFromAnchorID(cell *goquery.Selection) (int, bool) {
	a := cell.Find("a").First()
	if a.Length() == 0 {
		return 0, false
	}
	id := strings.TrimSpace(a.AttrOr("id", ""))
	if !allDigits(id) {
		return 0, false
	}
	n, err := strconv.Atoi(id)
	return n, err == nil
}

// dayFromAnchorClass scans the anchor's class tokens for a plain number.
func dayFromAnchorClass(cell *goquery.Selection) (int, bool) {
	a := cell.Find("a").First()
	if a.Length() == 0 {
		return 0, false
	}
	return digitToken(classTokens(a))
}

// dayFromHrefQuery reads a day=<n> query parameter out of the anchor's
// link target.
func dayFromHrefQuery(cell *goquery.Selection) (int, bool) {
	a := cell.Find("a").First()
	if a.Length() == 0 {
		return 0, false
	}
	href, ok := a.Attr("href")
	if !ok || href == "" {
		return 0, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return 0, false
	}
	v := u.Query().Get("day")
	if !allDigits(v) {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	return n, err == nil
}

// dayFromCellClass scans the cell's own class tokens for a plain number.
func dayFromCellClass(cell *goquery.Selection) (int, bool) {
	return digitToken(classTokens(cell))
}

// digitToken returns the first all-digit class token that is a plausible
// day-of-month. Out-of-range numbers (counters, widths) are skipped rather
// than failing the whole scan.
func digitToken(tokens []string) (int, bool) {
	for _, tok := range tokens {
		if !allDigits(tok) {
			continue
		}
		if n, err := strconv.Atoi(tok); err == nil && dayInRange(n) {
			return n, true
		}
	}
	return 0, false
}

// unknownDayMarker builds an opaque placeholder incorporating whatever
// identity the cell has, so diagnostic output can point at it.
func unknownDayMarker(cell *goquery.Selection) string {
	ident := ""
	if cell != nil && cell.Length() > 0 {
		ident = cell.AttrOr("id", "")
		if ident == "" {
			ident = strings.Join(classTokens(cell), ".")
		}
	}
	if ident == "" {
		ident = "anon"
	}
	return fmt.Sprintf("day_unknown_%s", ident)
}
