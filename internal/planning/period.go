package planning

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"planboard/internal/model"
)

// dayCellIDPrefix is the id convention used by day-header cells
// ("jour1" .. "jour31").
const dayCellIDPrefix = "jour"

var digitRunRe = regexp.MustCompile(`[0-9]+`)

// ExtractPeriod reads the month, year, day list and day->weekday mapping
// out of the planning table's header and cross-checks them against the
// Gregorian calendar.
//
// ExtractPeriod never panics: any unexpected tree shape is caught at this
// boundary and surfaced in the result's Error field alongside whatever was
// recovered before the fault.
func ExtractPeriod(doc *goquery.Document) (period model.Period) {
	defer func() {
		if r := recover(); r != nil {
			period.Error = fmt.Sprintf("period extraction fault: %v", r)
		}
	}()

	period.Days = []int{}
	period.WeekdayOf = []model.DayWeekday{}

	_, header, _ := LocateMainTable(doc)
	if header == nil || header.Length() == 0 {
		return period
	}

	extractMonthYear(header, &period)

	weekdayOf := extractDayHeaders(header, &period)

	// Markup variant: for the very first day of some months the weekday
	// label sits one level deeper than usual and the row walk misses it.
	// Probe the day-1 cell directly before giving up on it.
	if _, ok := weekdayOf[1]; !ok && len(period.Days) > 0 && period.Days[0] == 1 {
		if wd := probeDayOneWeekday(doc); wd != "" {
			weekdayOf[1] = wd
		}
	}

	for day, wd := range weekdayOf {
		period.WeekdayOf = append(period.WeekdayOf, model.DayWeekday{Day: day, Weekday: wd})
	}
	sort.Slice(period.WeekdayOf, func(i, j int) bool {
		return period.WeekdayOf[i].Day < period.WeekdayOf[j].Day
	})

	period.Verification = Verify(period.Year, period.Month, weekdayOf)
	return period
}

// extractMonthYear reads the month name and year from the first cell of the
// header's first row. The month is kept verbatim (locale spelling and
// casing included); the year falls back to its raw text when non-numeric.
func extractMonthYear(header *goquery.Selection, period *model.Period) {
	cell := header.Find("tr").First().Find("td").First()
	if cell.Length() == 0 {
		return
	}

	period.Month = strings.TrimSpace(cell.Find(".grostexte").First().Text())

	yearText := strings.TrimSpace(cell.Find(".fonce").First().Text())
	if yearText == "" {
		return
	}
	if y, err := strconv.Atoi(yearText); err == nil {
		period.Year = y
	} else {
		period.YearRaw = yearText
	}
}

// extractDayHeaders walks the day cells of the header's third row, filling
// period.Days (sorted, deduplicated) and returning the day->weekday map.
func extractDayHeaders(header *goquery.Selection, period *model.Period) map[int]string {
	weekdayOf := make(map[int]string)
	seen := make(map[int]bool)

	dayRow := header.Find("tr").Eq(2)
	dayRow.Find(`td[id^="` + dayCellIDPrefix + `"]`).Each(func(_ int, cell *goquery.Selection) {
		link := cell.Find("a.jour").First()
		if link.Length() == 0 {
			return
		}

		day, ok := dayNumberFromLink(link)
		if !ok {
			return
		}

		if !seen[day] {
			seen[day] = true
			period.Days = append(period.Days, day)
		}

		if wd := strings.TrimSpace(link.Find("span").First().Text()); wd != "" {
			weekdayOf[day] = wd
		}
	})

	sort.Ints(period.Days)
	return weekdayOf
}

// dayNumberFromLink recovers the day-of-month from a day-link element.
// Preferred: the first all-digit line of the link's (line-broken) text.
// Fallback: the first run of digits anywhere in the text.
func dayNumberFromLink(link *goquery.Selection) (int, bool) {
	text := textWithBreaks(link)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if allDigits(line) {
			if n, err := strconv.Atoi(line); err == nil {
				return n, true
			}
		}
	}

	if run := digitRunRe.FindString(text); run != "" {
		if n, err := strconv.Atoi(run); err == nil {
			return n, true
		}
	}

	return 0, false
}

// probeDayOneWeekday looks up the day-1 header cell directly and digs for
// its weekday label, trying the deeper-nested variant first.
func probeDayOneWeekday(doc *goquery.Document) string {
	cell := doc.Find("#" + dayCellIDPrefix + "1").First()
	if cell.Length() == 0 {
		return ""
	}
	if wd := strings.TrimSpace(cell.Find("span span").First().Text()); wd != "" {
		return wd
	}
	return strings.TrimSpace(cell.Find("span").First().Text())
}
