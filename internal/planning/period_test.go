package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planboard/internal/model"
)

func TestExtractPeriodFullDocument(t *testing.T) {
	period := ExtractPeriod(mustParse(t, fullPlanningDoc))

	assert.Equal(t, "mars", period.Month)
	assert.Equal(t, 2024, period.Year)
	assert.Empty(t, period.YearRaw)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, period.Days)
	require.Len(t, period.WeekdayOf, 5)
	assert.Equal(t, model.DayWeekday{Day: 1, Weekday: "ven"}, period.WeekdayOf[0])
	assert.Equal(t, model.DayWeekday{Day: 5, Weekday: "mar"}, period.WeekdayOf[4])

	// 1 March 2024 really is a Friday.
	assert.True(t, period.Verification.IsConsistent, period.Verification.Message)
	assert.Empty(t, period.Error)
}

func TestExtractPeriodMissingTable(t *testing.T) {
	period := ExtractPeriod(mustParse(t, noTableDoc))

	assert.Empty(t, period.Month)
	assert.Zero(t, period.Year)
	assert.Empty(t, period.Days)
	assert.Empty(t, period.WeekdayOf)
	assert.False(t, period.Verification.IsConsistent)
}

func TestExtractPeriodYearFallsBackToRawText(t *testing.T) {
	period := ExtractPeriod(mustParse(t, `<table id="tableau"><thead>
<tr><td><span class="grostexte">mars</span> <span class="fonce">année ?</span></td></tr>
<tr><td></td></tr>
<tr><td id="jour1"><a class="jour" href="#">1<br><span>ven</span></a></td></tr>
</thead></table>`))

	assert.Zero(t, period.Year)
	assert.Equal(t, "année ?", period.YearRaw)
	assert.False(t, period.Verification.IsConsistent)
}

func TestExtractPeriodDedupesAndSortsDays(t *testing.T) {
	period := ExtractPeriod(mustParse(t, `<table id="tableau"><thead>
<tr><td><span class="grostexte">mai</span> <span class="fonce">2024</span></td></tr>
<tr><td></td></tr>
<tr>
<td id="jour3"><a class="jour" href="#">3<br><span>ven</span></a></td>
<td id="jour1"><a class="jour" href="#">1<br><span>mer</span></a></td>
<td id="jour3b"><a class="jour" href="#">3<br><span>ven</span></a></td>
</tr>
</thead></table>`))

	assert.Equal(t, []int{1, 3}, period.Days)
}

func TestExtractPeriodDigitRunFallback(t *testing.T) {
	// No standalone digit line: the day number is embedded in running text.
	period := ExtractPeriod(mustParse(t, `<table id="tableau"><thead>
<tr><td><span class="grostexte">mars</span> <span class="fonce">2024</span></td></tr>
<tr><td></td></tr>
<tr><td id="jour12"><a class="jour" href="#">jour 12<span>mar</span></a></td></tr>
</thead></table>`))

	assert.Equal(t, []int{12}, period.Days)
}

func TestExtractPeriodDayOneWeekdayProbe(t *testing.T) {
	// Markup variant: day 1's weekday label sits outside the day link, one
	// level deeper than usual.
	period := ExtractPeriod(mustParse(t, `<table id="tableau"><thead>
<tr><td><span class="grostexte">mars</span> <span class="fonce">2024</span></td></tr>
<tr><td></td></tr>
<tr>
<td id="jour1"><a class="jour" href="#">1</a><span><span>ven</span></span></td>
<td id="jour2"><a class="jour" href="#">2<br><span>sam</span></a></td>
</tr>
</thead></table>`))

	require.Len(t, period.WeekdayOf, 2)
	assert.Equal(t, model.DayWeekday{Day: 1, Weekday: "ven"}, period.WeekdayOf[0])
	assert.True(t, period.Verification.IsConsistent, period.Verification.Message)
}

func TestExtractPeriodIdempotent(t *testing.T) {
	doc := mustParse(t, fullPlanningDoc)
	first := ExtractPeriod(doc)
	second := ExtractPeriod(doc)
	assert.Equal(t, first, second)
}
