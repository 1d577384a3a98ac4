package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveDayAnchorIDWinsOverCellClass(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="9"><a id="5" href="planning.php?day=7"></a></td></tr></table>`, "td")
	res := ResolveDay(cell, 3)
	assert.Equal(t, 5, res.Day)
	assert.Equal(t, "anchor_id", res.Source)
}

func TestResolveDayAnchorClass(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><a class="jour 12" href="#"></a></td></tr></table>`, "td")
	res := ResolveDay(cell, 3)
	assert.Equal(t, 12, res.Day)
	assert.Equal(t, "anchor_class", res.Source)
}

func TestResolveDayHrefQuery(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><a href="planning.php?mois=3&amp;day=23"></a></td></tr></table>`, "td")
	res := ResolveDay(cell, 3)
	assert.Equal(t, 23, res.Day)
	assert.Equal(t, "href_query", res.Source)
}

func TestResolveDayCellClass(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="planning 9"></td></tr></table>`, "td")
	res := ResolveDay(cell, 3)
	assert.Equal(t, 9, res.Day)
	assert.Equal(t, "cell_class", res.Source)
}

func TestResolveDayFallbackIndex(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><a href="#"></a></td></tr></table>`, "td")
	res := ResolveDay(cell, 17)
	assert.Equal(t, 17, res.Day)
	assert.Equal(t, "fallback", res.Source)
}

func TestResolveDayOutOfRangeFallbackDefaultsToOne(t *testing.T) {
	cell := firstCell(t, `<table><tr><td></td></tr></table>`, "td")
	res := ResolveDay(cell, 40)
	assert.Equal(t, 1, res.Day)
	assert.Equal(t, "default", res.Source)
}

func TestResolveDayUnresolvable(t *testing.T) {
	cell := firstCell(t, `<table><tr><td id="c42"></td></tr></table>`, "td")
	res := ResolveDay(cell, 0)
	assert.False(t, res.Resolved())
	assert.Equal(t, "day_unknown_c42", res.Unknown)
	assert.Equal(t, "unresolved", res.Source)
}

func TestResolveDaySkipsOutOfRangeClassToken(t *testing.T) {
	// The first numeric token is not a day; the scan must keep going and
	// pick the in-range one instead of giving up.
	cell := firstCell(t, `<table><tr><td class="42 5"></td></tr></table>`, "td")
	res := ResolveDay(cell, 30)
	assert.Equal(t, 5, res.Day)
	assert.Equal(t, "cell_class", res.Source)

	anchor := firstCell(t, `<table><tr><td><a class="jour 99 12" href="#"></a></td></tr></table>`, "td")
	res = ResolveDay(anchor, 30)
	assert.Equal(t, 12, res.Day)
	assert.Equal(t, "anchor_class", res.Source)
}

func TestResolveDayIgnoresOutOfRangeMarkupValues(t *testing.T) {
	// 42 exceeds day range everywhere; the fallback must win.
	cell := firstCell(t, `<table><tr><td class="42"><a id="42" href="planning.php?day=42"></a></td></tr></table>`, "td")
	res := ResolveDay(cell, 6)
	assert.Equal(t, 6, res.Day)
	assert.Equal(t, "fallback", res.Source)
}
