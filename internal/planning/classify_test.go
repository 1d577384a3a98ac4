package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"planboard/internal/model"
)

func TestClassifyWeekendIsNeverEmpty(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="weekend"></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.True(t, ev.IsWeekend)
	assert.False(t, ev.IsEmpty)
	assert.Equal(t, model.TypeWeekend, ev.Type)
	assert.Empty(t, ev.Content)
}

func TestClassifyEmptyCell(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><a href="#"></a></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.True(t, ev.IsEmpty)
	assert.Equal(t, model.TypeEmpty, ev.Type)
}

func TestClassifyModificationMetadata(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><div style="color:#555;font-size:9px">12/03/2024 14:32 (MARTIN P)</div></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, "12/03/2024 14:32", ev.LastModifiedAt)
	assert.Equal(t, "MARTIN P", ev.LastModifiedBy)
	// Audit metadata alone does not make a cell non-empty.
	assert.True(t, ev.IsEmpty)
	assert.Equal(t, model.TypeEmpty, ev.Type)
}

func TestClassifyCommentForcesNonEmpty(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><span class="notooltip">en déplacement</span></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, "en déplacement", ev.Comment)
	assert.False(t, ev.IsEmpty)
	assert.Equal(t, model.TypeComment, ev.Type)
}

func TestClassifyCommentRoundedBadgeFallback(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><span class="rounded">!</span></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, "!", ev.Comment)
	assert.False(t, ev.IsEmpty)
}

func TestClassifyContentCode(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><a href="#"><div class="href">CP</div></a></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, "CP", ev.Content)
	assert.Equal(t, model.TypePaidLeave, ev.Type)
	assert.False(t, ev.IsEmpty)
}

func TestClassifyUnknownContentIsOther(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><a href="#"><div class="href">XYZ</div></a></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, "XYZ", ev.Content)
	assert.Equal(t, model.TypeOther, ev.Type)
	assert.False(t, ev.IsEmpty)
}

func TestClassifyMenuArtifactsDiscarded(t *testing.T) {
	for _, artifact := range []string{"Copier", "Couper", "Coller", "Annuler"} {
		cell := firstCell(t, `<table><tr><td><a href="#"><div class="href">`+artifact+`</div></a></td></tr></table>`, "td")
		ev := Classify(cell)

		assert.Empty(t, ev.Content, artifact)
		assert.Equal(t, model.TypeEmpty, ev.Type, artifact)
		assert.True(t, ev.IsEmpty, artifact)
	}
}

func TestClassifyColorBeatsContentCode(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="conges"><a href="#"><div class="href">TT</div></a></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, model.TypeVacation, ev.Type)
	assert.Equal(t, "conges", ev.ColorClass)
	assert.Equal(t, "TT", ev.Content)
}

func TestClassifyHolidayColorSetsFlag(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="ferie"><a href="#"></a></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, model.TypeHoliday, ev.Type)
	assert.True(t, ev.IsHoliday)
	assert.False(t, ev.IsEmpty)
}

func TestClassifyWeekendTypeNotOverwrittenByColor(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="weekend ferie"></td></tr></table>`, "td")
	ev := Classify(cell)

	assert.Equal(t, model.TypeWeekend, ev.Type)
	assert.True(t, ev.IsWeekend)
	assert.True(t, ev.IsHoliday)
	assert.Equal(t, "ferie", ev.ColorClass)
	assert.False(t, ev.IsEmpty)
}

func TestClassifyTelework(t *testing.T) {
	byColor := Classify(firstCell(t, `<table><tr><td class="teletravail"><a href="#"></a></td></tr></table>`, "td"))
	assert.Equal(t, model.TypeTelework, byColor.Type)

	byCode := Classify(firstCell(t, `<table><tr><td><a href="#"><div class="href">TT</div></a></td></tr></table>`, "td"))
	assert.Equal(t, model.TypeTelework, byCode.Type)
}
