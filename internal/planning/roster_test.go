package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRosterFullDocument(t *testing.T) {
	doc := mustParse(t, fullPlanningDoc)
	roster := ExtractRoster(doc)
	require.Equal(t, []string{"DUPONT Jean", "MARTIN Sophie"}, roster)
}

func TestExtractRosterMissingTable(t *testing.T) {
	doc := mustParse(t, noTableDoc)
	roster := ExtractRoster(doc)
	require.NotNil(t, roster)
	assert.Empty(t, roster)
}

func TestExtractRosterDedupesAndSorts(t *testing.T) {
	doc := mustParse(t, `<table id="tableau">
<tbody><tr><td>header</td></tr></tbody>
<tbody><tr><td><div class="resource">ZOLA <span class="firstname">Emile</span></div></td></tr></tbody>
<tbody><tr><td><div class="resource">ADAM <span class="firstname">Alice</span></div></td></tr></tbody>
<tbody><tr><td><div class="resource">ZOLA <span class="firstname">Emile</span></div></td></tr></tbody>
</table>`)
	roster := ExtractRoster(doc)
	require.Equal(t, []string{"ADAM Alice", "ZOLA Emile"}, roster)
}

func TestExtractRosterSkipsBlankRows(t *testing.T) {
	doc := mustParse(t, `<table id="tableau">
<tbody><tr><td>header</td></tr></tbody>
<tbody><tr><td>   </td></tr></tbody>
<tbody><tr><td><div class="resource">ADAM <span class="firstname">Alice</span></div></td></tr></tbody>
</table>`)
	require.Equal(t, []string{"ADAM Alice"}, ExtractRoster(doc))
}

func TestNameFromStyledCellWithBold(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="saisie"><b>MARTIN</b> Sophie<br>Technicienne</td></tr></table>`, "td")
	assert.Equal(t, "MARTIN Sophie", extractPersonName(cell))
}

func TestNameFromStyledCellWithoutBold(t *testing.T) {
	cell := firstCell(t, `<table><tr><td class="saisie">BERNARD Luc Marie</td></tr></table>`, "td")
	// First token is the last name, the remainder the first name.
	assert.Equal(t, "BERNARD Luc Marie", extractPersonName(cell))
}

func TestNameFromRawTextStripsTrailingLines(t *testing.T) {
	cell := firstCell(t, `<table><tr><td>PETIT Anne<br>Cadre de santé</td></tr></table>`, "td")
	assert.Equal(t, "PETIT Anne", extractPersonName(cell))
}

func TestResourceStrategyWinsOverRawText(t *testing.T) {
	cell := firstCell(t, `<table><tr><td><div class="resource">DURAND <span class="firstname">Paul</span></div>extra noise</td></tr></table>`, "td")
	assert.Equal(t, "DURAND Paul", extractPersonName(cell))
}
