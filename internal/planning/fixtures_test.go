package planning

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

// mustParse parses fixture HTML or fails the test.
func mustParse(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	require.NoError(t, err)
	return doc
}

// firstCell returns the first td matching sel in the fixture, for cell-level
// tests.
func firstCell(t *testing.T, rawHTML, sel string) *goquery.Selection {
	t.Helper()
	cell := mustParse(t, rawHTML).Find(sel).First()
	require.Equal(t, 1, cell.Length(), "fixture must contain selector %q", sel)
	return cell
}

// fullPlanningDoc is a synthetic but structurally faithful planning page:
// March 2024, days 1..5, two persons with three slot rows each. Person
// sections lead with a name cell spanning all three rows.
//
// Marked cells:
//   - DUPONT Jean, day 2, morning: weekend column
//   - DUPONT Jean, day 3, morning: vacation color
//   - MARTIN Sophie, day 4, day slot: "CP" code
const fullPlanningDoc = `<html><body>
<table id="tableau">
<thead>
<tr><td><span class="grostexte">mars</span> <span class="fonce">2024</span></td></tr>
<tr><td>semaine 9</td></tr>
<tr>
<td id="jour1"><a class="jour" href="planning.php?day=1">1<br><span>ven</span></a></td>
<td id="jour2"><a class="jour" href="planning.php?day=2">2<br><span>sam</span></a></td>
<td id="jour3"><a class="jour" href="planning.php?day=3">3<br><span>dim</span></a></td>
<td id="jour4"><a class="jour" href="planning.php?day=4">4<br><span>lun</span></a></td>
<td id="jour5"><a class="jour" href="planning.php?day=5">5<br><span>mar</span></a></td>
</tr>
</thead>
<tbody>
<tr><td>Ressources</td></tr>
</tbody>
<tbody class="ressource">
<tr>
<td rowspan="3"><div class="resource">DUPONT <span class="firstname">Jean</span></div></td>
<td><a href="#"></a></td>
<td class="weekend"><a href="#"></a></td>
<td class="conges"><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
</tr>
<tr>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
</tr>
<tr>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
</tr>
</tbody>
<tbody class="ressource">
<tr>
<td rowspan="3"><div class="resource">MARTIN <span class="firstname">Sophie</span></div></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
</tr>
<tr>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"><div class="href">CP</div></a></td>
<td><a href="#"></a></td>
</tr>
<tr>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
<td><a href="#"></a></td>
</tr>
</tbody>
</table>
</body></html>`

// noTableDoc has no planning table at all.
const noTableDoc = `<html><body><p>Session expirée</p></body></html>`
