package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planboard/internal/config"
)

const planningPage = `<html><body><table id="tableau">
<thead>
<tr><td><span class="grostexte">mars</span> <span class="fonce">2024</span></td></tr>
<tr><td></td></tr>
<tr><td id="jour1"><a class="jour" href="?day=1">1<br><span>ven</span></a></td></tr>
</thead>
<tbody><tr><td>Ressources</td></tr></tbody>
<tbody class="ressource">
<tr>
<td rowspan="3"><div class="resource">DUPONT <span class="firstname">Jean</span></div></td>
<td><a href="#"><div class="href">CP</div></a></td>
</tr>
<tr><td></td></tr>
<tr><td></td></tr>
</tbody>
</table></body></html>`

func newSiteConfig(t *testing.T) *config.Config {
	t.Helper()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(planningPage))
	}))
	t.Cleanup(site.Close)

	conf := config.DefaultConfig()
	conf.PlanningURL = site.URL
	conf.CacheDir = t.TempDir()
	return conf
}

func TestParseFlags(t *testing.T) {
	flags := parseFlags([]string{"-config", "/tmp/pb.yaml", "-listen", ":9090", "-dump"})
	assert.Equal(t, "/tmp/pb.yaml", flags.configPath)
	assert.Equal(t, ":9090", flags.listen)
	assert.True(t, flags.dump)
	assert.False(t, flags.once)

	flags = parseFlags(nil)
	assert.Equal(t, "/etc/planboard/config.yaml", flags.configPath)
	assert.False(t, flags.dump)
	assert.False(t, flags.once)
}

func TestRunDumpWritesRawPage(t *testing.T) {
	conf := newSiteConfig(t)

	var buf bytes.Buffer
	require.NoError(t, runDump(context.Background(), conf, &buf))
	assert.Equal(t, planningPage, buf.String())
}

func TestRunOnceWritesExtractionJSON(t *testing.T) {
	conf := newSiteConfig(t)

	var buf bytes.Buffer
	require.NoError(t, runOnce(context.Background(), conf, &buf))

	var out struct {
		Roster []string `json:"roster"`
		Period struct {
			Month string `json:"month"`
			Year  int    `json:"year"`
		} `json:"period"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, []string{"DUPONT Jean"}, out.Roster)
	assert.Equal(t, "mars", out.Period.Month)
	assert.Equal(t, 2024, out.Period.Year)
}
