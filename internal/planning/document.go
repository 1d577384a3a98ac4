// Package planning extracts structured roster, period and schedule-grid
// data from the planning site's HTML calendar document.
//
// The site's markup is undocumented and inconsistent across variants, so
// every extractor here is written defensively: a missing table, section or
// row degrades to an empty result or an error marker, never a panic. All
// functions are pure transformations of the parsed document; concurrent
// calls over the same document are safe.
package planning

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// mainTableSelector is the one stable anchor the site has kept across every
// observed markup revision.
const mainTableSelector = "table#tableau"

// ParseHTML parses a raw HTML payload into a navigable document. It is a
// thin wrapper so callers outside this package do not import goquery
// directly.
func ParseHTML(rawHTML string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
}

// LocateMainTable finds the primary planning table and splits it into its
// header section and body sections.
//
// Returns (nil, nil, nil) when the table is absent. Callers must treat that
// as "no data", not as a fault.
func LocateMainTable(doc *goquery.Document) (table, header *goquery.Selection, bodies *goquery.Selection) {
	if doc == nil {
		return nil, nil, nil
	}

	t := doc.Find(mainTableSelector).First()
	if t.Length() == 0 {
		return nil, nil, nil
	}

	return t, t.Find("thead").First(), t.Find("tbody")
}

// classTokens returns the cell's class attribute split into its individual
// tokens.
func classTokens(s *goquery.Selection) []string {
	if s == nil || s.Length() == 0 {
		return nil
	}
	return strings.Fields(s.AttrOr("class", ""))
}

// textWithBreaks renders the selection's text the way a browser would line-
// wrap it: <br> elements become newlines. goquery's Text() drops them
// entirely, which loses the line structure the day-header extraction
// depends on.
func textWithBreaks(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for _, node := range s.Nodes {
		appendNodeText(&b, node)
	}
	return b.String()
}

func appendNodeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "br" {
			b.WriteString("\n")
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendNodeText(b, c)
	}
}

// textBeforeBreak returns the selection's text up to (not including) the
// first <br>, trimmed. Used to strip decorative trailing lines such as
// role labels under a person's name.
func textBeforeBreak(s *goquery.Selection) string {
	full := textWithBreaks(s)
	if i := strings.IndexByte(full, '\n'); i >= 0 {
		full = full[:i]
	}
	return strings.TrimSpace(full)
}

// allDigits reports whether s is non-empty and consists only of ASCII
// digits.
func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
