package fetcher

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText strips markup from feed summaries so downstream prompts and
// excerpts work with clean prose.
func plainText(html string) string {
	if html == "" {
		return ""
	}
	if !strings.ContainsAny(html, "<&") {
		return strings.TrimSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}

	text := doc.Text()
	return strings.Join(strings.Fields(text), " ")
}
