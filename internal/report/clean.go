package report

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NoData replaces empty report fields
const NoData = "No data available."

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	headingMarker  = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	emphasisMarker = regexp.MustCompile(`\*\*|__`)
)

// CleanText turns an agent's free-form output into plain paragraphs for the
// PDF: markup is stripped, markdown emphasis and heading markers dropped and
// whitespace inside each paragraph collapsed.
func CleanText(s string) string {
	if strings.TrimSpace(s) == "" {
		return NoData
	}

	text := s
	if strings.Contains(s, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			doc.Find("br").ReplaceWithHtml("\n")
			doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, sel *goquery.Selection) {
				sel.AppendHtml("\n\n")
			})
			text = doc.Text()
		}
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = headingMarker.ReplaceAllString(text, "")
	text = emphasisMarker.ReplaceAllString(text, "")

	var paragraphs []string
	for _, p := range paragraphBreak.Split(text, -1) {
		if p = strings.Join(strings.Fields(p), " "); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return NoData
	}
	return strings.Join(paragraphs, "\n\n")
}
