package parsing

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML converts an HTML comment snippet to plain text, preserving
// visible content only. <br> tags become newlines; everything else is
// flattened to its text content.
func StripHTML(htmlSnippet string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlSnippet))
	if err != nil {
		return "", err
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("script, style").Remove()

	text := doc.Text()
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n"), nil
}
