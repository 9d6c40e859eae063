package article

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup removes embedded HTML from feed text and collapses
// whitespace. Feeds routinely ship titles and descriptions with inline
// tags and entities.
func StripMarkup(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(stripTagsScan(s)), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// stripTagsScan is the last-resort tag stripper for fragments the HTML
// parser rejects.
func stripTagsScan(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
