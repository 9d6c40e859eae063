// Package article defines the canonical article record and the
// normalization from raw feed entries.
package article

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/gnews/internal/sources"
)

const (
	summaryMaxRunes   = 300
	titleKeyMaxRunes  = 50
	fingerprintLength = 12
)

// Article is the canonical unit flowing through the pipeline.
type Article struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Link         string   `json:"link"`
	Summary      string   `json:"summary"`
	Published    string   `json:"published"`
	Source       string   `json:"source"`
	Category     []string `json:"category"`
	Country      string   `json:"country"`
	OriginalLang string   `json:"original_lang"`
	Priority     int      `json:"priority"`
	EnrichedText string   `json:"enriched_text,omitempty"`
}

// FromFeedItem builds an Article from a raw feed entry and its source.
func FromFeedItem(item *gofeed.Item, src sources.Descriptor) Article {
	title := StripMarkup(item.Title)

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	summary = truncate(StripMarkup(summary), summaryMaxRunes)

	return Article{
		ID:           Fingerprint(src.ID, title),
		Title:        title,
		Link:         strings.TrimSpace(item.Link),
		Summary:      summary,
		Published:    parsePublished(item),
		Source:       src.Name,
		Category:     src.Category,
		Country:      src.Country,
		OriginalLang: src.Language,
		Priority:     src.Priority,
	}
}

// Fingerprint is the article identity key: same source and title always
// hash to the same id within and across runs.
func Fingerprint(sourceID, title string) string {
	h := sha1.New()
	h.Write([]byte(sourceID + "-" + title))
	return hex.EncodeToString(h.Sum(nil))[:fingerprintLength]
}

// TitleKey is the near-duplicate key: lowercase, letters and digits
// only, collapsed whitespace, capped prefix. Catches the same story
// republished by several sources under different links.
func TitleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		default:
			b.WriteRune(' ')
		}
	}
	key := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(key)
	if len(runes) > titleKeyMaxRunes {
		key = string(runes[:titleKeyMaxRunes])
	}
	return key
}

// parsePublished returns an RFC3339 UTC timestamp, best effort. Feed
// entries with no usable time get an empty string and sort as oldest.
func parsePublished(item *gofeed.Item) string {
	if item.PublishedParsed != nil {
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	}
	if item.Published != "" {
		layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC3339, time.RFC822Z, time.RFC822}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, item.Published); err == nil {
				return t.UTC().Format(time.RFC3339)
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
