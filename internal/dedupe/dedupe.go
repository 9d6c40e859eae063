// Package dedupe removes duplicate articles within a run and,
// optionally, across runs through the persisted seen cache.
package dedupe

import (
	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/logger"
	"github.com/deusflow/gnews/internal/metrics"
	"github.com/deusflow/gnews/internal/storage"
)

// Deduper applies a two-tier identity check: exact fingerprint first,
// then normalized-title. First seen wins, so callers must feed articles
// in priority order.
type Deduper struct {
	seenIDs    map[string]struct{}
	seenTitles map[string]struct{}
	seenCache  *storage.SeenCache // nil disables cross-run suppression
}

func New(seenCache *storage.SeenCache) *Deduper {
	return &Deduper{
		seenIDs:    make(map[string]struct{}),
		seenTitles: make(map[string]struct{}),
		seenCache:  seenCache,
	}
}

// Filter returns the articles not seen before, preserving input order.
func (d *Deduper) Filter(articles []article.Article) []article.Article {
	out := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if !d.admit(a) {
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}
		out = append(out, a)
	}
	return out
}

func (d *Deduper) admit(a article.Article) bool {
	if _, dup := d.seenIDs[a.ID]; dup {
		logger.Debug("duplicate by fingerprint", "id", a.ID, "title", a.Title)
		return false
	}
	if d.seenCache != nil && d.seenCache.Contains(a.ID) {
		logger.Debug("already published in earlier run", "id", a.ID, "title", a.Title)
		d.seenIDs[a.ID] = struct{}{}
		return false
	}

	key := article.TitleKey(a.Title)
	if key != "" {
		if _, dup := d.seenTitles[key]; dup {
			logger.Debug("duplicate by normalized title", "title", a.Title, "source", a.Source)
			return false
		}
		d.seenTitles[key] = struct{}{}
	}

	d.seenIDs[a.ID] = struct{}{}
	return true
}
