// Package rank orders the deduplicated article set and trims it to the
// output cap.
package rank

import (
	"sort"

	"github.com/deusflow/gnews/internal/article"
)

// Rank sorts articles by source priority ascending, then published
// timestamp descending, ties keeping insertion order. Articles without
// a parsable timestamp (empty published) sort last inside their
// priority band. The limit is applied only after the full sort so no
// source is favored by truncation.
func Rank(articles []article.Article, limit int) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		// RFC3339 strings compare chronologically; empty sorts oldest.
		return out[i].Published > out[j].Published
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
