// Package snapshot serializes the published output document. The
// snapshot fully replaces the previous one; downstream consumers read
// nothing else.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/deusflow/gnews/internal/article"
)

// Snapshot is the output contract: updated, total and articles are
// required, the rest is advisory.
type Snapshot struct {
	Updated        string              `json:"updated"`
	Total          int                 `json:"total"`
	SourcesCount   int                 `json:"sources_count,omitempty"`
	Articles       []article.Article   `json:"articles"`
	CategoryGroups map[string][]string `json:"category_groups,omitempty"`
}

// New builds a snapshot for the current moment.
func New(articles []article.Article, sourcesCount int) Snapshot {
	if articles == nil {
		articles = []article.Article{}
	}
	return Snapshot{
		Updated:        time.Now().UTC().Format(time.RFC3339),
		Total:          len(articles),
		SourcesCount:   sourcesCount,
		Articles:       articles,
		CategoryGroups: groupByCategory(articles),
	}
}

// groupByCategory maps each primary category to article ids in ranked
// order.
func groupByCategory(articles []article.Article) map[string][]string {
	groups := make(map[string][]string)
	for _, a := range articles {
		if len(a.Category) == 0 {
			continue
		}
		cat := a.Category[0]
		groups[cat] = append(groups[cat], a.ID)
	}
	if len(groups) == 0 {
		return nil
	}
	return groups
}

// Write persists the snapshot, creating the directory if needed. The
// document lands via temp-file-plus-rename so a reader never observes a
// half-written file.
func Write(path string, snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".news-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}
