// Package storage persists the small JSON artifacts that survive
// between runs: the seen-article cache and the translation cache.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/deusflow/gnews/internal/article"
)

// SeenRecord is the slice of an article the cross-run cache keeps.
type SeenRecord struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Link      string `json:"link"`
	Published string `json:"published"`
	Source    string `json:"source"`
	Priority  int    `json:"priority"`
}

type seenCacheFile struct {
	Updated  string       `json:"updated"`
	Articles []SeenRecord `json:"articles"`
}

// SeenCache suppresses articles already surfaced by a previous run.
// Single writer per run: load at start, save at end.
type SeenCache struct {
	mu         sync.RWMutex
	path       string
	maxEntries int
	items      map[string]SeenRecord
}

func NewSeenCache(path string, maxEntries int) *SeenCache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &SeenCache{
		path:       path,
		maxEntries: maxEntries,
		items:      make(map[string]SeenRecord),
	}
}

// Load reads the cache file. A missing file is an empty cache, a
// corrupt one is discarded with an error for the caller to log.
func (c *SeenCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read seen cache: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var file seenCacheFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("unmarshal seen cache: %w", err)
	}
	for _, rec := range file.Articles {
		c.items[rec.ID] = rec
	}
	return nil
}

func (c *SeenCache) Contains(id string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.items[id]
	return ok
}

func (c *SeenCache) Add(a article.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[a.ID] = SeenRecord{
		ID:        a.ID,
		Title:     a.Title,
		Link:      a.Link,
		Published: a.Published,
		Source:    a.Source,
		Priority:  a.Priority,
	}
}

// Save rewrites the cache file, keeping only the maxEntries best
// records by priority and recency so the file stays bounded.
func (c *SeenCache) Save() error {
	c.mu.RLock()
	records := make([]SeenRecord, 0, len(c.items))
	for _, rec := range c.items {
		records = append(records, rec)
	}
	c.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Priority != records[j].Priority {
			return records[i].Priority < records[j].Priority
		}
		return records[i].Published > records[j].Published
	})
	if len(records) > c.maxEntries {
		records = records[:c.maxEntries]
	}

	file := seenCacheFile{
		Updated:  time.Now().UTC().Format(time.RFC3339),
		Articles: records,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal seen cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write seen cache: %w", err)
	}
	return nil
}

func (c *SeenCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
