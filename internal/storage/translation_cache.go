package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

type translationEntry struct {
	Text   string    `json:"text"`
	UsedAt time.Time `json:"used_at"`
}

// TranslationCache maps text hashes to translated text so identical
// titles are never paid for twice across runs.
type TranslationCache struct {
	mu         sync.RWMutex
	path       string
	maxEntries int
	items      map[string]translationEntry
}

func NewTranslationCache(path string, maxEntries int) *TranslationCache {
	if maxEntries <= 0 {
		maxEntries = 500
	}
	return &TranslationCache{
		path:       path,
		maxEntries: maxEntries,
		items:      make(map[string]translationEntry),
	}
}

// Key hashes source text into the cache key.
func Key(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])[:16]
}

func (c *TranslationCache) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read translation cache: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &c.items); err != nil {
		return fmt.Errorf("unmarshal translation cache: %w", err)
	}
	return nil
}

func (c *TranslationCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.items[key]
	if !ok {
		return "", false
	}
	entry.UsedAt = time.Now()
	c.items[key] = entry
	return entry.Text, true
}

func (c *TranslationCache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = translationEntry{Text: text, UsedAt: time.Now()}
}

// Save rewrites the cache file, dropping the least recently used
// entries beyond the bound.
func (c *TranslationCache) Save() error {
	c.mu.RLock()
	type kv struct {
		key   string
		entry translationEntry
	}
	entries := make([]kv, 0, len(c.items))
	for k, v := range c.items {
		entries = append(entries, kv{k, v})
	}
	c.mu.RUnlock()

	if len(entries) > c.maxEntries {
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].entry.UsedAt.After(entries[j].entry.UsedAt)
		})
		entries = entries[:c.maxEntries]
	}

	out := make(map[string]translationEntry, len(entries))
	for _, e := range entries {
		out[e.key] = e.entry
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal translation cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write translation cache: %w", err)
	}
	return nil
}
