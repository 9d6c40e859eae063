package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/deusflow/gnews/internal/article"
)

func TestSeenCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	c := NewSeenCache(path, 500)
	c.Add(article.Article{ID: "abc123", Title: "A story", Source: "BBC", Priority: 1})
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	c2 := NewSeenCache(path, 500)
	if err := c2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if !c2.Contains("abc123") {
		t.Error("reloaded cache lost the record")
	}
	if c2.Contains("missing") {
		t.Error("cache reports an id it never saw")
	}
}

func TestSeenCacheMissingFile(t *testing.T) {
	c := NewSeenCache(filepath.Join(t.TempDir(), "nope.json"), 500)
	if err := c.Load(); err != nil {
		t.Errorf("missing file should load as empty cache, got %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0", c.Len())
	}
}

func TestSeenCachePrunedToBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	c := NewSeenCache(path, 10)
	for i := 0; i < 25; i++ {
		c.Add(article.Article{
			ID:        fmt.Sprintf("id-%02d", i),
			Title:     fmt.Sprintf("story %d", i),
			Priority:  2,
			Published: fmt.Sprintf("2025-03-%02dT00:00:00Z", i+1),
		})
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, _ := os.ReadFile(path)
	var file struct {
		Updated  string       `json:"updated"`
		Articles []SeenRecord `json:"articles"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(file.Articles) != 10 {
		t.Fatalf("persisted %d records, want 10", len(file.Articles))
	}
	// Most recent survive the cut.
	if file.Articles[0].ID != "id-24" {
		t.Errorf("first kept record = %q, want the newest", file.Articles[0].ID)
	}
	if file.Updated == "" {
		t.Error("updated timestamp missing")
	}
}

func TestSeenCacheCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	os.WriteFile(path, []byte("{not json"), 0o644)

	c := NewSeenCache(path, 500)
	if err := c.Load(); err == nil {
		t.Error("corrupt cache should surface an error for logging")
	}
	if c.Len() != 0 {
		t.Errorf("corrupt cache should stay empty, len = %d", c.Len())
	}
}

func TestTranslationCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trans.json")

	c := NewTranslationCache(path, 500)
	key := Key("Central bank cuts rates")
	c.Put(key, "央行降息")
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	c2 := NewTranslationCache(path, 500)
	if err := c2.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := c2.Get(key)
	if !ok || got != "央行降息" {
		t.Errorf("Get = %q, %v", got, ok)
	}
	if _, ok := c2.Get(Key("other text")); ok {
		t.Error("cache hit for text never stored")
	}
}

func TestTranslationCacheKeyStable(t *testing.T) {
	if Key("same text") != Key("same text") {
		t.Error("key not deterministic")
	}
	if Key("one") == Key("two") {
		t.Error("distinct texts collide")
	}
}

func TestTranslationCachePrunedToBound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trans.json")

	c := NewTranslationCache(path, 5)
	for i := 0; i < 20; i++ {
		c.Put(Key(fmt.Sprintf("text %d", i)), fmt.Sprintf("译文 %d", i))
	}
	if err := c.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, _ := os.ReadFile(path)
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 5 {
		t.Errorf("persisted %d entries, want 5", len(out))
	}
}
