package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deusflow/gnews/internal/article"
)

func TestWriteAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "news.json")

	articles := []article.Article{
		{ID: "aaa", Title: "One", Category: []string{"world"}, Priority: 1},
		{ID: "bbb", Title: "Two", Category: []string{"tech"}, Priority: 2},
		{ID: "ccc", Title: "Three", Category: []string{"world"}, Priority: 2},
	}
	snap := New(articles, 5)

	if err := Write(path, snap); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Total != 3 {
		t.Errorf("total = %d, want 3", got.Total)
	}
	if got.SourcesCount != 5 {
		t.Errorf("sources_count = %d, want 5", got.SourcesCount)
	}
	if len(got.Articles) != 3 || got.Articles[0].ID != "aaa" {
		t.Errorf("articles not preserved in order: %+v", got.Articles)
	}
	if _, err := time.Parse(time.RFC3339, got.Updated); err != nil {
		t.Errorf("updated %q is not RFC3339: %v", got.Updated, err)
	}
	if want := []string{"aaa", "ccc"}; len(got.CategoryGroups["world"]) != 2 ||
		got.CategoryGroups["world"][0] != want[0] || got.CategoryGroups["world"][1] != want[1] {
		t.Errorf("category_groups[world] = %v, want %v", got.CategoryGroups["world"], want)
	}
}

func TestWriteEmptySnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")

	if err := Write(path, New(nil, 0)); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["total"].(float64) != 0 {
		t.Errorf("total = %v, want 0", got["total"])
	}
	// articles must serialize as [], not null.
	if arr, ok := got["articles"].([]interface{}); !ok || len(arr) != 0 {
		t.Errorf("articles = %v, want empty array", got["articles"])
	}
}

func TestWriteOverwritesPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "news.json")

	first := New([]article.Article{{ID: "old", Title: "Old"}}, 1)
	if err := Write(path, first); err != nil {
		t.Fatalf("first write: %v", err)
	}
	second := New([]article.Article{{ID: "new", Title: "New"}}, 1)
	if err := Write(path, second); err != nil {
		t.Fatalf("second write: %v", err)
	}

	data, _ := os.ReadFile(path)
	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Articles) != 1 || got.Articles[0].ID != "new" {
		t.Errorf("snapshot not fully replaced: %+v", got.Articles)
	}

	// No temp files left behind.
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("stray files in output dir: %v", entries)
	}
}
