package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRegistry(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write registry: %v", err)
	}
	return path
}

func TestLoadOrdersByPriority(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - id: c
    name: C
    rss: https://c.example/rss
    priority: 3
  - id: a
    name: A
    rss: https://a.example/rss
    priority: 1
  - id: b
    name: B
    rss: https://b.example/rss
    priority: 1
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// Priority ascending, ties keep file order.
	for i, id := range []string{"a", "b", "c"} {
		if got[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestLoadDefaultPriority(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - id: x
    name: X
    rss: https://x.example/rss
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got[0].Priority != DefaultPriority {
		t.Errorf("priority = %d, want default %d", got[0].Priority, DefaultPriority)
	}
}

func TestLoadSkipsDisabled(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - id: on
    name: On
    rss: https://on.example/rss
  - id: off
    name: Off
    rss: https://off.example/rss
    enabled: false
`)
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "on" {
		t.Errorf("got %+v, want only the enabled source", got)
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing registry must be a fatal error")
	}
}

func TestLoadRejectsIncompleteSource(t *testing.T) {
	path := writeRegistry(t, `
sources:
  - id: broken
    name: Broken
`)
	if _, err := Load(path); err == nil {
		t.Error("source without rss url must be rejected")
	}
}
