package rank

import (
	"testing"

	"github.com/deusflow/gnews/internal/article"
)

func art(id string, priority int, published string) article.Article {
	return article.Article{ID: id, Priority: priority, Published: published}
}

func TestRankPriorityFirst(t *testing.T) {
	in := []article.Article{
		art("low", 3, "2025-03-14T12:00:00Z"),
		art("high", 1, "2025-03-10T12:00:00Z"),
		art("mid", 2, "2025-03-14T12:00:00Z"),
	}
	out := Rank(in, 0)
	want := []string{"high", "mid", "low"}
	for i, id := range want {
		if out[i].ID != id {
			t.Errorf("position %d = %q, want %q", i, out[i].ID, id)
		}
	}
}

func TestRankRecencyWithinPriority(t *testing.T) {
	in := []article.Article{
		art("older", 1, "2025-03-10T12:00:00Z"),
		art("newer", 1, "2025-03-14T12:00:00Z"),
	}
	out := Rank(in, 0)
	if out[0].ID != "newer" || out[1].ID != "older" {
		t.Errorf("order = %q, %q; want newer first", out[0].ID, out[1].ID)
	}
}

func TestRankEmptyPublishedSortsLast(t *testing.T) {
	in := []article.Article{
		art("undated", 1, ""),
		art("dated", 1, "2020-01-01T00:00:00Z"),
	}
	out := Rank(in, 0)
	if out[0].ID != "dated" {
		t.Errorf("undated article ranked before dated one")
	}
	if len(out) != 2 {
		t.Errorf("undated article dropped")
	}
}

func TestRankStableTies(t *testing.T) {
	in := []article.Article{
		art("a", 1, "2025-03-14T12:00:00Z"),
		art("b", 1, "2025-03-14T12:00:00Z"),
		art("c", 1, "2025-03-14T12:00:00Z"),
	}
	out := Rank(in, 0)
	for i, id := range []string{"a", "b", "c"} {
		if out[i].ID != id {
			t.Errorf("ties not stable: position %d = %q", i, out[i].ID)
		}
	}
}

func TestRankCapAfterSort(t *testing.T) {
	in := []article.Article{
		art("p3", 3, "2025-03-14T12:00:00Z"),
		art("p1", 1, "2025-03-14T12:00:00Z"),
		art("p2", 2, "2025-03-14T12:00:00Z"),
	}
	out := Rank(in, 2)
	if len(out) != 2 {
		t.Fatalf("length = %d, want 2", len(out))
	}
	// The cap keeps the highest-ranked prefix, not the input prefix.
	if out[0].ID != "p1" || out[1].ID != "p2" {
		t.Errorf("capped output = %q, %q", out[0].ID, out[1].ID)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []article.Article{
		art("b", 2, ""),
		art("a", 1, ""),
	}
	Rank(in, 0)
	if in[0].ID != "b" {
		t.Error("input slice was reordered")
	}
}
