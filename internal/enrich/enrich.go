// Package enrich annotates articles with a one-line machine-generated
// summary or translation of the title. Backends are interchangeable and
// total: same length, same order, and any failure degrades the affected
// item to its original title.
package enrich

import (
	"context"
	"fmt"

	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/config"
	"github.com/deusflow/gnews/internal/storage"
)

// Backend produces the enriched one-liner for every article. It must
// not fail the run: implementations absorb transport and parse errors.
type Backend interface {
	Name() string
	Enrich(ctx context.Context, articles []article.Article) []article.Article
}

// New selects the backend from config. Callers treat a construction
// error as "run without enrichment", not as a fatal condition.
func New(cfg *config.Config, tcache *storage.TranslationCache) (Backend, error) {
	switch cfg.EnrichBackend {
	case "none":
		return NoopBackend{}, nil
	case "gemini":
		return NewGeminiBackend(cfg)
	case "googletrans":
		return NewGoogleTransBackend(cfg), nil
	case "openai":
		return NewOpenAIBackend(cfg, tcache), nil
	default:
		return nil, fmt.Errorf("unknown enrichment backend %q", cfg.EnrichBackend)
	}
}

// NoopBackend passes titles through unchanged.
type NoopBackend struct{}

func (NoopBackend) Name() string { return "none" }

func (NoopBackend) Enrich(_ context.Context, articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)
	for i := range out {
		out[i].EnrichedText = out[i].Title
	}
	return out
}
