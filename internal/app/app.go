// Package app wires the pipeline together: registry → fetch →
// dedupe → enrich → rank → snapshot, once per invocation.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/config"
	"github.com/deusflow/gnews/internal/dedupe"
	"github.com/deusflow/gnews/internal/enrich"
	"github.com/deusflow/gnews/internal/feed"
	"github.com/deusflow/gnews/internal/logger"
	"github.com/deusflow/gnews/internal/metrics"
	"github.com/deusflow/gnews/internal/rank"
	"github.com/deusflow/gnews/internal/ratelimit"
	"github.com/deusflow/gnews/internal/retry"
	"github.com/deusflow/gnews/internal/snapshot"
	"github.com/deusflow/gnews/internal/sources"
	"github.com/deusflow/gnews/internal/storage"
)

// Run executes one aggregation cycle. Only a broken source registry or
// a failed snapshot write abort the run; every other failure degrades
// locally.
func Run(ctx context.Context, cfg *config.Config) error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordProcessingTime(time.Since(start))
	}()

	registry, err := sources.Load(cfg.SourcesPath)
	if err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("load sources: %w", err)
	}
	logger.Info("source registry loaded", "sources", len(registry))

	// Optional cross-run suppression.
	var seenCache *storage.SeenCache
	if cfg.SeenCachePath != "" {
		seenCache = storage.NewSeenCache(cfg.SeenCachePath, cfg.CacheMaxEntries)
		if err := seenCache.Load(); err != nil {
			logger.Warn("seen cache unreadable, starting empty", "error", err)
		}
	}

	tcache := storage.NewTranslationCache(cfg.TranslationCachePath, cfg.CacheMaxEntries)
	if err := tcache.Load(); err != nil {
		logger.Warn("translation cache unreadable, starting empty", "error", err)
	}

	// Fetching is serialized with a courtesy delay between sources.
	// The registry comes back in priority order, which decides which
	// copy of a syndicated story survives dedup.
	fetcher := feed.NewFetcher(cfg.MaxPerSource, retry.Config{
		MaxAttempts: cfg.RetryAttempts,
		Delay:       cfg.RetryDelay,
		Backoff:     true,
	})
	pacer := ratelimit.NewPacer(cfg.FetchDelay)

	var collected []article.Article
	for _, src := range registry {
		if err := pacer.Wait(ctx); err != nil {
			return fmt.Errorf("fetch pacing: %w", err)
		}
		fetchCtx, cancel := context.WithTimeout(ctx, cfg.FetchTimeout)
		collected = append(collected, fetcher.Fetch(fetchCtx, src)...)
		cancel()
	}
	logger.Info("fetch done", "items", len(collected))

	deduped := dedupe.New(seenCache).Filter(collected)
	logger.Info("deduplication done", "unique", len(deduped))

	backend, err := enrich.New(cfg, tcache)
	if err != nil {
		logger.Warn("enrichment backend unavailable, publishing original titles", "backend", cfg.EnrichBackend, "error", err)
		backend = enrich.NoopBackend{}
	}
	logger.Info("enriching articles", "backend", backend.Name(), "articles", len(deduped))
	enriched := backend.Enrich(ctx, deduped)
	if closer, ok := backend.(interface{ Close() }); ok {
		closer.Close()
	}

	ranked := rank.Rank(enriched, cfg.MaxArticles)

	snap := snapshot.New(ranked, len(registry))
	if err := snapshot.Write(cfg.OutputPath, snap); err != nil {
		metrics.Global.SetError(err.Error())
		return fmt.Errorf("write snapshot: %w", err)
	}
	metrics.Global.SetArticlesPublished(len(ranked))
	logger.Info("snapshot written", "path", cfg.OutputPath, "total", snap.Total, "sources", snap.SourcesCount)

	// Cache writes are best effort; the snapshot is already out.
	if seenCache != nil {
		for _, a := range ranked {
			seenCache.Add(a)
		}
		if err := seenCache.Save(); err != nil {
			logger.Warn("seen cache not saved", "error", err)
		}
	}
	if err := tcache.Save(); err != nil {
		logger.Warn("translation cache not saved", "error", err)
	}

	metrics.Global.SetLastRun()
	return nil
}
