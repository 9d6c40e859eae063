// Package feed fetches and normalizes one RSS source at a time.
package feed

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"

	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/logger"
	"github.com/deusflow/gnews/internal/metrics"
	"github.com/deusflow/gnews/internal/retry"
	"github.com/deusflow/gnews/internal/sources"
)

type Fetcher struct {
	parser       *gofeed.Parser
	maxPerSource int
	retryCfg     retry.Config
}

func NewFetcher(maxPerSource int, retryCfg retry.Config) *Fetcher {
	return &Fetcher{
		parser:       gofeed.NewParser(),
		maxPerSource: maxPerSource,
		retryCfg:     retryCfg,
	}
}

// Fetch returns the normalized entries of one source, capped at
// maxPerSource. A source that cannot be fetched or parsed contributes
// zero articles; the error is logged and counted, never propagated.
func (f *Fetcher) Fetch(ctx context.Context, src sources.Descriptor) []article.Article {
	var parsed *gofeed.Feed

	err := retry.WithRetry(ctx, f.retryCfg, func() error {
		feed, err := f.parser.ParseURLWithContext(src.RSS, ctx)
		if err != nil {
			return fmt.Errorf("parse %s: %w", src.RSS, err)
		}
		parsed = feed
		return nil
	})
	if err != nil {
		logger.Warn("source fetch failed, skipping", "source", src.ID, "error", err)
		metrics.Global.IncrementSourcesFailed()
		return nil
	}

	items := parsed.Items
	if len(items) > f.maxPerSource {
		items = items[:f.maxPerSource]
	}

	articles := make([]article.Article, 0, len(items))
	for _, item := range items {
		if item == nil || item.Title == "" {
			continue
		}
		articles = append(articles, article.FromFeedItem(item, src))
	}

	metrics.Global.IncrementSourcesFetched()
	metrics.Global.AddItemsSeen(len(articles))
	logger.Info("source fetched", "source", src.ID, "items", len(articles))
	return articles
}
