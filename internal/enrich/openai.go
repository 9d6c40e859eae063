package enrich

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/config"
	"github.com/deusflow/gnews/internal/logger"
	"github.com/deusflow/gnews/internal/metrics"
	"github.com/deusflow/gnews/internal/ratelimit"
	"github.com/deusflow/gnews/internal/storage"
)

const openaiTimeout = 20 * time.Second

// OpenAIBackend translates one title per request. Slower than the
// batch backends but exact, and the persisted text-hash cache makes
// repeated titles free across runs.
type OpenAIBackend struct {
	client *openai.Client
	cache  *storage.TranslationCache // nil disables caching
	pacer  *ratelimit.Pacer
	budget *ratelimit.Budget
	target string
}

func NewOpenAIBackend(cfg *config.Config, cache *storage.TranslationCache) *OpenAIBackend {
	return &OpenAIBackend{
		client: openai.NewClient(cfg.OpenAIAPIKey),
		cache:  cache,
		pacer:  ratelimit.NewPacer(cfg.EnrichDelay),
		budget: ratelimit.NewBudget("openai", cfg.MaxAIRequests),
		target: cfg.TargetLanguage,
	}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Enrich(ctx context.Context, articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)

	for i := range out {
		out[i].EnrichedText = out[i].Title
		if skipEnrichment(out[i].Title) {
			continue
		}

		if b.cache != nil {
			if cached, ok := b.cache.Get(storage.Key(out[i].Title)); ok {
				out[i].EnrichedText = cached
				metrics.Global.IncrementCacheHits()
				continue
			}
		}

		if err := b.budget.Take(); err != nil {
			logger.Warn("openai budget exhausted, remaining titles keep originals", "error", err)
			break
		}
		if err := b.pacer.Wait(ctx); err != nil {
			logger.Warn("openai pacing interrupted", "error", err)
			break
		}

		translated, err := b.translateTitle(ctx, out[i].Title)
		if err != nil {
			logger.Warn("openai translation failed, keeping original title", "title", out[i].Title, "error", err)
			metrics.Global.IncrementEnrichmentsFailed()
			continue
		}

		out[i].EnrichedText = translated
		if b.cache != nil {
			b.cache.Put(storage.Key(out[i].Title), translated)
		}
		metrics.Global.IncrementEnrichmentsOK()
	}
	return out
}

func (b *OpenAIBackend) translateTitle(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf(`Translate this news headline to %s.
Keep it to one line, keep proper names as they are, no comments.

Headline:
%s`, languageName(b.target), title)

	callCtx, cancel := context.WithTimeout(ctx, openaiTimeout)
	defer cancel()

	resp, err := b.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens: 200,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", errors.New("empty translation from OpenAI")
	}
	// Single line by contract.
	if idx := strings.IndexByte(translated, '\n'); idx >= 0 {
		translated = strings.TrimSpace(translated[:idx])
	}
	return translated, nil
}

func languageName(code string) string {
	switch code {
	case "zh":
		return "Chinese"
	case "en":
		return "English"
	case "ja":
		return "Japanese"
	case "ko":
		return "Korean"
	default:
		return code
	}
}
