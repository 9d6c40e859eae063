package enrich

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/config"
	"github.com/deusflow/gnews/internal/logger"
	"github.com/deusflow/gnews/internal/metrics"
	"github.com/deusflow/gnews/internal/ratelimit"
)

const (
	geminiModel     = "gemini-1.5-flash"
	geminiBatchSize = 10
)

// GeminiBackend summarizes headline batches with one model call per
// batch, each title carried under a positional index.
type GeminiBackend struct {
	client  *genai.Client
	pacer   *ratelimit.Pacer
	budget  *ratelimit.Budget
	timeout time.Duration
	target  string
}

func NewGeminiBackend(cfg *config.Config) (*GeminiBackend, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiBackend{
		client:  client,
		pacer:   ratelimit.NewPacer(cfg.EnrichDelay),
		budget:  ratelimit.NewBudget("gemini", cfg.MaxAIRequests),
		timeout: cfg.EnrichTimeout,
		target:  cfg.TargetLanguage,
	}, nil
}

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Close() {
	if b.client != nil {
		b.client.Close()
	}
}

func (b *GeminiBackend) Enrich(ctx context.Context, articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)

	var pending []int
	for i := range out {
		out[i].EnrichedText = out[i].Title
		if !skipEnrichment(out[i].Title) {
			pending = append(pending, i)
		}
	}

	for _, batch := range batches(pending, geminiBatchSize) {
		if err := b.budget.Take(); err != nil {
			logger.Warn("gemini budget exhausted, remaining titles keep originals", "error", err)
			break
		}
		if err := b.pacer.Wait(ctx); err != nil {
			logger.Warn("gemini pacing interrupted", "error", err)
			break
		}

		lines, err := b.summarizeBatch(ctx, out, batch)
		if err != nil {
			logger.Warn("gemini batch failed, keeping original titles", "batch_size", len(batch), "error", err)
			metrics.Global.IncrementEnrichmentsFailed()
			continue
		}
		for k, i := range batch {
			if k < len(lines) && lines[k] != "" {
				out[i].EnrichedText = lines[k]
			}
		}
		metrics.Global.IncrementEnrichmentsOK()
	}
	return out
}

func (b *GeminiBackend) summarizeBatch(ctx context.Context, articles []article.Article, batch []int) ([]string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Translate each numbered news headline into one concise %s sentence.\n", languageName(b.target))
	sb.WriteString("Keep names of people, brands and organizations as they are.\n")
	sb.WriteString("Reply with exactly one line per headline, keeping the same numbering, nothing else.\n\n")
	for k, i := range batch {
		fmt.Fprintf(&sb, "%d. %s\n", k+1, articles[i].Title)
	}

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	model := b.client.GenerativeModel(geminiModel)
	resp, err := model.GenerateContent(callCtx, genai.Text(sb.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response from Gemini")
	}

	text := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	return alignLines(text, len(batch)), nil
}
