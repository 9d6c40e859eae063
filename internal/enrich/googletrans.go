package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deusflow/gnews/internal/article"
	"github.com/deusflow/gnews/internal/config"
	"github.com/deusflow/gnews/internal/logger"
	"github.com/deusflow/gnews/internal/metrics"
	"github.com/deusflow/gnews/internal/ratelimit"
)

const (
	googleTransEndpoint  = "https://translate.googleapis.com/translate_a/single"
	googleTransBatchSize = 20
	googleTransTimeout   = 15 * time.Second
)

// GoogleTransBackend translates headline batches through the public
// Google Translate endpoint. No credentials, so it is the cheapest
// remote variant; one request carries a whole newline-joined batch.
type GoogleTransBackend struct {
	endpoint string
	client   *http.Client
	pacer    *ratelimit.Pacer
	target   string
}

func NewGoogleTransBackend(cfg *config.Config) *GoogleTransBackend {
	return &GoogleTransBackend{
		endpoint: googleTransEndpoint,
		client:   &http.Client{Timeout: googleTransTimeout},
		pacer:    ratelimit.NewPacer(cfg.EnrichDelay),
		target:   cfg.TargetLanguage,
	}
}

func (b *GoogleTransBackend) Name() string { return "googletrans" }

func (b *GoogleTransBackend) Enrich(ctx context.Context, articles []article.Article) []article.Article {
	out := make([]article.Article, len(articles))
	copy(out, articles)

	var pending []int
	for i := range out {
		out[i].EnrichedText = out[i].Title
		if !skipEnrichment(out[i].Title) {
			pending = append(pending, i)
		}
	}

	for _, batch := range batches(pending, googleTransBatchSize) {
		if err := b.pacer.Wait(ctx); err != nil {
			logger.Warn("translate pacing interrupted", "error", err)
			break
		}

		lines, err := b.translateBatch(ctx, out, batch)
		if err != nil {
			logger.Warn("translate batch failed, keeping original titles", "batch_size", len(batch), "error", err)
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

func (b *GoogleTransBackend) translateBatch(ctx context.Context, articles []article.Article, batch []int) ([]string, error) {
	titles := make([]string, len(batch))
	for k, i := range batch {
		// The joined query is split back on newlines, so embedded ones
		// must go.
		titles[k] = strings.ReplaceAll(articles[i].Title, "\n", " ")
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", b.target)
	params.Set("dt", "t")
	params.Set("q", strings.Join(titles, "\n"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("translate endpoint returned status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	joined, err := parseTranslateResponse(body)
	if err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	return alignLines(joined, len(batch)), nil
}

// parseTranslateResponse unpacks the endpoint's nested-array payload:
// the first element holds segment arrays whose first field is the
// translated text, newlines preserved.
func parseTranslateResponse(body []byte) (string, error) {
	var response []interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", err
	}
	if len(response) == 0 {
		return "", errors.New("empty response from translate endpoint")
	}

	segments, ok := response[0].([]interface{})
	if !ok {
		return "", errors.New("unexpected response format")
	}

	var result strings.Builder
	for _, segment := range segments {
		if parts, ok := segment.([]interface{}); ok && len(parts) > 0 {
			if text, ok := parts[0].(string); ok {
				result.WriteString(text)
			}
		}
	}
	return result.String(), nil
}
