package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/gnews/internal/logger"
)

type Config struct {
	// Source registry
	SourcesPath  string
	MaxPerSource int
	FetchTimeout time.Duration
	FetchDelay   time.Duration

	// Retry policy shared by fetcher and enrichment
	RetryAttempts int
	RetryDelay    time.Duration

	// Enrichment settings
	EnrichBackend  string // none | gemini | googletrans | openai
	GeminiAPIKey   string
	OpenAIAPIKey   string
	MaxAIRequests  int // per run, 0 = unlimited
	EnrichTimeout  time.Duration
	EnrichDelay    time.Duration
	TargetLanguage string

	// Output
	OutputPath  string
	MaxArticles int

	// Cache settings
	SeenCachePath        string // empty disables cross-run suppression
	TranslationCachePath string
	CacheMaxEntries      int

	// App settings
	Debug bool
}

// Fixed lookup paths for key files; the environment wins over these.
const credentialsDir = "configs/credentials"

func Load() (*Config, error) {
	cfg := &Config{
		SourcesPath:          "configs/sources.yaml",
		MaxPerSource:         20,
		FetchTimeout:         15 * time.Second,
		FetchDelay:           500 * time.Millisecond,
		RetryAttempts:        2,
		RetryDelay:           2 * time.Second,
		MaxAIRequests:        50,
		EnrichTimeout:        60 * time.Second,
		EnrichDelay:          time.Second,
		TargetLanguage:       "zh",
		OutputPath:           "data/news.json",
		MaxArticles:          100,
		TranslationCachePath: "data/translation_cache.json",
		CacheMaxEntries:      500,
	}

	cfg.SourcesPath = getEnvOrDefault("SOURCES_CONFIG_PATH", cfg.SourcesPath)
	cfg.OutputPath = getEnvOrDefault("OUTPUT_PATH", cfg.OutputPath)
	cfg.SeenCachePath = os.Getenv("SEEN_CACHE_PATH")
	cfg.TranslationCachePath = getEnvOrDefault("TRANSLATION_CACHE_PATH", cfg.TranslationCachePath)
	cfg.TargetLanguage = getEnvOrDefault("TARGET_LANGUAGE", cfg.TargetLanguage)

	cfg.MaxPerSource = getEnvIntOrDefault("MAX_PER_SOURCE", cfg.MaxPerSource)
	cfg.MaxArticles = getEnvIntOrDefault("MAX_ARTICLES", cfg.MaxArticles)
	cfg.MaxAIRequests = getEnvIntOrDefault("MAX_AI_REQUESTS", cfg.MaxAIRequests)
	cfg.CacheMaxEntries = getEnvIntOrDefault("CACHE_MAX_ENTRIES", cfg.CacheMaxEntries)
	cfg.RetryAttempts = getEnvIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)

	if v := os.Getenv("FETCH_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.FetchTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("ENRICH_TIMEOUT_SECONDS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val > 0 {
			cfg.EnrichTimeout = time.Duration(val) * time.Second
		}
	}
	if v := os.Getenv("FETCH_DELAY_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.FetchDelay = time.Duration(val) * time.Millisecond
		}
	}
	if v := os.Getenv("ENRICH_DELAY_MS"); v != "" {
		if val, err := strconv.Atoi(v); err == nil && val >= 0 {
			cfg.EnrichDelay = time.Duration(val) * time.Millisecond
		}
	}

	cfg.GeminiAPIKey = loadCredential("GEMINI_API_KEY", "gemini.key")
	cfg.OpenAIAPIKey = loadCredential("OPENAI_API_KEY", "openai.key")

	cfg.EnrichBackend = strings.ToLower(os.Getenv("ENRICH_BACKEND"))
	if cfg.EnrichBackend == "" {
		// Pick the best backend the available credentials allow.
		switch {
		case cfg.GeminiAPIKey != "":
			cfg.EnrichBackend = "gemini"
		case cfg.OpenAIAPIKey != "":
			cfg.EnrichBackend = "openai"
		default:
			cfg.EnrichBackend = "none"
		}
	}

	// A backend without its key degrades to no enrichment; the run
	// still fetches and publishes.
	if cfg.EnrichBackend == "gemini" && cfg.GeminiAPIKey == "" {
		logger.Warn("gemini backend configured without GEMINI_API_KEY, enrichment disabled",
			"key_file", filepath.Join(credentialsDir, "gemini.key"))
		cfg.EnrichBackend = "none"
	}
	if cfg.EnrichBackend == "openai" && cfg.OpenAIAPIKey == "" {
		logger.Warn("openai backend configured without OPENAI_API_KEY, enrichment disabled",
			"key_file", filepath.Join(credentialsDir, "openai.key"))
		cfg.EnrichBackend = "none"
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch c.EnrichBackend {
	case "none", "gemini", "googletrans", "openai":
	default:
		return fmt.Errorf("ENRICH_BACKEND must be one of none, gemini, googletrans, openai (got %q)", c.EnrichBackend)
	}
	if c.MaxArticles <= 0 {
		return fmt.Errorf("MAX_ARTICLES must be positive")
	}
	return nil
}

// loadCredential resolves a secret from the environment first, then from
// a key file under configs/credentials.
func loadCredential(envKey, fileName string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	data, err := os.ReadFile(filepath.Join(credentialsDir, fileName))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
