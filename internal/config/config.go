package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// defaultGenericURLs are the aggregator pages the generic collector watches
// when GENERIC_SCRAPE_URLS is not set.
var defaultGenericURLs = []string{
	"https://aidevtools.com/deals",
	"https://llmdeals.net",
	"https://devsoftwaredeals.com",
}

type Config struct {
	ProjectID string `validate:"required"`

	// Exactly one delivery mechanism must be configured: a webhook URL, or a
	// bot token plus channel ID. Checked in Load, not by tags.
	DiscordWebhookURL string `validate:"omitempty,url"`
	DiscordBotToken   string
	DiscordChannelID  string

	Port string

	ScrapeIntervalMinutes int `validate:"gte=1"`
	MaxConcurrentScrapers int `validate:"gte=1"`
	ScraperUserAgent      string
	ScraperRateLimitRPS   float64 `validate:"gt=0"`
	GenericScrapeURLs     []string

	ValidationEnabled        bool
	ValidationTimeoutSeconds int `validate:"gte=1"`

	GeminiAPIKey string
	GeminiModel  string

	// Derived durations, computed after parsing.
	ScrapeInterval    time.Duration
	ValidationTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		ProjectID:                os.Getenv("GOOGLE_CLOUD_PROJECT"),
		DiscordWebhookURL:        os.Getenv("DISCORD_WEBHOOK_URL"),
		DiscordBotToken:          os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordChannelID:         os.Getenv("DISCORD_CHANNEL_ID"),
		Port:                     os.Getenv("PORT"),
		ScrapeIntervalMinutes:    60,
		MaxConcurrentScrapers:    4,
		ScraperUserAgent:         "Mozilla/5.0 (compatible; couponwatch/1.0)",
		ScraperRateLimitRPS:      2,
		GenericScrapeURLs:        defaultGenericURLs,
		ValidationEnabled:        true,
		ValidationTimeoutSeconds: 10,
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		GeminiModel:              "gemini-1.5-flash",
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		slog.Info("Defaulting to port", "port", cfg.Port)
	}

	if v := os.Getenv("SCRAPE_INTERVAL_MINUTES"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPE_INTERVAL_MINUTES %q: %w", v, err)
		}
		cfg.ScrapeIntervalMinutes = parsed
	}

	if v := os.Getenv("MAX_CONCURRENT_SCRAPERS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_CONCURRENT_SCRAPERS %q: %w", v, err)
		}
		cfg.MaxConcurrentScrapers = parsed
	}

	if v := os.Getenv("SCRAPER_USER_AGENT"); v != "" {
		cfg.ScraperUserAgent = v
	}

	if v := os.Getenv("SCRAPER_RATE_LIMIT_RPS"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SCRAPER_RATE_LIMIT_RPS %q: %w", v, err)
		}
		cfg.ScraperRateLimitRPS = parsed
	}

	if v := os.Getenv("GENERIC_SCRAPE_URLS"); v != "" {
		var urls []string
		for _, u := range strings.Split(v, ",") {
			if u = strings.TrimSpace(u); u != "" {
				urls = append(urls, u)
			}
		}
		cfg.GenericScrapeURLs = urls
	}

	if v := os.Getenv("VALIDATION_ENABLED"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VALIDATION_ENABLED %q: %w", v, err)
		}
		cfg.ValidationEnabled = parsed
	}

	if v := os.Getenv("VALIDATION_TIMEOUT_SECONDS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VALIDATION_TIMEOUT_SECONDS %q: %w", v, err)
		}
		cfg.ValidationTimeoutSeconds = parsed
	}

	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.DiscordWebhookURL == "" && (cfg.DiscordBotToken == "" || cfg.DiscordChannelID == "") {
		return nil, fmt.Errorf("no Discord delivery channel configured: set DISCORD_WEBHOOK_URL, or DISCORD_BOT_TOKEN with DISCORD_CHANNEL_ID")
	}

	cfg.ScrapeInterval = time.Duration(cfg.ScrapeIntervalMinutes) * time.Minute
	cfg.ValidationTimeout = time.Duration(cfg.ValidationTimeoutSeconds) * time.Second

	return cfg, nil
}
