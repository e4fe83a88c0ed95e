package config

import (
	"strings"
	"testing"
	"time"
)

// setRequiredEnv sets the minimum environment for Load to succeed and clears
// optional overrides that may leak in from the host environment.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.test/webhook")
	for _, name := range []string{
		"PORT", "SCRAPE_INTERVAL_MINUTES", "MAX_CONCURRENT_SCRAPERS",
		"VALIDATION_ENABLED", "VALIDATION_TIMEOUT_SECONDS",
		"GENERIC_SCRAPE_URLS", "SCRAPER_RATE_LIMIT_RPS",
	} {
		t.Setenv(name, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.ProjectID != "test-project" {
		t.Errorf("ProjectID = %s, want test-project", cfg.ProjectID)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.ScrapeInterval != 60*time.Minute {
		t.Errorf("ScrapeInterval = %s, want 60m", cfg.ScrapeInterval)
	}
	if cfg.MaxConcurrentScrapers != 4 {
		t.Errorf("MaxConcurrentScrapers = %d, want 4", cfg.MaxConcurrentScrapers)
	}
	if !cfg.ValidationEnabled {
		t.Error("ValidationEnabled should default to true")
	}
	if cfg.ValidationTimeout != 10*time.Second {
		t.Errorf("ValidationTimeout = %s, want 10s", cfg.ValidationTimeout)
	}
	if len(cfg.GenericScrapeURLs) != 3 {
		t.Errorf("expected 3 default generic URLs, got %d", len(cfg.GenericScrapeURLs))
	}
}

func TestLoad_MissingProjectID(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.test/webhook")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when GOOGLE_CLOUD_PROJECT is not set")
	}
}

func TestLoad_NoDeliveryChannel(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("DISCORD_BOT_TOKEN", "")
	t.Setenv("DISCORD_CHANNEL_ID", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() should fail when no delivery channel is configured")
	}
	if !strings.Contains(err.Error(), "delivery channel") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_BotTokenChannel(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "test-project")
	t.Setenv("DISCORD_WEBHOOK_URL", "")
	t.Setenv("DISCORD_BOT_TOKEN", "token-123")
	t.Setenv("DISCORD_CHANNEL_ID", "999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.DiscordBotToken != "token-123" || cfg.DiscordChannelID != "999" {
		t.Error("bot token channel config not loaded")
	}

	// Token without channel is not a usable channel.
	t.Setenv("DISCORD_CHANNEL_ID", "")
	if _, err := Load(); err == nil {
		t.Error("Load() should fail with a bot token but no channel ID")
	}
}

func TestLoad_IntervalBelowMinimum(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCRAPE_INTERVAL_MINUTES", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a scrape interval below 1 minute")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SCRAPE_INTERVAL_MINUTES", "5")
	t.Setenv("VALIDATION_ENABLED", "false")
	t.Setenv("VALIDATION_TIMEOUT_SECONDS", "30")
	t.Setenv("GENERIC_SCRAPE_URLS", "https://a.test/deals, https://b.test/deals")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.ScrapeInterval != 5*time.Minute {
		t.Errorf("ScrapeInterval = %s, want 5m", cfg.ScrapeInterval)
	}
	if cfg.ValidationEnabled {
		t.Error("ValidationEnabled should be false")
	}
	if cfg.ValidationTimeout != 30*time.Second {
		t.Errorf("ValidationTimeout = %s, want 30s", cfg.ValidationTimeout)
	}
	want := []string{"https://a.test/deals", "https://b.test/deals"}
	if len(cfg.GenericScrapeURLs) != len(want) {
		t.Fatalf("GenericScrapeURLs = %v, want %v", cfg.GenericScrapeURLs, want)
	}
	for i := range want {
		if cfg.GenericScrapeURLs[i] != want[i] {
			t.Errorf("GenericScrapeURLs[%d] = %s, want %s", i, cfg.GenericScrapeURLs[i], want[i])
		}
	}
}

func TestLoad_InvalidNumeric(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MAX_CONCURRENT_SCRAPERS", "lots")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a non-numeric MAX_CONCURRENT_SCRAPERS")
	}
}
