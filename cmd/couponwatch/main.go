package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/NullMeDev/couponwatch/internal/ai"
	"github.com/NullMeDev/couponwatch/internal/config"
	"github.com/NullMeDev/couponwatch/internal/fetch"
	"github.com/NullMeDev/couponwatch/internal/notifier"
	"github.com/NullMeDev/couponwatch/internal/processor"
	"github.com/NullMeDev/couponwatch/internal/scheduler"
	"github.com/NullMeDev/couponwatch/internal/scraper"
	"github.com/NullMeDev/couponwatch/internal/storage"
	"github.com/NullMeDev/couponwatch/internal/validator"
)

const outboundTimeout = 30 * time.Second

func main() {
	slog.Info("Starting couponwatch...")

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.New(ctx, cfg.ProjectID)
	if err != nil {
		slog.Error("Critical error initializing Firestore client", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	enricher, err := ai.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		slog.Error("Critical error initializing Gemini client", "error", err)
		os.Exit(1)
	}

	httpClient := fetch.NewClient(outboundTimeout, cfg.ScraperUserAgent, cfg.ScraperRateLimitRPS)
	scrapers := scraper.All(cfg.GenericScrapeURLs)
	dispatch := validator.NewDispatcher(httpClient, cfg.ValidationEnabled, cfg.ValidationTimeout)
	notify := notifier.New(cfg.DiscordWebhookURL, cfg.DiscordBotToken, cfg.DiscordChannelID)

	// A nil *ai.Client must stay a nil interface so the enrichment step is
	// skipped entirely.
	var enrich processor.CouponEnricher
	if enricher != nil {
		enrich = enricher
	}

	p := processor.New(store, notify, dispatch, enrich, scrapers, httpClient, cfg.MaxConcurrentScrapers)
	sched := scheduler.New(p, cfg.ScrapeInterval)

	schedDone := make(chan struct{})
	go func() {
		defer close(schedDone)
		sched.Run(ctx)
	}()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"last_run": sched.LastRun(),
		})
	})
	mux.HandleFunc("/run", func(w http.ResponseWriter, r *http.Request) {
		sched.TriggerNow()
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("batch triggered\n"))
	})

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		slog.Info("Received shutdown signal, stopping...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}

	<-schedDone
	slog.Info("couponwatch stopped.")
}
