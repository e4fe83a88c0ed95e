// Package processor runs one batch cycle: fan out every collector, flatten
// the candidates, and walk each one through dedup, insert, validation,
// notification and the posted flag. One candidate's failure never hides
// another's; a collector failure contributes zero candidates and nothing else.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/NullMeDev/couponwatch/internal/models"
	"github.com/NullMeDev/couponwatch/internal/scraper"
)

type Processor struct {
	store         CouponStore
	notifier      CouponNotifier
	validator     CouponValidator
	enricher      CouponEnricher // nil when no API key is configured
	scrapers      []scraper.Scraper
	httpClient    *http.Client
	maxConcurrent int
}

func New(store CouponStore, notifier CouponNotifier, validator CouponValidator, enricher CouponEnricher, scrapers []scraper.Scraper, httpClient *http.Client, maxConcurrent int) *Processor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Processor{
		store:         store,
		notifier:      notifier,
		validator:     validator,
		enricher:      enricher,
		scrapers:      scrapers,
		httpClient:    httpClient,
		maxConcurrent: maxConcurrent,
	}
}

// RunBatch executes one full cycle. It first re-attempts delivery for
// records stranded valid-and-unposted by earlier cycles, then collects and
// processes fresh candidates. The returned error summarizes per-candidate
// failures; the batch itself always attempts every candidate.
func (p *Processor) RunBatch(ctx context.Context) error {
	p.redeliverUnposted(ctx)

	candidates := p.collect(ctx)
	slog.Info("Collected coupon candidates", "count", len(candidates))

	var failures []string
	for i := range candidates {
		if err := p.processCoupon(ctx, candidates[i]); err != nil {
			slog.Error("Failed to process coupon", "name", candidates[i].Name, "error", err)
			failures = append(failures, err.Error())
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("batch finished with %d failed candidates: %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

// CleanupExpired deletes every record whose expiry has passed.
func (p *Processor) CleanupExpired(ctx context.Context) (int, error) {
	return p.store.DeleteExpired(ctx)
}

// collect fans out all collectors with bounded concurrency and flattens the
// results in registration order. Collector failures are logged here and
// contribute zero candidates.
func (p *Processor) collect(ctx context.Context) []models.Coupon {
	results := make([][]models.Coupon, len(p.scrapers))

	var g errgroup.Group
	g.SetLimit(p.maxConcurrent)
	for i, s := range p.scrapers {
		g.Go(func() error {
			coupons, err := s.Scrape(ctx, p.httpClient)
			if err != nil {
				slog.Error("Collector failed", "collector", s.Name(), "error", err)
				return nil
			}
			slog.Info("Collector finished", "collector", s.Name(), "count", len(coupons))
			results[i] = coupons
			return nil
		})
	}
	g.Wait()

	var all []models.Coupon
	for _, coupons := range results {
		all = append(all, coupons...)
	}
	return all
}

// processCoupon walks one candidate through the record state machine.
func (p *Processor) processCoupon(ctx context.Context, coupon models.Coupon) error {
	exists, err := p.store.ExistsByFingerprint(ctx, coupon.Fingerprint)
	if err != nil {
		return fmt.Errorf("failed to check fingerprint for %q: %w", coupon.Name, err)
	}
	if exists {
		slog.Debug("Coupon already known, skipping", "name", coupon.Name, "fingerprint", coupon.Fingerprint)
		return nil
	}

	p.enrich(ctx, &coupon)

	id, err := p.store.Insert(ctx, coupon)
	if err != nil {
		if errors.Is(err, models.ErrCouponExists) {
			// Residual uniqueness violation past the pre-check.
			slog.Warn("Duplicate fingerprint at insert, skipping", "name", coupon.Name, "fingerprint", coupon.Fingerprint)
			return nil
		}
		return fmt.Errorf("failed to insert coupon %q: %w", coupon.Name, err)
	}

	res, err := p.validator.Validate(ctx, coupon)
	if err != nil {
		// The record stays pending; the dedup gate keeps it from being
		// re-collected, so surface the failure to the batch summary.
		return fmt.Errorf("failed to validate coupon %q: %w", coupon.Name, err)
	}
	if err := p.store.UpdateValidation(ctx, id, res.IsValid); err != nil {
		return fmt.Errorf("failed to record validation for %q: %w", coupon.Name, err)
	}
	if !res.IsValid {
		slog.Info("Coupon is invalid", "name", coupon.Name, "reason", res.Message)
		return nil
	}

	coupon.IsValid = true
	coupon.ValidatedAt = &res.ValidatedAt
	if err := p.notifier.Send(ctx, coupon); err != nil {
		// The record stays valid and unposted; the next cycle's
		// redeliverUnposted sweep retries it.
		slog.Warn("Failed to deliver notification, will retry next cycle", "name", coupon.Name, "error", err)
		return nil
	}
	if err := p.store.MarkPosted(ctx, id); err != nil {
		// Delivered but not flagged: the next sweep may re-deliver. Accepted.
		return fmt.Errorf("failed to mark coupon %q posted: %w", coupon.Name, err)
	}
	slog.Info("Coupon posted", "name", coupon.Name, "source", coupon.Source)
	return nil
}

// redeliverUnposted retries delivery for records that validated in an earlier
// cycle but never reached the channel. Expired records are skipped; the
// cleanup sweep owns those.
func (p *Processor) redeliverUnposted(ctx context.Context) {
	coupons, err := p.store.ListValidUnposted(ctx)
	if err != nil {
		slog.Error("Failed to list valid unposted coupons", "error", err)
		return
	}
	for i := range coupons {
		coupon := coupons[i]
		if coupon.IsExpired() {
			continue
		}
		if err := p.notifier.Send(ctx, coupon); err != nil {
			slog.Warn("Redelivery failed", "name", coupon.Name, "error", err)
			continue
		}
		if err := p.store.MarkPosted(ctx, coupon.Fingerprint); err != nil {
			slog.Error("Failed to mark redelivered coupon posted", "name", coupon.Name, "error", err)
			continue
		}
		slog.Info("Redelivered coupon", "name", coupon.Name)
	}
}

func (p *Processor) enrich(ctx context.Context, coupon *models.Coupon) {
	if p.enricher == nil {
		return
	}
	summary, noteworthy, err := p.enricher.AnalyzeCoupon(ctx, *coupon)
	if err != nil {
		slog.Warn("Coupon enrichment failed", "name", coupon.Name, "error", err)
		return
	}
	if summary != "" {
		coupon.Description = summary
	}
	if noteworthy {
		slog.Info("Noteworthy coupon", "name", coupon.Name, "source", coupon.Source)
	}
}
