// Package scraper holds the source collectors. Each collector knows one
// vendor's promo pages and turns them into coupon candidates; a collector
// failure is the caller's to log and never aborts the other collectors.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/NullMeDev/couponwatch/internal/models"
	"github.com/NullMeDev/couponwatch/internal/util"
)

// Scraper produces coupon candidates for a single source.
type Scraper interface {
	Name() string
	Source() string
	Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error)
}

// All returns every collector in registration order. Order matters: the
// pipeline flattens candidates in this order, and the validator registry
// mirrors it.
func All(genericURLs []string) []Scraper {
	return []Scraper{
		NewCursorAI(),
		NewGitHub(),
		NewReplit(),
		NewWarp(),
		NewTabnine(),
		NewGeneric(genericURLs),
	}
}

const fetchRetries = 2

// retryBaseDelay is a var so tests can avoid real backoff waits.
var retryBaseDelay = time.Second

func get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	return resp, nil
}

// fetchDocument GETs url and parses the body, retrying transient failures
// with backoff. Non-200 statuses count as failures.
func fetchDocument(ctx context.Context, client *http.Client, url string) (*goquery.Document, error) {
	var doc *goquery.Document
	err := util.RetryWithBackoff(ctx, fetchRetries, retryBaseDelay, func(_ int) error {
		resp, err := get(ctx, client, url)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
		}
		parsed, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", url, err)
		}
		doc = parsed
		return nil
	})
	return doc, err
}

// pageReachable reports whether url answers 200. Some student programs have
// no machine-readable offer; the page being up is the whole signal.
func pageReachable(ctx context.Context, client *http.Client, url string) (bool, error) {
	resp, err := get(ctx, client, url)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

func daysFromNow(days int) *time.Time {
	t := time.Now().UTC().AddDate(0, 0, days)
	return &t
}

func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}
