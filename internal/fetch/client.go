// Package fetch builds the shared outbound HTTP client used by collectors
// and validator strategies: uniform timeout, identifying User-Agent, and a
// process-wide rate limit on outgoing requests.
package fetch

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// NewClient returns an *http.Client safe for concurrent use. rps caps
// sustained outbound request rate; bursts of 1 keep scraping polite.
func NewClient(timeout time.Duration, userAgent string, rps float64) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &transport{
			base:      http.DefaultTransport,
			limiter:   rate.NewLimiter(rate.Limit(rps), 1),
			userAgent: userAgent,
		},
	}
}

type transport struct {
	base      http.RoundTripper
	limiter   *rate.Limiter
	userAgent string
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
