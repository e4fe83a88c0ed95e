// Package validator decides whether a collected coupon is still redeemable.
// A registry of per-source strategies is scanned in registration order; the
// first strategy claiming the coupon's source runs. Expired coupons are
// rejected before any strategy is consulted, and a coupon no strategy claims
// passes by default (fail-open, a deliberate policy).
package validator

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// Strategy validates coupons for the sources it claims via CanValidate.
type Strategy interface {
	Name() string
	CanValidate(source string) bool
	Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error)
}

// Dispatcher routes a coupon to the first matching strategy.
type Dispatcher struct {
	strategies []Strategy
	client     *http.Client
	enabled    bool
	timeout    time.Duration
}

// NewDispatcher registers the built-in strategies in the same order the
// collectors are registered.
func NewDispatcher(client *http.Client, enabled bool, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		strategies: []Strategy{
			&CursorAIStrategy{},
			&GitHubStrategy{},
			&ReplitStrategy{},
			&WarpStrategy{},
			&TabnineStrategy{},
			&GenericStrategy{},
		},
		client:  client,
		enabled: enabled,
		timeout: timeout,
	}
}

// Validate produces the validation outcome for one coupon. A strategy's
// transport error is returned to the caller and scopes to this coupon only.
func (d *Dispatcher) Validate(ctx context.Context, coupon models.Coupon) (models.ValidationResult, error) {
	// The expiry check always runs first: an expired coupon must never be
	// announced, even when validation is otherwise switched off.
	if coupon.IsExpired() {
		return models.ValidationResult{
			IsValid:     false,
			Message:     "expired",
			ValidatedAt: time.Now().UTC(),
		}, nil
	}

	if !d.enabled {
		return models.ValidationResult{
			IsValid:     true,
			Message:     "validation disabled",
			ValidatedAt: time.Now().UTC(),
		}, nil
	}

	for _, strategy := range d.strategies {
		if !strategy.CanValidate(coupon.Source) {
			continue
		}
		vctx := ctx
		if d.timeout > 0 {
			var cancel context.CancelFunc
			vctx, cancel = context.WithTimeout(ctx, d.timeout)
			defer cancel()
		}
		return strategy.Validate(vctx, &coupon, d.client)
	}

	slog.Warn("No validator found for source", "source", coupon.Source)
	return models.ValidationResult{
		IsValid:     true, // assume valid when we cannot check
		Message:     "no validator available for source: " + coupon.Source,
		ValidatedAt: time.Now().UTC(),
	}, nil
}
