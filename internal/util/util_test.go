package util

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryWithBackoff_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(attempt int) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryWithBackoff_SucceedsAfterRetries(t *testing.T) {
	calls := 0
	err := RetryWithBackoff(context.Background(), 3, time.Millisecond, func(attempt int) error {
		calls++
		if attempt < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	sentinel := errors.New("permanent")
	calls := 0
	err := RetryWithBackoff(context.Background(), 2, time.Millisecond, func(attempt int) error {
		calls++
		return sentinel
	})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !errors.Is(err, sentinel) {
		t.Errorf("error should wrap the last failure, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (initial + 2 retries)", calls)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, 5, time.Second, func(attempt int) error {
		return errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestExtractCouponCodes(t *testing.T) {
	text := "Use code: SAVE20 at checkout. Also try CODE DEV-TOOLS for extras."
	codes := ExtractCouponCodes(text)
	if len(codes) != 2 {
		t.Fatalf("codes = %v, want 2 entries", codes)
	}
	if codes[0] != "SAVE20" || codes[1] != "DEV-TOOLS" {
		t.Errorf("codes = %v, want [SAVE20 DEV-TOOLS]", codes)
	}
}

func TestExtractCouponCodes_NoMatch(t *testing.T) {
	if codes := ExtractCouponCodes("nothing to see here"); codes != nil {
		t.Errorf("codes = %v, want nil", codes)
	}
}

func TestExtractDiscount(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    float64
		wantHit bool
	}{
		{"percent off", "Get 25% off your first year", 25, true},
		{"percent discount", "students get a 100% discount", 100, true},
		{"no discount", "free shipping on all orders", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := ExtractDiscount(tt.text)
			if hit != tt.wantHit || got != tt.want {
				t.Errorf("ExtractDiscount(%q) = (%v, %v), want (%v, %v)", tt.text, got, hit, tt.want, tt.wantHit)
			}
		})
	}
}
