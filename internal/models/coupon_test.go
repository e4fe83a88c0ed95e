package models

import (
	"testing"
	"time"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("X Pro", "ABC123", "http://x.test/offer")
	b := Fingerprint("X Pro", "ABC123", "http://x.test/offer")
	if a != b {
		t.Errorf("identical triples produced different fingerprints: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("expected 64-char hex fingerprint, got %d chars", len(a))
	}
}

func TestFingerprint_FieldSensitivity(t *testing.T) {
	base := Fingerprint("X Pro", "ABC123", "http://x.test/offer")

	variants := map[string]string{
		"name changed": Fingerprint("X Pro 2", "ABC123", "http://x.test/offer"),
		"code changed": Fingerprint("X Pro", "ABC124", "http://x.test/offer"),
		"url changed":  Fingerprint("X Pro", "ABC123", "http://x.test/other"),
		"case changed": Fingerprint("x pro", "ABC123", "http://x.test/offer"),
		// Field boundaries must matter: shifting a character between fields
		// must not collide.
		"boundary shifted": Fingerprint("X ProA", "BC123", "http://x.test/offer"),
	}
	for name, fp := range variants {
		if fp == base {
			t.Errorf("%s: fingerprint did not change", name)
		}
	}
}

func TestNewCoupon(t *testing.T) {
	expiry := time.Now().Add(30 * 24 * time.Hour)
	c := NewCoupon("X Pro", "desc", Pct(50), "ABC123", "http://x.test/offer", SourceGeneric, &expiry)

	if c.Fingerprint != Fingerprint("X Pro", "ABC123", "http://x.test/offer") {
		t.Error("constructor fingerprint does not match Fingerprint()")
	}
	if c.CreatedAt.IsZero() {
		t.Error("CreatedAt not assigned")
	}
	if c.IsValid || c.IsPosted {
		t.Error("new coupon must start unvalidated and unposted")
	}
	if c.ValidatedAt != nil {
		t.Error("new coupon must not have a validation timestamp")
	}
	if *c.DiscountPercentage != 50 {
		t.Errorf("discount = %v, want 50", *c.DiscountPercentage)
	}
}

func TestIsExpired(t *testing.T) {
	past := time.Now().Add(-time.Second)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name   string
		expiry *time.Time
		want   bool
	}{
		{"past expiry", &past, true},
		{"future expiry", &future, false},
		{"no expiry", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Coupon{Expiry: tt.expiry}
			if got := c.IsExpired(); got != tt.want {
				t.Errorf("IsExpired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrCouponExists(t *testing.T) {
	if ErrCouponExists.Error() != "coupon already exists" {
		t.Errorf("unexpected sentinel message: %q", ErrCouponExists.Error())
	}
}
