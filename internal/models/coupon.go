package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// ErrCouponExists is returned when attempting to insert a coupon whose
// fingerprint is already in the store.
var ErrCouponExists = errors.New("coupon already exists")

// Known coupon sources. Generic is the catch-all for configured URL lists.
const (
	SourceCursorAI = "Cursor AI"
	SourceGitHub   = "GitHub"
	SourceReplit   = "Replit"
	SourceWarp     = "Warp"
	SourceTabnine  = "Tabnine"
	SourceGeneric  = "Generic"
)

// Coupon represents a promotional offer for a developer tool.
type Coupon struct {
	Fingerprint        string     `firestore:"fingerprint"`
	Name               string     `firestore:"name" validate:"required"`
	Description        string     `firestore:"description"`
	DiscountPercentage *float64   `firestore:"discountPercentage,omitempty"`
	Code               string     `firestore:"code" validate:"required"`
	URL                string     `firestore:"url" validate:"required,url"`
	Source             string     `firestore:"source"`
	Expiry             *time.Time `firestore:"expiry,omitempty"`
	CreatedAt          time.Time  `firestore:"createdAt"`
	ValidatedAt        *time.Time `firestore:"validatedAt,omitempty"`
	IsValid            bool       `firestore:"isValid"`
	IsPosted           bool       `firestore:"isPosted"`
}

// NewCoupon builds a fresh, unvalidated coupon candidate. The fingerprint and
// creation timestamp are assigned here, exactly once.
func NewCoupon(name, description string, discount *float64, code, url, source string, expiry *time.Time) Coupon {
	return Coupon{
		Fingerprint:        Fingerprint(name, code, url),
		Name:               name,
		Description:        description,
		DiscountPercentage: discount,
		Code:               code,
		URL:                url,
		Source:             source,
		Expiry:             expiry,
		CreatedAt:          time.Now().UTC(),
	}
}

// Fingerprint derives the coupon's dedup identity from its name, code and URL.
// It is order- and case-sensitive and stable across process restarts.
func Fingerprint(name, code, url string) string {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write([]byte(code))
	h.Write([]byte{0})
	h.Write([]byte(url))
	return hex.EncodeToString(h.Sum(nil))
}

// IsExpired reports whether the coupon's expiry, if any, has passed.
func (c *Coupon) IsExpired() bool {
	return c.Expiry != nil && c.Expiry.Before(time.Now())
}

// ValidationResult is the ephemeral outcome of one validation attempt.
type ValidationResult struct {
	IsValid     bool
	Message     string
	ValidatedAt time.Time
}

// Pct is a convenience for building optional discount percentages in literals.
func Pct(v float64) *float64 {
	return &v
}
