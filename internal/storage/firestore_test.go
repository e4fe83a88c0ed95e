package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// Full CRUD behavior needs a Firestore backend (or emulator) and is exercised
// in deployment; these tests cover the store's pure guards.

func TestInsert_RejectsMissingFingerprint(t *testing.T) {
	c := &Client{}
	_, err := c.Insert(context.Background(), models.Coupon{Name: "X Pro"})
	if err == nil {
		t.Fatal("Insert should reject a coupon without a fingerprint")
	}
	if errors.Is(err, models.ErrCouponExists) {
		t.Error("missing fingerprint must not be reported as a duplicate")
	}
}
