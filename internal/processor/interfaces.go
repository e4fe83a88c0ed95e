package processor

import (
	"context"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// CouponStore abstracts the persistence layer consumed by the pipeline.
type CouponStore interface {
	Insert(ctx context.Context, coupon models.Coupon) (string, error)
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)
	UpdateValidation(ctx context.Context, id string, isValid bool) error
	MarkPosted(ctx context.Context, id string) error
	ListValidUnposted(ctx context.Context) ([]models.Coupon, error)
	DeleteExpired(ctx context.Context) (int, error)
}

// CouponNotifier abstracts the delivery channel.
type CouponNotifier interface {
	Send(ctx context.Context, coupon models.Coupon) error
}

// CouponValidator abstracts the validation dispatch.
type CouponValidator interface {
	Validate(ctx context.Context, coupon models.Coupon) (models.ValidationResult, error)
}

// CouponEnricher abstracts the optional description rewrite step.
type CouponEnricher interface {
	AnalyzeCoupon(ctx context.Context, coupon models.Coupon) (summary string, noteworthy bool, err error)
}
