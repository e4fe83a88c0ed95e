package scraper

import (
	"context"
	"net/http"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// Warp watches the student program page. The discount is auto-applied after
// verification, so the page being live is the offer.
type Warp struct {
	StudentURL string
}

func NewWarp() *Warp {
	return &Warp{StudentURL: "https://www.warp.dev/students"}
}

func (s *Warp) Name() string   { return "Warp" }
func (s *Warp) Source() string { return models.SourceWarp }

func (s *Warp) Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error) {
	reachable, err := pageReachable(ctx, client, s.StudentURL)
	if err != nil {
		return nil, err
	}
	if !reachable {
		return nil, nil
	}
	return []models.Coupon{models.NewCoupon(
		"Warp Terminal Student Plan",
		"Free Warp Premium subscription for verified students",
		models.Pct(100),
		"AUTO-APPLIED",
		s.StudentURL,
		models.SourceWarp,
		daysFromNow(365),
	)}, nil
}
