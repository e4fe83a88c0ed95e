package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/NullMeDev/couponwatch/internal/models"
	"github.com/NullMeDev/couponwatch/internal/util"
)

// Generic sweeps a configured list of aggregator pages for "code: XYZ" style
// announcements. It is the catch-all source for tools without a dedicated
// collector.
type Generic struct {
	URLs []string
}

func NewGeneric(urls []string) *Generic {
	return &Generic{URLs: urls}
}

func (s *Generic) Name() string   { return "Generic AI Tools" }
func (s *Generic) Source() string { return models.SourceGeneric }

func (s *Generic) Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error) {
	var coupons []models.Coupon
	for _, url := range s.URLs {
		doc, err := fetchDocument(ctx, client, url)
		if err != nil {
			// One bad aggregator must not hide the others.
			slog.Warn("Failed to fetch generic coupon page", "url", url, "error", err)
			continue
		}
		coupons = append(coupons, s.extract(doc.Text(), url)...)
	}
	return coupons, nil
}

func (s *Generic) extract(text, url string) []models.Coupon {
	discount, found := util.ExtractDiscount(text)
	if !found {
		discount = 10 // pages that announce a code without a percentage
	}

	var coupons []models.Coupon
	for _, code := range util.ExtractCouponCodes(text) {
		coupons = append(coupons, models.NewCoupon(
			fmt.Sprintf("AI Tool Discount: %.0f%% Off", discount),
			fmt.Sprintf("Use code %s for %.0f%% off", code, discount),
			models.Pct(discount),
			code,
			url,
			models.SourceGeneric,
			daysFromNow(30),
		))
	}
	return coupons
}
