package scraper

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// CursorAI watches the Cursor student page and the pricing page for promo
// codes.
type CursorAI struct {
	StudentURL string
	PricingURL string
}

func NewCursorAI() *CursorAI {
	return &CursorAI{
		StudentURL: "https://cursor.sh/student",
		PricingURL: "https://cursor.sh/pricing",
	}
}

func (s *CursorAI) Name() string   { return "Cursor AI" }
func (s *CursorAI) Source() string { return models.SourceCursorAI }

func (s *CursorAI) Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error) {
	doc, err := fetchDocument(ctx, client, s.StudentURL)
	if err != nil {
		return nil, err
	}

	var coupons []models.Coupon
	if doc.Find("div.student-discount").Length() > 0 {
		coupons = append(coupons, models.NewCoupon(
			"Cursor AI Student Plan",
			"Free Pro features for verified students",
			models.Pct(100),
			"STUDENT",
			s.StudentURL,
			models.SourceCursorAI,
			daysFromNow(365),
		))
	}

	pricingDoc, err := fetchDocument(ctx, client, s.PricingURL)
	if err != nil {
		// The student offer is still worth reporting.
		slog.Warn("Failed to fetch Cursor AI pricing page", "error", err)
		return coupons, nil
	}
	coupons = append(coupons, s.promoCoupons(pricingDoc)...)

	return coupons, nil
}

// promoCoupons extracts limited-time promotions announced on the pricing
// page as div.promotion-code elements with data-code/data-discount attrs.
func (s *CursorAI) promoCoupons(doc *goquery.Document) []models.Coupon {
	var coupons []models.Coupon
	doc.Find("div.promotion-code").Each(func(_ int, sel *goquery.Selection) {
		code := sel.AttrOr("data-code", "PROMO")
		discountStr := sel.AttrOr("data-discount", "10")
		discount := 10.0
		if parsed, ok := parseFloat(discountStr); ok {
			discount = parsed
		}

		coupons = append(coupons, models.NewCoupon(
			"Cursor AI Promotion: "+discountStr+"% Off",
			"Limited time promotion for Cursor AI Pro",
			models.Pct(discount),
			code,
			s.PricingURL,
			models.SourceCursorAI,
			daysFromNow(30),
		))
	})
	return coupons
}
