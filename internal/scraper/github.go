package scraper

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// GitHub watches the Student Developer Pack for AI tool offers.
type GitHub struct {
	PackURL string
}

func NewGitHub() *GitHub {
	return &GitHub{PackURL: "https://education.github.com/pack"}
}

func (s *GitHub) Name() string   { return "GitHub" }
func (s *GitHub) Source() string { return models.SourceGitHub }

func (s *GitHub) Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error) {
	doc, err := fetchDocument(ctx, client, s.PackURL)
	if err != nil {
		return nil, err
	}

	var coupons []models.Coupon
	doc.Find("div.d-flex.flex-wrap.gutter").Each(func(_ int, sel *goquery.Selection) {
		if coupon, ok := s.offerCoupon(sel); ok {
			coupons = append(coupons, coupon)
		}
	})
	return coupons, nil
}

func (s *GitHub) offerCoupon(sel *goquery.Selection) (models.Coupon, bool) {
	title := strings.TrimSpace(sel.Find("h3").First().Text())
	// Only AI tool offers are in scope for this feed.
	if title == "" || !strings.Contains(strings.ToLower(title), "ai") {
		return models.Coupon{}, false
	}
	description := strings.TrimSpace(sel.Find("p").First().Text())

	anchor := strings.ReplaceAll(strings.ToLower(title), " ", "-")
	return models.NewCoupon(
		"GitHub Student Pack: "+title,
		description,
		nil, // the pack rarely states an explicit percentage
		"GITHUB-STUDENT",
		s.PackURL+"#"+anchor,
		models.SourceGitHub,
		nil,
	), true
}
