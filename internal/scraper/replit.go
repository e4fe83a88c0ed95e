package scraper

import (
	"context"
	"net/http"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// Replit watches the Teams for Education page.
type Replit struct {
	EducationURL string
}

func NewReplit() *Replit {
	return &Replit{EducationURL: "https://replit.com/site/teams-for-education"}
}

func (s *Replit) Name() string   { return "Replit" }
func (s *Replit) Source() string { return models.SourceReplit }

func (s *Replit) Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error) {
	doc, err := fetchDocument(ctx, client, s.EducationURL)
	if err != nil {
		return nil, err
	}

	if doc.Find("div.education-discount").Length() == 0 {
		return nil, nil
	}
	return []models.Coupon{models.NewCoupon(
		"Replit Teams for Education",
		"Special pricing for educational institutions",
		models.Pct(50),
		"EDUCATION",
		s.EducationURL,
		models.SourceReplit,
		nil,
	)}, nil
}
