package scraper

import (
	"context"
	"net/http"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// Tabnine watches the student program page.
type Tabnine struct {
	StudentURL string
}

func NewTabnine() *Tabnine {
	return &Tabnine{StudentURL: "https://www.tabnine.com/students"}
}

func (s *Tabnine) Name() string   { return "Tabnine" }
func (s *Tabnine) Source() string { return models.SourceTabnine }

func (s *Tabnine) Scrape(ctx context.Context, client *http.Client) ([]models.Coupon, error) {
	reachable, err := pageReachable(ctx, client, s.StudentURL)
	if err != nil {
		return nil, err
	}
	if !reachable {
		return nil, nil
	}
	return []models.Coupon{models.NewCoupon(
		"Tabnine Pro Student Plan",
		"Free Tabnine Pro for verified students",
		models.Pct(100),
		"STUDENT",
		s.StudentURL,
		models.SourceTabnine,
		daysFromNow(365),
	)}, nil
}
