package validator

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// checkPage GETs the coupon's URL and returns the status code plus, when
// readBody is set, the response body.
func checkPage(ctx context.Context, client *http.Client, url string, readBody bool) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, "", fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	var body string
	if readBody && resp.StatusCode == http.StatusOK {
		data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return resp.StatusCode, "", fmt.Errorf("failed to read %s: %w", url, err)
		}
		body = string(data)
	}
	return resp.StatusCode, body, nil
}

func result(isValid bool, message string) models.ValidationResult {
	return models.ValidationResult{
		IsValid:     isValid,
		Message:     message,
		ValidatedAt: time.Now().UTC(),
	}
}

// pageLiveResult is the shared heuristic for offers whose only check is that
// the program page still answers 200.
func pageLiveResult(ctx context.Context, client *http.Client, coupon *models.Coupon, program string) (models.ValidationResult, error) {
	code, _, err := checkPage(ctx, client, coupon.URL, false)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if code == http.StatusOK {
		return result(true, program+" program verified as active"), nil
	}
	return result(false, fmt.Sprintf("%s program page returned status: %d", program, code)), nil
}

// CursorAIStrategy verifies the student page for STUDENT offers and falls
// back to a code-format check for pricing promos.
type CursorAIStrategy struct{}

func (s *CursorAIStrategy) Name() string { return "Cursor AI Validator" }

func (s *CursorAIStrategy) CanValidate(source string) bool {
	return source == models.SourceCursorAI
}

func (s *CursorAIStrategy) Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error) {
	if coupon.Code == "STUDENT" && strings.Contains(coupon.URL, "/student") {
		return pageLiveResult(ctx, client, coupon, "Student")
	}

	// Promo codes would need a checkout simulation to verify for real; the
	// format check keeps obviously-garbage scrapes out.
	if validCodeFormat(coupon.Code) {
		return result(true, "coupon code format is valid"), nil
	}
	return result(false, "invalid coupon code format"), nil
}

func validCodeFormat(code string) bool {
	if len(code) < 4 {
		return false
	}
	for _, r := range code {
		alnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !alnum && r != '-' {
			return false
		}
	}
	return true
}

// GitHubStrategy checks that the offer is still listed on the pack page.
type GitHubStrategy struct{}

func (s *GitHubStrategy) Name() string { return "GitHub Validator" }

func (s *GitHubStrategy) CanValidate(source string) bool {
	return source == models.SourceGitHub
}

func (s *GitHubStrategy) Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error) {
	code, body, err := checkPage(ctx, client, coupon.URL, true)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if code != http.StatusOK {
		return result(false, fmt.Sprintf("GitHub Education page returned status: %d", code)), nil
	}
	if strings.Contains(body, coupon.Name) {
		return result(true, "offer found on GitHub Education page"), nil
	}
	return result(false, "offer not found on GitHub Education page"), nil
}

// ReplitStrategy verifies the education program page is live.
type ReplitStrategy struct{}

func (s *ReplitStrategy) Name() string { return "Replit Validator" }

func (s *ReplitStrategy) CanValidate(source string) bool {
	return source == models.SourceReplit
}

func (s *ReplitStrategy) Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error) {
	return pageLiveResult(ctx, client, coupon, "Education")
}

// WarpStrategy verifies the student program page is live.
type WarpStrategy struct{}

func (s *WarpStrategy) Name() string { return "Warp Validator" }

func (s *WarpStrategy) CanValidate(source string) bool {
	return source == models.SourceWarp
}

func (s *WarpStrategy) Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error) {
	return pageLiveResult(ctx, client, coupon, "Student")
}

// TabnineStrategy verifies the student program page is live.
type TabnineStrategy struct{}

func (s *TabnineStrategy) Name() string { return "Tabnine Validator" }

func (s *TabnineStrategy) CanValidate(source string) bool {
	return source == models.SourceTabnine
}

func (s *TabnineStrategy) Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error) {
	return pageLiveResult(ctx, client, coupon, "Student")
}

// GenericStrategy re-fetches the source page and checks the code is still
// mentioned on it.
type GenericStrategy struct{}

func (s *GenericStrategy) Name() string { return "Generic Validator" }

func (s *GenericStrategy) CanValidate(source string) bool {
	return source == models.SourceGeneric
}

func (s *GenericStrategy) Validate(ctx context.Context, coupon *models.Coupon, client *http.Client) (models.ValidationResult, error) {
	code, body, err := checkPage(ctx, client, coupon.URL, true)
	if err != nil {
		return models.ValidationResult{}, err
	}
	if code != http.StatusOK {
		return result(false, fmt.Sprintf("source page returned status: %d", code)), nil
	}
	if strings.Contains(body, coupon.Code) {
		return result(true, "coupon code found on source page"), nil
	}
	return result(false, "coupon code not found on source page"), nil
}
