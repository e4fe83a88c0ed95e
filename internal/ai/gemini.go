// Package ai optionally rewrites scraped coupon descriptions with Gemini
// before they are persisted and announced. Without an API key the client is
// nil and every call degrades to a no-op.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/NullMeDev/couponwatch/internal/models"
)

type Client struct {
	model *genai.GenerativeModel
}

type analysis struct {
	Summary    string `json:"summary"`
	Noteworthy bool   `json:"noteworthy"`
}

// NewClient returns nil (not an error) when apiKey is empty.
func NewClient(ctx context.Context, apiKey, modelID string) (*Client, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelID)
	model.SetTemperature(0.1)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A one-sentence plain description of what the coupon gives and who qualifies. No marketing fluff.",
			},
			"noteworthy": {
				Type:        genai.TypeBoolean,
				Description: "True when the offer is unusually generous (full price waiver, steep discount on a paid tool). False otherwise.",
			},
		},
		Required: []string{"summary", "noteworthy"},
	}

	return &Client{model: model}, nil
}

// AnalyzeCoupon returns a cleaned-up description and whether the offer looks
// unusually generous. A nil receiver degrades gracefully.
func (c *Client) AnalyzeCoupon(ctx context.Context, coupon models.Coupon) (string, bool, error) {
	if c == nil || c.model == nil {
		return "", false, nil
	}

	discount := "unspecified"
	if coupon.DiscountPercentage != nil {
		discount = fmt.Sprintf("%.0f%%", *coupon.DiscountPercentage)
	}
	prompt := fmt.Sprintf(`
Summarize this developer-tool coupon:
Name: %q
Description: %q
Code: %q
Discount: %s
Source: %q

Task:
1. Write a one-sentence summary of what the coupon gives and who qualifies.
2. Decide whether the offer is unusually generous.

Output JSON adhering to the schema.
`, coupon.Name, coupon.Description, coupon.Code, discount, coupon.Source)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", false, fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false, fmt.Errorf("no response candidates from gemini")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok {
			continue
		}
		jsonStr := strings.TrimSpace(string(txt))
		jsonStr = strings.TrimPrefix(jsonStr, "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		jsonStr = strings.TrimSuffix(jsonStr, "```")

		var result analysis
		if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
			return "", false, fmt.Errorf("failed to parse gemini response: %w", err)
		}
		return result.Summary, result.Noteworthy, nil
	}
	return "", false, fmt.Errorf("no text part in response")
}
