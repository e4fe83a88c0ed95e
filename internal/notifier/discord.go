package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/NullMeDev/couponwatch/internal/models"
)

// ErrNoChannel is returned when neither a webhook URL nor a bot token plus
// channel ID is configured.
var ErrNoChannel = errors.New("no discord delivery channel configured")

const (
	embedColor     = 0x00c8ff
	defaultBotAPI  = "https://discord.com/api/v10"
	requestTimeout = 10 * time.Second
)

// Client delivers coupon notifications to Discord through exactly one of two
// mechanisms: a webhook URL (preferred) or a bot token bound to one channel.
type Client struct {
	webhookURL string
	botToken   string
	channelID  string
	apiBaseURL string
	client     *http.Client
}

func New(webhookURL, botToken, channelID string) *Client {
	return &Client{
		webhookURL: webhookURL,
		botToken:   botToken,
		channelID:  channelID,
		apiBaseURL: defaultBotAPI,
		client:     &http.Client{Timeout: requestTimeout},
	}
}

// Send delivers one coupon notification. The caller marks the record posted
// only after Send returns nil.
func (c *Client) Send(ctx context.Context, coupon models.Coupon) error {
	embed := formatCouponEmbed(coupon)

	if c.webhookURL != "" {
		return c.sendWebhook(ctx, embed)
	}
	if c.botToken != "" && c.channelID != "" {
		return c.sendChannelMessage(ctx, embed)
	}
	return ErrNoChannel
}

type discordPayload struct {
	Content string         `json:"content,omitempty"`
	Embeds  []discordEmbed `json:"embeds"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type discordEmbedFooter struct {
	Text string `json:"text,omitempty"`
}

type discordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	URL         string              `json:"url,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
	Footer      discordEmbedFooter  `json:"footer,omitempty"`
}

func formatCouponEmbed(coupon models.Coupon) discordEmbed {
	var fields []discordEmbedField
	if coupon.DiscountPercentage != nil {
		fields = append(fields, discordEmbedField{
			Name:   "Discount",
			Value:  fmt.Sprintf("%.0f%%", *coupon.DiscountPercentage),
			Inline: true,
		})
	}
	fields = append(fields,
		discordEmbedField{Name: "Code", Value: coupon.Code, Inline: true},
		discordEmbedField{Name: "Source", Value: coupon.Source, Inline: true},
	)
	if coupon.Expiry != nil {
		remaining := time.Until(*coupon.Expiry)
		value := "Today"
		switch {
		case remaining < 0:
			value = "Expired"
		case remaining >= 24*time.Hour:
			value = fmt.Sprintf("In %d days", int(remaining.Hours()/24))
		}
		fields = append(fields, discordEmbedField{Name: "Expires", Value: value, Inline: true})
	}

	return discordEmbed{
		Title:       fmt.Sprintf("✅ %s AI Coupon", coupon.Name),
		URL:         coupon.URL,
		Description: coupon.Description,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Color:       embedColor,
		Fields:      fields,
		Footer:      discordEmbedFooter{Text: "couponwatch"},
	}
}

func (c *Client) sendWebhook(ctx context.Context, embed discordEmbed) error {
	return c.post(ctx, c.webhookURL, discordPayload{Embeds: []discordEmbed{embed}}, "")
}

func (c *Client) sendChannelMessage(ctx context.Context, embed discordEmbed) error {
	url := fmt.Sprintf("%s/channels/%s/messages", c.apiBaseURL, c.channelID)
	return c.post(ctx, url, discordPayload{Embeds: []discordEmbed{embed}}, "Bot "+c.botToken)
}

func (c *Client) post(ctx context.Context, url string, payload discordPayload, authorization string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("discord status: %s, body: %s", resp.Status, string(respBody))
}
