package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// WebhookChannel implements webhook notification channel
type WebhookChannel struct {
	conf   WebhookConf
	client *resty.Client
}

// NewWebhookChannel creates a new webhook notification channel
func NewWebhookChannel(conf WebhookConf) *WebhookChannel {
	client := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond)
	return &WebhookChannel{conf: conf, client: client}
}

func (c *WebhookChannel) Name() string {
	return "webhook"
}

// Send posts the message as JSON to the configured endpoint
func (c *WebhookChannel) Send(ctx context.Context, msg *Message) error {
	if err := c.Validate(); err != nil {
		return err
	}

	payload := map[string]any{
		"subject": msg.Subject,
		"body":    msg.Body,
		"to":      msg.To,
	}
	for k, v := range msg.Meta {
		payload[k] = v
	}

	req := c.client.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload)
	if c.conf.Secret != "" {
		req.SetHeader("X-Webhook-Secret", c.conf.Secret)
	}

	resp, err := req.Post(c.conf.Url)
	if err != nil {
		return fmt.Errorf("failed to send webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// Validate validates the configuration
func (c *WebhookChannel) Validate() error {
	if c.conf.Url == "" {
		return fmt.Errorf("webhook url is required")
	}
	return nil
}
