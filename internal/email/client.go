package email

import (
	"context"

	"github.com/invomate/invomate/internal/config"
	ierr "github.com/invomate/invomate/internal/errors"
	"github.com/resend/resend-go/v2"
)

// Client wraps the transactional email provider. When disabled (or missing
// an API key) every send is a silent no-op so environments without email
// credentials keep working.
type Client struct {
	client      *resend.Client
	enabled     bool
	fromAddress string
	replyTo     string
}

// NewClient creates a new email client from config
func NewClient(cfg *config.Configuration) *Client {
	if !cfg.Email.Enabled || cfg.Email.APIKey == "" {
		return &Client{enabled: false}
	}

	return &Client{
		client:      resend.NewClient(cfg.Email.APIKey),
		enabled:     true,
		fromAddress: cfg.Email.FromAddress,
		replyTo:     cfg.Email.ReplyTo,
	}
}

// IsEnabled returns whether the email client is enabled
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// Send sends a plain text email
func (c *Client) Send(ctx context.Context, to, subject, text string) error {
	if !c.enabled {
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    c.fromAddress,
		To:      []string{to},
		Subject: subject,
		Text:    text,
		ReplyTo: c.replyTo,
	}

	if _, err := c.client.Emails.SendWithContext(ctx, params); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to send email").
			Mark(ierr.ErrHTTPClient)
	}

	return nil
}
