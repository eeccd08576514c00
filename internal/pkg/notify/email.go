package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// EmailChannel implements email notification channel over SMTP
type EmailChannel struct {
	conf EmailConf
}

// NewEmailChannel creates a new email notification channel
func NewEmailChannel(conf EmailConf) *EmailChannel {
	return &EmailChannel{conf: conf}
}

func (c *EmailChannel) Name() string {
	return "email"
}

// Send sends email
func (c *EmailChannel) Send(ctx context.Context, msg *Message) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("to emails are required")
	}

	// Build email message
	raw := "From: " + c.conf.From + "\r\n" +
		"To: " + strings.Join(msg.To, ",") + "\r\n" +
		"Subject: " + msg.Subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"\r\n" + msg.Body

	var smtpAuth smtp.Auth
	if c.conf.Username != "" {
		smtpAuth = smtp.PlainAuth("", c.conf.Username, c.conf.Password, c.conf.SmtpHost)
	}

	addr := fmt.Sprintf("%s:%d", c.conf.SmtpHost, c.conf.SmtpPort)
	if err := smtp.SendMail(addr, smtpAuth, c.conf.From, msg.To, []byte(raw)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// Validate validates the configuration
func (c *EmailChannel) Validate() error {
	if c.conf.SmtpHost == "" {
		return fmt.Errorf("smtp host is required")
	}
	if c.conf.SmtpPort <= 0 {
		return fmt.Errorf("smtp port is required")
	}
	if c.conf.From == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}
