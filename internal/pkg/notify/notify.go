package notify

import (
	"context"
)

/**
 * @author: dev@talenthub.io
 * @file: notify.go
 * @description: 通知通道抽象
 */

// Message is a single outbound notification.
type Message struct {
	To      []string
	Subject string
	Body    string
	// Meta carries channel specific fields, webhook payloads include it verbatim
	Meta map[string]any
}

// INotifyChannel defines the interface for notification channels
type INotifyChannel interface {
	// Name returns the channel name
	Name() string
	// Send sends a message
	Send(ctx context.Context, msg *Message) error
	// Validate validates the channel configuration
	Validate() error
}

// Conf 通知配置
type Conf struct {
	Email   EmailConf   `toml:"email" json:"email"`
	Webhook WebhookConf `toml:"webhook" json:"webhook"`
}

type EmailConf struct {
	Enabled  bool   `toml:"enabled" json:"enabled"`
	SmtpHost string `toml:"smtpHost" json:"smtpHost"`
	SmtpPort int    `toml:"smtpPort" json:"smtpPort"`
	From     string `toml:"from" json:"from"`
	Username string `toml:"username" json:"username"`
	Password string `toml:"password" json:"password"`
}

type WebhookConf struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Url     string `toml:"url" json:"url"`
	Secret  string `toml:"secret" json:"secret"`
}
