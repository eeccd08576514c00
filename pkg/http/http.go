package http

import (
	"time"
)

/**
 * @author: dev@talenthub.io
 * @file: http.go
 * @description: http server configuration
 */

type Http struct {
	Host                string
	Port                int
	Mode                string
	InternalContextPath string `mapstructure:"internalContextPath"`
	ExternalContextPath string `mapstructure:"externalContextPath"`
	ExternalBaseURL     string `mapstructure:"externalBaseURL"`
	PProf               bool
	ExposeMetrics       bool
	AccessLog           bool
	BodyLimit           int
	ReadTimeout         int
	WriteTimeout        int
	IdleTimeout         int
	ShutdownTimeout     int
	TLS                 TLS
	Auth                Auth
}

type TLS struct {
	CertFile string
	KeyFile  string
}

type Auth struct {
	SecretKey      string
	AccessExpire   time.Duration
	RefreshExpire  time.Duration
	RedisKeyPrefix string
}
