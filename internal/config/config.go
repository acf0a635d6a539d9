package config

import (
	"encoding/base64"
	"fmt"
	"time"
)

const (
	DefaultSessionLifetime = 30 * 24 * time.Hour
	DefaultRateLimitWindow = time.Minute
)

type Config struct {
	DatabaseDSN     string
	ServerAddr      string
	SigningKey      []byte
	AllowedOrigins  []string
	SessionLifetime time.Duration

	// Rate limiting of the auth endpoints is off unless RedisAddr is set.
	RedisAddr       string
	RateLimit       int
	RateLimitWindow time.Duration
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, err
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("signing secret is empty")
	}

	return key, nil
}

func NewConfig(serverAddr, databaseDSN, base64Secret string, allowedOrigins []string) (*Config, error) {
	if serverAddr == "" {
		return nil, fmt.Errorf("server address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}

	// Decode the base64 encoded signing secret
	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}

	return &Config{
		DatabaseDSN:     databaseDSN,
		ServerAddr:      serverAddr,
		SigningKey:      signingKey,
		AllowedOrigins:  allowedOrigins,
		SessionLifetime: DefaultSessionLifetime,
		RateLimitWindow: DefaultRateLimitWindow,
	}, nil
}

// EnableRateLimit turns on per-client limiting of the auth endpoints,
// allowing at most limit requests per window.
func (c *Config) EnableRateLimit(redisAddr string, limit int, window time.Duration) error {
	if redisAddr == "" {
		return fmt.Errorf("redis address cannot be empty")
	}
	if limit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", window)
	}

	c.RedisAddr = redisAddr
	c.RateLimit = limit
	c.RateLimitWindow = window
	return nil
}

func (c *Config) RateLimitEnabled() bool {
	return c.RedisAddr != ""
}
