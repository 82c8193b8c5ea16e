// Package config provides environment-driven configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Secret wraps a sensitive string to prevent accidental logging.
type Secret string

func (s Secret) String() string { return "[REDACTED]" }

func (s Secret) GoString() string { return "[REDACTED]" }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

type OAuth struct {
	ClientID     string
	ClientSecret Secret
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

type Config struct {
	DBDSN         Secret
	ServerPort    string
	SessionSecret Secret
	CookieSecure  bool
	LogLevel      string
	LogFormat     string
	Location      *time.Location
	OAuth         OAuth
}

const minSessionSecretLen = 32

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:         Secret(os.Getenv("DB_DSN")),
		ServerPort:    envOrDefault("SERVER_PORT", "8080"),
		SessionSecret: Secret(os.Getenv("SESSION_SECRET")),
		CookieSecure:  envOrDefault("COOKIE_SECURE", "true") != "false",
		LogLevel:      envOrDefault("LOG_LEVEL", "info"),
		LogFormat:     envOrDefault("LOG_FORMAT", "text"),
		OAuth: OAuth{
			ClientID:     os.Getenv("OAUTH_CLIENT_ID"),
			ClientSecret: Secret(os.Getenv("OAUTH_CLIENT_SECRET")),
			AuthURL:      os.Getenv("OAUTH_AUTH_URL"),
			TokenURL:     os.Getenv("OAUTH_TOKEN_URL"),
			UserInfoURL:  os.Getenv("OAUTH_USERINFO_URL"),
			RedirectURL:  os.Getenv("OAUTH_REDIRECT_URL"),
			Scopes:       strings.Fields(envOrDefault("OAUTH_SCOPES", "openid email")),
		},
	}

	loc, err := time.LoadLocation(envOrDefault("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// LoadForMigrate reads only what the migrate command needs.
func LoadForMigrate() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDSN:     Secret(os.Getenv("DB_DSN")),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "text"),
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is not set")
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is not set")
	}
	if len(c.SessionSecret) < minSessionSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}

	return c.validateOAuth()
}

func (c *Config) validateOAuth() error {
	if c.OAuth.ClientID == "" {
		return fmt.Errorf("OAUTH_CLIENT_ID is not set")
	}

	urls := []struct {
		name, value string
	}{
		{"OAUTH_AUTH_URL", c.OAuth.AuthURL},
		{"OAUTH_TOKEN_URL", c.OAuth.TokenURL},
		{"OAUTH_USERINFO_URL", c.OAuth.UserInfoURL},
		{"OAUTH_REDIRECT_URL", c.OAuth.RedirectURL},
	}
	for _, u := range urls {
		if u.value == "" {
			return fmt.Errorf("%s is not set", u.name)
		}
		parsed, err := url.Parse(u.value)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s is not a valid absolute URL", u.name)
		}
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
