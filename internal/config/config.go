package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	APIBaseURL         string
	BindAddress        string
	UnixSocketPath     string
	RequireBearerToken bool
	BearerToken        string
	RequestTimeout     time.Duration
	LogLevel           string
	// DataDir holds the local state database and the encrypted session
	// file. Empty means in-memory state that does not survive restarts.
	DataDir    string
	VaultKey   string
	EnableTray bool
}

func Load() (Config, error) {
	cfg := Config{
		APIBaseURL:         getenvDefault("EVD_API_URL", "http://localhost:8000/api/v1"),
		BindAddress:        getenvDefault("EVD_BIND_ADDRESS", "127.0.0.1:9857"),
		UnixSocketPath:     strings.TrimSpace(os.Getenv("EVD_UNIX_SOCKET")),
		RequireBearerToken: getenvBool("EVD_REQUIRE_TOKEN", true),
		BearerToken:        strings.TrimSpace(os.Getenv("EVD_BEARER_TOKEN")),
		RequestTimeout:     getenvDuration("EVD_REQUEST_TIMEOUT", 10*time.Second),
		LogLevel:           getenvDefault("EVD_LOG_LEVEL", "info"),
		DataDir:            strings.TrimSpace(os.Getenv("EVD_DATA_DIR")),
		VaultKey:           strings.TrimSpace(os.Getenv("EVD_VAULT_KEY")),
		EnableTray:         getenvBool("EVD_ENABLE_TRAY", false),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIBaseURL == "" {
		return errors.New("EVD_API_URL is required")
	}
	if c.BindAddress == "" && c.UnixSocketPath == "" {
		return errors.New("either bind address or unix socket path must be configured")
	}
	if c.RequireBearerToken && c.BearerToken == "" {
		return errors.New("EVD_BEARER_TOKEN is required when token auth is enabled")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("request timeout must be > 0")
	}
	if c.DataDir != "" && c.VaultKey == "" {
		return errors.New("EVD_VAULT_KEY is required when EVD_DATA_DIR is set")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}
	return nil
}

func getenvDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
