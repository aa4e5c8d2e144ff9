// Package config provides configuration loading and validation for the gateway.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultEngineBaseURL is the task engine endpoint used when ENGINE_BASE_URL is not set.
const DefaultEngineBaseURL = "https://api.parallel.ai"

// Config holds the gateway configuration. All values come from environment
// variables; a .env file is loaded by the CLI entry point before this runs.
type Config struct {
	// Port is the HTTP listen port (PORT, default 8080).
	Port int

	// EngineBaseURL is the base URL of the external task engine
	// (ENGINE_BASE_URL, default DefaultEngineBaseURL).
	EngineBaseURL string

	// OAuth endpoints and client identity for the PKCE flow.
	OAuthAuthURL     string // OAUTH_AUTH_URL (required)
	OAuthTokenURL    string // OAUTH_TOKEN_URL (required)
	OAuthClientID    string // OAUTH_CLIENT_ID (required)
	OAuthRedirectURL string // OAUTH_REDIRECT_URL (required)

	// AppBaseURL is where the callback and logout handlers redirect users
	// back to (APP_BASE_URL, default "/").
	AppBaseURL string
}

// Load reads the gateway configuration from environment variables.
func Load() (*Config, error) {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %v", err)
	}

	cfg := &Config{
		Port:             port,
		EngineBaseURL:    os.Getenv("ENGINE_BASE_URL"),
		OAuthAuthURL:     os.Getenv("OAUTH_AUTH_URL"),
		OAuthTokenURL:    os.Getenv("OAUTH_TOKEN_URL"),
		OAuthClientID:    os.Getenv("OAUTH_CLIENT_ID"),
		OAuthRedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
		AppBaseURL:       os.Getenv("APP_BASE_URL"),
	}

	if cfg.EngineBaseURL == "" {
		cfg.EngineBaseURL = DefaultEngineBaseURL
	}
	if cfg.AppBaseURL == "" {
		cfg.AppBaseURL = "/"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: PORT must be between 1 and 65535, got: %d", c.Port)
	}
	if c.OAuthAuthURL == "" {
		return fmt.Errorf("config error: OAUTH_AUTH_URL is required but not set")
	}
	if c.OAuthTokenURL == "" {
		return fmt.Errorf("config error: OAUTH_TOKEN_URL is required but not set")
	}
	if c.OAuthClientID == "" {
		return fmt.Errorf("config error: OAUTH_CLIENT_ID is required but not set")
	}
	if c.OAuthRedirectURL == "" {
		return fmt.Errorf("config error: OAUTH_REDIRECT_URL is required but not set")
	}
	return nil
}
