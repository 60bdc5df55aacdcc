package storefront

import (
	"errors"
	"time"
)

// Errors for storefront configuration
var (
	ErrStorefrontConfigMissingBaseURL = errors.New("storefront: base URL is required")
)

// Config holds configuration for the storefront backend API
type Config struct {
	// BaseURL is the storefront backend base URL
	BaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// Validate validates the storefront configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrStorefrontConfigMissingBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
