package fulfillment

import (
	"errors"
	"time"
)

// PrintfulProductionAPIURL is the production API endpoint
const PrintfulProductionAPIURL = "https://api.printful.com"

// Errors for Printful configuration
var (
	ErrPrintfulConfigMissingAPIKey = errors.New("printful: API key is required")
)

// PrintfulConfig holds configuration for the Printful API integration
type PrintfulConfig struct {
	// APIKey is the private token from the Printful dashboard
	APIKey string
	// StoreID selects the store when the token spans several stores
	StoreID string
	// BaseURL is the base URL for the Printful API
	BaseURL string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// NewPrintfulConfig creates a new Printful configuration with defaults
func NewPrintfulConfig(apiKey string) *PrintfulConfig {
	return &PrintfulConfig{
		APIKey:  apiKey,
		BaseURL: PrintfulProductionAPIURL,
		Timeout: 10 * time.Second,
	}
}

// Validate validates the Printful configuration
func (c *PrintfulConfig) Validate() error {
	if c.APIKey == "" {
		return ErrPrintfulConfigMissingAPIKey
	}
	if c.BaseURL == "" {
		c.BaseURL = PrintfulProductionAPIURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
