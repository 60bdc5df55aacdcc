package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

// maxResponseSize is the maximum allowed response size from the Printful API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Errors for Printful API calls
var (
	ErrPrintfulUnavailable   = errors.New("printful: service unavailable")
	ErrPrintfulRequestFailed = errors.New("printful: request failed")
)

// countryCacheTTL bounds how long the destination-country catalog is reused
// before refetching
const countryCacheTTL = time.Hour

// PrintfulClient implements checkout.FulfillmentGateway against the Printful
// REST API
type PrintfulClient struct {
	config     *PrintfulConfig
	httpClient *http.Client
	logger     *zap.Logger

	countries countryCache
}

// NewPrintfulClient creates a new Printful client with the given configuration
func NewPrintfulClient(config *PrintfulConfig, logger *zap.Logger) (*PrintfulClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &PrintfulClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}, nil
}

// ShippingRates fetches shipping quotes for an address+cart combination.
// An empty result with a nil error means Printful has no options for this
// destination.
func (c *PrintfulClient) ShippingRates(ctx context.Context, req checkout.ShippingRateRequest) ([]checkout.ShippingRateQuote, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("printful: failed to encode rate request: %w", err)
	}

	data, err := c.doRequest(ctx, http.MethodPost, "/shipping/rates", body)
	if err != nil {
		return nil, err
	}

	var resp printfulRatesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("printful: failed to decode rate response: %w", err)
	}
	if resp.Error != nil {
		return nil, shared.NewDomainError("RATE_FETCH_FAILED", resp.Error.Message)
	}

	quotes := make([]checkout.ShippingRateQuote, 0, len(resp.Result))
	for _, rate := range resp.Result {
		amount, err := decimal.NewFromString(rate.Rate)
		if err != nil {
			c.logger.Warn("Skipping shipping rate with unparseable amount",
				zap.String("rate_id", rate.ID),
				zap.String("rate", rate.Rate))
			continue
		}

		quote := checkout.ShippingRateQuote{
			ID:       rate.ID,
			Name:     rate.Name,
			Rate:     amount,
			Currency: rate.Currency,
		}
		if rate.Tax != "" {
			if tax, err := decimal.NewFromString(rate.Tax); err == nil {
				quote.Tax = &tax
			}
		}
		quotes = append(quotes, quote)
	}

	return quotes, nil
}

// Countries returns the destination-country catalog keyed by ISO code. The
// catalog changes rarely, so responses are cached for an hour.
func (c *PrintfulClient) Countries(ctx context.Context) (map[string]checkout.CountryInfo, error) {
	if cached, ok := c.countries.get(); ok {
		return cached, nil
	}

	data, err := c.doRequest(ctx, http.MethodGet, "/countries", nil)
	if err != nil {
		return nil, err
	}

	var resp printfulCountriesResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("printful: failed to decode countries response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrPrintfulRequestFailed, resp.Error.Message)
	}

	catalog := make(map[string]checkout.CountryInfo, len(resp.Result))
	for _, country := range resp.Result {
		catalog[country.Code] = checkout.CountryInfo{
			Code:   country.Code,
			Name:   country.Name,
			Region: country.Region,
		}
	}

	c.countries.set(catalog)
	return catalog, nil
}

// doRequest performs an HTTP request to the Printful API
func (c *PrintfulClient) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("printful: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.StoreID != "" {
		req.Header.Set("X-PF-Store-Id", c.config.StoreID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrintfulUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("printful: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		// Printful wraps 4xx failures in its standard envelope; surface the
		// upstream message when one is present.
		var envelope printfulEnvelope
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
			return nil, fmt.Errorf("%w: HTTP %d: %s", ErrPrintfulRequestFailed, resp.StatusCode, envelope.Error.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrPrintfulRequestFailed, resp.StatusCode)
	}

	return data, nil
}

// Ensure PrintfulClient implements FulfillmentGateway
var _ checkout.FulfillmentGateway = (*PrintfulClient)(nil)
