package checkout

import (
	"context"

	"github.com/google/uuid"
)

// SessionRepository persists checkout sessions between requests
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CheckoutSession, error)
	Save(ctx context.Context, session *CheckoutSession) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RateRecipient is the destination part of a shipping-rate request.
// Optional fields stay empty rather than transmitting empty strings.
type RateRecipient struct {
	CountryCode string `json:"country_code"`
	StateCode   string `json:"state_code,omitempty"`
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	Zip         string `json:"zip,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// RateItem is one cart line of a shipping-rate request. The variant id is a
// string on the wire even though it is numeric, per partner API contract.
type RateItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
	Value     string `json:"value"` // unit price, fixed 2 decimals
}

// ShippingRateRequest is the fulfillment partner's rate-quote input
type ShippingRateRequest struct {
	Recipient RateRecipient `json:"recipient"`
	Items     []RateItem    `json:"items"`
	Currency  string        `json:"currency"`
	Locale    string        `json:"locale"`
}

// FulfillmentGateway talks to the fulfillment partner
type FulfillmentGateway interface {
	// ShippingRates fetches quotes for an address+cart combination.
	// An empty slice with a nil error means the partner has no options for
	// this destination.
	ShippingRates(ctx context.Context, req ShippingRateRequest) ([]ShippingRateQuote, error)

	// Countries returns the partner's destination-country catalog keyed by
	// ISO code
	Countries(ctx context.Context) (map[string]CountryInfo, error)
}

// CartGateway is the authenticated user cart API. These are the only
// server-mutating calls made during cart reconciliation.
type CartGateway interface {
	GetCart(ctx context.Context, authToken string) ([]CartLine, error)
	AddToCart(ctx context.Context, authToken, variantID string, quantity int) error
	ClearCart(ctx context.Context, authToken string) error
}

// OrderGateway is the backend order API
type OrderGateway interface {
	CreateDraft(ctx context.Context, authToken string, req OrderDraftRequest) (*OrderDraft, error)
	ConfirmPayment(ctx context.Context, authToken, paymentIntentID, orderNumber string) error
}

// OrderDraftRequest is the order-creation input
type OrderDraftRequest struct {
	Customer CustomerInfo       `json:"customer"`
	Items    []CartLine         `json:"items"`
	Shipping *ShippingRateQuote `json:"shipping,omitempty"`
	Total    OrderTotal         `json:"total"`
}

// PaymentVerifier checks with the payment provider that a payment attempt
// actually succeeded before the backend confirmation call is made
type PaymentVerifier interface {
	// VerifyIntent returns nil when the payment intent has succeeded
	VerifyIntent(ctx context.Context, paymentIntentID string) error
}

// SavedAddress is one address-book entry of the storefront account
type SavedAddress struct {
	ID      string       `json:"id"`
	Label   string       `json:"label,omitempty"`
	Address CustomerInfo `json:"address"`
	Default bool         `json:"default"`
}

// AddressBookGateway is the storefront saved-address API, consumed but not
// owned by checkout
type AddressBookGateway interface {
	ListAddresses(ctx context.Context, authToken string) ([]SavedAddress, error)
	CreateAddress(ctx context.Context, authToken string, address CustomerInfo) (*SavedAddress, error)
}
