package checkout

import "github.com/shopspring/decimal"

// ShippingRateQuote is one shipping option returned by the fulfillment
// partner for an address+cart combination. Quote lists are ephemeral: a
// re-fetch replaces the list wholesale, never merges into it.
type ShippingRateQuote struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Rate     decimal.Decimal  `json:"rate"`
	Currency string           `json:"currency"`
	Tax      *decimal.Decimal `json:"tax,omitempty"`
}
