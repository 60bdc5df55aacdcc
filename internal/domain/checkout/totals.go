package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// estimatedTaxRate is the provisional tax estimate applied while no
// partner-supplied tax figure exists. The order backend recomputes the
// authoritative amount at order creation; the UI must label this one as an
// estimate.
var estimatedTaxRate = decimal.RequireFromString("0.08")

// OrderTotal is the computed price breakdown for a checkout session
type OrderTotal struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	TaxEstimated bool            `json:"tax_estimated"`
}

// CalculateOrderTotal combines subtotal, the selected shipping rate (zero if
// none is selected) and tax. A positive partnerTax is authoritative;
// otherwise an 8% estimate of the subtotal is applied and flagged as such.
func CalculateOrderTotal(subtotal decimal.Decimal, selected *ShippingRateQuote, partnerTax decimal.Decimal) OrderTotal {
	shipping := decimal.Zero
	if selected != nil {
		shipping = selected.Rate
	}

	tax := partnerTax
	estimated := false
	if !partnerTax.IsPositive() {
		tax = subtotal.Mul(estimatedTaxRate).Round(2)
		estimated = true
	}

	return OrderTotal{
		Subtotal:     subtotal,
		Shipping:     shipping,
		Tax:          tax,
		Total:        subtotal.Add(shipping).Add(tax),
		TaxEstimated: estimated,
	}
}

// ParseAmount parses a display amount like "$100.00" or "1,234.50" into a
// decimal. Currency symbols and thousands separators are stripped.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥ ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, shared.NewDomainError("INVALID_AMOUNT", "Cannot parse amount: "+s)
	}
	return amount, nil
}
