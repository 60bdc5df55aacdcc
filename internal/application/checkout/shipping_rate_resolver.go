package checkout

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

// countryCallingCodes maps the destinations the storefront ships to onto
// their calling-code prefix, used to normalize recipient phone numbers
var countryCallingCodes = map[string]string{
	"US": "1", "CA": "1", "GB": "44", "AU": "61", "JP": "81",
	"DE": "49", "FR": "33", "ES": "34", "IT": "39", "NL": "31",
	"SE": "46", "NO": "47", "DK": "45", "BR": "55", "MX": "52",
	"NZ": "64", "IE": "353", "PL": "48", "PT": "351", "CH": "41",
}

// ShippingRateResolver turns a validated address plus cart lines into a
// rate request against the fulfillment partner and manages the resulting
// quote list on the session
type ShippingRateResolver struct {
	fulfillment checkout.FulfillmentGateway
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewShippingRateResolver creates a resolver
func NewShippingRateResolver(fulfillment checkout.FulfillmentGateway, logger *zap.Logger) *ShippingRateResolver {
	return &ShippingRateResolver{
		fulfillment: fulfillment,
		logger:      logger,
		tracer:      otel.Tracer("checkout"),
	}
}

// Fetch requests shipping rates for the session's address and the given
// cart lines. Local validation failures block the call before any network
// I/O and leave the quote list untouched; upstream failures and empty
// results clear the quote list and selection. Refetching is idempotent:
// results always replace the prior list wholesale.
func (r *ShippingRateResolver) Fetch(ctx context.Context, session *checkout.CheckoutSession, lines []checkout.CartLine) error {
	if !checkout.CanFetchShippingRates(session.Customer) {
		return checkout.ErrAddressIncomplete
	}
	if result := checkout.ValidateAddress(session.Customer, false); !result.Valid {
		return checkout.ErrAddressInvalid
	}
	if len(lines) == 0 {
		return checkout.ErrEmptyCart
	}

	ctx, span := r.tracer.Start(ctx, "shipping_rates.fetch")
	defer span.End()

	quotes, err := r.fulfillment.ShippingRates(ctx, buildRateRequest(session.Customer, lines))
	if err != nil {
		session.ClearQuotes()
		r.logger.Warn("Shipping rate fetch failed",
			zap.String("session_id", session.ID.String()),
			zap.String("country", session.Customer.Country),
			zap.Error(err))

		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return domainErr
		}
		return shared.NewDomainError("RATE_FETCH_FAILED", "Could not fetch shipping options, please try again")
	}

	if len(quotes) == 0 {
		session.ClearQuotes()
		return checkout.ErrNoShippingOptions
	}

	session.SetQuotes(quotes)
	r.logger.Info("Shipping rates fetched",
		zap.String("session_id", session.ID.String()),
		zap.Int("quotes", len(quotes)),
		zap.String("selected", session.SelectedQuoteID))
	return nil
}

// buildRateRequest assembles the partner payload. Country is always sent;
// the state code only for destinations that require it; optional fields only
// when present. Variant ids are resolved through the alias fallback chain
// and transmitted as strings per the partner wire contract.
func buildRateRequest(info checkout.CustomerInfo, lines []checkout.CartLine) checkout.ShippingRateRequest {
	info = info.Normalized()

	recipient := checkout.RateRecipient{CountryCode: info.Country}
	if checkout.StateRequired(info.Country) {
		recipient.StateCode = info.State
	}
	if info.Address1 != "" {
		recipient.Address1 = info.Address1
	}
	if info.Address2 != "" {
		recipient.Address2 = info.Address2
	}
	if info.City != "" {
		recipient.City = info.City
	}
	if info.Zip != "" {
		recipient.Zip = info.Zip
	}
	if info.Phone != "" {
		recipient.Phone = NormalizePhone(info.Phone, info.Country)
	}

	items := make([]checkout.RateItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, checkout.RateItem{
			VariantID: line.EffectiveVariantID(),
			Quantity:  line.Quantity,
			Value:     line.UnitPrice.StringFixed(2),
		})
	}

	return checkout.ShippingRateRequest{
		Recipient: recipient,
		Items:     items,
		Currency:  "USD",
		Locale:    "en_US",
	}
}

// NormalizePhone prefixes the destination's calling code when the number
// does not already carry one. Formatting separators are stripped.
func NormalizePhone(phone, countryCode string) string {
	var digits strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	cleaned := digits.String()
	if cleaned == "" {
		return ""
	}
	if strings.HasPrefix(strings.TrimSpace(phone), "+") {
		return "+" + cleaned
	}
	if code, ok := countryCallingCodes[strings.ToUpper(countryCode)]; ok {
		return "+" + code + cleaned
	}
	return cleaned
}
