package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

func usCustomer() checkout.CustomerInfo {
	return checkout.CustomerInfo{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Address1: "123 Market St",
		City:     "San Francisco",
		State:    "CA",
		Zip:      "94105",
		Country:  "US",
	}
}

func testLine(variantID string, qty int, price string) checkout.CartLine {
	unit, _ := decimal.NewFromString(price)
	return checkout.CartLine{
		ID:               "line-" + variantID,
		ProductName:      "Classic Tee",
		CatalogVariantID: variantID,
		Quantity:         qty,
		UnitPrice:        unit,
		TotalPrice:       unit.Mul(decimal.NewFromInt(int64(qty))),
		Source:           checkout.SourcePrintful,
	}
}

func testQuote(id, name, rate string) checkout.ShippingRateQuote {
	r, _ := decimal.NewFromString(rate)
	return checkout.ShippingRateQuote{ID: id, Name: name, Rate: r, Currency: "USD"}
}

func TestShippingRateResolver_Fetch_Success(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	session := checkout.NewCheckoutSession(nil)
	session.SetCustomer(usCustomer())
	lines := []checkout.CartLine{testLine("4012", 2, "25.00")}

	fulfillment.On("ShippingRates", mock.Anything, mock.MatchedBy(func(req checkout.ShippingRateRequest) bool {
		return req.Recipient.CountryCode == "US" &&
			req.Recipient.StateCode == "CA" &&
			req.Currency == "USD" &&
			len(req.Items) == 1 &&
			req.Items[0].VariantID == "4012" &&
			req.Items[0].Value == "25.00"
	})).Return([]checkout.ShippingRateQuote{
		testQuote("STANDARD", "Standard", "5.00"),
		testQuote("EXPRESS", "Express", "15.00"),
	}, nil)

	err := resolver.Fetch(ctx, session, lines)

	require.NoError(t, err)
	assert.Len(t, session.Quotes, 2)
	assert.Equal(t, "STANDARD", session.SelectedQuoteID)
	fulfillment.AssertExpectations(t)
}

func TestShippingRateResolver_Fetch_InvalidAddress(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	session := checkout.NewCheckoutSession(nil)
	info := usCustomer()
	info.State = "" // required for US
	session.SetCustomer(info)

	err := resolver.Fetch(ctx, session, []checkout.CartLine{testLine("4012", 1, "25.00")})

	assert.ErrorIs(t, err, checkout.ErrAddressInvalid)
	fulfillment.AssertNotCalled(t, "ShippingRates", mock.Anything, mock.Anything)
}

func TestShippingRateResolver_Fetch_IncompleteAddressSkipsCall(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	// Address still being typed: no city yet
	session := checkout.NewCheckoutSession(nil)
	session.SetCustomer(checkout.CustomerInfo{
		Name: "Jane Doe", Address1: "1 High St", Zip: "SW1A 1AA", Country: "GB",
	})

	err := resolver.Fetch(ctx, session, []checkout.CartLine{testLine("4012", 1, "25.00")})

	assert.ErrorIs(t, err, checkout.ErrAddressIncomplete)
	fulfillment.AssertNotCalled(t, "ShippingRates", mock.Anything, mock.Anything)
}

func TestShippingRateResolver_Fetch_EmptyCart(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	session := checkout.NewCheckoutSession(nil)
	session.SetCustomer(usCustomer())

	err := resolver.Fetch(ctx, session, nil)

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	fulfillment.AssertNotCalled(t, "ShippingRates", mock.Anything, mock.Anything)
}

func TestShippingRateResolver_Fetch_UpstreamFailureClearsQuotes(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	session := checkout.NewCheckoutSession(nil)
	session.SetCustomer(usCustomer())
	session.SetQuotes([]checkout.ShippingRateQuote{testQuote("OLD", "Old", "9.99")})
	require.Equal(t, "OLD", session.SelectedQuoteID)

	fulfillment.On("ShippingRates", mock.Anything, mock.Anything).
		Return(nil, errors.New("upstream timeout"))

	err := resolver.Fetch(ctx, session, []checkout.CartLine{testLine("4012", 1, "25.00")})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "RATE_FETCH_FAILED", domainErr.Code)
	assert.Empty(t, session.Quotes)
	assert.Empty(t, session.SelectedQuoteID)
	// The failed fetch must not disturb the entered address
	assert.Equal(t, "Jane Doe", session.Customer.Name)
}

func TestShippingRateResolver_Fetch_NoOptions(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	session := checkout.NewCheckoutSession(nil)
	session.SetCustomer(usCustomer())
	session.SetQuotes([]checkout.ShippingRateQuote{testQuote("OLD", "Old", "9.99")})

	fulfillment.On("ShippingRates", mock.Anything, mock.Anything).
		Return([]checkout.ShippingRateQuote{}, nil)

	err := resolver.Fetch(ctx, session, []checkout.CartLine{testLine("4012", 1, "25.00")})

	assert.ErrorIs(t, err, checkout.ErrNoShippingOptions)
	assert.Empty(t, session.Quotes)
	assert.Empty(t, session.SelectedQuoteID)
}

func TestShippingRateResolver_Fetch_RefetchReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	fulfillment := new(MockFulfillmentGateway)
	resolver := NewShippingRateResolver(fulfillment, zap.NewNop())

	session := checkout.NewCheckoutSession(nil)
	session.SetCustomer(usCustomer())
	session.SetQuotes([]checkout.ShippingRateQuote{testQuote("OLD", "Old", "9.99")})
	require.NoError(t, session.SelectQuote("OLD"))

	fulfillment.On("ShippingRates", mock.Anything, mock.Anything).
		Return([]checkout.ShippingRateQuote{testQuote("NEW", "New", "4.50")}, nil)

	err := resolver.Fetch(ctx, session, []checkout.CartLine{testLine("4012", 1, "25.00")})

	require.NoError(t, err)
	require.Len(t, session.Quotes, 1)
	assert.Equal(t, "NEW", session.Quotes[0].ID)
	assert.Equal(t, "NEW", session.SelectedQuoteID)
}

func TestBuildRateRequest_OmitsEmptyOptionalFields(t *testing.T) {
	info := checkout.CustomerInfo{
		Name: "Jane Doe", Address1: "1 High St", City: "London", Zip: "SW1A 1AA", Country: "GB",
		State: "ENG", // present but GB does not transmit state
	}

	req := buildRateRequest(info, []checkout.CartLine{testLine("4012", 3, "10.00")})

	assert.Equal(t, "GB", req.Recipient.CountryCode)
	assert.Empty(t, req.Recipient.StateCode)
	assert.Empty(t, req.Recipient.Phone)
	assert.Equal(t, "1 High St", req.Recipient.Address1)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 3, req.Items[0].Quantity)
	assert.Equal(t, "10.00", req.Items[0].Value)
	assert.Equal(t, "en_US", req.Locale)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		country  string
		expected string
	}{
		{"strips formatting", "(415) 555-0123", "US", "+14155550123"},
		{"keeps existing prefix", "+44 20 7946 0958", "US", "+442079460958"},
		{"uk calling code", "020 7946 0958", "GB", "+4402079460958"},
		{"unknown country stays bare", "555 0123", "ZZ", "5550123"},
		{"empty input", "", "US", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePhone(tt.phone, tt.country))
		})
	}
}
