package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/domain/checkout"
)

// MockSessionRepository is a mock implementation of checkout.SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*checkout.CheckoutSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.CheckoutSession), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, session *checkout.CheckoutSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFulfillmentGateway is a mock implementation of checkout.FulfillmentGateway
type MockFulfillmentGateway struct {
	mock.Mock
}

func (m *MockFulfillmentGateway) ShippingRates(ctx context.Context, req checkout.ShippingRateRequest) ([]checkout.ShippingRateQuote, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.ShippingRateQuote), args.Error(1)
}

func (m *MockFulfillmentGateway) Countries(ctx context.Context) (map[string]checkout.CountryInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]checkout.CountryInfo), args.Error(1)
}

// MockCartGateway is a mock implementation of checkout.CartGateway
type MockCartGateway struct {
	mock.Mock
}

func (m *MockCartGateway) GetCart(ctx context.Context, authToken string) ([]checkout.CartLine, error) {
	args := m.Called(ctx, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.CartLine), args.Error(1)
}

func (m *MockCartGateway) AddToCart(ctx context.Context, authToken, variantID string, quantity int) error {
	args := m.Called(ctx, authToken, variantID, quantity)
	return args.Error(0)
}

func (m *MockCartGateway) ClearCart(ctx context.Context, authToken string) error {
	args := m.Called(ctx, authToken)
	return args.Error(0)
}

// MockOrderGateway is a mock implementation of checkout.OrderGateway
type MockOrderGateway struct {
	mock.Mock
}

func (m *MockOrderGateway) CreateDraft(ctx context.Context, authToken string, req checkout.OrderDraftRequest) (*checkout.OrderDraft, error) {
	args := m.Called(ctx, authToken, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.OrderDraft), args.Error(1)
}

func (m *MockOrderGateway) ConfirmPayment(ctx context.Context, authToken, paymentIntentID, orderNumber string) error {
	args := m.Called(ctx, authToken, paymentIntentID, orderNumber)
	return args.Error(0)
}

// MockPaymentVerifier is a mock implementation of checkout.PaymentVerifier
type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) VerifyIntent(ctx context.Context, paymentIntentID string) error {
	args := m.Called(ctx, paymentIntentID)
	return args.Error(0)
}

// MockAddressBookGateway is a mock implementation of checkout.AddressBookGateway
type MockAddressBookGateway struct {
	mock.Mock
}

func (m *MockAddressBookGateway) ListAddresses(ctx context.Context, authToken string) ([]checkout.SavedAddress, error) {
	args := m.Called(ctx, authToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]checkout.SavedAddress), args.Error(1)
}

func (m *MockAddressBookGateway) CreateAddress(ctx context.Context, authToken string, address checkout.CustomerInfo) (*checkout.SavedAddress, error) {
	args := m.Called(ctx, authToken, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.SavedAddress), args.Error(1)
}

// MockTokenVerifier is a mock implementation of TokenVerifier
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) Verify(token string) (checkout.UserProfile, error) {
	args := m.Called(token)
	return args.Get(0).(checkout.UserProfile), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
