package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"go.uber.org/zap"
)

// mockBackend implements stripe.Backend for testing
type mockBackend struct {
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

// setupMockBackend sets up a mock Stripe backend for testing
func setupMockBackend(handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) func() {
	mock := &mockBackend{handler: handler}
	stripe.SetBackend(stripe.APIBackend, mock)
	return func() {
		stripe.SetBackend(stripe.APIBackend, nil)
	}
}

func testStripeConfig() *StripeConfig {
	return &StripeConfig{SecretKey: "sk_test_123456789"}
}

func TestNewStripeVerifier_RequiresSecretKey(t *testing.T) {
	_, err := NewStripeVerifier(&StripeConfig{}, zap.NewNop())
	assert.ErrorIs(t, err, ErrStripeMissingSecretKey)
}

func TestNewStripeVerifier_RejectsMalformedKey(t *testing.T) {
	_, err := NewStripeVerifier(&StripeConfig{SecretKey: "pk_test_123"}, zap.NewNop())
	assert.ErrorIs(t, err, ErrStripeInvalidSecretKey)
}

func TestStripeVerifier_VerifyIntent_Succeeded(t *testing.T) {
	cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		assert.Equal(t, "GET", method)
		assert.Equal(t, "/v1/payment_intents/pi_123", path)
		return json.Marshal(map[string]any{
			"id":     "pi_123",
			"status": "succeeded",
		})
	})
	defer cleanup()

	verifier, err := NewStripeVerifier(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, verifier.VerifyIntent(context.Background(), "pi_123"))
}

func TestStripeVerifier_VerifyIntent_NotSucceeded(t *testing.T) {
	cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return json.Marshal(map[string]any{
			"id":     "pi_123",
			"status": "requires_payment_method",
		})
	})
	defer cleanup()

	verifier, err := NewStripeVerifier(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	verifyErr := verifier.VerifyIntent(context.Background(), "pi_123")
	require.Error(t, verifyErr)
	assert.Contains(t, verifyErr.Error(), "requires_payment_method")
}

func TestStripeVerifier_VerifyIntent_APIError(t *testing.T) {
	cleanup := setupMockBackend(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, fmt.Errorf("connection reset")
	})
	defer cleanup()

	verifier, err := NewStripeVerifier(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	verifyErr := verifier.VerifyIntent(context.Background(), "pi_123")
	require.Error(t, verifyErr)
	assert.Contains(t, verifyErr.Error(), "failed to retrieve payment intent")
}

func TestStripeVerifier_VerifyIntent_RequiresID(t *testing.T) {
	verifier, err := NewStripeVerifier(testStripeConfig(), zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, verifier.VerifyIntent(context.Background(), ""))
}
