package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
)

// StripeVerifier checks payment intents against the Stripe API. Order
// confirmation only proceeds once Stripe itself reports the intent as
// succeeded; the client-side confirmation result is never trusted on its own.
type StripeVerifier struct {
	config *StripeConfig
	logger *zap.Logger
}

// NewStripeVerifier creates a new Stripe payment verifier
func NewStripeVerifier(config *StripeConfig, logger *zap.Logger) (*StripeVerifier, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.InitStripeClient()

	return &StripeVerifier{
		config: config,
		logger: logger,
	}, nil
}

// VerifyIntent returns nil when the payment intent has succeeded
func (v *StripeVerifier) VerifyIntent(ctx context.Context, paymentIntentID string) error {
	if paymentIntentID == "" {
		return fmt.Errorf("stripe: payment intent id is required")
	}

	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}

	intent, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		v.logger.Error("Failed to retrieve payment intent",
			zap.String("payment_intent_id", paymentIntentID),
			zap.Error(err))
		return fmt.Errorf("stripe: failed to retrieve payment intent: %w", err)
	}

	if intent.Status != stripe.PaymentIntentStatusSucceeded {
		v.logger.Warn("Payment intent has not succeeded",
			zap.String("payment_intent_id", paymentIntentID),
			zap.String("status", string(intent.Status)))
		return fmt.Errorf("stripe: payment intent %s is in status %s", paymentIntentID, intent.Status)
	}

	return nil
}

// Ensure StripeVerifier implements PaymentVerifier
var _ checkout.PaymentVerifier = (*StripeVerifier)(nil)
