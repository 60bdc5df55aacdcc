package storefront

import (
	"context"
	"net/http"
	"net/url"

	"github.com/storefront/backend/internal/domain/checkout"
)

// confirmPaymentRequest is the order-confirmation payload
type confirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// CreateDraft creates a pending order and returns its number together with
// the payment client secret
func (c *Client) CreateDraft(ctx context.Context, authToken string, req checkout.OrderDraftRequest) (*checkout.OrderDraft, error) {
	var draft checkout.OrderDraft
	if err := c.doRequest(ctx, http.MethodPost, "/api/orders/draft", authToken, req, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// ConfirmPayment marks a draft order as paid after the payment provider
// reported success
func (c *Client) ConfirmPayment(ctx context.Context, authToken, paymentIntentID, orderNumber string) error {
	path := "/api/orders/" + url.PathEscape(orderNumber) + "/confirm"
	return c.doRequest(ctx, http.MethodPost, path, authToken,
		confirmPaymentRequest{PaymentIntentID: paymentIntentID}, nil)
}

// Ensure Client implements OrderGateway
var _ checkout.OrderGateway = (*Client)(nil)
