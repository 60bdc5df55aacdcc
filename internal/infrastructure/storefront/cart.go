package storefront

import (
	"context"
	"net/http"

	"github.com/storefront/backend/internal/domain/checkout"
)

// cartResponse is the user cart payload
type cartResponse struct {
	Items []checkout.CartLine `json:"items"`
}

// addToCartRequest is the add-item payload
type addToCartRequest struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

// GetCart fetches the authenticated user's server-side cart
func (c *Client) GetCart(ctx context.Context, authToken string) ([]checkout.CartLine, error) {
	var resp cartResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/cart", authToken, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddToCart adds a variant to the user's cart. The backend merges
// quantities when the variant is already present.
func (c *Client) AddToCart(ctx context.Context, authToken, variantID string, quantity int) error {
	return c.doRequest(ctx, http.MethodPost, "/api/cart/items", authToken,
		addToCartRequest{VariantID: variantID, Quantity: quantity}, nil)
}

// ClearCart empties the user's cart
func (c *Client) ClearCart(ctx context.Context, authToken string) error {
	return c.doRequest(ctx, http.MethodDelete, "/api/cart", authToken, nil, nil)
}

// Ensure Client implements CartGateway
var _ checkout.CartGateway = (*Client)(nil)
