package storefront

import (
	"context"
	"net/http"

	"github.com/storefront/backend/internal/domain/checkout"
)

// addressListResponse is the saved-address list payload
type addressListResponse struct {
	Addresses []checkout.SavedAddress `json:"addresses"`
}

// createAddressRequest is the save-address payload
type createAddressRequest struct {
	Address checkout.CustomerInfo `json:"address"`
}

// ListAddresses fetches the user's address book
func (c *Client) ListAddresses(ctx context.Context, authToken string) ([]checkout.SavedAddress, error) {
	var resp addressListResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/addresses", authToken, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// CreateAddress stores a shipping address in the user's address book
func (c *Client) CreateAddress(ctx context.Context, authToken string, address checkout.CustomerInfo) (*checkout.SavedAddress, error) {
	var saved checkout.SavedAddress
	if err := c.doRequest(ctx, http.MethodPost, "/api/addresses", authToken,
		createAddressRequest{Address: address}, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Ensure Client implements AddressBookGateway
var _ checkout.AddressBookGateway = (*Client)(nil)
