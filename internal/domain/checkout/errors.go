package checkout

import "github.com/storefront/backend/internal/domain/shared"

// Checkout domain errors
var (
	ErrSessionNotFound    = shared.NewDomainError("SESSION_NOT_FOUND", "Checkout session not found")
	ErrAddressInvalid     = shared.NewDomainError("ADDRESS_INVALID", "Shipping address is incomplete or invalid")
	ErrAddressIncomplete  = shared.NewDomainError("ADDRESS_INCOMPLETE", "Enter street, city, ZIP and country to see shipping options")
	ErrNoShippingOptions  = shared.NewDomainError("NO_SHIPPING_OPTIONS", "No shipping options are available for this address")
	ErrNoRateSelected     = shared.NewDomainError("NO_RATE_SELECTED", "Select a shipping option before placing the order")
	ErrRegionRestricted   = shared.NewDomainError("REGION_RESTRICTED", "Some items cannot be shipped to the selected country")
	ErrEmptyCart          = shared.NewDomainError("EMPTY_CART", "Cart is empty")
	ErrMergeNotPending    = shared.NewDomainError("MERGE_NOT_PENDING", "No cart merge decision is pending")
	ErrPaymentNotVerified = shared.NewDomainError("PAYMENT_NOT_VERIFIED", "Payment has not completed successfully")
)
