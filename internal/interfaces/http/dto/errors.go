package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeRequestTooLarge is used when the request body exceeds the size limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Checkout flow error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for the current step
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeAddressInvalid is used when the shipping address fails validation
	ErrCodeAddressInvalid = "ERR_ADDRESS_INVALID"
	// ErrCodeAddressIncomplete is used when too few fields are filled in to quote rates
	ErrCodeAddressIncomplete = "ERR_ADDRESS_INCOMPLETE"
	// ErrCodeEmptyCart is used when the active cart has no lines
	ErrCodeEmptyCart = "ERR_EMPTY_CART"
	// ErrCodeNoRateSelected is used when order submission lacks a shipping selection
	ErrCodeNoRateSelected = "ERR_NO_RATE_SELECTED"
	// ErrCodeNoShippingOptions is used when the partner returns zero rates
	ErrCodeNoShippingOptions = "ERR_NO_SHIPPING_OPTIONS"
	// ErrCodeRegionRestricted is used when cart items cannot ship to the destination
	ErrCodeRegionRestricted = "ERR_REGION_RESTRICTED"
	// ErrCodeMergeNotPending is used when a merge decision arrives without a pending merge
	ErrCodeMergeNotPending = "ERR_MERGE_NOT_PENDING"
	// ErrCodePaymentNotVerified is used when the payment provider has not confirmed the intent
	ErrCodePaymentNotVerified = "ERR_PAYMENT_NOT_VERIFIED"
)

// Upstream error codes
const (
	// ErrCodeUpstreamRates is used when the fulfillment partner's rate API fails
	ErrCodeUpstreamRates = "ERR_UPSTREAM_RATES"
	// ErrCodeUpstreamCart is used when the storefront cart API fails
	ErrCodeUpstreamCart = "ERR_UPSTREAM_CART"
	// ErrCodeUpstreamOrder is used when the storefront order API fails
	ErrCodeUpstreamOrder = "ERR_UPSTREAM_ORDER"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation and input errors -> 400 Bad Request
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,
	ErrCodeConflict: http.StatusConflict,

	// Checkout flow errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:       http.StatusUnprocessableEntity,
	ErrCodeAddressInvalid:     http.StatusUnprocessableEntity,
	ErrCodeAddressIncomplete:  http.StatusUnprocessableEntity,
	ErrCodeEmptyCart:          http.StatusUnprocessableEntity,
	ErrCodeNoRateSelected:     http.StatusUnprocessableEntity,
	ErrCodeNoShippingOptions:  http.StatusUnprocessableEntity,
	ErrCodeRegionRestricted:   http.StatusUnprocessableEntity,
	ErrCodeMergeNotPending:    http.StatusUnprocessableEntity,
	ErrCodePaymentNotVerified: http.StatusUnprocessableEntity,

	// Upstream errors -> 502 Bad Gateway
	ErrCodeUpstreamRates: http.StatusBadGateway,
	ErrCodeUpstreamCart:  http.StatusBadGateway,
	ErrCodeUpstreamOrder: http.StatusBadGateway,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the standardized
// ERR_* wire format
var DomainErrorCodeMapping = map[string]string{
	"SESSION_NOT_FOUND":    ErrCodeNotFound,
	"QUOTE_NOT_FOUND":      ErrCodeNotFound,
	"ITEM_NOT_FOUND":       ErrCodeNotFound,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"INVALID_QUANTITY":     ErrCodeInvalidInput,
	"INVALID_VARIANT":      ErrCodeInvalidInput,
	"INVALID_AMOUNT":       ErrCodeInvalidInput,
	"INVALID_STATE":        ErrCodeInvalidState,
	"NO_DRAFT":             ErrCodeInvalidState,
	"INVALID_DRAFT":        ErrCodeInvalidState,
	"ADDRESS_INVALID":      ErrCodeAddressInvalid,
	"ADDRESS_INCOMPLETE":   ErrCodeAddressIncomplete,
	"EMPTY_CART":           ErrCodeEmptyCart,
	"NO_RATE_SELECTED":     ErrCodeNoRateSelected,
	"NO_SHIPPING_OPTIONS":  ErrCodeNoShippingOptions,
	"REGION_RESTRICTED":    ErrCodeRegionRestricted,
	"MERGE_NOT_PENDING":    ErrCodeMergeNotPending,
	"PAYMENT_NOT_VERIFIED": ErrCodePaymentNotVerified,
	"RATE_FETCH_FAILED":    ErrCodeUpstreamRates,
	"CART_FETCH_FAILED":    ErrCodeUpstreamCart,
	"MERGE_FAILED":         ErrCodeUpstreamCart,
	"ORDER_CREATE_FAILED":  ErrCodeUpstreamOrder,
	"CONFIRM_FAILED":       ErrCodeUpstreamOrder,
	"INTERNAL_ERROR":       ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
