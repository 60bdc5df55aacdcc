package checkout

// stateRequiredCountries are the destinations whose shipping-rate API calls
// reject a recipient without a state/province code
var stateRequiredCountries = map[string]bool{
	"US": true,
	"CA": true,
	"AU": true,
	"JP": true,
}

// StateRequired reports whether the destination country needs a
// state/province code for the fulfillment partner's rate API
func StateRequired(countryCode string) bool {
	return stateRequiredCountries[countryCode]
}

// FieldError describes a single failed address field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of validating a CustomerInfo record
type ValidationResult struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (r *ValidationResult) addError(field, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, FieldError{Field: field, Message: message})
}

// ValidateAddress validates a shipping address. Name, address1, city, zip and
// country are always required; state only for destinations whose rate API
// needs it; phone only when requirePhone is set (rate quoting tolerates a
// missing phone, order submission does not). Pure, no side effects.
func ValidateAddress(info CustomerInfo, requirePhone bool) ValidationResult {
	info = info.Normalized()
	result := ValidationResult{Valid: true}

	if info.Name == "" {
		result.addError("name", "Full name is required")
	}
	if info.Address1 == "" {
		result.addError("address1", "Street address is required")
	}
	if info.City == "" {
		result.addError("city", "City is required")
	}
	if info.Zip == "" {
		result.addError("zip", "ZIP / postal code is required")
	}
	if info.Country == "" {
		result.addError("country", "Country is required")
	} else if StateRequired(info.Country) && info.State == "" {
		result.addError("state", "State / province is required for "+info.Country)
	}
	if requirePhone && info.Phone == "" {
		result.addError("phone", "Phone number is required")
	}

	return result
}

// CanFetchShippingRates is the cheap pre-flight gate used before attempting a
// rate call: the partner API can produce quotes as soon as street, city, zip
// and country are known
func CanFetchShippingRates(info CustomerInfo) bool {
	info = info.Normalized()
	return info.Address1 != "" && info.City != "" && info.Zip != "" && info.Country != ""
}
