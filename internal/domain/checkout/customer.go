package checkout

import "strings"

// CustomerInfo holds the shipping contact for one checkout session.
// It is owned and mutated by the checkout session; its lifetime ends with it.
type CustomerInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	State    string `json:"state"`
	Zip      string `json:"zip"`
	Country  string `json:"country"` // ISO 3166-1 alpha-2
}

// IsEmpty returns true when no field has been filled in
func (c CustomerInfo) IsEmpty() bool {
	return c == CustomerInfo{}
}

// Normalized returns a copy with surrounding whitespace trimmed and the
// country code upper-cased
func (c CustomerInfo) Normalized() CustomerInfo {
	return CustomerInfo{
		Name:     strings.TrimSpace(c.Name),
		Email:    strings.TrimSpace(c.Email),
		Phone:    strings.TrimSpace(c.Phone),
		Address1: strings.TrimSpace(c.Address1),
		Address2: strings.TrimSpace(c.Address2),
		City:     strings.TrimSpace(c.City),
		State:    strings.ToUpper(strings.TrimSpace(c.State)),
		Zip:      strings.TrimSpace(c.Zip),
		Country:  strings.ToUpper(strings.TrimSpace(c.Country)),
	}
}

// UserProfile is the authenticated storefront account used to pre-fill
// checkout fields after a mid-checkout login
type UserProfile struct {
	UserID  string       `json:"user_id"`
	Name    string       `json:"name"`
	Email   string       `json:"email"`
	Address CustomerInfo `json:"address"`
}

// HasAddress returns true when the profile carries a usable shipping address
func (p UserProfile) HasAddress() bool {
	return p.Address.Address1 != "" && p.Address.Country != ""
}
