package fulfillment

// printfulEnvelope is the base response wrapper for all Printful API calls
type printfulEnvelope struct {
	Code  int    `json:"code"`
	Error *struct {
		Reason  string `json:"reason"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// printfulRatesResponse is the response for POST /shipping/rates
type printfulRatesResponse struct {
	printfulEnvelope
	Result []printfulRate `json:"result"`
}

// printfulRate is one shipping option. Monetary fields arrive as strings.
type printfulRate struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rate     string `json:"rate"`
	Currency string `json:"currency"`
	Tax      string `json:"tax,omitempty"`
}

// printfulCountriesResponse is the response for GET /countries
type printfulCountriesResponse struct {
	printfulEnvelope
	Result []printfulCountry `json:"result"`
}

// printfulCountry is one destination-country catalog entry
type printfulCountry struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
}
