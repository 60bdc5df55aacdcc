package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/checkout"
)

// CartLineInput is one cart line supplied by the storefront client. Prices
// arrive as display strings ("19.99" or "$19.99").
type CartLineInput struct {
	ID               string   `json:"id"`
	ProductID        string   `json:"product_id"`
	ProductName      string   `json:"product_name"`
	VariantID        string   `json:"variant_id"`
	PartnerVariantID string   `json:"partner_variant_id"`
	CatalogVariantID string   `json:"catalog_variant_id"`
	Quantity         int      `json:"quantity"`
	UnitPrice        string   `json:"unit_price"`
	Size             string   `json:"size"`
	Color            string   `json:"color"`
	Source           string   `json:"source"`
	PartnerRegions   []string `json:"partner_regions"`
	Regions          []string `json:"regions"`
}

// ToCartLine converts the input into a domain cart line
func (in CartLineInput) ToCartLine() (checkout.CartLine, error) {
	price, err := checkout.ParseAmount(in.UnitPrice)
	if err != nil {
		return checkout.CartLine{}, err
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	source := checkout.Source(in.Source)
	if source == "" {
		source = checkout.SourcePrintful
	}

	return checkout.CartLine{
		ID:               id,
		ProductID:        in.ProductID,
		ProductName:      in.ProductName,
		VariantID:        in.VariantID,
		PartnerVariantID: in.PartnerVariantID,
		CatalogVariantID: in.CatalogVariantID,
		Quantity:         in.Quantity,
		UnitPrice:        price,
		TotalPrice:       price.Mul(decimal.NewFromInt(int64(in.Quantity))),
		Size:             in.Size,
		Color:            in.Color,
		Source:           source,
		PartnerRegions:   in.PartnerRegions,
		Regions:          in.Regions,
	}, nil
}

// StartSessionRequest opens a new checkout session with the guest cart
type StartSessionRequest struct {
	Lines []CartLineInput `json:"lines"`
}

// MergeDecisionResponse is the pending guest-versus-user cart choice
type MergeDecisionResponse struct {
	UserCartCount  int `json:"user_cart_count"`
	GuestCartCount int `json:"guest_cart_count"`
}

// QuoteResponse is one shipping option
type QuoteResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Rate     string `json:"rate"`
	Currency string `json:"currency"`
	Tax      string `json:"tax,omitempty"`
	Selected bool   `json:"selected"`
}

// TotalsResponse is the price breakdown shown to the customer. Tax is
// labelled as an estimate until a partner-supplied figure replaces it.
type TotalsResponse struct {
	Subtotal     string `json:"subtotal"`
	Shipping     string `json:"shipping"`
	Tax          string `json:"tax"`
	Total        string `json:"total"`
	TaxEstimated bool   `json:"tax_estimated"`
}

// SessionResponse is the API view of a checkout session
type SessionResponse struct {
	ID                   string                 `json:"id"`
	Step                 string                 `json:"step"`
	CartState            string                 `json:"cart_state"`
	Customer             checkout.CustomerInfo  `json:"customer"`
	Lines                []checkout.CartLine    `json:"lines"`
	Quotes               []QuoteResponse        `json:"quotes"`
	MergeDecision        *MergeDecisionResponse `json:"merge_decision,omitempty"`
	OrderNumber          string                 `json:"order_number,omitempty"`
	ClientSecret         string                 `json:"client_secret,omitempty"`
	ConfirmedOrderNumber string                 `json:"confirmed_order_number,omitempty"`
}

// ToTotalsResponse converts a computed order total
func ToTotalsResponse(total checkout.OrderTotal) TotalsResponse {
	return TotalsResponse{
		Subtotal:     total.Subtotal.StringFixed(2),
		Shipping:     total.Shipping.StringFixed(2),
		Tax:          total.Tax.StringFixed(2),
		Total:        total.Total.StringFixed(2),
		TaxEstimated: total.TaxEstimated,
	}
}

// ToSessionResponse converts a session aggregate, with lines resolved by the
// caller (guest lines or the fetched user cart)
func ToSessionResponse(session *checkout.CheckoutSession, lines []checkout.CartLine) SessionResponse {
	resp := SessionResponse{
		ID:                   session.ID.String(),
		Step:                 session.Step.String(),
		CartState:            string(session.CartState),
		Customer:             session.Customer,
		Lines:                lines,
		Quotes:               make([]QuoteResponse, 0, len(session.Quotes)),
		ConfirmedOrderNumber: session.ConfirmedOrderNumber,
	}

	for _, q := range session.Quotes {
		quote := QuoteResponse{
			ID:       q.ID,
			Name:     q.Name,
			Rate:     q.Rate.StringFixed(2),
			Currency: q.Currency,
			Selected: q.ID == session.SelectedQuoteID,
		}
		if q.Tax != nil {
			quote.Tax = q.Tax.StringFixed(2)
		}
		resp.Quotes = append(resp.Quotes, quote)
	}

	if session.MergeDecision != nil {
		resp.MergeDecision = &MergeDecisionResponse{
			UserCartCount:  session.MergeDecision.UserCartCount,
			GuestCartCount: session.MergeDecision.GuestCartCount,
		}
	}

	if session.Draft != nil {
		resp.OrderNumber = session.Draft.OrderNumber
		resp.ClientSecret = session.Draft.ClientSecret
	}

	return resp
}
