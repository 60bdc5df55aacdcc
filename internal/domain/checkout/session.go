package checkout

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
)

// CheckoutStep is the state of the checkout state machine
type CheckoutStep string

const (
	StepInfo         CheckoutStep = "info"
	StepCartMerge    CheckoutStep = "cart-merge"
	StepPayment      CheckoutStep = "payment"
	StepConfirmation CheckoutStep = "confirmation"
)

// IsValid checks if the step is a known CheckoutStep
func (s CheckoutStep) IsValid() bool {
	switch s {
	case StepInfo, StepCartMerge, StepPayment, StepConfirmation:
		return true
	}
	return false
}

// String returns the string representation of the step
func (s CheckoutStep) String() string {
	return string(s)
}

// CanTransitionTo checks if the step can transition to the target step.
// Any failure path that matches no transition leaves the state unchanged.
func (s CheckoutStep) CanTransitionTo(target CheckoutStep) bool {
	switch s {
	case StepInfo:
		return target == StepCartMerge || target == StepPayment
	case StepCartMerge:
		return target == StepInfo || target == StepPayment
	case StepPayment:
		return target == StepConfirmation
	case StepConfirmation:
		return false // terminal
	}
	return false
}

// OrderDraft is the backend order-creation result: created once, consumed
// exactly once by payment confirmation
type OrderDraft struct {
	OrderNumber  string `json:"order_number"`
	ClientSecret string `json:"client_secret"`
}

// CheckoutSession is the aggregate owning one checkout's state: the shipping
// contact, the guest cart, the quote list and selection, the pending merge
// decision, and the order draft. Sessions are independent of each other; the
// external cart APIs are the only shared mutable resource.
type CheckoutSession struct {
	shared.BaseEntity

	Step      CheckoutStep `json:"step"`
	Customer  CustomerInfo `json:"customer"`
	CartState CartState    `json:"cart_state"`

	GuestLines []CartLine   `json:"guest_lines,omitempty"`
	AuthToken  string       `json:"-"`
	Profile    *UserProfile `json:"profile,omitempty"`

	Quotes          []ShippingRateQuote `json:"quotes,omitempty"`
	SelectedQuoteID string              `json:"selected_quote_id,omitempty"`
	PartnerTax      decimal.Decimal     `json:"partner_tax"`

	MergeDecision *CartMergeDecision `json:"merge_decision,omitempty"`
	Draft         *OrderDraft        `json:"draft,omitempty"`

	ConfirmedOrderNumber string `json:"confirmed_order_number,omitempty"`
}

// NewCheckoutSession creates a session at the info step with a guest cart
func NewCheckoutSession(guestLines []CartLine) *CheckoutSession {
	return &CheckoutSession{
		BaseEntity: shared.NewBaseEntity(),
		Step:       StepInfo,
		CartState:  CartStateGuest,
		GuestLines: guestLines,
		PartnerTax: decimal.Zero,
	}
}

// SetCustomer replaces the session's shipping contact
func (s *CheckoutSession) SetCustomer(info CustomerInfo) {
	s.Customer = info.Normalized()
	s.Touch()
}

// AddGuestLine appends a line to the guest cart.
// Only allowed while the cart is guest-owned.
func (s *CheckoutSession) AddGuestLine(line CartLine) error {
	if s.CartState != CartStateGuest {
		return shared.NewDomainError("INVALID_STATE", "Cannot add guest items after the cart has been claimed")
	}
	if line.Quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if line.EffectiveVariantID() == "" {
		return shared.NewDomainError("INVALID_VARIANT", "Cart line has no variant id")
	}
	s.GuestLines = append(s.GuestLines, line)
	s.Touch()
	return nil
}

// RemoveGuestLine removes a guest cart line by id
func (s *CheckoutSession) RemoveGuestLine(lineID string) error {
	if s.CartState != CartStateGuest {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify guest items after the cart has been claimed")
	}
	for idx, line := range s.GuestLines {
		if line.ID == lineID {
			s.GuestLines = append(s.GuestLines[:idx], s.GuestLines[idx+1:]...)
			s.Touch()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Cart line not found")
}

// SetQuotes replaces the quote list wholesale. The first quote becomes the
// selection (first-returned wins, no cheapest sort) and, when it carries a
// tax figure, that figure becomes the session's authoritative tax. A quote
// list without a tax figure drops any previously adopted one, so a re-fetch
// never totals against a stale address's tax.
func (s *CheckoutSession) SetQuotes(quotes []ShippingRateQuote) {
	s.Quotes = quotes
	s.PartnerTax = decimal.Zero
	if len(quotes) == 0 {
		s.SelectedQuoteID = ""
		s.Touch()
		return
	}
	s.SelectedQuoteID = quotes[0].ID
	if quotes[0].Tax != nil {
		s.PartnerTax = *quotes[0].Tax
	}
	s.Touch()
}

// ClearQuotes resets the quote list and selection, e.g. after a failed or
// empty rate fetch
func (s *CheckoutSession) ClearQuotes() {
	s.Quotes = nil
	s.SelectedQuoteID = ""
	s.PartnerTax = decimal.Zero
	s.Touch()
}

// SelectQuote switches the selection to an existing quote
func (s *CheckoutSession) SelectQuote(quoteID string) error {
	for _, q := range s.Quotes {
		if q.ID == quoteID {
			s.SelectedQuoteID = quoteID
			if q.Tax != nil {
				s.PartnerTax = *q.Tax
			}
			s.Touch()
			return nil
		}
	}
	return shared.NewDomainError("QUOTE_NOT_FOUND", "Shipping rate not found")
}

// SelectedQuote returns the currently selected quote, if any
func (s *CheckoutSession) SelectedQuote() *ShippingRateQuote {
	for idx := range s.Quotes {
		if s.Quotes[idx].ID == s.SelectedQuoteID {
			return &s.Quotes[idx]
		}
	}
	return nil
}

// AdoptProfile binds an authenticated user to the session and pre-fills
// empty checkout fields from the profile. Used when login needs no cart
// reconciliation; the cart becomes user-owned directly.
func (s *CheckoutSession) AdoptProfile(profile UserProfile, token string) {
	s.AuthToken = token
	s.Profile = &profile
	s.CartState = CartStateUser
	s.GuestLines = nil
	if s.Customer.Name == "" {
		s.Customer.Name = profile.Name
	}
	if s.Customer.Email == "" {
		s.Customer.Email = profile.Email
	}
	if s.Customer.Address1 == "" && profile.HasAddress() {
		addr := profile.Address.Normalized()
		addr.Name = s.Customer.Name
		addr.Email = s.Customer.Email
		s.Customer = addr
	}
	s.Touch()
}

// BeginCartMerge transitions into the explicit cart-merge step. The decision
// must be presented to the user before any cart mutation occurs.
func (s *CheckoutSession) BeginCartMerge(decision CartMergeDecision) error {
	if !s.Step.CanTransitionTo(StepCartMerge) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start cart merge from %s step", s.Step))
	}
	s.Step = StepCartMerge
	s.CartState = CartStateReconciling
	s.MergeDecision = &decision
	s.AuthToken = decision.AuthToken
	s.Profile = &decision.Profile
	s.Touch()
	return nil
}

// CompleteCartMerge concludes the cart-merge step after the user's merge or
// discard choice was carried out. The cart is now user-owned and the flow
// converges back to the given step.
func (s *CheckoutSession) CompleteCartMerge(next CheckoutStep) error {
	if s.Step != StepCartMerge {
		return shared.NewDomainError("INVALID_STATE", "No cart merge in progress")
	}
	if !s.Step.CanTransitionTo(next) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot leave cart merge for %s step", next))
	}
	s.Step = next
	s.CartState = CartStateUser
	s.GuestLines = nil
	s.MergeDecision = nil
	s.Touch()
	return nil
}

// AbortCartMerge returns to the info step without touching either cart, e.g.
// when a merge replay failed partway. Guest lines are preserved so nothing
// is lost; the user may retry.
func (s *CheckoutSession) AbortCartMerge() {
	if s.Step != StepCartMerge {
		return
	}
	s.Step = StepInfo
	s.CartState = CartStateGuest
	s.MergeDecision = nil
	s.Touch()
}

// AttachDraft records the backend order draft and advances to payment
func (s *CheckoutSession) AttachDraft(draft OrderDraft) error {
	if !s.Step.CanTransitionTo(StepPayment) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move to payment from %s step", s.Step))
	}
	if draft.OrderNumber == "" || draft.ClientSecret == "" {
		return shared.NewDomainError("INVALID_DRAFT", "Order draft is incomplete")
	}
	s.Draft = &draft
	s.Step = StepPayment
	s.Touch()
	return nil
}

// ConfirmPayment consumes the order draft and reaches the terminal
// confirmation step. On backend failure the caller leaves the session at
// payment with the draft intact, so a retry reuses the same client secret.
func (s *CheckoutSession) ConfirmPayment() error {
	if !s.Step.CanTransitionTo(StepConfirmation) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot confirm payment from %s step", s.Step))
	}
	if s.Draft == nil {
		return shared.NewDomainError("NO_DRAFT", "No order draft to confirm")
	}
	s.ConfirmedOrderNumber = s.Draft.OrderNumber
	s.Draft = nil
	s.Step = StepConfirmation
	s.Touch()
	return nil
}

// IsTerminal returns true when the session reached confirmation
func (s *CheckoutSession) IsTerminal() bool {
	return s.Step == StepConfirmation
}
