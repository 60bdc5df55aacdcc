package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/checkout"
	"github.com/storefront/backend/internal/domain/shared"
)

// TokenVerifier validates a storefront auth token and returns the profile it
// belongs to. Token issuance is out of scope; checkout only consumes tokens.
type TokenVerifier interface {
	Verify(token string) (checkout.UserProfile, error)
}

// MergeAction is the user's answer to a pending cart-merge decision
type MergeAction string

const (
	MergeActionMerge   MergeAction = "merge"
	MergeActionDiscard MergeAction = "discard"
	MergeActionCancel  MergeAction = "cancel"
)

// CheckoutService orchestrates the checkout state machine: the info step's
// address and rate negotiation, the optional cart-merge step, order-draft
// creation, and payment confirmation.
type CheckoutService struct {
	sessions    checkout.SessionRepository
	fulfillment checkout.FulfillmentGateway
	carts       checkout.CartGateway
	orders      checkout.OrderGateway
	payments    checkout.PaymentVerifier
	addressBook checkout.AddressBookGateway
	tokens      TokenVerifier
	resolver    *ShippingRateResolver
	reconciler  *CartReconciler
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewCheckoutService wires the orchestrator
func NewCheckoutService(
	sessions checkout.SessionRepository,
	fulfillment checkout.FulfillmentGateway,
	carts checkout.CartGateway,
	orders checkout.OrderGateway,
	payments checkout.PaymentVerifier,
	addressBook checkout.AddressBookGateway,
	tokens TokenVerifier,
	idempotency shared.IdempotencyStore,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		sessions:    sessions,
		fulfillment: fulfillment,
		carts:       carts,
		orders:      orders,
		payments:    payments,
		addressBook: addressBook,
		tokens:      tokens,
		resolver:    NewShippingRateResolver(fulfillment, logger),
		reconciler:  NewCartReconciler(carts, addressBook, idempotency, logger),
		logger:      logger,
		tracer:      otel.Tracer("checkout"),
	}
}

// StartSession opens a checkout session seeded with the guest cart
func (s *CheckoutService) StartSession(ctx context.Context, req StartSessionRequest) (*SessionResponse, error) {
	lines := make([]checkout.CartLine, 0, len(req.Lines))
	for _, input := range req.Lines {
		line, err := input.ToCartLine()
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}

	session := checkout.NewCheckoutSession(lines)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Checkout session started",
		zap.String("session_id", session.ID.String()),
		zap.Int("guest_lines", len(lines)))

	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// GetSession returns the session with its active cart lines
func (s *CheckoutService) GetSession(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// UpdateCustomer replaces the session's shipping contact
func (s *CheckoutService) UpdateCustomer(ctx context.Context, id uuid.UUID, info checkout.CustomerInfo) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	session.SetCustomer(info)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// AddLine appends a line to the guest cart
func (s *CheckoutService) AddLine(ctx context.Context, id uuid.UUID, input CartLineInput) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	line, err := input.ToCartLine()
	if err != nil {
		return nil, err
	}
	if err := session.AddGuestLine(line); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	resp := ToSessionResponse(session, session.GuestLines)
	return &resp, nil
}

// RemoveLine removes a guest cart line
func (s *CheckoutService) RemoveLine(ctx context.Context, id uuid.UUID, lineID string) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.RemoveGuestLine(lineID); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	resp := ToSessionResponse(session, session.GuestLines)
	return &resp, nil
}

// FetchRates requests shipping quotes for the current address and cart.
// A failed or empty fetch clears the persisted quote list; the customer
// info is untouched either way.
func (s *CheckoutService) FetchRates(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}

	fetchErr := s.resolver.Fetch(ctx, session, lines)
	if fetchErr != nil {
		// Local validation failures touched nothing; upstream failures
		// cleared the quote list and that must survive the request.
		if !errors.Is(fetchErr, checkout.ErrAddressInvalid) &&
			!errors.Is(fetchErr, checkout.ErrAddressIncomplete) &&
			!errors.Is(fetchErr, checkout.ErrEmptyCart) {
			if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
				s.logger.Error("Failed to persist cleared quotes", zap.Error(saveErr))
			}
		}
		return nil, fetchErr
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// SelectRate switches the selected shipping quote
func (s *CheckoutService) SelectRate(ctx context.Context, id uuid.UUID, quoteID string) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := session.SelectQuote(quoteID); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// Login handles a mid-checkout authentication event. With an empty guest
// cart the session adopts the user directly; otherwise it enters the
// explicit cart-merge step.
func (s *CheckoutService) Login(ctx context.Context, id uuid.UUID, token string) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	profile, err := s.tokens.Verify(token)
	if err != nil {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Login token is invalid or expired")
	}

	if err := s.reconciler.HandleLogin(ctx, session, token, profile); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// ResolveMerge carries out the user's answer to the pending merge decision.
// A failed merge leaves the session in the cart-merge step with the guest
// cart intact; nothing is lost and the choice can be retried.
func (s *CheckoutService) ResolveMerge(ctx context.Context, id uuid.UUID, action MergeAction) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch action {
	case MergeActionMerge:
		err = s.reconciler.Merge(ctx, session)
	case MergeActionDiscard:
		err = s.reconciler.Discard(ctx, session)
	case MergeActionCancel:
		session.AbortCartMerge()
	default:
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown merge action")
	}
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// Totals computes the current price breakdown
func (s *CheckoutService) Totals(ctx context.Context, id uuid.UUID) (*TotalsResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}

	total := checkout.CalculateOrderTotal(checkout.Subtotal(lines), session.SelectedQuote(), session.PartnerTax)
	resp := ToTotalsResponse(total)
	return &resp, nil
}

// CheckRegion cross-references the cart against a destination country and
// returns the incompatible items with a rendered message
func (s *CheckoutService) CheckRegion(ctx context.Context, id uuid.UUID, countryCode string) ([]checkout.Incompatibility, string, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, "", err
	}

	catalog, err := s.fulfillment.Countries(ctx)
	if err != nil {
		s.logger.Warn("Country catalog unavailable, region check degraded", zap.Error(err))
		catalog = map[string]checkout.CountryInfo{}
	}

	incompatible := checkout.CheckShippingCompatibility(lines, countryCode, catalog)
	return incompatible, checkout.FormatIncompatibilityMessage(incompatible), nil
}

// CreateOrderDraft validates the full order preconditions, creates the
// backend order draft, and advances the session to the payment step
func (s *CheckoutService) CreateOrderDraft(ctx context.Context, id uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if result := checkout.ValidateAddress(session.Customer, true); !result.Valid {
		return nil, checkout.ErrAddressInvalid
	}

	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, checkout.ErrEmptyCart
	}
	if checkout.HasPartnerItems(lines) && session.SelectedQuote() == nil {
		return nil, checkout.ErrNoRateSelected
	}

	if catalog, catErr := s.fulfillment.Countries(ctx); catErr == nil {
		if incompatible := checkout.CheckShippingCompatibility(lines, session.Customer.Country, catalog); len(incompatible) > 0 {
			return nil, shared.NewDomainError("REGION_RESTRICTED", checkout.FormatIncompatibilityMessage(incompatible))
		}
	} else {
		s.logger.Warn("Country catalog unavailable, skipping region gate", zap.Error(catErr))
	}

	total := checkout.CalculateOrderTotal(checkout.Subtotal(lines), session.SelectedQuote(), session.PartnerTax)

	ctx, span := s.tracer.Start(ctx, "order.create_draft")
	defer span.End()

	draft, err := s.orders.CreateDraft(ctx, session.AuthToken, checkout.OrderDraftRequest{
		Customer: session.Customer,
		Items:    lines,
		Shipping: session.SelectedQuote(),
		Total:    total,
	})
	if err != nil {
		s.logger.Error("Order draft creation failed",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("ORDER_CREATE_FAILED", "Could not create your order, please try again")
	}

	if err := session.AttachDraft(*draft); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.saveAddressBookEntry(ctx, session)

	s.logger.Info("Order draft created",
		zap.String("session_id", session.ID.String()),
		zap.String("order_number", draft.OrderNumber))

	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// ConfirmPayment verifies the payment with the provider, then confirms the
// order against the backend. Backend failure keeps the session at the
// payment step with the draft intact so the same client secret can retry.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, id uuid.UUID, paymentIntentID string) (*SessionResponse, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Step != checkout.StepPayment || session.Draft == nil {
		return nil, shared.NewDomainError("INVALID_STATE", "No payment is awaiting confirmation")
	}

	ctx, span := s.tracer.Start(ctx, "payment.confirm")
	defer span.End()

	if err := s.payments.VerifyIntent(ctx, paymentIntentID); err != nil {
		s.logger.Warn("Payment verification failed",
			zap.String("session_id", session.ID.String()),
			zap.String("payment_intent", paymentIntentID),
			zap.Error(err))
		return nil, checkout.ErrPaymentNotVerified
	}

	orderNumber := session.Draft.OrderNumber
	if err := s.orders.ConfirmPayment(ctx, session.AuthToken, paymentIntentID, orderNumber); err != nil {
		s.logger.Error("Backend payment confirmation failed",
			zap.String("session_id", session.ID.String()),
			zap.String("order_number", orderNumber),
			zap.Error(err))
		var domainErr *shared.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, shared.NewDomainError("CONFIRM_FAILED", "Payment confirmation failed, please retry")
	}

	if err := session.ConfirmPayment(); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("Order confirmed",
		zap.String("session_id", session.ID.String()),
		zap.String("order_number", orderNumber))

	// The items just purchased came from the server cart; clear it so the
	// storefront does not offer them again. Best effort, the order is
	// already confirmed.
	if session.CartState == checkout.CartStateUser && session.AuthToken != "" {
		if err := s.carts.ClearCart(ctx, session.AuthToken); err != nil {
			s.logger.Warn("Could not clear purchased cart",
				zap.String("session_id", session.ID.String()),
				zap.Error(err))
		}
	}

	lines, err := s.activeLines(ctx, session)
	if err != nil {
		return nil, err
	}
	resp := ToSessionResponse(session, lines)
	return &resp, nil
}

// SavedAddresses lists the authenticated user's address book
func (s *CheckoutService) SavedAddresses(ctx context.Context, id uuid.UUID) ([]checkout.SavedAddress, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.AuthToken == "" {
		return nil, shared.ErrUnauthorized
	}
	return s.addressBook.ListAddresses(ctx, session.AuthToken)
}

// activeLines resolves the lines the session is currently checking out:
// the guest cart until the merge decision unifies ownership, the
// server-side user cart afterwards.
func (s *CheckoutService) activeLines(ctx context.Context, session *checkout.CheckoutSession) ([]checkout.CartLine, error) {
	if session.CartState != checkout.CartStateUser {
		return session.GuestLines, nil
	}
	lines, err := s.carts.GetCart(ctx, session.AuthToken)
	if err != nil {
		s.logger.Warn("User cart fetch failed",
			zap.String("session_id", session.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("CART_FETCH_FAILED", "Could not load your cart")
	}
	return lines, nil
}

// saveAddressBookEntry stores the shipping address for the next checkout.
// Best effort, never blocks the order.
func (s *CheckoutService) saveAddressBookEntry(ctx context.Context, session *checkout.CheckoutSession) {
	if s.addressBook == nil || session.AuthToken == "" {
		return
	}
	if _, err := s.addressBook.CreateAddress(ctx, session.AuthToken, session.Customer); err != nil {
		s.logger.Warn("Could not save address to address book", zap.Error(err))
	}
}
