package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	checkoutapp "github.com/storefront/backend/internal/application/checkout"
	"github.com/storefront/backend/internal/domain/checkout"
)

// CheckoutHandler handles checkout session API endpoints
type CheckoutHandler struct {
	BaseHandler
	service *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(service *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		service: service,
	}
}

// StartSessionRequest represents a request to open a checkout session
type StartSessionRequest struct {
	Lines []checkoutapp.CartLineInput `json:"lines"`
}

// UpdateCustomerRequest carries the shipping contact being edited
type UpdateCustomerRequest struct {
	Customer checkout.CustomerInfo `json:"customer" binding:"required"`
}

// SelectRateRequest picks one of the fetched shipping quotes
type SelectRateRequest struct {
	QuoteID string `json:"quote_id" binding:"required"`
}

// LoginRequest attaches a storefront account to the session
type LoginRequest struct {
	Token string `json:"token" binding:"required"`
}

// ResolveMergeRequest answers a pending cart-merge decision
type ResolveMergeRequest struct {
	Action string `json:"action" binding:"required,oneof=merge discard cancel"`
}

// ConfirmPaymentRequest reports a completed client-side payment
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id" binding:"required"`
}

// ValidateAddressRequest validates a shipping address without saving it
type ValidateAddressRequest struct {
	Address      checkout.CustomerInfo `json:"address" binding:"required"`
	RequirePhone bool                  `json:"require_phone"`
}

// ResolveVariantsRequest resolves a product's flat variant list into
// selectable color/size axes, with an optional selection to match
type ResolveVariantsRequest struct {
	Variants []checkout.VariantRecord `json:"variants" binding:"required,min=1"`
	Source   checkout.Source          `json:"source" binding:"required,oneof=printful shopify"`
	Color    string                   `json:"color"`
	Size     string                   `json:"size"`
}

// ResolveVariantsResponse carries the color swatches, the sizes for the
// selected color, and the matched variant when both axes were given
type ResolveVariantsResponse struct {
	Colors    []checkout.ColorSwatch  `json:"colors"`
	Sizes     []string                `json:"sizes"`
	Variant   *checkout.VariantRecord `json:"variant,omitempty"`
	Available bool                    `json:"available"`
}

// RegionCheckResponse lists the cart items that cannot ship to the
// requested destination
type RegionCheckResponse struct {
	Compatible        bool                       `json:"compatible"`
	Incompatibilities []checkout.Incompatibility `json:"incompatibilities,omitempty"`
	Message           string                     `json:"message,omitempty"`
}

// sessionID parses the session ID path parameter
func (h *CheckoutHandler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Create opens a new checkout session, optionally seeded with guest cart lines
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.StartSession(c.Request.Context(), checkoutapp.StartSessionRequest{Lines: req.Lines})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns the current state of a checkout session
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// UpdateCustomer replaces the session's shipping contact
func (h *CheckoutHandler) UpdateCustomer(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateCustomer(c.Request.Context(), id, req.Customer)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// AddLine appends an item to the guest cart
func (h *CheckoutHandler) AddLine(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req checkoutapp.CartLineInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.AddLine(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// RemoveLine removes an item from the guest cart
func (h *CheckoutHandler) RemoveLine(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	lineID := c.Param("line_id")
	if lineID == "" {
		h.BadRequest(c, "Line ID is required")
		return
	}

	resp, err := h.service.RemoveLine(c.Request.Context(), id, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// FetchRates requests shipping quotes for the session's address and cart
func (h *CheckoutHandler) FetchRates(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.FetchRates(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SelectRate picks a shipping quote from the fetched list
func (h *CheckoutHandler) SelectRate(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req SelectRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.SelectRate(c.Request.Context(), id, req.QuoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Login verifies a storefront login token and attaches the account to the
// session. A non-empty guest cart parks the session on a merge decision.
func (h *CheckoutHandler) Login(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), id, req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// ResolveMerge answers the pending guest-versus-user cart decision
func (h *CheckoutHandler) ResolveMerge(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req ResolveMergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ResolveMerge(c.Request.Context(), id, checkoutapp.MergeAction(req.Action))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Totals returns the order price breakdown for the session
func (h *CheckoutHandler) Totals(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.Totals(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// CheckRegion reports which cart items cannot ship to the given country
func (h *CheckoutHandler) CheckRegion(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	country := c.Query("country")
	if country == "" {
		h.BadRequest(c, "Query parameter 'country' is required")
		return
	}

	incompatibilities, message, err := h.service.CheckRegion(c.Request.Context(), id, country)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, RegionCheckResponse{
		Compatible:        len(incompatibilities) == 0,
		Incompatibilities: incompatibilities,
		Message:           message,
	})
}

// CreateOrderDraft submits the cart as a pending order and returns the
// payment client secret
func (h *CheckoutHandler) CreateOrderDraft(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	resp, err := h.service.CreateOrderDraft(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// ConfirmPayment verifies the payment intent and finalizes the order
func (h *CheckoutHandler) ConfirmPayment(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.ConfirmPayment(c.Request.Context(), id, req.PaymentIntentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// SavedAddresses returns the logged-in account's address book
func (h *CheckoutHandler) SavedAddresses(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	addresses, err := h.service.SavedAddresses(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addresses)
}

// ResolveVariants builds the color/size selection axes for a product's
// variant list and, when a full selection is given, resolves it to the
// matching variant and its purchasability
func (h *CheckoutHandler) ResolveVariants(c *gin.Context) {
	var req ResolveVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	matrix := checkout.NewVariantMatrix(req.Variants)
	resp := ResolveVariantsResponse{
		Colors: matrix.UniqueColors(),
		Sizes:  matrix.AvailableSizes(req.Color),
	}
	if req.Color != "" && req.Size != "" {
		if v, ok := matrix.Variant(req.Color, req.Size); ok {
			resp.Variant = &v
			resp.Available = checkout.IsVariantAvailable(v, req.Source)
		}
	}

	h.Success(c, resp)
}

// ValidateAddress validates a shipping address without touching any session
func (h *CheckoutHandler) ValidateAddress(c *gin.Context) {
	var req ValidateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	h.Success(c, checkout.ValidateAddress(req.Address, req.RequirePhone))
}
