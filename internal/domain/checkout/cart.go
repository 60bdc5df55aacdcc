package checkout

import (
	"github.com/shopspring/decimal"
)

// Source tags which system a cart line originated from
type Source string

const (
	SourcePrintful Source = "printful"
	SourceShopify  Source = "shopify"
)

// CartState is the tagged ownership state of the session's cart. Lines from
// the guest and user carts are never mixed: the state moves guest →
// reconciling → user and the guest lines are dropped only when the merge
// (or discard) completes.
type CartState string

const (
	CartStateGuest       CartState = "guest"
	CartStateReconciling CartState = "reconciling"
	CartStateUser        CartState = "user"
)

// CartLine is one purchasable line in a cart. Depending on the source system
// that populated it, up to three aliased variant ids may be present.
type CartLine struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Source      Source          `json:"source"`

	// Aliased variant ids, resolved through EffectiveVariantID
	VariantID        string `json:"variant_id,omitempty"`         // marketplace id
	PartnerVariantID string `json:"partner_variant_id,omitempty"` // partner's variant id
	CatalogVariantID string `json:"catalog_variant_id,omitempty"` // partner's catalog id

	// Availability-region lists; the partner-specific field takes priority
	PartnerRegions []string `json:"partner_regions,omitempty"`
	Regions        []string `json:"regions,omitempty"`
}

// EffectiveVariantID resolves the aliased variant-id fields into the single
// canonical id used on the wire. Fallback order: partner catalog-variant id,
// partner variant id, marketplace variant id.
func (l CartLine) EffectiveVariantID() string {
	if l.CatalogVariantID != "" {
		return l.CatalogVariantID
	}
	if l.PartnerVariantID != "" {
		return l.PartnerVariantID
	}
	return l.VariantID
}

// AvailableRegions returns the line's availability-region list, preferring
// the partner-specific field over the generic one. Nil means unrestricted.
func (l CartLine) AvailableRegions() []string {
	if len(l.PartnerRegions) > 0 {
		return l.PartnerRegions
	}
	return l.Regions
}

// Subtotal sums the line totals of the given cart lines
func Subtotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if l.TotalPrice.IsZero() && l.Quantity > 0 {
			total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
			continue
		}
		total = total.Add(l.TotalPrice)
	}
	return total
}

// HasPartnerItems reports whether any line is fulfilled by the on-demand
// partner (and therefore needs a shipping-rate quote before ordering)
func HasPartnerItems(lines []CartLine) bool {
	for _, l := range lines {
		if l.Source == SourcePrintful {
			return true
		}
	}
	return false
}

// CartMergeDecision is the pending guest-versus-user cart choice presented
// after a mid-checkout login. It exists only while the session sits in the
// cart-merge step; its terminal actions are merge or discard-guest.
type CartMergeDecision struct {
	UserCartCount  int         `json:"user_cart_count"`
	GuestCartCount int         `json:"guest_cart_count"`
	AuthToken      string      `json:"-"`
	Profile        UserProfile `json:"profile"`
}
