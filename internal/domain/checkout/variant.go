package checkout

import "strings"

// DefaultVariantLabel is the color and size assigned to variants whose
// records carry neither explicit fields nor a parsable title
const DefaultVariantLabel = "Default"

// VariantRecord is a flat product-variant row as delivered by the catalog.
// Color and size may arrive as explicit fields or embedded in the title, and
// the record may carry up to three aliased variant ids depending on which
// source system populated it.
type VariantRecord struct {
	ID               string `json:"id"`                 // marketplace variant id
	PartnerVariantID string `json:"partner_variant_id"` // fulfillment partner's variant id
	CatalogVariantID string `json:"catalog_variant_id"` // fulfillment partner's catalog id
	Title            string `json:"title"`
	Color            string `json:"color"`
	Size             string `json:"size"`
	ColorCode        string `json:"color_code"` // hex swatch

	Price string `json:"price"`

	// Availability signals. Upstream feeds are incomplete, so each may be absent.
	AvailableForSale  *bool  `json:"available_for_sale,omitempty"`
	InventoryQuantity *int   `json:"inventory_quantity,omitempty"`
	StockStatus       string `json:"stock_status,omitempty"`
}

// ColorAndSize normalizes a variant record into its canonical {color, size}
// pair. Precedence is fixed and order-sensitive for titles containing both
// delimiters (a known data-quality gap, deliberately not "fixed" here):
//  1. explicit color and size fields
//  2. "<size> - <color>" title convention
//  3. "<color> / <size>" title convention
//  4. literal defaults
func (v VariantRecord) ColorAndSize() (color, size string) {
	if v.Color != "" && v.Size != "" {
		return v.Color, v.Size
	}
	if parts := strings.SplitN(v.Title, " - ", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[1]), strings.TrimSpace(parts[0])
	}
	if parts := strings.SplitN(v.Title, " / ", 2); len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	color, size = v.Color, v.Size
	if color == "" {
		color = DefaultVariantLabel
	}
	if size == "" {
		size = DefaultVariantLabel
	}
	return color, size
}

// ColorSwatch pairs a color name with the hex code shown for it
type ColorSwatch struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// VariantMatrix resolves a flat variant list into selectable color/size axes
type VariantMatrix struct {
	variants []VariantRecord
}

// NewVariantMatrix builds a matrix over the given variant records
func NewVariantMatrix(variants []VariantRecord) *VariantMatrix {
	return &VariantMatrix{variants: variants}
}

// Variants returns the underlying records
func (m *VariantMatrix) Variants() []VariantRecord {
	return m.variants
}

// UniqueColors returns the ordered color swatch list. Insertion order is
// preserved and the first hex code seen for a color name wins.
func (m *VariantMatrix) UniqueColors() []ColorSwatch {
	seen := make(map[string]bool)
	var colors []ColorSwatch
	for _, v := range m.variants {
		color, _ := v.ColorAndSize()
		if seen[color] {
			continue
		}
		seen[color] = true
		colors = append(colors, ColorSwatch{Name: color, Code: v.ColorCode})
	}
	return colors
}

// AvailableSizes returns the sizes belonging to the selected color, or all
// sizes when selectedColor is empty. De-duplicated, first-occurrence order.
func (m *VariantMatrix) AvailableSizes(selectedColor string) []string {
	seen := make(map[string]bool)
	var sizes []string
	for _, v := range m.variants {
		color, size := v.ColorAndSize()
		if selectedColor != "" && color != selectedColor {
			continue
		}
		if seen[size] {
			continue
		}
		seen[size] = true
		sizes = append(sizes, size)
	}
	return sizes
}

// Variant returns the variant matching both keys exactly, if any
func (m *VariantMatrix) Variant(color, size string) (VariantRecord, bool) {
	for _, v := range m.variants {
		c, s := v.ColorAndSize()
		if c == color && s == size {
			return v, true
		}
	}
	return VariantRecord{}, false
}

// IsVariantAvailable decides purchasability by origin. The on-demand partner
// manufactures to order, so only its explicit available_for_sale flag counts
// and a missing flag means available. Merchant-stocked sources need the flag
// plus positive on-hand quantity, falling back to the stock_status string,
// falling back to available. The permissive fallbacks avoid false "sold out"
// states when upstream data is incomplete.
func IsVariantAvailable(v VariantRecord, source Source) bool {
	if source == SourcePrintful {
		if v.AvailableForSale != nil {
			return *v.AvailableForSale
		}
		return true
	}

	if v.AvailableForSale != nil && v.InventoryQuantity != nil {
		return *v.AvailableForSale && *v.InventoryQuantity > 0
	}
	if v.StockStatus != "" {
		return v.StockStatus == "in_stock"
	}
	return true
}
