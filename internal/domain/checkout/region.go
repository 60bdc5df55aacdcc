package checkout

import (
	"fmt"
	"strings"
)

// Region aliases that need special-case matching against a destination code
const (
	RegionWorldwide = "worldwide"
	RegionEU        = "EU"
	RegionUK        = "UK"
)

// CountryInfo is one entry of the destination-country catalog
type CountryInfo struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"` // e.g. "europe", "north america"
}

// Incompatibility reports one cart line that cannot ship to the requested
// destination, with enough context to render an actionable message
type Incompatibility struct {
	Line             CartLine `json:"line"`
	AvailableRegions []string `json:"available_regions"`
	RequestedRegion  string   `json:"requested_region"`
}

// CheckShippingCompatibility cross-references cart items against the
// destination. Only partner-fulfilled items carry region restrictions; an
// item without a region list is always compatible (no data means no
// restriction). A region entry matches on the exact destination code, the
// worldwide alias, EU when the destination's catalog region is europe, or
// UK when the destination is GB.
func CheckShippingCompatibility(items []CartLine, destCountry string, catalog map[string]CountryInfo) []Incompatibility {
	destCountry = strings.ToUpper(strings.TrimSpace(destCountry))
	var incompatible []Incompatibility

	for _, item := range items {
		if item.Source != SourcePrintful {
			continue
		}
		regions := item.AvailableRegions()
		if len(regions) == 0 {
			continue
		}
		if regionListAllows(regions, destCountry, catalog) {
			continue
		}
		incompatible = append(incompatible, Incompatibility{
			Line:             item,
			AvailableRegions: regions,
			RequestedRegion:  destCountry,
		})
	}

	return incompatible
}

func regionListAllows(regions []string, destCountry string, catalog map[string]CountryInfo) bool {
	for _, region := range regions {
		switch {
		case strings.EqualFold(region, destCountry):
			return true
		case strings.EqualFold(region, RegionWorldwide):
			return true
		case strings.EqualFold(region, RegionEU):
			if entry, ok := catalog[destCountry]; ok && strings.EqualFold(entry.Region, "europe") {
				return true
			}
		case strings.EqualFold(region, RegionUK):
			if destCountry == "GB" {
				return true
			}
		}
	}
	return false
}

// FormatIncompatibilityMessage renders the user-facing message for a set of
// incompatible items: a single item names its allowed regions, multiple
// items collapse into a count. The tiered wording is a UX contract.
func FormatIncompatibilityMessage(incompatible []Incompatibility) string {
	switch len(incompatible) {
	case 0:
		return ""
	case 1:
		item := incompatible[0]
		return fmt.Sprintf("%q is only available for shipping to: %s",
			item.Line.ProductName, strings.Join(item.AvailableRegions, ", "))
	default:
		return fmt.Sprintf("%d items in your cart cannot be shipped to the selected country", len(incompatible))
	}
}
