package fulfillment

import (
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/checkout"
)

// countryCache holds the last fetched destination-country catalog
type countryCache struct {
	mu        sync.RWMutex
	catalog   map[string]checkout.CountryInfo
	fetchedAt time.Time
}

func (c *countryCache) get() (map[string]checkout.CountryInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.catalog == nil || time.Since(c.fetchedAt) > countryCacheTTL {
		return nil, false
	}
	return c.catalog, true
}

func (c *countryCache) set(catalog map[string]checkout.CountryInfo) {
	c.mu.Lock()
	c.catalog = catalog
	c.fetchedAt = time.Now()
	c.mu.Unlock()
}
