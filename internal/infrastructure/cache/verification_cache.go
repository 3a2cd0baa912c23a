package cache

import (
	"strconv"
	"time"

	"helpdesk-gateway/internal/infrastructure/metrics"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// VerificationCache remembers customer verification outcomes so the gate does
// not hit the ERP on every request. Entries expire after the TTL and the
// least recently used entry is evicted once the capacity is reached.
// Implements domain.VerificationCache.
type VerificationCache struct {
	entries *expirable.LRU[string, bool]
}

// NewVerificationCache creates a verification cache with the given capacity and TTL.
func NewVerificationCache(size int, ttl time.Duration) *VerificationCache {
	return &VerificationCache{
		entries: expirable.NewLRU[string, bool](size, nil, ttl),
	}
}

// Get retrieves the cached verification outcome for an identity.
func (c *VerificationCache) Get(email string, companyID int64) (bool, bool) {
	verified, found := c.entries.Get(cacheKey(email, companyID))
	metrics.RecordCacheLookup(found)
	return verified, found
}

// Set stores the verification outcome for an identity.
func (c *VerificationCache) Set(email string, companyID int64, verified bool) {
	c.entries.Add(cacheKey(email, companyID), verified)
}

// Len reports the number of live entries.
func (c *VerificationCache) Len() int {
	return c.entries.Len()
}

func cacheKey(email string, companyID int64) string {
	return email + ":" + strconv.FormatInt(companyID, 10)
}
