package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCache_SetAndGet(t *testing.T) {
	c := NewVerificationCache(10, 5*time.Minute)

	c.Set("test@example.com", 1, true)
	c.Set("other@example.com", 1, false)

	verified, found := c.Get("test@example.com", 1)
	assert.True(t, found)
	assert.True(t, verified)

	verified, found = c.Get("other@example.com", 1)
	assert.True(t, found)
	assert.False(t, verified, "negative outcomes are cached too")
}

func TestVerificationCache_NotFound(t *testing.T) {
	c := NewVerificationCache(10, 5*time.Minute)

	_, found := c.Get("nobody@example.com", 1)
	assert.False(t, found)
}

func TestVerificationCache_KeyedByCompany(t *testing.T) {
	c := NewVerificationCache(10, 5*time.Minute)

	c.Set("test@example.com", 1, true)

	_, found := c.Get("test@example.com", 2)
	assert.False(t, found, "same email under another company is a distinct entry")
}

func TestVerificationCache_Expiration(t *testing.T) {
	c := NewVerificationCache(10, 100*time.Millisecond)

	c.Set("test@example.com", 1, true)

	verified, found := c.Get("test@example.com", 1)
	assert.True(t, found)
	assert.True(t, verified)

	time.Sleep(150 * time.Millisecond)
	_, found = c.Get("test@example.com", 1)
	assert.False(t, found)
}

func TestVerificationCache_CapacityEviction(t *testing.T) {
	c := NewVerificationCache(3, 5*time.Minute)

	for i := 0; i < 4; i++ {
		c.Set(fmt.Sprintf("user%d@example.com", i), 1, true)
	}

	assert.Equal(t, 3, c.Len())
	_, found := c.Get("user0@example.com", 1)
	assert.False(t, found, "oldest entry is evicted at capacity")
	_, found = c.Get("user3@example.com", 1)
	assert.True(t, found)
}

func TestVerificationCache_ConcurrentAccess(t *testing.T) {
	c := NewVerificationCache(100, 5*time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			email := fmt.Sprintf("user%d@example.com", n%4)
			for j := 0; j < 100; j++ {
				c.Set(email, int64(n%2), j%2 == 0)
				c.Get(email, int64(n%2))
			}
		}(i)
	}
	wg.Wait()
}
