// Package apps finds out which application is in front, so that touches can
// be attributed to it when the event source does not say.
package apps

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a frontmost lookup is reused. Fingers of one
// gesture land within a few milliseconds of each other.
const DefaultCacheTTL = 500 * time.Millisecond

// FrontmostProvider reports the bundle identifier of the frontmost application.
type FrontmostProvider interface {
	FrontmostBundleID(ctx context.Context) (string, error)
}

// Static always reports the same bundle identifier.
type Static string

func (s Static) FrontmostBundleID(context.Context) (string, error) {
	return string(s), nil
}

// Cached wraps a provider and reuses its answer for TTL.
type Cached struct {
	Provider FrontmostProvider
	TTL      time.Duration
	Clock    func() time.Time

	mu      sync.Mutex
	value   string
	fetched time.Time
}

func (c *Cached) FrontmostBundleID(ctx context.Context) (string, error) {
	now := time.Now
	if c.Clock != nil {
		now = c.Clock
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.fetched.IsZero() && now().Sub(c.fetched) < ttl {
		return c.value, nil
	}

	value, err := c.Provider.FrontmostBundleID(ctx)
	if err != nil {
		return "", err
	}
	c.value = value
	c.fetched = now()
	return value, nil
}

// System returns the provider for the current platform, cached.
func System() FrontmostProvider {
	return &Cached{Provider: systemProvider{}}
}
