// Package itemcache keeps the most recent item listing for a short time so
// that resolving several items in one run lists the vault only once.
package itemcache

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aidanlsb/opz/internal/model"
)

// DefaultTTL is how long a listing is served before it is fetched again.
const DefaultTTL = 60 * time.Second

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FetchFunc lists items, optionally restricted to one vault ("" for all).
type FetchFunc func(vault string) ([]model.ItemSummary, error)

// FetchError wraps a failed listing.
type FetchError struct {
	Vault string
	Err   error
}

func (e *FetchError) Error() string {
	if e.Vault != "" {
		return fmt.Sprintf("list items in vault %q: %v", e.Vault, e.Err)
	}
	return fmt.Sprintf("list items: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type entry struct {
	filter    string
	items     []model.ItemSummary
	fetchedAt time.Time
}

// Cache holds a single listing slot. It is not safe for concurrent use.
type Cache struct {
	fetch  FetchFunc
	clock  Clock
	ttl    time.Duration
	logger *zap.Logger

	slot *entry
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(cache *Cache) { cache.clock = c }
}

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(cache *Cache) {
		if ttl > 0 {
			cache.ttl = ttl
		}
	}
}

// WithLogger sets the logger used for hit/miss diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(cache *Cache) {
		if l != nil {
			cache.logger = l
		}
	}
}

// New creates a Cache that lists items with fetch.
func New(fetch FetchFunc, opts ...Option) *Cache {
	c := &Cache{
		fetch:  fetch,
		clock:  SystemClock{},
		ttl:    DefaultTTL,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// GetOrFetch returns the cached listing for filter when it is at most TTL old,
// and otherwise fetches a fresh one and replaces the slot.
//
// A failed fetch also clears the slot: an expired listing is never served,
// since it may point at items that were renamed or deleted since.
func (c *Cache) GetOrFetch(filter string) ([]model.ItemSummary, error) {
	now := c.clock.Now()
	if s := c.slot; s != nil && s.filter == filter {
		age := now.Sub(s.fetchedAt)
		if age <= c.ttl {
			c.logger.Debug("item list cache hit",
				zap.String("vault", filter),
				zap.Duration("age", age),
				zap.Int("items", len(s.items)))
			return s.items, nil
		}
	}

	c.logger.Debug("item list cache miss", zap.String("vault", filter))
	items, err := c.fetch(filter)
	if err != nil {
		c.slot = nil
		return nil, &FetchError{Vault: filter, Err: err}
	}

	c.slot = &entry{filter: filter, items: items, fetchedAt: now}
	return items, nil
}

// Invalidate drops the cached listing.
func (c *Cache) Invalidate() {
	c.slot = nil
}
