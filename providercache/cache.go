// Package providercache keeps discovered providers around until the
// expiration computed from their responses.
package providercache

import (
	"context"
	"maps"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/biocad/openid-connect/discovery"
	"github.com/biocad/openid-connect/expiry"
	"github.com/biocad/openid-connect/transport"
)

// DefaultCleanupInterval is how often expired entries are purged.
const DefaultCleanupInterval = 10 * time.Minute

// Cache discovers providers on demand and reuses them while they are fresh.
// Concurrent lookups of the same issuer share one discovery.
//
// A provider is stored only when its responses allowed caching, so one
// whose expiration is absent or already past is discovered on every Get.
type Cache struct {
	transport transport.Transport
	entries   *gocache.Cache
	group     singleflight.Group
	now       func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithCleanupInterval sets how often expired entries are purged.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.entries = gocache.New(gocache.NoExpiration, d)
	}
}

// WithClock overrides the time source expirations are compared with.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New returns a Cache discovering providers over t.
func New(t transport.Transport, opts ...Option) *Cache {
	c := &Cache{
		transport: t,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.entries == nil {
		c.entries = gocache.New(gocache.NoExpiration, DefaultCleanupInterval)
	}
	return c
}

// Get returns the provider for issuer, discovering it when no fresh entry
// exists. Errors are those of discovery.DiscoverAndFetchKeys and are never
// cached.
//
// Each caller gets its own Provider with its own Document.Extra map and key
// set. The slice fields of Document are shared with the cached entry and
// must not be modified.
func (c *Cache) Get(ctx context.Context, issuer string) (*discovery.Provider, error) {
	if v, ok := c.entries.Get(issuer); ok {
		return clone(v.(*discovery.Provider))
	}

	ch := c.group.DoChan(issuer, func() (interface{}, error) {
		// Detached so one caller giving up does not fail the others.
		provider, exp, err := discovery.DiscoverAndFetchKeys(context.WithoutCancel(ctx), c.transport, issuer)
		if err != nil {
			return nil, err
		}
		c.store(issuer, provider, exp)
		return provider, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.(*discovery.Provider))
	}
}

// Invalidate drops the entry for issuer, if any.
func (c *Cache) Invalidate(issuer string) {
	c.entries.Delete(issuer)
}

// Len returns the number of stored entries, expired ones included until
// the next cleanup.
func (c *Cache) Len() int {
	return c.entries.ItemCount()
}

func (c *Cache) store(issuer string, provider *discovery.Provider, exp expiry.Expiration) {
	ttl := exp.TTL(c.now())
	if ttl <= 0 {
		return
	}
	c.entries.Set(issuer, provider, ttl)
}

func clone(p *discovery.Provider) (*discovery.Provider, error) {
	keys, err := p.Keys.Clone()
	if err != nil {
		return nil, err
	}
	out := &discovery.Provider{Document: p.Document, Keys: keys}
	out.Document.Extra = maps.Clone(p.Document.Extra)
	return out, nil
}
