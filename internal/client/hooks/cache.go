// Package hooks wraps the api façades with a query cache: every read has a
// key and a staleness window, and every mutation names the keys it makes
// stale.
package hooks

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"shopfront/internal/client/httpclient"
)

// Key identifies a cached query. Invalidation matches on key prefixes.
type Key []string

func (k Key) String() string { return strings.Join(k, "/") }

func (k Key) hasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if k[i] != prefix[i] {
			return false
		}
	}
	return true
}

type entry struct {
	key       Key
	value     any
	fetchedAt time.Time
	invalid   bool
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	flight  singleflight.Group
	now     func() time.Time
	log     zerolog.Logger
}

func NewCache(log zerolog.Logger) *Cache {
	return &Cache{entries: map[string]entry{}, now: time.Now, log: log}
}

func (c *Cache) lookup(key Key) (entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	return e, ok
}

// Set stores value as fresh data for key.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key.String()] = entry{key: key, value: value, fetchedAt: c.now()}
}

// Invalidate marks every entry under the given prefixes stale. The data is
// kept so a failed refetch can still serve it.
func (c *Cache) Invalidate(prefixes ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		for _, prefix := range prefixes {
			if e.key.hasPrefix(prefix) {
				e.invalid = true
				c.entries[k] = e
				break
			}
		}
	}
}

func (c *Cache) drop(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key.String())
}

// Reset drops everything, e.g. when the signed-in identity changes.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string]entry{}
}

// query serves key from the cache while fresh. A first load runs with the
// caller's context; revalidating existing data is a background request, and
// when it fails the previous data is served. A rejected token is never
// papered over: the entry is dropped and the 401 returned.
func query[T any](ctx context.Context, c *Cache, key Key, staleAfter time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	cached, ok := c.lookup(key)
	if ok && !cached.invalid && c.now().Sub(cached.fetchedAt) < staleAfter {
		return cached.value.(T), nil
	}

	runCtx := ctx
	if ok {
		runCtx = httpclient.Background(ctx)
	}

	v, err, _ := c.flight.Do(key.String(), func() (any, error) {
		value, err := fetch(runCtx)
		if err != nil {
			return nil, err
		}
		c.Set(key, value)
		return value, nil
	})
	if err != nil {
		if ok && httpclient.StatusOf(err) == http.StatusUnauthorized {
			c.drop(key)
			var zero T
			return zero, err
		}
		if ok {
			c.log.Warn().Err(err).Str("key", key.String()).Msg("refetch failed, serving cached data")
			return cached.value.(T), nil
		}
		var zero T
		return zero, err
	}
	return v.(T), nil
}
