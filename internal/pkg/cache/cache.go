package cache

import (
	"fmt"
	"log"
	"sync"
	"time"

	"cloud_drive_agent/internal/pkg/metrics"
)

// Group keys for invalidation. All file and folder events map to
// GroupFiles, share events to GroupShares.
const (
	GroupFiles  = "files"
	GroupShares = "shares"
)

// FetchFunc loads fresh data for one query.
type FetchFunc func() (interface{}, error)

type query struct {
	group     string
	ttl       time.Duration
	fetch     FetchFunc
	value     interface{}
	fetchedAt time.Time
	hasValue  bool
	stale     bool
}

// Cache holds query results keyed by name, grouped for invalidation.
// Invalidation marks a group stale and schedules refetches without
// blocking the caller; a racing stale read resolves last-write-wins.
type Cache struct {
	mu      sync.Mutex
	queries map[string]*query
	groups  map[string][]string
}

func New() *Cache {
	return &Cache{
		queries: make(map[string]*query),
		groups:  make(map[string][]string),
	}
}

// Register binds a query key to a group, TTL and fetch function.
// Registering an existing key replaces its fetcher and drops its value.
func (c *Cache) Register(key, group string, ttl time.Duration, fetch FetchFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.queries[key]; !exists {
		c.groups[group] = append(c.groups[group], key)
	}
	c.queries[key] = &query{group: group, ttl: ttl, fetch: fetch}
}

// Get returns the cached value when it is fresh, otherwise fetches.
func (c *Cache) Get(key string) (interface{}, error) {
	c.mu.Lock()
	q, ok := c.queries[key]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("unknown cache key: %s", key)
	}
	if q.hasValue && !q.stale && time.Since(q.fetchedAt) < q.ttl {
		value := q.value
		c.mu.Unlock()
		return value, nil
	}
	fetch := q.fetch
	c.mu.Unlock()

	value, err := fetch()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	// The query may have been re-registered meanwhile; last write wins.
	if q, ok := c.queries[key]; ok {
		q.value = value
		q.fetchedAt = time.Now()
		q.hasValue = true
		q.stale = false
	}
	c.mu.Unlock()

	return value, nil
}

// Invalidate marks every query in the group stale and schedules a
// background refetch per query. It never blocks on the refetch.
func (c *Cache) Invalidate(group string) {
	metrics.CountCacheInvalidation(group)

	c.mu.Lock()
	keys := make([]string, len(c.groups[group]))
	copy(keys, c.groups[group])
	for _, key := range keys {
		if q, ok := c.queries[key]; ok {
			q.stale = true
		}
	}
	c.mu.Unlock()

	for _, key := range keys {
		go func(key string) {
			if _, err := c.Get(key); err != nil {
				log.Printf("cache: refetch of %s failed: %v", key, err)
			}
		}(key)
	}
}

func (c *Cache) Keys(group string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.groups[group]))
	copy(out, c.groups[group])
	return out
}
