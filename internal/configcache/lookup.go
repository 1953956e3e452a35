package configcache

import (
	"context"
	"log"
)

// Lookup serves values from the cache and falls back to the fetcher on a miss.
// Concurrent misses on one key are not coalesced; the last write wins.
type Lookup struct {
	cache   *Cache
	fetcher Fetcher
}

func NewLookup(cache *Cache, fetcher Fetcher) *Lookup {
	return &Lookup{cache: cache, fetcher: fetcher}
}

// GetValue returns the value for serviceKey, or false when it could not be
// fetched. Failures are not cached.
func (l *Lookup) GetValue(ctx context.Context, serviceKey string) (string, bool) {
	if value, ok := l.cache.Get(ctx, serviceKey); ok {
		return value, true
	}
	value, err := l.fetcher.Fetch(ctx, serviceKey)
	if err != nil {
		log.Printf("config fetch failed service=%s: %v", serviceKey, err)
		return "", false
	}
	l.cache.Set(ctx, serviceKey, value)
	return value, true
}

// Cached reports whether serviceKey has a live entry without fetching.
func (l *Lookup) Cached(ctx context.Context, serviceKey string) bool {
	_, ok := l.cache.Get(ctx, serviceKey)
	return ok
}

func (l *Lookup) Clear(ctx context.Context) error {
	return l.cache.Clear(ctx)
}

func (l *Lookup) Len(ctx context.Context) int {
	return l.cache.Len(ctx)
}
