// Package configcache keeps small, slow-changing configuration values such as
// third-party API keys for a short time so hot paths skip the network.
package configcache

import (
	"context"
	"log"
	"sync"
	"time"
)

const DefaultTTL = 5 * time.Minute

type Entry struct {
	ServiceKey string    `json:"service_key"`
	Value      string    `json:"value"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Store holds entries. Expiry is decided by Cache, never by the store, so the
// injected clock is the only source of time.
type Store interface {
	Load(ctx context.Context, key string) (Entry, bool, error)
	Save(ctx context.Context, entry Entry) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

type Option func(*Cache)

func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func New(store Store, opts ...Option) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	c := &Cache{store: store, ttl: DefaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value while it is younger than the TTL.
func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	entry, ok, err := c.store.Load(ctx, key)
	if err != nil {
		log.Printf("config cache load error key=%s: %v", key, err)
		return "", false
	}
	if !ok || c.now().Sub(entry.FetchedAt) >= c.ttl {
		return "", false
	}
	return entry.Value, true
}

// Set overwrites the entry for key, stamping it with the current time.
func (c *Cache) Set(ctx context.Context, key, value string) {
	entry := Entry{ServiceKey: key, Value: value, FetchedAt: c.now()}
	if err := c.store.Save(ctx, entry); err != nil {
		log.Printf("config cache save error key=%s: %v", key, err)
	}
}

func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Len counts stored entries, stale ones included.
func (c *Cache) Len(ctx context.Context) int {
	n, err := c.store.Len(ctx)
	if err != nil {
		log.Printf("config cache len error: %v", err)
		return 0
	}
	return n
}

type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Load(ctx context.Context, key string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	return entry, ok, nil
}

func (s *MemoryStore) Save(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.ServiceKey] = entry
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	return nil
}

func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}
