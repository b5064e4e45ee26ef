package quiz

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrUpstream        = errors.New("upstream fetch failed")
	ErrInvalidRequest  = errors.New("invalid request")
)

// Store associates an opaque session id with its answer key.
// Sessions are immutable once created.
type Store interface {
	// Create allocates a fresh id, unique among live sessions, and stores entries under it.
	Create(ctx context.Context, entries map[string]KeyEntry) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
}

// EvictionPolicy decides which sessions a store may drop.
type EvictionPolicy interface {
	// Cutoff returns the creation time before which sessions are evicted.
	Cutoff(now time.Time) (time.Time, bool)
}

type noEviction struct{}

func (noEviction) Cutoff(time.Time) (time.Time, bool) { return time.Time{}, false }

// NoEviction keeps every session for the lifetime of the store.
func NoEviction() EvictionPolicy { return noEviction{} }

type maxAge time.Duration

func (m maxAge) Cutoff(now time.Time) (time.Time, bool) {
	return now.Add(-time.Duration(m)), true
}

// MaxAge evicts sessions older than d. A non-positive d means NoEviction.
func MaxAge(d time.Duration) EvictionPolicy {
	if d <= 0 {
		return NoEviction()
	}
	return maxAge(d)
}

const maxIDAttempts = 5

type storeConfig struct {
	newID    func() string
	eviction EvictionPolicy
	now      func() time.Time
}

type StoreOption func(*storeConfig)

func WithIDGenerator(f func() string) StoreOption { return func(c *storeConfig) { c.newID = f } }
func WithEviction(p EvictionPolicy) StoreOption    { return func(c *storeConfig) { c.eviction = p } }
func WithClock(f func() time.Time) StoreOption     { return func(c *storeConfig) { c.now = f } }

func newStoreConfig(opts []StoreOption) storeConfig {
	cfg := storeConfig{
		newID:    uuid.NewString,
		eviction: NoEviction(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return cfg
}

func (c storeConfig) expired(createdAt time.Time) bool {
	cutoff, ok := c.eviction.Cutoff(c.now())
	return ok && createdAt.Before(cutoff)
}
