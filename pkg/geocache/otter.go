package geocache

import (
	"context"
	"time"

	"github.com/maypok86/otter/v2"
)

type otterEntry struct {
	ExpiresAt time.Time
	Data      []byte
}

// OtterStore is an in-process Store backed by an otter cache. The otter
// expiry is set to the longest TTL any namespace uses; each entry carries
// its own deadline which Get double-checks, so shorter per-namespace TTLs
// still expire on time.
type OtterStore struct {
	cache  *otter.Cache[string, otterEntry]
	maxTTL time.Duration
}

// NewOtterStore creates an in-process store holding up to capacity entries.
func NewOtterStore(capacity int, maxTTL time.Duration) *OtterStore {
	if capacity <= 0 {
		capacity = 100_000
	}
	if maxTTL <= 0 {
		maxTTL = time.Hour
	}
	cache := otter.Must(&otter.Options[string, otterEntry]{
		MaximumSize:      capacity,
		InitialCapacity:  capacity / 10,
		ExpiryCalculator: otter.ExpiryWriting[string, otterEntry](maxTTL),
	})
	return &OtterStore{cache: cache, maxTTL: maxTTL}
}

// Get returns the stored payload, or nil when the key is absent or expired.
func (s *OtterStore) Get(_ context.Context, key string) ([]byte, error) {
	entry, found := s.cache.GetIfPresent(key)
	if !found {
		return nil, nil
	}
	if time.Now().After(entry.ExpiresAt) {
		s.cache.Invalidate(key)
		return nil, nil
	}
	return entry.Data, nil
}

// Set stores a payload with its own TTL deadline.
func (s *OtterStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 || ttl > s.maxTTL {
		ttl = s.maxTTL
	}
	s.cache.Set(key, otterEntry{Data: value, ExpiresAt: time.Now().Add(ttl)})
	return nil
}

// Delete removes a key.
func (s *OtterStore) Delete(_ context.Context, key string) error {
	s.cache.Invalidate(key)
	return nil
}

// EstimatedSize reports the approximate number of live entries.
func (s *OtterStore) EstimatedSize() int {
	return s.cache.EstimatedSize()
}
