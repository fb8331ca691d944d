package common

import (
	"encoding/json"
	"fmt"
	"time"

	"climbing-gym/belay/internal/metrics"
)

// CacheInterface defines the contract for cache implementations.
// Values are stored as encoded bytes so both backends round-trip the same types.
type CacheInterface interface {
	// Set stores a value in cache with the given key and duration
	Set(key string, value []byte, duration time.Duration)

	// Get retrieves a value from cache by key
	Get(key string) ([]byte, bool)

	// Delete removes a value from cache by key
	Delete(key string)

	// Close closes any underlying connections (for Redis, etc.)
	Close() error
}

// GetOrLoad returns the cached value for key or loads, stores and returns it.
// pattern labels the hit/miss counters; m may be nil.
func GetOrLoad[T any](c CacheInterface, m *metrics.MetricsRegistry, pattern, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if raw, found := c.Get(key); found {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			if m != nil {
				m.CacheHitsTotal.WithLabelValues(pattern).Inc()
			}
			return cached, nil
		}
		c.Delete(key)
	}
	if m != nil {
		m.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}

	val, err := load()
	if err != nil {
		return val, err
	}

	data, err := json.Marshal(val)
	if err != nil {
		return val, fmt.Errorf("failed to encode cache value for %s: %w", key, err)
	}
	c.Set(key, data, ttl)
	return val, nil
}
