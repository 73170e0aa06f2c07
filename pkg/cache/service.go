package cache

import "time"

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get retrieves a value from the cache
	// Returns value, true if found
	// Returns nil, false if not found
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a duration
	Set(key string, value interface{}, duration time.Duration)

	// Add stores value only if key is absent or expired. Reports whether it stored.
	Add(key string, value interface{}, duration time.Duration) bool

	// Delete removes a value from the cache
	Delete(key string)

	// ItemCount includes items that expired but were not yet cleaned up.
	ItemCount() int

	// Flush removes all items
	Flush()
}
