// Package volatile defines the in-process tier of the cache.
//
// A Tier is free to evict anything at any moment (memory pressure, admission
// policy, capacity) and callers never treat a vanished entry as an error.
// The one guarantee a Tier must give is that Remove and RemoveAll are final:
// an entry removed is not returned by a later Get until it is Set again.
package volatile

// Tier is a bounded, concurrency-safe key -> V store.
type Tier[V any] interface {
	// Get returns (v, true) on hit and (zero, false) on miss.
	Get(key string) (V, bool)
	// Set stores v. The tier may decline or later evict it.
	// A successful Set is visible to the next Get from any goroutine.
	Set(key string, v V)
	Remove(key string)
	RemoveAll()
	// Close releases background resources. The tier is unusable afterwards.
	Close() error
}
