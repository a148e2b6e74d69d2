// Package ristretto backs the volatile tier with dgraph-io/ristretto.
// Every entry costs 1, so MaxCost is the entry capacity.
package ristretto

import (
	"errors"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/twolevel/volatile"
)

type Config struct {
	NumCounters int64 // ~10x the expected number of live entries
	MaxCost     int64 // entry capacity
	BufferItems int64 // 64 is the value ristretto recommends
	Metrics     bool
}

// DefaultConfig sizes the tier for roughly 10k live entries.
func DefaultConfig() Config {
	return Config{NumCounters: 100_000, MaxCost: 10_000, BufferItems: 64}
}

type Tier[V any] struct {
	c *rc.Cache
}

var _ volatile.Tier[int] = (*Tier[int])(nil)

func New[V any](cfg Config) (*Tier[V], error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
		// cost is an entry count, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Tier[V]{c: c}, nil
}

func (t *Tier[V]) Get(key string) (V, bool) {
	var zero V
	raw, ok := t.c.Get(key)
	if !ok {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		// self-heal: drop unexpected entry shape
		t.c.Del(key)
		return zero, false
	}
	return v, true
}

// Set waits for ristretto's write buffer to drain so the entry is visible
// to the next Get. The admission policy may still refuse it.
func (t *Tier[V]) Set(key string, v V) {
	if t.c.Set(key, v, 1) {
		t.c.Wait()
	}
}

func (t *Tier[V]) Remove(key string) { t.c.Del(key) }

func (t *Tier[V]) RemoveAll() { t.c.Clear() }

func (t *Tier[V]) Close() error {
	t.c.Wait()
	t.c.Close()
	return nil
}

// Metrics exposes ristretto's counters; nil unless Config.Metrics was set.
func (t *Tier[V]) Metrics() *rc.Metrics { return t.c.Metrics }
