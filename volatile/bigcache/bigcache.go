// Package bigcache backs the volatile tier with allegro/bigcache.
//
// bigcache keeps entries as bytes in large shards, so the GC never scans
// them. The price is a codec round-trip: Set encodes, Get decodes, and every
// Get returns a fresh V rather than the instance that was stored.
// Use it for large working sets of plain values; use the ristretto tier when
// callers expect pointer identity.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/twolevel/codec"
	"github.com/unkn0wn-root/twolevel/volatile"
)

type Config struct {
	LifeWindow         time.Duration // entries older than this are evictable; 0 => 10m
	CleanWindow        time.Duration // 0 => bigcache default (no background cleanup)
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // 0 = unlimited
	Shards             int // power of two; 0 => bigcache default
}

type Tier[V any] struct {
	c     *bc.BigCache
	codec codec.Codec[V]
}

var _ volatile.Tier[string] = (*Tier[string])(nil)

func New[V any](cfg Config, cd codec.Codec[V]) (*Tier[V], error) {
	if cd == nil {
		return nil, errors.New("bigcache: codec is required")
	}
	life := cfg.LifeWindow
	if life <= 0 {
		life = 10 * time.Minute
	}
	conf := bc.DefaultConfig(life)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	if cfg.Shards > 0 {
		conf.Shards = cfg.Shards
	}
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Tier[V]{c: c, codec: cd}, nil
}

func (t *Tier[V]) Get(key string) (V, bool) {
	var zero V
	b, err := t.c.Get(key)
	if err != nil {
		return zero, false
	}
	v, err := t.codec.Decode(b)
	if err != nil {
		// self-heal: drop bytes we cannot read back
		_ = t.c.Delete(key)
		return zero, false
	}
	return v, true
}

// Set drops any previous entry when v cannot be encoded, so a stale value
// never outlives a failed overwrite.
func (t *Tier[V]) Set(key string, v V) {
	b, err := t.codec.Encode(v)
	if err != nil {
		_ = t.c.Delete(key)
		return
	}
	if err := t.c.Set(key, b); err != nil {
		_ = t.c.Delete(key)
	}
}

func (t *Tier[V]) Remove(key string) { _ = t.c.Delete(key) }

func (t *Tier[V]) RemoveAll() { _ = t.c.Reset() }

func (t *Tier[V]) Close() error { return t.c.Close() }

// Len reports the number of stored entries, expired-but-not-cleaned included.
func (t *Tier[V]) Len() int { return t.c.Len() }
