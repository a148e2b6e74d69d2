// Package redis fetches cache misses from Redis string keys.
//
// Typical use is a shared warm store in front of a slow origin: a
// background job writes encoded objects to Redis and every process keeps
// its own memory and disk tiers in front of it.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/twolevel/fetch"
)

var ErrNilClient = errors.New("redis fetcher: nil client")

// Getter is the part of goredis.UniversalClient the fetcher uses.
type Getter interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
}

type Config struct {
	Client Getter
	Prefix string // prepended to every cache key, e.g. "avatars:"
	// OnError observes transport/server errors. redis.Nil (a miss) is not reported.
	OnError func(key string, err error)
}

type Fetcher struct {
	rdb     Getter
	prefix  string
	onError func(string, error)
}

var _ fetch.Fetcher = (*Fetcher)(nil)

func New(cfg Config) (*Fetcher, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Fetcher{rdb: cfg.Client, prefix: cfg.Prefix, onError: cfg.OnError}, nil
}

// Fetch issues GET on its own goroutine and reports the value, or ok=false on miss or error.
func (f *Fetcher) Fetch(ctx context.Context, key string, done fetch.Done) {
	go func() {
		b, err := f.rdb.Get(ctx, f.prefix+key).Bytes()
		if err != nil {
			if !errors.Is(err, goredis.Nil) && f.onError != nil {
				f.onError(key, err)
			}
			done(nil, false)
			return
		}
		done(b, true)
	}()
}
