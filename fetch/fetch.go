// Package fetch defines the fallback the cache calls on a full miss.
//
// A Fetcher is asynchronous: Fetch returns immediately and later calls done
// exactly once, from any goroutine, with the bytes (ok=true) or with ok=false
// when nothing could be fetched. Transport errors, timeouts and retries are the
// fetcher's business; the cache only sees ok=false.
//
// The bytes passed to done belong to the cache from then on: the fetcher
// must not modify them afterwards.
//
// A Fetcher that never calls done stalls that one load forever. The cache has
// no timeout of its own.
package fetch

import "context"

// Done receives the result of one Fetch.
type Done func(data []byte, ok bool)

type Fetcher interface {
	Fetch(ctx context.Context, key string, done Done)
}

// Func adapts a function to Fetcher.
type Func func(ctx context.Context, key string, done Done)

func (f Func) Fetch(ctx context.Context, key string, done Done) { f(ctx, key, done) }

// Async adapts a blocking fetch. Each Fetch runs fn on a new goroutine;
// an error or nil bytes are reported as ok=false.
func Async(fn func(ctx context.Context, key string) ([]byte, error)) Fetcher {
	return Func(func(ctx context.Context, key string, done Done) {
		go func() {
			b, err := fn(ctx, key)
			if err != nil || b == nil {
				done(nil, false)
				return
			}
			done(b, true)
		}()
	})
}

// None never finds anything. It is what the cache uses when no fetcher is configured.
var None Fetcher = Func(func(_ context.Context, _ string, done Done) { done(nil, false) })
