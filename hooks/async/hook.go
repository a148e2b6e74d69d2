// Package asynchook moves Hooks calls off the cache's hot paths.
//
// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{DiskErrorEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := twolevel.New[*User](twolevel.Options[*User]{
//	    Name:  "users",
//	    Codec: codec.JSON[*User]{},
//	    Hooks: hooks, // or `raw` if you don't want async
//	})
//
// Events are dropped, not queued, when the buffer is full; Dropped reports how many.
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/twolevel"
)

type Hooks struct {
	inner   twolevel.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ twolevel.Hooks = (*Hooks)(nil)

func New(inner twolevel.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close delivers everything already queued, then stops the workers.
// Events arriving after Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default: // drop
		h.dropped.Add(1)
	}
}

func (h *Hooks) LoadCompleted(k string, st twolevel.Status) {
	h.try(func() { h.inner.LoadCompleted(k, st) })
}
func (h *Hooks) DecodeFailed(k, src string, err error) {
	h.try(func() { h.inner.DecodeFailed(k, src, err) })
}
func (h *Hooks) EncodeFailed(k string, err error) { h.try(func() { h.inner.EncodeFailed(k, err) }) }
func (h *Hooks) DiskError(op, path string, err error) {
	h.try(func() { h.inner.DiskError(op, path, err) })
}
