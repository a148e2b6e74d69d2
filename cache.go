package twolevel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	c "github.com/unkn0wn-root/twolevel/codec"
	"github.com/unkn0wn-root/twolevel/disk"
	f "github.com/unkn0wn-root/twolevel/fetch"
	"github.com/unkn0wn-root/twolevel/internal/keys"
	"github.com/unkn0wn-root/twolevel/internal/queue"
	vt "github.com/unkn0wn-root/twolevel/volatile"
	"github.com/unkn0wn-root/twolevel/volatile/ristretto"
)

// namespace is the directory under the user cache dir that holds every instance.
const namespace = "twolevel"

type cache[V any] struct {
	name    string
	dir     string
	codec   c.Codec[V]
	fetcher f.Fetcher
	mem     vt.Tier[V]
	disk    *disk.Store
	q       *queue.Queue
	log     Logger
	hooks   Hooks

	// memMu guards memClosed; caller-goroutine tier calls hold it shared
	// so none of them can reach the memory tier after it is closed.
	memMu     sync.RWMutex
	memClosed bool
	closeErr  error
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if err := validName(opts.Name); err != nil {
		return nil, err
	}
	if opts.Codec == nil {
		return nil, errors.New("twolevel: codec is required")
	}

	cc := &cache[V]{
		name:  opts.Name,
		codec: opts.Codec,
	}

	// defaults
	cc.log = coalesce[Logger](opts.Logger, NopLogger{})
	cc.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	cc.fetcher = coalesce[f.Fetcher](opts.Fetcher, f.None)

	limit := opts.Concurrency
	if limit <= 0 {
		limit = 4 * runtime.GOMAXPROCS(0)
	}

	fsys, dir, shown, err := resolveDir(opts.FS, opts.Root, opts.Name)
	if err != nil {
		return nil, err
	}
	cc.dir = shown
	cc.disk, err = disk.New(fsys, dir, disk.WithErrorHandler(cc.hooks.DiskError))
	if err != nil {
		return nil, &DirError{Dir: shown, Err: err}
	}

	if opts.Memory != nil {
		cc.mem = opts.Memory
	} else {
		mem, err := ristretto.New[V](ristretto.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("twolevel: memory tier: %w", err)
		}
		cc.mem = mem
	}

	cc.q = queue.New(limit)
	cc.log.Debug("cache opened", Fields{"cache": cc.name, "dir": cc.dir, "concurrency": limit})
	return cc, nil
}

// resolveDir picks the filesystem and the instance directory inside it.
// Without an explicit FS the OS filesystem is rooted at Root, so the
// directory inside it is just the instance name.
func resolveDir(fsys billy.Filesystem, root, name string) (billy.Filesystem, string, string, error) {
	if fsys != nil {
		dir := fsys.Join(root, name)
		return fsys, dir, dir, nil
	}
	if root == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, "", "", &DirError{Err: err}
		}
		root = filepath.Join(base, namespace)
	}
	return osfs.New(root), name, filepath.Join(root, name), nil
}

func validName(name string) error {
	switch {
	case name == "":
		return errors.New("twolevel: name is required")
	case name == "." || name == "..":
		return fmt.Errorf("twolevel: invalid name %q", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("twolevel: name %q must not contain path separators", name)
	}
	return nil
}

func (cc *cache[V]) Name() string { return cc.name }
func (cc *cache[V]) Dir() string  { return cc.dir }

func (cc *cache[V]) Load(ctx context.Context, key string, done func(V, Status)) {
	if done == nil {
		done = func(V, Status) {}
	}
	if !cc.q.Submit(func() { cc.load(ctx, key, done) }) {
		var zero V
		cc.finish(key, zero, StatusError, done)
	}
}

func (cc *cache[V]) load(ctx context.Context, key string, done func(V, Status)) {
	var zero V

	if v, ok := cc.mem.Get(key); ok {
		cc.finish(key, v, StatusMemory, done)
		return
	}

	name := keys.FileName(key)
	if raw, ok := cc.disk.Read(name); ok {
		v, err := cc.codec.Decode(raw)
		if err == nil {
			// back-fill memory without holding up the caller
			cc.q.Submit(func() { cc.mem.Set(key, v) })
			cc.finish(key, v, StatusFile, done)
			return
		}
		cc.hooks.DecodeFailed(key, SourceFile, err)
	}

	var called atomic.Bool
	cc.fetcher.Fetch(ctx, key, func(raw []byte, ok bool) {
		if !called.CompareAndSwap(false, true) {
			cc.log.Warn("fetcher completed more than once; ignoring", Fields{"cache": cc.name, "key": key})
			return
		}
		if !ok {
			cc.finish(key, zero, StatusError, done)
			return
		}
		v, err := cc.codec.Decode(raw)
		if err != nil {
			cc.hooks.DecodeFailed(key, SourceDownloader, err)
			cc.finish(key, zero, StatusError, done)
			return
		}
		// This may run on any goroutine the fetcher picked; tier writes go back to the pool.
		cc.q.Submit(func() {
			cc.mem.Set(key, v)
			cc.disk.Write(name, raw)
		})
		cc.finish(key, v, StatusDownloader, done)
	})
}

func (cc *cache[V]) finish(key string, v V, st Status, done func(V, Status)) {
	cc.hooks.LoadCompleted(key, st)
	done(v, st)
}

func (cc *cache[V]) Get(ctx context.Context, key string) (V, Status, error) {
	var zero V
	if cc.q.Closed() {
		return zero, StatusError, ErrClosed
	}
	type result struct {
		v  V
		st Status
	}
	ch := make(chan result, 1)
	cc.Load(ctx, key, func(v V, st Status) { ch <- result{v, st} })
	select {
	case r := <-ch:
		return r.v, r.st, nil
	case <-ctx.Done():
		return zero, StatusError, ctx.Err()
	}
}

func (cc *cache[V]) SaveObject(key string, v V) {
	cc.SaveObjectToMemory(key, v)
	cc.SaveObjectToFile(key, v)
}

func (cc *cache[V]) SaveObjectToMemory(key string, v V) {
	cc.withMem(func(m vt.Tier[V]) { m.Set(key, v) })
}

func (cc *cache[V]) SaveObjectToFile(key string, v V) {
	name := keys.FileName(key)
	b, err := cc.codec.Encode(v)
	if err != nil {
		// an unencodable object must not leave an older file behind
		cc.hooks.EncodeFailed(key, err)
		cc.disk.Remove(name)
		return
	}
	cc.disk.Write(name, b)
}

func (cc *cache[V]) SaveData(key string, b []byte) {
	cc.SaveDataToMemory(key, b)
	cc.SaveDataToFile(key, b)
}

func (cc *cache[V]) SaveDataToMemory(key string, b []byte) {
	v, err := cc.codec.Decode(b)
	if err != nil {
		cc.hooks.DecodeFailed(key, SourceSave, err)
		cc.withMem(func(m vt.Tier[V]) { m.Remove(key) })
		return
	}
	cc.withMem(func(m vt.Tier[V]) { m.Set(key, v) })
}

func (cc *cache[V]) SaveDataToFile(key string, b []byte) {
	cc.disk.Write(keys.FileName(key), b)
}

func (cc *cache[V]) Remove(key string) {
	cc.withMem(func(m vt.Tier[V]) { m.Remove(key) })
	cc.disk.Remove(keys.FileName(key))
}

func (cc *cache[V]) RemoveAll() {
	cc.withMem(func(m vt.Tier[V]) { m.RemoveAll() })
	n := cc.disk.RemoveAll()
	cc.log.Debug("cache cleared", Fields{"cache": cc.name, "files": n})
}

// RemoveAllAsync calls done right away, without clearing anything, once the cache is closed.
func (cc *cache[V]) RemoveAllAsync(done func()) {
	ok := cc.q.Submit(func() {
		cc.RemoveAll()
		if done != nil {
			done()
		}
	})
	if !ok && done != nil {
		done()
	}
}

// Close stops accepting loads and waits for queued work, including pending
// back-fills, before closing the memory tier. If ctx ends first the memory
// tier is left open and Close may be called again.
// Save and Remove calls racing with Close skip the memory tier once it is closed.
// Calling Close from a Load callback deadlocks: the callback is queued work.
func (cc *cache[V]) Close(ctx context.Context) error {
	if err := cc.q.Close(ctx); err != nil {
		return err
	}
	cc.memMu.Lock()
	defer cc.memMu.Unlock()
	if !cc.memClosed {
		cc.memClosed = true
		cc.closeErr = cc.mem.Close()
		cc.log.Debug("cache closed", Fields{"cache": cc.name})
	}
	return cc.closeErr
}

// withMem runs fn against the memory tier unless it has been closed.
func (cc *cache[V]) withMem(fn func(vt.Tier[V])) {
	cc.memMu.RLock()
	defer cc.memMu.RUnlock()
	if !cc.memClosed {
		fn(cc.mem)
	}
}
