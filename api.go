package twolevel

import (
	"context"

	"github.com/go-git/go-billy/v5"

	c "github.com/unkn0wn-root/twolevel/codec"
	f "github.com/unkn0wn-root/twolevel/fetch"
	vt "github.com/unkn0wn-root/twolevel/volatile"
)

// Status tells which tier answered a load.
type Status int

const (
	StatusError      Status = -1 // nothing usable anywhere; the object is the zero value
	StatusMemory     Status = 1
	StatusFile       Status = 2
	StatusDownloader Status = 3 // supplied by the Fetcher
)

func (s Status) String() string {
	switch s {
	case StatusMemory:
		return "memory"
	case StatusFile:
		return "file"
	case StatusDownloader:
		return "downloader"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Cache is a two-tier object cache with a fetch fallback.
//
// Loads run on the cache's worker pool and report through a callback.
// Save/Remove calls run on the caller's goroutine and are not ordered against
// in-flight loads: a fetch finishing after Remove can bring the entry back.
// Concurrent misses for the same key are not coalesced; each one fetches.
type Cache[V any] interface {
	// Load looks the key up in memory, then on disk, then through the Fetcher,
	// and calls done exactly once. done runs on a pool goroutine, or on the
	// Fetcher's goroutine for StatusDownloader/StatusError after a fetch.
	Load(ctx context.Context, key string, done func(v V, st Status))
	// Get is Load for callers that want to block. If ctx ends first it returns
	// ctx.Err(); the load keeps running and still fills the tiers.
	Get(ctx context.Context, key string) (V, Status, error)

	// SaveObject writes v to memory and, encoded, to disk.
	SaveObject(key string, v V)
	SaveObjectToMemory(key string, v V)
	// SaveObjectToFile removes the file instead when v cannot be encoded.
	SaveObjectToFile(key string, v V)

	// SaveData writes raw bytes to disk and their decoded object to memory.
	SaveData(key string, b []byte)
	// SaveDataToMemory removes the memory entry instead when b cannot be decoded.
	SaveDataToMemory(key string, b []byte)
	SaveDataToFile(key string, b []byte)

	Remove(key string)
	RemoveAll()
	// RemoveAllAsync clears both tiers on the pool and then calls done (may be nil).
	RemoveAllAsync(done func())

	Name() string
	Dir() string
	// Close drains queued work and closes the memory tier. Later Save and
	// Remove calls only reach the disk tier.
	Close(ctx context.Context) error
}

// Options configure a cache instance.
// Only Name and Codec are required; others have sensible defaults.
// Root must be on a case-sensitive filesystem: some distinct keys get file
// names that differ only by case.
type Options[V any] struct {
	// Required
	Name  string     // instance name; becomes a directory under Root. e.g. "avatars"
	Codec c.Codec[V] // bytes <-> V for the disk tier and fetched payloads

	Fetcher     f.Fetcher        // nil => full misses end in StatusError
	Memory      vt.Tier[V]       // nil => ristretto with ristretto.DefaultConfig
	FS          billy.Filesystem // nil => the OS filesystem
	Root        string           // "" => <user cache dir>/twolevel
	Concurrency int              // max concurrent pool tasks; 0 => 4*GOMAXPROCS
	Logger      Logger           // nil => NopLogger
	Hooks       Hooks            // nil => NopHooks (I/O failures stay silent)
}

// New creates the instance directory and returns a ready cache.
// A *DirError means the directory could not be created.
func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
