package twolevel

// Source names passed to Hooks.DecodeFailed.
const (
	SourceFile       = "file"       // bytes read back from the disk tier
	SourceDownloader = "downloader" // bytes handed over by the Fetcher
	SourceSave       = "save"       // bytes given to SaveData/SaveDataToMemory
)

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking: they run on pool goroutines,
// on Fetcher goroutines and on callers of Save*/Remove*.
//
// Nothing here changes behavior. Without Hooks every failure below stays silent.
type Hooks interface {
	// A load finished. Use it for hit-rate metrics.
	LoadCompleted(key string, st Status)

	// Bytes could not be decoded. source ∈ {"file", "downloader", "save"}.
	DecodeFailed(key, source string, err error)

	// An object could not be encoded, so it was not written to disk.
	EncodeFailed(key string, err error)

	// A disk operation failed and was swallowed. op ∈ {"read", "write", "remove", "list"}.
	// A missing file is a miss, not a failure, and is not reported.
	DiskError(op, path string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) LoadCompleted(string, Status)       {}
func (NopHooks) DecodeFailed(string, string, error) {}
func (NopHooks) EncodeFailed(string, error)         {}
func (NopHooks) DiskError(string, string, error)    {}
