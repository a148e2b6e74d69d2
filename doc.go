// Package twolevel implements a two-tier object cache: a volatile in-process
// tier, a persistent on-disk tier, and a caller-supplied fetch fallback.
//
// Components:
//   - volatile.Tier[V]: bounded in-memory store (ristretto by default, or bigcache).
//   - disk.Store: one directory per cache instance, one file per key.
//   - codec.Codec[V]: V <-> []byte for the disk tier and fetched payloads.
//   - fetch.Fetcher: asynchronous fallback called on a full miss.
//
// Layout:
//
//	<root>/<name>/<base64url(key)>.cache   - file contents are exactly Codec.Encode's output
//
// base64url is case-sensitive, so keys such as "abc" and "abI" map to names
// that differ only in case. Root must live on a case-sensitive filesystem
// (not the macOS or Windows defaults) for distinct keys to get distinct files.
//
// Load order:
//
//	memory hit              -> StatusMemory
//	file hit + decode       -> StatusFile        (memory back-filled in the background)
//	fetch + decode          -> StatusDownloader  (memory and disk written in the background)
//	anything else           -> StatusError       (no tier touched)
//
// There is no single-flight: two concurrent misses for one key both reach the
// Fetcher and the last write to each tier wins.
package twolevel
