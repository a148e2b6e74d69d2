// Package sloghooks reports cache events through log/slog.
//
// Keys are redacted (sha256 prefix by default) because cache keys often
// carry user identifiers or URLs with tokens in them.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/twolevel"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	DiskErrorEvery    uint64
	DecodeFailedEvery uint64
	// LogLoads logs every load at debug. Off by default: it is one line per request.
	LogLoads bool
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	diskCtr   atomic.Uint64
	decodeCtr atomic.Uint64
}

var _ twolevel.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) LoadCompleted(key string, st twolevel.Status) {
	if h.l == nil || !h.opts.LogLoads {
		return
	}
	h.l.Debug("twolevel.load",
		"key", h.redact(key),
		"status", st.String())
}

func (h *Hooks) DecodeFailed(key, source string, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeCtr) {
		return
	}
	h.l.Warn("twolevel.decode_failed",
		"key", h.redact(key),
		"source", source,
		"err", err)
}

func (h *Hooks) EncodeFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("twolevel.encode_failed",
		"key", h.redact(key),
		"err", err)
}

// DiskError logs the path as-is: file names are already base64 or hashed.
func (h *Hooks) DiskError(op, path string, err error) {
	if h.l == nil || !sample(h.opts.DiskErrorEvery, &h.diskCtr) {
		return
	}
	h.l.Error("twolevel.disk_error",
		"op", op,
		"path", path,
		"err", err)
}
