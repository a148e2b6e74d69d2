// Package disk is the persistent tier: one directory per cache instance,
// one file per key, raw bytes in and out.
//
// Every operation except New is best-effort. Failures turn into a miss or a
// no-op and are only visible through an optional ErrorHandler.
package disk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// Operation names passed to an ErrorHandler.
const (
	OpRead   = "read"
	OpWrite  = "write"
	OpRemove = "remove"
	OpList   = "list"
)

// tempPrefix marks in-flight writes. Entry names never start with a dot.
const tempPrefix = ".tmp-"

// ErrorHandler observes swallowed I/O failures. It must be cheap and must not block.
type ErrorHandler func(op, path string, err error)

type Option func(*Store)

// WithErrorHandler installs h. Without it the store is silent.
func WithErrorHandler(h ErrorHandler) Option {
	return func(s *Store) { s.onErr = h }
}

// WithFileMode sets the permission bits for new files (default 0o644).
func WithFileMode(m os.FileMode) Option {
	return func(s *Store) { s.mode = m }
}

type Store struct {
	fs    billy.Filesystem
	dir   string
	mode  os.FileMode
	onErr ErrorHandler
	seq   atomic.Uint64
}

// New creates dir (and parents) on fsys. Failing to create it is the only
// error this package ever returns.
func New(fsys billy.Filesystem, dir string, opts ...Option) (*Store, error) {
	if fsys == nil {
		return nil, errors.New("disk: nil filesystem")
	}
	if dir == "" {
		return nil, errors.New("disk: empty directory")
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("disk: create %q: %w", dir, err)
	}
	s := &Store{fs: fsys, dir: dir, mode: 0o644}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *Store) Dir() string { return s.dir }

// Path returns the full path of name inside the store directory.
func (s *Store) Path(name string) string { return s.fs.Join(s.dir, name) }

// Read returns the file contents. A missing file is a plain miss.
func (s *Store) Read(name string) ([]byte, bool) {
	p := s.Path(name)
	f, err := s.fs.Open(p)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.fail(OpRead, p, err)
		}
		return nil, false
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		s.fail(OpRead, p, err)
		return nil, false
	}
	return b, true
}

// Write replaces the file with b. The bytes go to a temp file that is then
// renamed over the entry, so a reader sees the old entry or the new one and
// never a prefix. If anything fails the entry is removed: a failed write is a miss.
func (s *Store) Write(name string, b []byte) {
	p := s.Path(name)
	if err := s.replace(p, name, b); err != nil {
		s.fail(OpWrite, p, err)
		s.Remove(name)
	}
}

func (s *Store) replace(p, name string, b []byte) (err error) {
	tmp := s.fs.Join(s.dir, fmt.Sprintf("%s%s.%d-%d", tempPrefix, name, os.Getpid(), s.seq.Add(1)))
	f, err := s.fs.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.mode)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmp)
		}
	}()

	n, err := f.Write(b)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	return s.fs.Rename(tmp, p)
}

// Remove deletes the file. Removing a missing file is not a failure.
func (s *Store) Remove(name string) {
	p := s.Path(name)
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.fail(OpRemove, p, err)
	}
}

// RemoveAll deletes every entry in the directory and returns how many went away.
// A failed entry does not stop the sweep. The directory itself is kept.
func (s *Store) RemoveAll() int {
	entries, err := s.fs.ReadDir(s.dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.fail(OpList, s.dir, err)
		}
		return 0
	}
	n := 0
	for _, e := range entries {
		p := s.fs.Join(s.dir, e.Name())
		if err := util.RemoveAll(s.fs, p); err != nil {
			s.fail(OpRemove, p, err)
			continue
		}
		n++
	}
	return n
}

func (s *Store) fail(op, path string, err error) {
	if s.onErr != nil {
		s.onErr(op, path, err)
	}
}
