package disk

import (
	"errors"
	"os"
	"sync"
	"syscall"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// faultyFS fails selected operations on selected paths.
type faultyFS struct {
	billy.Filesystem
	failOpen   map[string]bool
	failRemove map[string]bool
	failCreate bool // every new file fails to open
	shortWrite bool // new files keep half of each write and then error
	failMkdir  bool
}

func (f *faultyFS) Open(name string) (billy.File, error) {
	if f.failOpen[name] {
		return nil, errBoom
	}
	return f.Filesystem.Open(name)
}

func (f *faultyFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&os.O_CREATE != 0 && f.failCreate {
		return nil, errBoom
	}
	file, err := f.Filesystem.OpenFile(name, flag, perm)
	if err != nil || flag&os.O_CREATE == 0 || !f.shortWrite {
		return file, err
	}
	return halfFile{file}, nil
}

// halfFile models a full disk: half the buffer lands, then the write fails.
type halfFile struct{ billy.File }

func (h halfFile) Write(p []byte) (int, error) {
	n, _ := h.File.Write(p[:len(p)/2])
	return n, syscall.ENOSPC
}

func (f *faultyFS) Remove(name string) error {
	if f.failRemove[name] {
		return errBoom
	}
	return f.Filesystem.Remove(name)
}

func (f *faultyFS) MkdirAll(name string, perm os.FileMode) error {
	if f.failMkdir {
		return errBoom
	}
	return f.Filesystem.MkdirAll(name, perm)
}

type recorded struct {
	op, path string
	err      error
}

type recorder struct {
	mu   sync.Mutex
	errs []recorded
}

func (r *recorder) handle(op, path string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, recorded{op, path, err})
}

func TestNewCreatesDirectory(t *testing.T) {
	fsys := memfs.New()
	s, err := New(fsys, "/cache/twolevel/avatars")
	require.NoError(t, err)

	fi, err := fsys.Stat("/cache/twolevel/avatars")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	assert.Equal(t, "/cache/twolevel/avatars", s.Dir())
}

func TestNewSurfacesMkdirFailure(t *testing.T) {
	_, err := New(&faultyFS{Filesystem: memfs.New(), failMkdir: true}, "/c")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)

	_, err = New(nil, "/c")
	assert.Error(t, err)
	_, err = New(memfs.New(), "")
	assert.Error(t, err)
}

func TestReadWriteRemove(t *testing.T) {
	s, err := New(memfs.New(), "/c")
	require.NoError(t, err)

	_, ok := s.Read("missing.cache")
	assert.False(t, ok)

	s.Write("a.cache", []byte("hello"))
	b, ok := s.Read("a.cache")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), b)

	// overwrite replaces the whole file
	s.Write("a.cache", []byte("hi"))
	b, ok = s.Read("a.cache")
	require.True(t, ok)
	assert.Equal(t, []byte("hi"), b)

	s.Remove("a.cache")
	_, ok = s.Read("a.cache")
	assert.False(t, ok)

	// removing twice is fine
	s.Remove("a.cache")
}

func TestMissingFileIsNotReported(t *testing.T) {
	var r recorder
	s, err := New(memfs.New(), "/c", WithErrorHandler(r.handle))
	require.NoError(t, err)

	_, ok := s.Read("nope.cache")
	assert.False(t, ok)
	s.Remove("nope.cache")
	assert.Empty(t, r.errs)
}

func TestFailuresAreSwallowedAndReported(t *testing.T) {
	mem := memfs.New()
	ffs := &faultyFS{
		Filesystem: mem,
		failOpen:   map[string]bool{"/c/r.cache": true},
		failRemove: map[string]bool{"/c/d.cache": true},
	}
	var r recorder
	s, err := New(ffs, "/c", WithErrorHandler(r.handle))
	require.NoError(t, err)

	s.Write("d.cache", []byte("x"))
	ffs.failCreate = true
	s.Write("w.cache", []byte("x"))
	_, ok := s.Read("r.cache")
	assert.False(t, ok)
	s.Remove("d.cache")

	require.Len(t, r.errs, 3)
	assert.Equal(t, recorded{OpWrite, "/c/w.cache", errBoom}, r.errs[0])
	assert.Equal(t, recorded{OpRead, "/c/r.cache", errBoom}, r.errs[1])
	assert.Equal(t, recorded{OpRemove, "/c/d.cache", errBoom}, r.errs[2])
}

func TestFailedWriteIsAMiss(t *testing.T) {
	mem := memfs.New()
	ffs := &faultyFS{Filesystem: mem}
	var r recorder
	s, err := New(ffs, "/c", WithErrorHandler(r.handle))
	require.NoError(t, err)

	s.Write("old.cache", []byte("previous-payload"))
	ffs.shortWrite = true

	s.Write("new.cache", []byte("full-payload-0123456789"))
	_, ok := s.Read("new.cache")
	assert.False(t, ok, "a torn write must not be readable")

	s.Write("old.cache", []byte("full-payload-0123456789"))
	_, ok = s.Read("old.cache")
	assert.False(t, ok, "a failed rewrite drops the entry")

	require.Len(t, r.errs, 2)
	for _, e := range r.errs {
		assert.Equal(t, OpWrite, e.op)
		assert.ErrorIs(t, e.err, syscall.ENOSPC)
	}

	// no temp files left behind
	entries, err := mem.ReadDir("/c")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWriteReplacesAtomically(t *testing.T) {
	mem := memfs.New()
	s, err := New(mem, "/c")
	require.NoError(t, err)

	s.Write("a.cache", []byte("one"))
	s.Write("a.cache", []byte("two"))

	entries, err := mem.ReadDir("/c")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.cache", entries[0].Name())

	b, ok := s.Read("a.cache")
	require.True(t, ok)
	assert.Equal(t, []byte("two"), b)
}

func TestRemoveAllContinuesPastFailures(t *testing.T) {
	mem := memfs.New()
	ffs := &faultyFS{Filesystem: mem, failRemove: map[string]bool{"/c/b.cache": true}}
	var r recorder
	s, err := New(ffs, "/c", WithErrorHandler(r.handle))
	require.NoError(t, err)

	for _, n := range []string{"a.cache", "b.cache", "c.cache", "d.cache"} {
		s.Write(n, []byte(n))
	}

	assert.Equal(t, 3, s.RemoveAll())

	for _, n := range []string{"a.cache", "c.cache", "d.cache"} {
		_, ok := s.Read(n)
		assert.False(t, ok, n)
	}
	_, ok := s.Read("b.cache")
	assert.True(t, ok, "failed entry stays behind")

	require.Len(t, r.errs, 1)
	assert.Equal(t, OpRemove, r.errs[0].op)

	// directory survives the sweep
	fi, err := mem.Stat("/c")
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

func TestRemoveAllOnEmptyDir(t *testing.T) {
	s, err := New(memfs.New(), "/c")
	require.NoError(t, err)
	assert.Equal(t, 0, s.RemoveAll())
}
