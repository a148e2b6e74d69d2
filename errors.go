package twolevel

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by Get after Close.
var ErrClosed = errors.New("twolevel: cache closed")

// DirError reports that the instance directory could not be created.
// It is the only failure New surfaces for an otherwise valid configuration.
type DirError struct {
	Dir string
	Err error
}

func (e *DirError) Error() string {
	return fmt.Sprintf("twolevel: create cache directory %q: %v", e.Dir, e.Err)
}

func (e *DirError) Unwrap() error { return e.Err }
