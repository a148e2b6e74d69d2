package codec

import (
	"errors"
	"fmt"
)

var (
	ErrNoEncoder = errors.New("codec: no encoder")
	ErrNoDecoder = errors.New("codec: no decoder")
)

// SizeError is returned by Limit when a payload exceeds MaxDecode.
type SizeError struct {
	Size, Max int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("codec: payload too large: %d > %d", e.Size, e.Max)
}
