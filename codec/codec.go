// Package codec converts cached objects to and from the bytes kept in the
// persistent tier. The cache never inspects those bytes; whatever Encode
// produces is written to disk verbatim and handed back to Decode.
//
// Implementations must be safe for concurrent use: the cache calls them from
// pool goroutines.
package codec

// Codec encodes/decodes values V to []byte for storage.
// An Encode error means "do not persist"; a Decode error means the bytes are unusable.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// Funcs adapts a pair of plain functions to Codec.
// A nil EncodeFunc makes every Encode fail, so objects are kept in memory only.
type Funcs[V any] struct {
	EncodeFunc func(V) ([]byte, error)
	DecodeFunc func([]byte) (V, error)
}

var _ Codec[int] = Funcs[int]{}

func (f Funcs[V]) Encode(v V) ([]byte, error) {
	if f.EncodeFunc == nil {
		return nil, ErrNoEncoder
	}
	return f.EncodeFunc(v)
}

func (f Funcs[V]) Decode(b []byte) (V, error) {
	if f.DecodeFunc == nil {
		var zero V
		return zero, ErrNoDecoder
	}
	return f.DecodeFunc(b)
}
