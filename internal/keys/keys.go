package keys

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

const (
	// Suffix is appended to every cache file name.
	Suffix = ".cache"

	// hashPrefix marks hashed names. '~' is outside the base64url alphabet,
	// so hashed and plain names never collide.
	hashPrefix = "~"

	// maxStem keeps names under the usual 255-byte NAME_MAX with room for the suffix.
	maxStem = 200
)

// FileName maps a cache key to a file name that is safe on any filesystem:
// no separators, no line breaks, no reserved characters.
// Keys are base64url encoded; keys too long to fit a single path element
// fall back to a sha256 digest.
func FileName(key string) string {
	stem := base64.RawURLEncoding.EncodeToString([]byte(key))
	if len(stem) <= maxStem {
		return stem + Suffix
	}
	sum := sha256.Sum256([]byte(key))
	return hashPrefix + hex.EncodeToString(sum[:]) + Suffix
}
