package keys

import (
	"encoding/base64"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileNameIsStable(t *testing.T) {
	k := "https://example.com/avatar/42.png?size=large"
	first := FileName(k)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FileName(k))
	}
	// layout is part of the on-disk format; pin it
	assert.Equal(t, base64.RawURLEncoding.EncodeToString([]byte(k))+".cache", first)
}

func TestFileNameIsFilesystemSafe(t *testing.T) {
	keys := []string{
		"",
		"a/b/c",
		`back\slash`,
		"..",
		"line\nbreak",
		"nul\x00byte",
		"ユーザー:42",
		strings.Repeat("x", 64), // the old 64-column wrap point
		strings.Repeat("y", 500),
	}
	for _, k := range keys {
		name := FileName(k)
		assert.NotContains(t, name, "/", "key %q", k)
		assert.NotContains(t, name, `\`, "key %q", k)
		assert.NotContains(t, name, "\n", "key %q", k)
		assert.NotContains(t, name, "\r", "key %q", k)
		assert.NotContains(t, name, "\x00", "key %q", k)
		assert.True(t, strings.HasSuffix(name, Suffix), "key %q", k)
		assert.LessOrEqual(t, len(name), 255, "key %q", k)
	}
}

func TestFileNameNoCollisions(t *testing.T) {
	seen := make(map[string]string, 20000)
	add := func(k string) {
		name := FileName(k)
		if prev, ok := seen[name]; ok {
			require.Failf(t, "collision", "%q and %q both map to %q", prev, k, name)
		}
		seen[name] = k
	}
	for i := 0; i < 10000; i++ {
		add(fmt.Sprintf("user:%d", i))
		add(fmt.Sprintf("user:%d:%s", i, strings.Repeat("z", 150+i%100)))
	}
}

func TestFileNameLongKeysAreHashed(t *testing.T) {
	long := strings.Repeat("k", 300)
	name := FileName(long)
	require.True(t, strings.HasPrefix(name, hashPrefix))
	// sha256 hex + prefix + suffix
	assert.Len(t, name, len(hashPrefix)+64+len(Suffix))

	short := strings.Repeat("k", 100)
	assert.False(t, strings.HasPrefix(FileName(short), hashPrefix))
}
