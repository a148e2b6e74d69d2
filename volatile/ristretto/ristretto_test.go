package ristretto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct{ Name string }

func newTier(t *testing.T) *Tier[*profile] {
	t.Helper()
	tier, err := New[*profile](DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tier.Close() })
	return tier
}

func TestSetGetRemove(t *testing.T) {
	tier := newTier(t)

	_, ok := tier.Get("k")
	assert.False(t, ok)

	p := &profile{Name: "Ada"}
	tier.Set("k", p)
	got, ok := tier.Get("k")
	require.True(t, ok)
	assert.Same(t, p, got)

	tier.Remove("k")
	_, ok = tier.Get("k")
	assert.False(t, ok)
}

func TestRemoveAll(t *testing.T) {
	tier := newTier(t)
	for _, k := range []string{"a", "b", "c"} {
		tier.Set(k, &profile{Name: k})
	}
	tier.RemoveAll()
	for _, k := range []string{"a", "b", "c"} {
		_, ok := tier.Get(k)
		assert.False(t, ok, k)
	}
}

func TestInvalidConfig(t *testing.T) {
	_, err := New[int](Config{})
	assert.Error(t, err)
}

func TestMetricsOptIn(t *testing.T) {
	tier := newTier(t)
	assert.Nil(t, tier.Metrics())

	cfg := DefaultConfig()
	cfg.Metrics = true
	withMetrics, err := New[int](cfg)
	require.NoError(t, err)
	defer withMetrics.Close()
	assert.NotNil(t, withMetrics.Metrics())
}
