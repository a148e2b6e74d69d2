package logrus

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unkn0wn-root/twolevel"
)

func TestLogrusLogger(t *testing.T) {
	base, hook := test.NewNullLogger()
	base.SetLevel(logrus.DebugLevel)
	l := New(base)

	l.Debug("cache cleared", twolevel.Fields{"cache": "avatars", "files": 3})
	l.Error("boom", nil)

	require.Len(t, hook.Entries, 2)
	first := hook.Entries[0]
	assert.Equal(t, logrus.DebugLevel, first.Level)
	assert.Equal(t, "cache cleared", first.Message)
	assert.Equal(t, "twolevel", first.Data["component"])
	assert.Equal(t, "avatars", first.Data["cache"])
	assert.Equal(t, 3, first.Data["files"])
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}
