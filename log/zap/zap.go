// Package zap adapts go.uber.org/zap to twolevel.Logger.
package zap

import (
	"github.com/unkn0wn-root/twolevel"
	"go.uber.org/zap"
)

var _ twolevel.Logger = ZapLogger{}

type ZapLogger struct{ L *zap.Logger }

// New names the logger "twolevel" so cache lines are easy to filter.
func New(l *zap.Logger) ZapLogger { return ZapLogger{L: l.Named("twolevel")} }

func (z ZapLogger) Debug(msg string, f twolevel.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f twolevel.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f twolevel.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f twolevel.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f twolevel.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
