// Package logrus adapts sirupsen/logrus to twolevel.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/twolevel"
)

var _ twolevel.Logger = LogrusLogger{}

type LogrusLogger struct{ E *logrus.Entry }

// New tags every entry with component=twolevel.
func New(l logrus.FieldLogger) LogrusLogger {
	return LogrusLogger{E: l.WithField("component", "twolevel")}
}

func (l LogrusLogger) Debug(msg string, f twolevel.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f twolevel.Fields) { l.E.WithFields(logrus.Fields(f)).Info(msg) }
func (l LogrusLogger) Warn(msg string, f twolevel.Fields) { l.E.WithFields(logrus.Fields(f)).Warn(msg) }
func (l LogrusLogger) Error(msg string, f twolevel.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
