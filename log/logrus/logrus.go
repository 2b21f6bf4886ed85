// Package logrus adapts sirupsen/logrus to the coqffi Logger interface.
package logrus

import (
	"github.com/sirupsen/logrus"

	coqffi "github.com/0x4FCA/coqFFI"
)

type LogrusLogger struct{ E *logrus.Entry }

var _ coqffi.Logger = LogrusLogger{}

func (l LogrusLogger) Debug(msg string, f coqffi.Fields) {
	l.E.WithFields(logrus.Fields(f)).Debug(msg)
}
func (l LogrusLogger) Info(msg string, f coqffi.Fields) {
	l.E.WithFields(logrus.Fields(f)).Info(msg)
}
func (l LogrusLogger) Warn(msg string, f coqffi.Fields) {
	l.E.WithFields(logrus.Fields(f)).Warn(msg)
}
func (l LogrusLogger) Error(msg string, f coqffi.Fields) {
	l.E.WithFields(logrus.Fields(f)).Error(msg)
}
