// Package zap adapts go.uber.org/zap to the coqffi Logger interface.
package zap

import (
	"go.uber.org/zap"

	coqffi "github.com/0x4FCA/coqFFI"
)

type ZapLogger struct{ L *zap.Logger }

var _ coqffi.Logger = ZapLogger{}

func (z ZapLogger) Debug(msg string, f coqffi.Fields) { z.L.Debug(msg, zf(f)...) }
func (z ZapLogger) Info(msg string, f coqffi.Fields)  { z.L.Info(msg, zf(f)...) }
func (z ZapLogger) Warn(msg string, f coqffi.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z ZapLogger) Error(msg string, f coqffi.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f coqffi.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
