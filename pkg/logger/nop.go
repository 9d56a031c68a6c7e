package logger

import (
	"go.uber.org/zap"
)

// NewNop returns a Logger that discards everything. Intended for tests.
func NewNop() Logger {
	return &Adapter{
		zapLogger: &ZapLogger{logger: zap.NewNop()},
	}
}
