package logging

import "github.com/vvka-141/testmeta/pkg/testmeta"

var _ testmeta.Logger = (*NullLogger)(nil)

// NullLogger discards all log messages. Used by tests and library callers that
// do not want output.
type NullLogger struct{}

// NewNullLogger creates a new NullLogger.
func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (l *NullLogger) Verbose(format string, args ...interface{}) {}
func (l *NullLogger) Info(format string, args ...interface{})    {}
func (l *NullLogger) Error(format string, args ...interface{})   {}
