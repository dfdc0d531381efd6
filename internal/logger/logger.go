// Package logger provides the daemon's shared zap logger. Everything
// goes to stderr: journald stamps and keeps stderr, and stdout stays
// clean for command output.
package logger

import "sync"

// Log levels accepted by Get and the LOG_LEVEL setting.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns a singleton logger configured with the provided level.
// The first call initializes the logger; subsequent calls ignore the
// level and return the already initialized instance.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(level)
	})
	return globalLogger
}
