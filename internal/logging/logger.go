// Package logging defines the structured logger used across nekoload.
package logging

// Logger provides structured logging. The method set matches
// github.com/charmbracelet/log, so a *log.Logger can be passed directly.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg interface{}, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg interface{}, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg interface{}, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg interface{}, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg interface{}, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg interface{}, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg interface{}, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg interface{}, keysAndValues ...interface{}) {}

// Noop returns a Logger that discards everything.
func Noop() Logger {
	return &noopLogger{}
}

// OrNoop returns l, or a no-op logger when l is nil.
func OrNoop(l Logger) Logger {
	if l == nil {
		return Noop()
	}
	return l
}
