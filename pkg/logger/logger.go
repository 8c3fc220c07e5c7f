// Package logger defines the structured logging surface shared by every
// chart component. Components receive a Logger and decorate it with their
// own fields; nothing in the core writes to a global logger.
package logger

// Fields is a set of key/value pairs attached to every entry of a logger
type Fields = map[string]any

// Logger is the leveled, structured logger used across the chart core.
// Trace carries per-event interaction noise, Debug carries resolution
// details, Warn marks recoverable storage or computation faults.
type Logger interface {
	WithField(key string, value any) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger

	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)

	Tracef(format string, args ...any)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
