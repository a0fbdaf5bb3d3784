package yalogger

import (
	"io"

	"github.com/google/uuid"
)

// Config defines the configuration options for the logger.
//
// BaseLoggerType: The backend to use (only Logrus for now).
// Level: The minimum level written.
// FullTimestamp: Print the full timestamp instead of seconds since start.
// DisableTimestamp: Drop timestamps entirely.
// TimestampFormat: Layout used for timestamps.
// Output: Destination of log lines, stderr when nil.
type Config struct {
	BaseLoggerType   BaseLoggerType
	Level            Level
	FullTimestamp    bool
	DisableTimestamp bool
	TimestampFormat  string
	Output           io.Writer
}

// BaseLogger is an interface for creating new Logger instances.
type BaseLogger interface {
	// NewLogger creates a new Logger sharing the base configuration.
	NewLogger() Logger
}

// Logger defines a structured logging interface with support for various log levels,
// formatting, and context-aware logging using key-value fields.
type Logger interface {
	// Info logs a message at the Info level.
	//
	// Example usage:
	//
	//   logger.Info("Webhook registered")
	Info(msg string)

	// Infof logs a formatted message at the Info level.
	//
	// Example usage:
	//
	//   logger.Infof("Listening on %s", addr)
	Infof(format string, args ...any)

	// Trace logs a message at the Trace level.
	Trace(msg string)

	// Tracef logs a formatted message at the Trace level.
	Tracef(format string, args ...any)

	// Error logs a message at the Error level.
	Error(msg string)

	// Errorf logs a formatted message at the Error level.
	//
	// Example usage:
	//
	//   logger.Errorf("Handler failed: %v", err)
	Errorf(format string, args ...any)

	// Warn logs a message at the Warn level.
	Warn(msg string)

	// Warnf logs a formatted message at the Warn level.
	Warnf(format string, args ...any)

	// Debug logs a message at the Debug level.
	Debug(msg string)

	// Debugf logs a formatted message at the Debug level.
	//
	// Example usage:
	//
	//   logger.Debugf("Dropped malformed update: %v", err)
	Debugf(format string, args ...any)

	// Fatal logs a message at the Fatal level and terminates the process.
	Fatal(msg string)

	// Fatalf logs a formatted message at the Fatal level and terminates the process.
	Fatalf(format string, args ...any)

	// WithField returns a logger with a single field added to the context.
	//
	// Example usage:
	//
	//   logger.WithField("path", ctx.FullPath())
	WithField(key string, value any) Logger

	// WithFields returns a logger with multiple fields added to the context.
	WithFields(fields map[string]any) Logger

	// WithRequestUUID returns a logger carrying id as request_id.
	WithRequestUUID(id uuid.UUID) Logger

	// WithRandomRequestID returns a logger carrying a freshly generated request_id.
	//
	// Example usage:
	//
	//   log := base.WithRandomRequestID()
	//   log.Debug("Webhook request accepted")
	WithRandomRequestID() Logger

	// WithUpdateID returns a logger carrying the platform update identifier.
	WithUpdateID(id int64) Logger

	// WithChatID returns a logger carrying the chat identifier.
	WithChatID(id int64) Logger

	// GetFields returns a copy of the current context fields.
	GetFields() map[string]any

	// GetField returns one context field, nil when absent.
	GetField(key string) any
}
