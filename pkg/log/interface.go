// Package log provides structured logging for svdfit.
//
// The Logger interface is a small slog-compatible surface so that library
// code (the LeastSquares estimator) can log without depending on a
// particular backend. The process-wide slog logger is configured with
// SetupLogger; warnings raised through pkg/errors can be routed to
// zerolog with RouteWarningsToZerolog.
//
// Example usage:
//
//	logger := log.GetLogger().With(log.ModelNameKey, "LeastSquares")
//	logger.Info("fit completed",
//	    log.ObservationsKey, 3,
//	    log.ChiSquaredKey, 1.88,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with log/slog.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional key-value pairs.
	Warn(msg string, fields ...any)

	// Error logs an error-level message. If the first field is an error it
	// is logged under ErrAttrKey, with its stack trace when available.
	//
	//	logger.Error("fit failed", err, log.OperationKey, log.OperationFit)
	Error(msg string, fields ...any)

	// With returns a Logger that adds fields to every record.
	With(fields ...any) Logger

	// Enabled reports whether records at level would be emitted.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
