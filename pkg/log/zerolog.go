package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/svdfit/pkg/errors"
)

// RouteWarningsToZerolog sends every warning raised with errors.Warn to a
// zerolog logger writing JSON lines to w. Warnings that implement
// zerolog.LogObjectMarshaler are logged as a structured "warning" object.
// It returns the logger so callers can reuse it.
func RouteWarningsToZerolog(w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Str(ComponentKey, "svdfit").Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		ev := logger.Warn()
		if m, ok := warning.(zerolog.LogObjectMarshaler); ok {
			ev = ev.Object("warning", m)
		}
		ev.Msg(warning.Error())
	})
	return logger
}

// ResetWarningRoute restores the default warning handler.
func ResetWarningRoute() {
	errors.SetZerologWarnFunc(nil)
}
