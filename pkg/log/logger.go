// Package log provides structured logging setup for mvpa analyses.
//
// The package wires Go's log/slog front end onto either a JSON handler or a
// zerolog console writer, and installs a handler wrapper that extracts
// cockroachdb/errors stack traces into a dedicated attribute. Analysis
// drivers log fold and searchlight-center progress at debug level; warnings
// raised through pkg/errors are forwarded to the zerolog sink configured
// here.
package log

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	mvpaerrors "github.com/neurogo/mvpa/pkg/errors"
)

// SetupLogger installs the process-wide slog default used by all mvpa
// packages. loglevel is one of "debug", "info", "warn", "error".
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

// ToLogLevel converts a level name into a slog.Level.
func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level: %s", level))
	}
}

const (
	// ErrAttrKey is the attribute key under which errors are logged.
	ErrAttrKey = "error"
	// StacktraceAttrKey is the attribute key for extracted stack traces.
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr wraps an error for structured slog emission.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}

// EnableZerologWarnings routes warnings emitted through pkg/errors into the
// given zerolog logger. Warning types implementing zerolog.LogObjectMarshaler
// are embedded as structured objects.
func EnableZerologWarnings(logger zerolog.Logger) {
	mvpaerrors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if marshaler, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event.Object("warning", marshaler)
		}
		event.Msg(warning.Error())
	})
}
