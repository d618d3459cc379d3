// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Setup sets the global level and output. format "console" gives
// human-readable output, anything else JSON lines with a timestamp.
func Setup(level, format string) {
	SetupWriter(os.Stderr, level, format)
}

func SetupWriter(w io.Writer, level, format string) {
	logLevel := ParseLevel(level)
	zerolog.SetGlobalLevel(logLevel)

	if format == "console" {
		zlog.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	} else {
		zlog.Logger = zerolog.New(w).With().Timestamp().Logger()
	}

	if logLevel <= zerolog.DebugLevel {
		zlog.Logger = zlog.Logger.With().Caller().Logger()
	}

	zerolog.DefaultContextLogger = &zlog.Logger
}

func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}
