// Package logging configures the zerolog logger used across a reconciliation run.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds a logger writing to w. Format "json" forces structured output, "console"
// forces human-readable output, anything else picks console only when w is a terminal.
func New(w io.Writer, level string, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if format == "console" || (format != "json" && isTerminal(w)) {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	if lvl <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// SetDefault makes logger the package-level zerolog logger.
func SetDefault(logger zerolog.Logger) {
	log.Logger = logger
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
