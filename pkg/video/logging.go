package video

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// Logger returns the package logger.
func Logger() zerolog.Logger {
	return logger
}

// SetLogger replaces the package logger. The TUI entry point points it at a
// file so decode diagnostics do not corrupt the alternate screen.
func SetLogger(l zerolog.Logger) {
	logger = l
}
