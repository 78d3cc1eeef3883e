package cliconfig

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger returns the CLI's console logger writing to stderr.
func Logger(level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
