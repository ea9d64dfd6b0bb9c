package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the process logger described by cfg.
func NewLogger(w io.Writer, cfg Config) zerolog.Logger {
	if cfg.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(cfg.LogLevel).
		With().
		Timestamp().
		Logger()
}
