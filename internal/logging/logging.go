// Package logging builds the zerolog logger shared by the whole process.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. Development mode uses a human-readable
// console writer; otherwise one JSON object is written per line. An unknown
// level falls back to info.
func New(w io.Writer, level string, development bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if development {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Str("service", "productapi").Logger()
}
