package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options controls logger construction.
type Options struct {
	Level  string // zerolog level name; empty means info
	Format string // "json" or "console"
	Out    io.Writer
}

// New creates a logger tagged with the given component. Console output is
// used when Format is "console" or APP_ENV=dev; JSON otherwise. Logs go to
// stderr unless Out is set, keeping stdout for reports.
func New(component string, opts Options) zerolog.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	env := strings.ToLower(os.Getenv("APP_ENV"))
	if opts.Format == "console" || env == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Str("component", component).Logger()
}
