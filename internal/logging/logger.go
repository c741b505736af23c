package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Options configures New.
type Options struct {
	// Level is a zerolog level name; unknown names fall back to info.
	Level string

	// Verbose forces debug level, Quiet forces error level.
	Verbose bool
	Quiet   bool

	// Writer receives log output. Defaults to stderr, pretty-printed when
	// stderr is a terminal.
	Writer io.Writer
}

// New creates a logger that filters sensitive data from everything it writes.
func New(opts Options) zerolog.Logger {
	out := opts.Writer
	if out == nil {
		out = selectOutput()
	}
	return zerolog.New(NewFilteringWriter(out)).
		Level(SelectLevel(opts.Level, opts.Verbose, opts.Quiet)).
		Hook(NewSensitiveDataHook()).
		With().Timestamp().Logger()
}

// SelectLevel resolves the log level from flags and configuration.
func SelectLevel(level string, verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.ErrorLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

// selectOutput uses a console writer on a terminal unless NO_COLOR is set.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}
