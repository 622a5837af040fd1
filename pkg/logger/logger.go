// Package logger wires zerolog into a process-wide structured logger.
//
// Call Init once from main, then derive component loggers with With.
// Code paths that run before Init (or in tests that never call it) get a
// usable default writing JSON to stdout at info level.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options selects the output format and verbosity chosen at startup.
type Options struct {
	// Level names the minimum severity: trace, debug, info, warn or error.
	// Anything else, including the empty string, means info.
	Level string
	// Pretty switches to zerolog's console writer for local development.
	Pretty bool
	// Output overrides the destination. Nil means os.Stdout.
	Output io.Writer
}

var (
	mu   sync.Mutex
	root = defaultLogger()
)

func defaultLogger() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// Init builds the process logger from opts and installs it as the root.
// Later calls replace the root again, which tests rely on to capture output.
func Init(opts Options) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(out).
		Level(Level(opts.Level)).
		With().
		Timestamp().
		Logger()

	mu.Lock()
	root = l
	mu.Unlock()
	return l
}

// Get returns the current root logger.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return root
}

// With returns the root logger tagged with a component name, so log lines
// from different subsystems stay distinguishable in aggregate output.
func With(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// Level parses a severity name, defaulting to info for unknown input.
func Level(name string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
