// Package logger builds the zerolog loggers used across fitz.
package logger

import (
	"io"
	"os"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a logger writing to w. Console output is human readable; otherwise JSON.
// Use .Stack() on error events to attach a stack trace.
func New(w io.Writer, component string, console bool) zerolog.Logger {
	zerolog.ErrorStackMarshaler = func(err error) interface{} {
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		return zpkgerrors.MarshalStack(err)
	}

	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05", NoColor: true}
	}
	return zerolog.New(w).With().
		Str("component", component).
		Timestamp().
		Logger()
}

// Stderr is the CLI default: console format on stderr at the given level.
func Stderr(component, level string) zerolog.Logger {
	return New(os.Stderr, component, true).Level(ParseLevel(level))
}

// ParseLevel maps a level name to a zerolog level. Unknown names yield warn.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || s == "" {
		return zerolog.WarnLevel
	}
	return lvl
}
