// Package logger builds the zerolog logger used across the importer and
// carries it through context.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// New returns a console logger writing to w (stdout when nil). Debug lines
// are only emitted when verbose is set.
func New(w io.Writer, verbose bool) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// NewWithWriter returns a JSON logger writing to w. Tests use it to assert on
// emitted fields.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// WithContext stores l in ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger stored in ctx, or a disabled logger so
// library code never writes to an unexpected sink.
func FromContext(ctx context.Context) zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return zerolog.Nop()
}
