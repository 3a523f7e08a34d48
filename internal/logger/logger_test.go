package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNew_VerboseControlsDebug(t *testing.T) {
	t.Parallel()

	var quiet, loud bytes.Buffer
	quietLog := New(&quiet, false)
	quietLog.Debug().Msg("hidden")
	loudLog := New(&loud, true)
	loudLog.Debug().Msg("shown")

	if quiet.Len() != 0 {
		t.Fatalf("expected no debug output, got %q", quiet.String())
	}
	if !strings.Contains(loud.String(), "shown") {
		t.Fatalf("expected debug output, got %q", loud.String())
	}
}

func TestFromContext_RoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ctx := WithContext(context.Background(), NewWithWriter(&buf))
	l := FromContext(ctx)
	l.Info().Str("component", "loader").Msg("hello")

	if !strings.Contains(buf.String(), `"component":"loader"`) {
		t.Fatalf("expected field in output, got %q", buf.String())
	}
}

func TestFromContext_DefaultIsNop(t *testing.T) {
	t.Parallel()

	l := FromContext(context.Background())
	if l.GetLevel() != zerolog.Disabled {
		t.Fatalf("default logger level = %v, want disabled", l.GetLevel())
	}
}
