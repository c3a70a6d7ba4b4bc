package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfops/wfops/internal/adapters/logger"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		goldenName string
	}{
		{
			name:       "info level",
			level:      slog.LevelInfo,
			msg:        "information message",
			goldenName: "handler_info",
		},
		{
			name:       "warn level",
			level:      slog.LevelWarn,
			msg:        "warning message",
			goldenName: "handler_warn",
		},
		{
			name:       "error level",
			level:      slog.LevelError,
			msg:        "error message",
			goldenName: "handler_error",
		},
		{
			name:       "debug level filtered",
			level:      slog.LevelDebug,
			msg:        "debug message",
			goldenName: "handler_debug_filtered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			})
			lg := slog.New(handler)

			lg.Log(t.Context(), tt.level, tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_Handle_Debug(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	lg := slog.New(handler)

	lg.Debug("debug message")

	g := goldie.New(t)
	g.Assert(t, "handler_debug", buf.Bytes())
}

// A *slog.LevelVar passed at construction keeps working after the fact, so
// the logger can change verbosity without rebuilding its handler.
func TestPrettyHandler_LevelVarStaysLive(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	levelVar := &slog.LevelVar{}
	levelVar.Set(slog.LevelInfo)

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
		Level: levelVar,
	})
	lg := slog.New(handler)

	lg.Debug("still hidden")
	require.Empty(t, buf.String())

	levelVar.Set(slog.LevelDebug)
	lg.Debug("now visible")

	g := goldie.New(t)
	g.Assert(t, "handler_levelvar_live", buf.Bytes())
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	tests := []struct {
		name       string
		attrs      []slog.Attr
		msg        string
		goldenName string
	}{
		{
			name:       "single attribute",
			attrs:      []slog.Attr{slog.String("key", "value")},
			msg:        "single attr message",
			goldenName: "handler_attrs_single",
		},
		{
			name:       "multiple attributes",
			attrs:      []slog.Attr{slog.String("a", "1"), slog.Int("b", 2)},
			msg:        "multi attr message",
			goldenName: "handler_attrs_multi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}).WithAttrs(tt.attrs)
			lg := slog.New(handler)

			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	var handler slog.Handler = logger.NewPrettyHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	handler = handler.WithGroup("request")

	lg := slog.New(handler)
	lg.Info("single group message", "id", "123")

	g := goldie.New(t)
	g.Assert(t, "handler_group_single", buf.Bytes())
}

func TestPrettyHandler_RecordAttrs(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		attrs      []any
		goldenName string
	}{
		{
			name:       "string attribute",
			msg:        "string attr",
			attrs:      []any{"key", "value"},
			goldenName: "handler_record_string",
		},
		{
			name:       "int attribute",
			msg:        "int attr",
			attrs:      []any{"count", 42},
			goldenName: "handler_record_int",
		},
		{
			name:       "multiline message",
			msg:        "line1\nline2\nline3",
			attrs:      []any{},
			goldenName: "handler_record_multiline",
		},
		{
			name:       "empty message",
			msg:        "",
			attrs:      []any{"key", "value"},
			goldenName: "handler_record_empty_msg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			})
			lg := slog.New(handler)

			lg.Info(tt.msg, tt.attrs...)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_CombinedAttrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}).WithAttrs([]slog.Attr{slog.String("hkey", "hval")})

	lg := slog.New(handler)
	lg.Info("combined message", "rkey", "rval")

	g := goldie.New(t)
	g.Assert(t, "handler_combined_attrs", buf.Bytes())
}

func TestPrettyHandler_Enabled(t *testing.T) {
	tests := []struct {
		name         string
		handlerLevel slog.Level
		recordLevel  slog.Level
		wantEnabled  bool
	}{
		{
			name:         "debug below info",
			handlerLevel: slog.LevelInfo,
			recordLevel:  slog.LevelDebug,
			wantEnabled:  false,
		},
		{
			name:         "info at info",
			handlerLevel: slog.LevelInfo,
			recordLevel:  slog.LevelInfo,
			wantEnabled:  true,
		},
		{
			name:         "warn above info",
			handlerLevel: slog.LevelInfo,
			recordLevel:  slog.LevelWarn,
			wantEnabled:  true,
		},
		{
			name:         "debug at debug",
			handlerLevel: slog.LevelDebug,
			recordLevel:  slog.LevelDebug,
			wantEnabled:  true,
		},
		{
			name:         "warn at error",
			handlerLevel: slog.LevelError,
			recordLevel:  slog.LevelWarn,
			wantEnabled:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			handler := logger.NewPrettyHandler(buf, &slog.HandlerOptions{
				Level: tt.handlerLevel,
			})

			got := handler.Enabled(t.Context(), tt.recordLevel)
			assert.Equal(t, tt.wantEnabled, got)
		})
	}
}

func TestPrettyHandler_NilWriter(t *testing.T) {
	// Test that nil writer defaults to os.Stderr without panic
	require.NotPanics(t, func() {
		_ = logger.NewPrettyHandler(nil, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	})
}

func TestPrettyHandler_Handle_ReturnsError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	// Test with a writer that returns an error
	brokenWriter := &brokenWriter{}
	handler := logger.NewPrettyHandler(brokenWriter, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	lg := slog.New(handler)

	// This should not panic, even though write fails
	require.NotPanics(t, func() {
		lg.Info("this will fail to write")
	})
}

// brokenWriter simulates a writer that always returns an error.
type brokenWriter struct{}

func (bw *brokenWriter) Write([]byte) (int, error) {
	return 0, assert.AnError
}
