package telemetry

import (
	"context"
	"io"

	"github.com/wfops/wfops/internal/core/ports"
)

type spanWriterKey struct{}

// withSpanWriter stashes the active span in ctx so code running inside
// the job can stream output to it without holding a span reference.
func withSpanWriter(ctx context.Context, span ports.Span) context.Context {
	return context.WithValue(ctx, spanWriterKey{}, span)
}

// WriterFrom returns the output writer of the span active in ctx, or
// io.Discard when no span is active.
func WriterFrom(ctx context.Context) io.Writer {
	if span, ok := ctx.Value(spanWriterKey{}).(ports.Span); ok {
		return span
	}
	return io.Discard
}
