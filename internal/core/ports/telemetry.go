package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)

	// EmitRunPlan announces an upcoming run before any of its spans
	// start: the function name, the resolved concurrency bound and the
	// number of items.
	EmitRunPlan(ctx context.Context, function string, jobs, items int)
}

// Span represents a unit of work. Writes stream the work's output to
// whatever is rendering the span.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}
