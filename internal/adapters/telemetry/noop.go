package telemetry

import (
	"context"

	"github.com/wfops/wfops/internal/core/ports"
)

var (
	_ ports.Tracer = (*NoOpTracer)(nil)
	_ ports.Span   = (*NoOpSpan)(nil)
)

// NoOpTracer is a ports.Tracer that records nothing. It keeps code
// paths that do not render progress free of OTel setup.
type NoOpTracer struct{}

// NewNoOpTracer creates a new NoOpTracer.
func NewNoOpTracer() *NoOpTracer {
	return &NoOpTracer{}
}

// Start returns a span that discards input. The span is still stashed
// in the context so WriterFrom resolves inside the job.
func (t *NoOpTracer) Start(ctx context.Context, _ string) (context.Context, ports.Span) {
	s := &NoOpSpan{}
	return withSpanWriter(ctx, s), s
}

// EmitRunPlan does nothing.
func (t *NoOpTracer) EmitRunPlan(_ context.Context, _ string, _, _ int) {}

// NoOpSpan is a no-op implementation of ports.Span.
type NoOpSpan struct{}

// End does nothing.
func (s *NoOpSpan) End() {}

// RecordError does nothing.
func (s *NoOpSpan) RecordError(_ error) {}

// SetAttribute does nothing.
func (s *NoOpSpan) SetAttribute(_ string, _ any) {}

// Write discards p and reports it written.
func (s *NoOpSpan) Write(p []byte) (int, error) {
	return len(p), nil
}
