package telemetry

import (
	"context"
	"fmt"
	"sync"

	"github.com/wfops/wfops/internal/core/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	_ ports.Tracer = (*OTelTracer)(nil)
	_ ports.Span   = (*OTelSpan)(nil)
)

// OTelTracer implements ports.Tracer on the OpenTelemetry SDK. When a
// renderer is attached, span output is batched and handed to it in span
// order: every chunk is delivered before the span's completion event
// reaches the renderer.
type OTelTracer struct {
	tracer trace.Tracer

	mu       sync.RWMutex
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer under the given instrumentation name.
func NewOTelTracer(name string) *OTelTracer {
	return &OTelTracer{
		tracer: otel.Tracer(name),
	}
}

// WithRenderer routes span output and run plans to r.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderer = r
	return t
}

// Shutdown stops the tracer. The tracer must not be used afterwards.
func (t *OTelTracer) Shutdown(_ context.Context) error {
	return nil
}

// Start creates a new span. With a renderer attached the span's writes
// are batched and streamed to it under the span's ID.
func (t *OTelTracer) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	ctx, span := t.tracer.Start(ctx, name)

	t.mu.RLock()
	r := t.renderer
	t.mu.RUnlock()

	var batcher *Batcher
	if r != nil {
		spanID := span.SpanContext().SpanID().String()
		batcher = NewBatcher(0, 0, func(data []byte) {
			r.OnJobLog(spanID, data)
		})
	}

	s := &OTelSpan{span: span, batcher: batcher}
	return withSpanWriter(ctx, s), s
}

// EmitRunPlan records the upcoming run on the current span and
// announces it to the renderer. It is called before any job span
// starts, so the renderer sees the plan first.
func (t *OTelTracer) EmitRunPlan(ctx context.Context, function string, jobs, items int) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent("run_planned", trace.WithAttributes(
			attribute.String("function", function),
			attribute.Int("jobs", jobs),
			attribute.Int("items", items),
		))
	}

	t.mu.RLock()
	r := t.renderer
	t.mu.RUnlock()

	if r != nil {
		r.OnRunPlan(function, jobs, items)
	}
}

// OTelSpan implements ports.Span on an OpenTelemetry span.
type OTelSpan struct {
	span    trace.Span
	batcher *Batcher
}

// End flushes any pending output and completes the span. The flush is
// synchronous, so by the time the completion event reaches the renderer
// every chunk of this span's output has already arrived.
func (s *OTelSpan) End() {
	if s.batcher != nil {
		_ = s.batcher.Close()
	}
	s.span.End()
}

// RecordError records err and marks the span failed.
func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}

// Write streams job output through the batcher. Without a renderer the
// data lands on the span as a log event instead.
func (s *OTelSpan) Write(p []byte) (int, error) {
	if s.batcher != nil {
		return s.batcher.Write(p)
	}
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}
