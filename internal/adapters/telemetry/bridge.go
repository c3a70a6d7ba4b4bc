package telemetry

import (
	"context"
	"errors"

	"github.com/wfops/wfops/internal/core/ports"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var _ sdktrace.SpanProcessor = (*Bridge)(nil)

// Bridge implements sdktrace.SpanProcessor, forwarding span lifecycle
// events to a renderer. Job spans are named by the item they process,
// so the span name doubles as the renderer's label.
type Bridge struct {
	renderer ports.Renderer
}

// NewBridge returns a new Bridge. A nil renderer yields an inert bridge.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{
		renderer: renderer,
	}
}

// OnStart reports the span as a started job.
func (b *Bridge) OnStart(_ context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	b.renderer.OnJobStart(sc.SpanID().String(), s.Name(), s.StartTime())
}

// OnEnd reports the job as completed, deriving its error from the span
// status.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	var err error
	if s.Status().Code == codes.Error {
		desc := s.Status().Description
		if desc == "" {
			desc = "job failed"
		}
		err = errors.New(desc)
	}

	b.renderer.OnJobComplete(sc.SpanID().String(), s.EndTime(), err)
}

// ForceFlush does nothing; the renderer consumes events as they arrive.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing; the bridge holds no resources.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}
