package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress output. It decouples span
// collection from presentation so the same event stream can drive an
// interactive terminal or plain CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and flush
	// buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnRunPlan is called before dispatch with the function name, the
	// concurrency bound and the item count of the upcoming run.
	OnRunPlan(function string, jobs, items int)

	// OnJobStart is called when an item begins processing.
	OnJobStart(spanID, item string, startTime time.Time)

	// OnJobLog is called when a job emits output. Data may contain
	// partial lines.
	OnJobLog(spanID string, data []byte)

	// OnJobComplete is called when an item finishes.
	OnJobComplete(spanID string, endTime time.Time, err error)
}
