package domain

import "time"

// RunState is the phase of a single executor run.
type RunState int32

const (
	// StateIdle means no run has started yet.
	StateIdle RunState = iota
	// StateDispatching means items are being fanned out to workers.
	StateDispatching
	// StateAwaiting means all items are admitted and the run is joining workers.
	StateAwaiting
	// StateAggregating means worker results are being summed.
	StateAggregating
	// StateDone means the run finished and the summary is final.
	StateDone
)

// String returns the lowercase state name.
func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDispatching:
		return "dispatching"
	case StateAwaiting:
		return "awaiting"
	case StateAggregating:
		return "aggregating"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// JobResult is the outcome of processing a single item.
type JobResult struct {
	// Item is the work item exactly as submitted, whitespace preserved.
	Item string

	// Err is nil on success. Timeouts and recovered panics are reported
	// here like any other failure.
	Err error

	// Duration is the wall time the item took.
	Duration time.Duration
}

// RunSummary aggregates one executor run. Every item is accounted for in
// exactly one of Completed, Failed or Interrupted.
type RunSummary struct {
	// Function is the registry name the items were dispatched to.
	Function string

	// Jobs is the concurrency bound the run started with.
	Jobs int

	// Total is the number of submitted items.
	Total int

	// Completed is the number of items that succeeded.
	Completed int

	// Failed is the number of items whose function returned an error,
	// timed out or panicked.
	Failed int

	// Interrupted is the number of items never attempted because the
	// run was cancelled.
	Interrupted int

	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration
}
