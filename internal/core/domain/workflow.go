package domain

import "time"

// WorkflowFile is a discovered workflow definition.
type WorkflowFile struct {
	// Path is the file path relative to the repository root.
	Path string

	// Digest is the xxhash64 content digest, 16 hex characters.
	Digest string
}

// Finding is a single workflow validation rule violation. Findings are
// data, not errors; a file with findings parsed fine but fails a rule.
type Finding struct {
	Path    string `json:"path"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// WorkflowRun is a single fetched run of a workflow, decoded by the
// analyze pipeline from the raw API payload.
type WorkflowRun struct {
	ID         int64
	Name       string
	Conclusion string
	StartedAt  time.Time
	UpdatedAt  time.Time
}

// Duration returns the wall time of the run, zero when timestamps are
// missing or inverted.
func (r WorkflowRun) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.UpdatedAt.IsZero() {
		return 0
	}
	d := r.UpdatedAt.Sub(r.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// RunStats aggregates fetched workflow runs for the analyze report.
type RunStats struct {
	Total              int            `json:"total"`
	ByConclusion       map[string]int `json:"by_conclusion"`
	SuccessRatePercent float64        `json:"success_rate_percent"`
	AverageDuration    time.Duration  `json:"average_duration_ns"`
	LongestDuration    time.Duration  `json:"longest_duration_ns"`
	LongestName        string         `json:"longest_name"`
}
