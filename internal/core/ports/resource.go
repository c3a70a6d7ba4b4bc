package ports

import "github.com/wfops/wfops/internal/core/domain"

// ResourceMonitor samples host utilization and derives a safe
// concurrency level from it.
//
//go:generate mockgen -source=resource.go -destination=mocks/mock_resource.go -package=mocks
type ResourceMonitor interface {
	// Sample reads current memory and CPU utilization. It never fails:
	// when the underlying source is unavailable it returns conservative
	// defaults with the Fallback flag set and logs a warning.
	Sample() domain.ResourceSample

	// CheckLimits compares the current sample against the given
	// ceilings. It returns nil when under both, otherwise
	// domain.ErrResourceConstraint enriched with the violating
	// dimension. Advisory only.
	CheckLimits(memLimitPct, cpuLimitPct float64) error

	// OptimalJobs degrades base proportionally as utilization
	// approaches the configured limits, clamped to [minJobs, maxJobs].
	// A non-positive base is invalid input.
	OptimalJobs(base, minJobs, maxJobs int) (int, error)
}
