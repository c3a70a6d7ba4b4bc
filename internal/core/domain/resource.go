package domain

import "time"

const (
	// FallbackMemoryPercent is assumed when memory sampling fails.
	FallbackMemoryPercent = 50.0

	// FallbackCPUPercent is assumed when CPU sampling fails.
	FallbackCPUPercent = 50.0

	// ScaleDownThreshold is the fraction of a configured limit at which
	// the optimal job count starts degrading linearly toward the floor.
	ScaleDownThreshold = 0.7
)

// ResourceSample is a point-in-time view of host utilization.
// Samples are recomputed on demand and never persisted.
type ResourceSample struct {
	// MemoryPercent is the used fraction of physical memory, 0-100.
	MemoryPercent float64

	// CPUPercent is the one-minute load average normalized by core
	// count, capped at 100.
	CPUPercent float64

	// Cores is the number of online CPU cores.
	Cores int

	// Fallback is set when sampling failed and conservative defaults
	// were substituted.
	Fallback bool

	// TakenAt is the sampling timestamp.
	TakenAt time.Time
}
