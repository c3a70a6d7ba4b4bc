// Package resmon implements host resource sampling on top of procfs.
package resmon

import (
	"fmt"
	"math"
	"runtime"
	"time"

	"github.com/prometheus/procfs"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"go.trai.ch/zerr"
)

// Monitor implements ports.ResourceMonitor by reading memory and load
// figures from the proc filesystem. When proc is unavailable, every
// sample degrades to conservative defaults instead of failing, so
// callers can treat sampling as infallible.
type Monitor struct {
	fs       procfs.FS
	fsErr    error
	logger   ports.Logger
	memLimit float64
	cpuLimit float64
}

// NewMonitor creates a monitor reading from the default proc mountpoint.
func NewMonitor(logger ports.Logger, memLimitPct, cpuLimitPct float64) *Monitor {
	return NewMonitorWithMount(logger, procfs.DefaultMountPoint, memLimitPct, cpuLimitPct)
}

// NewMonitorWithMount creates a monitor reading from a custom proc
// mountpoint. An unreadable mountpoint is not an error; the monitor
// starts in fallback mode.
func NewMonitorWithMount(logger ports.Logger, mount string, memLimitPct, cpuLimitPct float64) *Monitor {
	fs, err := procfs.NewFS(mount)
	return &Monitor{
		fs:       fs,
		fsErr:    err,
		logger:   logger,
		memLimit: memLimitPct,
		cpuLimit: cpuLimitPct,
	}
}

// Sample reads current memory and CPU utilization plus the core count.
// Each dimension that cannot be read is replaced by its moderate-load
// default and the Fallback flag is set.
func (m *Monitor) Sample() domain.ResourceSample {
	sample := domain.ResourceSample{
		MemoryPercent: domain.FallbackMemoryPercent,
		CPUPercent:    domain.FallbackCPUPercent,
		Cores:         runtime.NumCPU(),
		TakenAt:       time.Now(),
	}

	if m.fsErr != nil {
		sample.Fallback = true
		m.logger.Warn("resource sampling unavailable, assuming moderate load")
		return sample
	}

	if mem, err := m.memoryPercent(); err != nil {
		sample.Fallback = true
	} else {
		sample.MemoryPercent = mem
	}

	if cores, cpu, err := m.cpuPercent(); err != nil {
		sample.Fallback = true
	} else {
		sample.Cores = cores
		sample.CPUPercent = cpu
	}

	if sample.Fallback {
		m.logger.Warn("resource sampling incomplete, assuming moderate load")
	}

	return sample
}

// CheckLimits compares the current sample against the given ceilings.
// The result is advisory: callers shrink concurrency on violation
// instead of aborting.
func (m *Monitor) CheckLimits(memLimitPct, cpuLimitPct float64) error {
	sample := m.Sample()

	if sample.MemoryPercent > memLimitPct {
		err := zerr.With(domain.ErrResourceConstraint, "dimension", "memory")
		err = zerr.With(err, "usage_percent", fmt.Sprintf("%.1f", sample.MemoryPercent))
		return zerr.With(err, "limit_percent", fmt.Sprintf("%.1f", memLimitPct))
	}

	if sample.CPUPercent > cpuLimitPct {
		err := zerr.With(domain.ErrResourceConstraint, "dimension", "cpu")
		err = zerr.With(err, "usage_percent", fmt.Sprintf("%.1f", sample.CPUPercent))
		return zerr.With(err, "limit_percent", fmt.Sprintf("%.1f", cpuLimitPct))
	}

	return nil
}

// OptimalJobs degrades base as utilization approaches the configured
// limits: full base while usage stays under the scale-down threshold,
// then a linear ramp down to minJobs at the limit. The result is
// clamped to [minJobs, maxJobs].
func (m *Monitor) OptimalJobs(base, minJobs, maxJobs int) (int, error) {
	if base <= 0 {
		return 0, zerr.With(domain.ErrInvalidInput, "base_jobs", base)
	}
	if minJobs < 1 {
		minJobs = 1
	}
	if maxJobs < minJobs {
		maxJobs = minJobs
	}

	sample := m.Sample()

	factor := math.Min(
		scaleFactor(sample.MemoryPercent, m.memLimit),
		scaleFactor(sample.CPUPercent, m.cpuLimit),
	)

	jobs := int(math.Floor(float64(base) * factor))
	if jobs < minJobs {
		jobs = minJobs
	}
	if jobs > maxJobs {
		jobs = maxJobs
	}

	return jobs, nil
}

// scaleFactor maps utilization against a limit to a multiplier in
// [0, 1]: 1 below threshold, 0 at or above the limit, linear between.
func scaleFactor(usagePct, limitPct float64) float64 {
	if limitPct <= 0 {
		return 1
	}

	threshold := limitPct * domain.ScaleDownThreshold
	switch {
	case usagePct <= threshold:
		return 1
	case usagePct >= limitPct:
		return 0
	default:
		return (limitPct - usagePct) / (limitPct - threshold)
	}
}

func (m *Monitor) memoryPercent() (float64, error) {
	info, err := m.fs.Meminfo()
	if err != nil {
		return 0, err
	}
	if info.MemTotal == nil || *info.MemTotal == 0 {
		return 0, fmt.Errorf("meminfo missing MemTotal")
	}

	total := float64(*info.MemTotal)

	var available float64
	switch {
	case info.MemAvailable != nil:
		available = float64(*info.MemAvailable)
	case info.MemFree != nil:
		// Pre-3.14 kernels lack MemAvailable; reconstruct it
		available = float64(*info.MemFree)
		if info.Buffers != nil {
			available += float64(*info.Buffers)
		}
		if info.Cached != nil {
			available += float64(*info.Cached)
		}
	default:
		return 0, fmt.Errorf("meminfo missing MemAvailable and MemFree")
	}

	return clampPercent((total - available) / total * 100), nil
}

func (m *Monitor) cpuPercent() (int, float64, error) {
	loadavg, err := m.fs.LoadAvg()
	if err != nil {
		return 0, 0, err
	}

	cores := runtime.NumCPU()
	if stat, err := m.fs.Stat(); err == nil && len(stat.CPU) > 0 {
		cores = len(stat.CPU)
	}

	return cores, clampPercent(loadavg.Load1 / float64(cores) * 100), nil
}

func clampPercent(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}
