package config

import "time"

// Environment variable names. Every value is validated at startup; a
// value outside its domain aborts the process before any work begins.
const (
	// EnvMaxParallelJobs is the base number of concurrent jobs.
	EnvMaxParallelJobs = "MAX_PARALLEL_JOBS"

	// EnvMinParallelJobs is the floor the adaptive executor never goes below.
	EnvMinParallelJobs = "MIN_PARALLEL_JOBS"

	// EnvMaxSystemParallelJobs is the hard ceiling regardless of request.
	EnvMaxSystemParallelJobs = "MAX_SYSTEM_PARALLEL_JOBS"

	// EnvCacheTTL is the cache entry lifetime in seconds.
	EnvCacheTTL = "CACHE_TTL"

	// EnvMemoryLimitPercent is the memory utilization ceiling, 1-100.
	EnvMemoryLimitPercent = "MEMORY_LIMIT_PERCENT"

	// EnvCPULimitPercent is the CPU utilization ceiling, 1-100.
	EnvCPULimitPercent = "CPU_LIMIT_PERCENT"

	// EnvResourceMonitorEnabled toggles adaptive concurrency.
	EnvResourceMonitorEnabled = "RESOURCE_MONITOR_ENABLED"

	// EnvEnableCache toggles the API response cache.
	EnvEnableCache = "ENABLE_CACHE"

	// EnvResourceCheckInterval is the seconds between resource re-checks
	// during an adaptive run.
	EnvResourceCheckInterval = "RESOURCE_CHECK_INTERVAL"

	// EnvParallelJobTimeout is the per-job timeout in seconds, 0 disables.
	EnvParallelJobTimeout = "PARALLEL_JOB_TIMEOUT"

	// EnvRateLimitBuffer is the remaining-quota level that triggers warnings.
	EnvRateLimitBuffer = "API_RATE_LIMIT_BUFFER"

	// EnvRateLimitFloor is the remaining-quota level that triggers backoff.
	EnvRateLimitFloor = "API_RATE_LIMIT_FLOOR"

	// EnvRateLimitMaxSleep is the longest acceptable backoff sleep in
	// seconds; longer waits fail instead of sleeping.
	EnvRateLimitMaxSleep = "API_RATE_LIMIT_MAX_SLEEP"

	// EnvCacheDir overrides the cache directory location.
	EnvCacheDir = "WFOPS_CACHE_DIR"

	// EnvLogLevel selects the log level: debug, info, warn or error.
	EnvLogLevel = "WFOPS_LOG_LEVEL"

	// EnvLogFormat selects the log format: pretty or json.
	EnvLogFormat = "WFOPS_LOG_FORMAT"
)

// Defaults, applied when the corresponding variable is unset.
const (
	DefaultMaxParallelJobs       = 4
	DefaultMinParallelJobs       = 1
	DefaultMaxSystemParallelJobs = 16
	DefaultCacheTTL              = 300 * time.Second
	DefaultMemoryLimitPercent    = 80
	DefaultCPULimitPercent       = 90
	DefaultResourceCheckInterval = 5 * time.Second
	DefaultParallelJobTimeout    = 300 * time.Second
	DefaultRateLimitBuffer       = 100
	DefaultRateLimitFloor        = 10
	DefaultRateLimitMaxSleep     = 60 * time.Second
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "pretty"
)

// MinCacheTTL is the smallest cache lifetime considered useful; shorter
// TTLs would defeat the rate limit state's own 5-minute entry.
const MinCacheTTL = 60 * time.Second
