package domain

import "go.trai.ch/zerr"

var (
	// ErrInvalidInput is returned when a caller-supplied parameter is outside its domain.
	ErrInvalidInput = zerr.New("invalid input")

	// ErrTraversalPath is returned when an identifier contains a parent-directory segment.
	ErrTraversalPath = zerr.New("path traversal segment not allowed")

	// ErrCacheMiss is returned when a cache entry is absent or older than its TTL.
	ErrCacheMiss = zerr.New("cache miss")

	// ErrCacheIO is returned when the cache directory or an entry cannot be created, read or written.
	ErrCacheIO = zerr.New("cache io failure")

	// ErrInvalidCacheKey is returned when a key is not a 64-character hex digest.
	ErrInvalidCacheKey = zerr.New("invalid cache key")

	// ErrRateLimited is returned when the API quota is exhausted and the wait until reset is infeasible.
	ErrRateLimited = zerr.New("rate limited")

	// ErrUpstream is returned when a live API call fails; the response is never cached.
	ErrUpstream = zerr.New("upstream call failed")

	// ErrResourceConstraint is returned when a resource sample exceeds a configured ceiling.
	ErrResourceConstraint = zerr.New("resource limit exceeded")

	// ErrUnknownFunction is returned when a run names a function absent from the registry.
	ErrUnknownFunction = zerr.New("unknown function")

	// ErrInvalidFunctionName is returned when a function name contains unsafe characters.
	ErrInvalidFunctionName = zerr.New("function name can only contain alphanumeric characters, hyphens and underscores")

	// ErrNoItems is returned when a run is started with an empty item list.
	ErrNoItems = zerr.New("no items to process")

	// ErrJobsFailed is returned when a run completes with at least one failed item.
	ErrJobsFailed = zerr.New("jobs failed")

	// ErrJobTimeout is returned when a single job exceeds the configured timeout.
	ErrJobTimeout = zerr.New("job timed out")

	// ErrInterrupted is returned when a run is cancelled before all items were attempted.
	ErrInterrupted = zerr.New("interrupted")

	// ErrConfigInvalid is returned when an environment value is outside its domain.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrProjectFileParseFailed is returned when the project file cannot be parsed.
	ErrProjectFileParseFailed = zerr.New("failed to parse project file")

	// ErrWorkflowParseFailed is returned when a workflow file cannot be parsed as YAML.
	ErrWorkflowParseFailed = zerr.New("failed to parse workflow file")

	// ErrWorkflowReadFailed is returned when a workflow file cannot be read.
	ErrWorkflowReadFailed = zerr.New("failed to read workflow file")

	// ErrNoWorkflows is returned when workflow discovery finds no files.
	ErrNoWorkflows = zerr.New("no workflow files found")

	// ErrValidationFailed is returned when workflow validation produced findings.
	ErrValidationFailed = zerr.New("workflow validation failed")

	// ErrRepositoryUnknown is returned when no repository could be determined for API calls.
	ErrRepositoryUnknown = zerr.New("repository not configured")

	// ErrRunnerUnavailable is returned when the gh executable cannot be located.
	ErrRunnerUnavailable = zerr.New("gh executable not found")

	// ErrWatcherClosed is returned when events are requested from a closed watcher.
	ErrWatcherClosed = zerr.New("watcher closed")
)
