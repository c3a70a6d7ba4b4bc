package domain

// MetricsCounters is a point-in-time snapshot of the metrics collector.
// Counters are incremented by the executor, the API client and the cache
// store; only the collector reads them back for display.
type MetricsCounters struct {
	APICalls            int64 `json:"api_calls"`
	CacheHits           int64 `json:"cache_hits"`
	CacheMisses         int64 `json:"cache_misses"`
	CacheWrites         int64 `json:"cache_writes"`
	CacheSweeps         int64 `json:"cache_sweeps"`
	RateLimitWarnings   int64 `json:"rate_limit_warnings"`
	OperationsTotal     int64 `json:"operations_total"`
	OperationsSucceeded int64 `json:"operations_succeeded"`
}

// CacheHitRatePercent derives the hit rate over all cache lookups.
// It returns 0 when no lookup has happened yet.
func (m MetricsCounters) CacheHitRatePercent() float64 {
	lookups := m.CacheHits + m.CacheMisses
	if lookups == 0 {
		return 0
	}
	return 100 * float64(m.CacheHits) / float64(lookups)
}

// SuccessRatePercent derives the share of operations that succeeded.
// It returns 0 when no operation has completed yet.
func (m MetricsCounters) SuccessRatePercent() float64 {
	if m.OperationsTotal == 0 {
		return 0
	}
	return 100 * float64(m.OperationsSucceeded) / float64(m.OperationsTotal)
}

// ClientMetrics is the API client's view of its own counters.
type ClientMetrics struct {
	Calls          int64   `json:"calls"`
	Hits           int64   `json:"hits"`
	HitRatePercent float64 `json:"hit_rate_percent"`
	Warnings       int64   `json:"warnings"`
}
