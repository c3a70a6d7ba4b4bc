// Package metrics aggregates the counters recorded by the executor, the
// API client and the cache store. The collector is the only component
// that reads the counters back for display.
package metrics

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wfops/wfops/internal/core/domain"
	"go.trai.ch/zerr"
)

// Collector holds the process-wide counters. Call sites increment
// through the Record methods; readers take a Snapshot. All counters are
// atomic, so the collector is safe for concurrent use without locking.
//
// The collector doubles as a prometheus.Collector on its own registry.
// Counter values are materialized at scrape time from the atomics, so
// Reset is reflected in the exported series as well.
type Collector struct {
	apiCalls            atomic.Int64
	cacheHits           atomic.Int64
	cacheMisses         atomic.Int64
	cacheWrites         atomic.Int64
	cacheSweeps         atomic.Int64
	rateLimitWarnings   atomic.Int64
	operationsTotal     atomic.Int64
	operationsSucceeded atomic.Int64

	registry *prometheus.Registry
	descs    []counterDesc
}

type counterDesc struct {
	desc *prometheus.Desc
	read func() int64
}

// NewCollector returns a zeroed collector registered on a fresh private
// registry. The default global registerer is never touched.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}
	c.descs = []counterDesc{
		{desc: newDesc("api_calls_total", "API client calls, cache hits included."), read: c.apiCalls.Load},
		{desc: newDesc("cache_hits_total", "Cache lookups answered from disk."), read: c.cacheHits.Load},
		{desc: newDesc("cache_misses_total", "Cache lookups that went live."), read: c.cacheMisses.Load},
		{desc: newDesc("cache_writes_total", "Payloads stored in the cache."), read: c.cacheWrites.Load},
		{desc: newDesc("cache_sweeps_total", "Expired cache entries removed."), read: c.cacheSweeps.Load},
		{desc: newDesc("rate_limit_warnings_total", "Rate limit buffer warnings emitted."), read: c.rateLimitWarnings.Load},
		{desc: newDesc("operations_total", "Items handed to the executor."), read: c.operationsTotal.Load},
		{desc: newDesc("operations_succeeded_total", "Items that completed successfully."), read: c.operationsSucceeded.Load},
	}
	c.registry.MustRegister(c)
	return c
}

func newDesc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc("wfops_"+name, help, nil, nil)
}

// RecordAPICall counts one client call, live or cached.
func (c *Collector) RecordAPICall() { c.apiCalls.Add(1) }

// RecordCacheHit counts a lookup answered from the cache.
func (c *Collector) RecordCacheHit() { c.cacheHits.Add(1) }

// RecordCacheMiss counts a lookup that fell through to a live call.
func (c *Collector) RecordCacheMiss() { c.cacheMisses.Add(1) }

// RecordCacheWrite counts a payload stored in the cache.
func (c *Collector) RecordCacheWrite() { c.cacheWrites.Add(1) }

// RecordCacheSweep counts entries removed by a sweep.
func (c *Collector) RecordCacheSweep(removed int) {
	if removed > 0 {
		c.cacheSweeps.Add(int64(removed))
	}
}

// RecordRateLimitWarning counts a quota warning.
func (c *Collector) RecordRateLimitWarning() { c.rateLimitWarnings.Add(1) }

// RecordOperation counts one executor item and its outcome.
func (c *Collector) RecordOperation(succeeded bool) {
	c.operationsTotal.Add(1)
	if succeeded {
		c.operationsSucceeded.Add(1)
	}
}

// Snapshot reads all counters. Individual loads are atomic; the snapshot
// as a whole is point-in-time consistent enough for reporting.
func (c *Collector) Snapshot() domain.MetricsCounters {
	return domain.MetricsCounters{
		APICalls:            c.apiCalls.Load(),
		CacheHits:           c.cacheHits.Load(),
		CacheMisses:         c.cacheMisses.Load(),
		CacheWrites:         c.cacheWrites.Load(),
		CacheSweeps:         c.cacheSweeps.Load(),
		RateLimitWarnings:   c.rateLimitWarnings.Load(),
		OperationsTotal:     c.operationsTotal.Load(),
		OperationsSucceeded: c.operationsSucceeded.Load(),
	}
}

// Reset zeroes every counter.
func (c *Collector) Reset() {
	c.apiCalls.Store(0)
	c.cacheHits.Store(0)
	c.cacheMisses.Store(0)
	c.cacheWrites.Store(0)
	c.cacheSweeps.Store(0)
	c.rateLimitWarnings.Store(0)
	c.operationsTotal.Store(0)
	c.operationsSucceeded.Store(0)
}

// Report writes a human-readable counter summary.
func (c *Collector) Report(w io.Writer) error {
	return ReportSnapshot(w, c.Snapshot())
}

// ReportSnapshot writes the human-readable summary for a counters
// snapshot, live or previously exported.
func ReportSnapshot(w io.Writer, s domain.MetricsCounters) error {
	var b strings.Builder
	b.WriteString("Metrics\n")
	writeLine(&b, "api calls", s.APICalls)
	writeLine(&b, "cache hits", s.CacheHits)
	writeLine(&b, "cache misses", s.CacheMisses)
	writeRate(&b, "cache hit rate", s.CacheHitRatePercent())
	writeLine(&b, "cache writes", s.CacheWrites)
	writeLine(&b, "cache sweeps", s.CacheSweeps)
	writeLine(&b, "rate limit warnings", s.RateLimitWarnings)
	writeLine(&b, "operations", s.OperationsTotal)
	writeLine(&b, "succeeded", s.OperationsSucceeded)
	writeRate(&b, "success rate", s.SuccessRatePercent())

	if _, err := io.WriteString(w, b.String()); err != nil {
		return zerr.Wrap(err, "failed to write metrics report")
	}
	return nil
}

// ParseExport decodes a document produced by ExportJSON. The derived
// rate fields are recomputed from the counters, not trusted.
func ParseExport(data []byte) (domain.MetricsCounters, error) {
	var s domain.MetricsCounters
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.MetricsCounters{}, zerr.Wrap(err, "failed to decode metrics export")
	}
	return s, nil
}

func writeLine(b *strings.Builder, label string, value int64) {
	fmt.Fprintf(b, "  %-20s %d\n", label, value)
}

func writeRate(b *strings.Builder, label string, value float64) {
	fmt.Fprintf(b, "  %-20s %.1f%%\n", label, value)
}

type exportDocument struct {
	domain.MetricsCounters
	CacheHitRatePercent float64 `json:"cache_hit_rate_percent"`
	SuccessRatePercent  float64 `json:"success_rate_percent"`
}

// ExportJSON renders the counters plus the derived rates as indented
// JSON with a stable field order.
func (c *Collector) ExportJSON() ([]byte, error) {
	s := c.Snapshot()
	doc := exportDocument{
		MetricsCounters:     s,
		CacheHitRatePercent: s.CacheHitRatePercent(),
		SuccessRatePercent:  s.SuccessRatePercent(),
	}

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode metrics export")
	}
	return payload, nil
}

// WriteTextfile exports the registry in the Prometheus text format for
// node-exporter style textfile collection.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics textfile"), "path", path)
	}
	return nil
}

// Registry exposes the private registry, for serving scrapes in tests
// or embedding processes.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range c.descs {
		ch <- d.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, d := range c.descs {
		ch <- prometheus.MustNewConstMetric(d.desc, prometheus.CounterValue, float64(d.read()))
	}
}
