package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/wfops/wfops/internal/adapters/metrics"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// cacheContext isolates API payload keys from other cache users.
	cacheContext = "github_api"

	// rateLimitEndpoint reports the remaining quota. Its cache entry
	// lives under its own fixed TTL, independent of the payload TTL,
	// and is fetched without the quota check to avoid recursion.
	rateLimitEndpoint = "rate_limit"
	rateLimitTTL      = 300 * time.Second
)

// ClientOptions bundles the tunables the client reads from the
// configuration. A nil Clock means the wall clock.
type ClientOptions struct {
	CacheEnabled bool
	CacheTTL     time.Duration

	// Buffer is the soft threshold: below it every call logs a warning.
	Buffer int

	// Floor is the hard threshold: below it the client waits for the
	// window reset, or refuses when the wait exceeds MaxSleep.
	Floor    int
	MaxSleep time.Duration

	Clock clockwork.Clock
}

var _ ports.APIClient = (*Client)(nil)

// Client is the rate-limit-aware, cache-first API surface over the gh
// runner. Payloads pass through uninterpreted; parsing is the caller's
// concern. Safe for concurrent use: the cache store serializes through
// atomic renames and the counters are atomic.
type Client struct {
	runner    ports.Runner
	cache     ports.CacheStore
	logger    ports.Logger
	collector *metrics.Collector
	clock     clockwork.Clock

	cacheEnabled bool
	cacheTTL     time.Duration
	buffer       int
	floor        int
	maxSleep     time.Duration
}

// NewClient assembles a client over the given runner and cache store.
func NewClient(
	runner ports.Runner,
	cache ports.CacheStore,
	logger ports.Logger,
	collector *metrics.Collector,
	opts ClientOptions,
) *Client {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Client{
		runner:       runner,
		cache:        cache,
		logger:       logger,
		collector:    collector,
		clock:        clock,
		cacheEnabled: opts.CacheEnabled,
		cacheTTL:     opts.CacheTTL,
		buffer:       opts.Buffer,
		floor:        opts.Floor,
		maxSleep:     opts.MaxSleep,
	}
}

// Call fetches the endpoint, consulting the cache first. On a miss it
// checks the remaining quota, performs the live call and caches the
// successful payload. Failed calls are never cached, so retries go
// live.
func (c *Client) Call(ctx context.Context, endpoint string) ([]byte, error) {
	if endpoint == "" {
		return nil, zerr.With(domain.ErrInvalidInput, "reason", "empty endpoint")
	}
	c.collector.RecordAPICall()

	var key domain.CacheKey
	if c.cacheEnabled {
		k, err := c.cache.Key(endpoint, cacheContext)
		if err != nil {
			return nil, err
		}
		key = k

		payload, err := c.cache.Get(key, c.cacheTTL)
		switch {
		case err == nil:
			c.collector.RecordCacheHit()
			c.logger.Debug(fmt.Sprintf("cache hit for %s", endpoint))
			return payload, nil
		case errors.Is(err, domain.ErrCacheMiss):
			c.collector.RecordCacheMiss()
		default:
			// Cache trouble never fails the call; go live instead.
			c.collector.RecordCacheMiss()
			c.logger.Warn(fmt.Sprintf("cache read for %s failed, going live", endpoint))
		}
	}

	if err := c.CheckRateLimit(ctx); err != nil {
		return nil, err
	}

	payload, err := c.live(ctx, endpoint, "api", endpoint)
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled {
		if err := c.cache.Put(key, payload); err != nil {
			c.logger.Warn(fmt.Sprintf("failed to cache response for %s", endpoint))
		} else {
			c.collector.RecordCacheWrite()
		}
	}

	return payload, nil
}

// Delete issues a destructive call against the endpoint. Destructive
// calls are never cached, but still count against the quota.
func (c *Client) Delete(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return zerr.With(domain.ErrInvalidInput, "reason", "empty endpoint")
	}
	c.collector.RecordAPICall()

	if err := c.CheckRateLimit(ctx); err != nil {
		return err
	}

	_, err := c.live(ctx, endpoint, "api", "-X", "DELETE", endpoint)
	return err
}

// CheckRateLimit verifies the remaining quota before a live call.
// Below the buffer it warns, below the floor it sleeps out a short
// reset, and an infeasible wait is domain.ErrRateLimited. The sleep
// blocks only the calling goroutine.
func (c *Client) CheckRateLimit(ctx context.Context) error {
	payload, err := c.fetchRateLimit(ctx)
	if err != nil {
		return err
	}

	state, err := decodeRateLimitState(payload)
	if err != nil {
		// Quota state is advisory. An undecodable payload must not
		// block real work, the live call fails on its own if the
		// quota is truly gone.
		c.logger.Warn("could not decode rate limit state, proceeding")
		return nil
	}

	if state.Remaining >= c.buffer {
		return nil
	}

	c.logger.Warn(fmt.Sprintf("approaching API rate limit: %d requests remaining", state.Remaining))
	c.collector.RecordRateLimitWarning()

	if state.Remaining >= c.floor {
		return nil
	}

	wait := state.ResetIn(c.clock.Now())
	if wait > 0 && wait <= c.maxSleep {
		c.logger.Warn(fmt.Sprintf("rate limit floor reached, waiting %s for reset", wait.Round(time.Second)))
		select {
		case <-c.clock.After(wait):
			return nil
		case <-ctx.Done():
			return zerr.Wrap(ctx.Err(), "interrupted while waiting for rate limit reset")
		}
	}

	detail := zerr.With(zerr.New("api quota exhausted"), "remaining", state.Remaining)
	detail = zerr.With(detail, "reset_in", wait.Round(time.Second).String())
	return errors.Join(domain.ErrRateLimited, detail)
}

// Metrics reads the client's view of the collector counters.
func (c *Client) Metrics() domain.ClientMetrics {
	s := c.collector.Snapshot()

	var hitRate float64
	if s.APICalls > 0 {
		hitRate = 100 * float64(s.CacheHits) / float64(s.APICalls)
	}

	return domain.ClientMetrics{
		Calls:          s.APICalls,
		Hits:           s.CacheHits,
		HitRatePercent: hitRate,
		Warnings:       s.RateLimitWarnings,
	}
}

// ResetMetrics zeroes the collector counters.
func (c *Client) ResetMetrics() {
	c.collector.Reset()
}

// fetchRateLimit reads the quota endpoint through its own cache entry.
// Internal fetches stay out of the call and hit counters.
func (c *Client) fetchRateLimit(ctx context.Context) ([]byte, error) {
	var key domain.CacheKey
	if c.cacheEnabled {
		k, err := c.cache.Key(rateLimitEndpoint, cacheContext)
		if err == nil {
			key = k
			if payload, err := c.cache.Get(key, rateLimitTTL); err == nil {
				return payload, nil
			}
		}
	}

	payload, err := c.live(ctx, rateLimitEndpoint, "api", rateLimitEndpoint)
	if err != nil {
		return nil, err
	}

	if c.cacheEnabled && key.Valid() {
		if err := c.cache.Put(key, payload); err != nil {
			c.logger.Warn("failed to cache rate limit state")
		}
	}

	return payload, nil
}

// live performs one gh invocation and maps failures to
// domain.ErrUpstream. The endpoint only serves diagnostics here.
func (c *Client) live(ctx context.Context, endpoint string, args ...string) ([]byte, error) {
	res, err := c.runner.Run(ctx, args...)
	if err != nil {
		return nil, errors.Join(domain.ErrUpstream, err)
	}
	if res.ExitCode != 0 {
		detail := zerr.With(zerr.New("gh api call failed"), "endpoint", endpoint)
		detail = zerr.With(detail, "exit_code", res.ExitCode)
		if res.Stderr != "" {
			detail = zerr.With(detail, "stderr", res.Stderr)
		}
		return nil, errors.Join(domain.ErrUpstream, detail)
	}

	return res.Stdout, nil
}
