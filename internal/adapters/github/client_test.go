package github_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfops/wfops/internal/adapters/cache"
	"github.com/wfops/wfops/internal/adapters/github"
	"github.com/wfops/wfops/internal/adapters/metrics"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"github.com/wfops/wfops/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type clientHarness struct {
	client    *github.Client
	runner    *mocks.MockRunner
	collector *metrics.Collector
	clock     clockwork.FakeClock
}

func newHarness(t *testing.T, mutate ...func(*github.ClientOptions)) *clientHarness {
	t.Helper()

	runner := mocks.NewMockRunner(gomock.NewController(t))
	store, err := cache.NewStore(t.TempDir())
	require.NoError(t, err)

	collector := metrics.NewCollector()
	clock := clockwork.NewFakeClockAt(time.Date(2026, time.August, 23, 10, 0, 0, 0, time.UTC))

	opts := github.ClientOptions{
		CacheEnabled: true,
		CacheTTL:     300 * time.Second,
		Buffer:       100,
		Floor:        10,
		MaxSleep:     60 * time.Second,
		Clock:        clock,
	}
	for _, m := range mutate {
		m(&opts)
	}

	return &clientHarness{
		client:    github.NewClient(runner, store, quietLogger(t), collector, opts),
		runner:    runner,
		collector: collector,
		clock:     clock,
	}
}

// quota renders a full rate limit document with the reset relative to
// the fake clock.
func (h *clientHarness) quota(remaining int, resetIn time.Duration) string {
	return fmt.Sprintf(
		`{"resources":{"core":{"limit":5000,"used":%d,"remaining":%d,"reset":%d}}}`,
		5000-remaining, remaining, h.clock.Now().Add(resetIn).Unix(),
	)
}

func (h *clientHarness) expectQuota(remaining int, resetIn time.Duration) {
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "rate_limit").
		Return(ghOK(h.quota(remaining, resetIn)), nil)
}

func ghOK(stdout string) ports.RunnerResult {
	return ports.RunnerResult{Stdout: []byte(stdout)}
}

func ghFailed(code int, stderr string) ports.RunnerResult {
	return ports.RunnerResult{ExitCode: code, Stderr: stderr}
}

func TestClient_Call_LiveThenCached(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "repos/acme/widgets/actions/runs?per_page=50").
		Return(ghOK(`{"total_count":2}`), nil)

	first, err := h.client.Call(context.Background(), "repos/acme/widgets/actions/runs?per_page=50")
	require.NoError(t, err)
	assert.Equal(t, `{"total_count":2}`, string(first))

	// The second call must be answered from the cache; the mock would
	// fail on another runner invocation.
	second, err := h.client.Call(context.Background(), "repos/acme/widgets/actions/runs?per_page=50")
	require.NoError(t, err)
	assert.Equal(t, `{"total_count":2}`, string(second))

	s := h.collector.Snapshot()
	assert.Equal(t, int64(2), s.APICalls)
	assert.Equal(t, int64(1), s.CacheHits)
	assert.Equal(t, int64(1), s.CacheMisses)
	assert.Equal(t, int64(1), s.CacheWrites)
}

func TestClient_Call_EmptyEndpoint(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.Call(context.Background(), "")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidInput.Error())
	assert.Zero(t, h.collector.Snapshot().APICalls)
}

func TestClient_Call_CacheDisabled(t *testing.T) {
	h := newHarness(t, func(o *github.ClientOptions) { o.CacheEnabled = false })
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "rate_limit").
		Return(ghOK(h.quota(4800, time.Hour)), nil).
		Times(2)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "user").
		Return(ghOK(`{"login":"octocat"}`), nil).
		Times(2)

	for range 2 {
		payload, err := h.client.Call(context.Background(), "user")
		require.NoError(t, err)
		assert.Equal(t, `{"login":"octocat"}`, string(payload))
	}

	s := h.collector.Snapshot()
	assert.Equal(t, int64(2), s.APICalls)
	assert.Zero(t, s.CacheHits)
	assert.Zero(t, s.CacheMisses)
	assert.Zero(t, s.CacheWrites)
}

func TestClient_Call_UpstreamFailureNotCached(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	gomock.InOrder(
		h.runner.EXPECT().
			Run(gomock.Any(), "api", "repos/acme/widgets").
			Return(ghFailed(1, "HTTP 502 bad gateway"), nil),
		h.runner.EXPECT().
			Run(gomock.Any(), "api", "repos/acme/widgets").
			Return(ghOK(`{"id":1}`), nil),
	)

	_, err := h.client.Call(context.Background(), "repos/acme/widgets")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorContains(t, err, "gh api call failed")

	// The failure was not cached, so the retry goes live and succeeds.
	payload, err := h.client.Call(context.Background(), "repos/acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(payload))

	s := h.collector.Snapshot()
	assert.Equal(t, int64(2), s.CacheMisses)
	assert.Equal(t, int64(1), s.CacheWrites)
}

func TestClient_Call_SpawnFailure(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "user").
		Return(ports.RunnerResult{ExitCode: -1}, assert.AnError)

	_, err := h.client.Call(context.Background(), "user")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestClient_Call_MalformedBodyStillCached(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "user").
		Return(ghOK("<!DOCTYPE html>"), nil)

	payload, err := h.client.Call(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html>", string(payload))

	cached, err := h.client.Call(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html>", string(cached))
}

func TestClient_Call_RateLimitedAbortsBeforeLiveCall(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(1, 2*time.Hour)

	_, err := h.client.Call(context.Background(), "repos/acme/widgets")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)

	s := h.collector.Snapshot()
	assert.Equal(t, int64(1), s.CacheMisses)
	assert.Zero(t, s.CacheWrites)
	assert.Equal(t, int64(1), s.RateLimitWarnings)
}

func TestClient_Delete_NeverCached(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "-X", "DELETE", "repos/acme/widgets/actions/runs/42").
		Return(ghOK(""), nil).
		Times(2)

	require.NoError(t, h.client.Delete(context.Background(), "repos/acme/widgets/actions/runs/42"))
	require.NoError(t, h.client.Delete(context.Background(), "repos/acme/widgets/actions/runs/42"))

	s := h.collector.Snapshot()
	assert.Equal(t, int64(2), s.APICalls)
	assert.Zero(t, s.CacheWrites)
}

func TestClient_Delete_EmptyEndpoint(t *testing.T) {
	h := newHarness(t)

	err := h.client.Delete(context.Background(), "")
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrInvalidInput.Error())
}

func TestClient_Delete_Failure(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "-X", "DELETE", "repos/acme/widgets/actions/runs/42").
		Return(ghFailed(1, "HTTP 403: Must have admin rights"), nil)

	err := h.client.Delete(context.Background(), "repos/acme/widgets/actions/runs/42")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestClient_CheckRateLimit_Healthy(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)

	require.NoError(t, h.client.CheckRateLimit(context.Background()))
	assert.Zero(t, h.collector.Snapshot().RateLimitWarnings)
}

func TestClient_CheckRateLimit_QuotaCachedWithinTTL(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)

	require.NoError(t, h.client.CheckRateLimit(context.Background()))
	require.NoError(t, h.client.CheckRateLimit(context.Background()))
}

func TestClient_CheckRateLimit_BelowBuffer(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(50, time.Hour)

	require.NoError(t, h.client.CheckRateLimit(context.Background()))
	assert.Equal(t, int64(1), h.collector.Snapshot().RateLimitWarnings)
}

func TestClient_CheckRateLimit_SleepsOutShortReset(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(5, 30*time.Second)

	done := make(chan error, 1)
	go func() {
		done <- h.client.CheckRateLimit(context.Background())
	}()

	h.clock.BlockUntil(1)

	// Halfway through the wait nothing may have fired yet.
	h.clock.Advance(15 * time.Second)
	select {
	case err := <-done:
		t.Fatalf("returned before the reset: %v", err)
	default:
	}

	h.clock.Advance(15 * time.Second)
	require.NoError(t, <-done)
	assert.Equal(t, int64(1), h.collector.Snapshot().RateLimitWarnings)
}

func TestClient_CheckRateLimit_RefusesLongWait(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(1, 2*time.Hour)

	err := h.client.CheckRateLimit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.ErrorContains(t, err, "api quota exhausted")
	assert.Equal(t, int64(1), h.collector.Snapshot().RateLimitWarnings)
}

func TestClient_CheckRateLimit_RefusesStaleReset(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(5, -10*time.Second)

	err := h.client.CheckRateLimit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestClient_CheckRateLimit_ZeroMaxSleepNeverWaits(t *testing.T) {
	h := newHarness(t, func(o *github.ClientOptions) { o.MaxSleep = 0 })
	h.expectQuota(5, 30*time.Second)

	err := h.client.CheckRateLimit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestClient_CheckRateLimit_CancelledDuringWait(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(5, 30*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- h.client.CheckRateLimit(ctx)
	}()

	h.clock.BlockUntil(1)
	cancel()

	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorContains(t, err, "interrupted while waiting for rate limit reset")
}

func TestClient_CheckRateLimit_UndecodableQuotaProceeds(t *testing.T) {
	h := newHarness(t)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "rate_limit").
		Return(ghOK("{}"), nil)

	require.NoError(t, h.client.CheckRateLimit(context.Background()))
	assert.Zero(t, h.collector.Snapshot().RateLimitWarnings)
}

func TestClient_CheckRateLimit_QuotaEndpointDown(t *testing.T) {
	h := newHarness(t)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "rate_limit").
		Return(ghFailed(1, "connection refused"), nil)

	err := h.client.CheckRateLimit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestClient_Metrics(t *testing.T) {
	h := newHarness(t)
	h.expectQuota(4800, time.Hour)
	h.runner.EXPECT().
		Run(gomock.Any(), "api", "user").
		Return(ghOK(`{"login":"octocat"}`), nil)

	_, err := h.client.Call(context.Background(), "user")
	require.NoError(t, err)
	_, err = h.client.Call(context.Background(), "user")
	require.NoError(t, err)

	m := h.client.Metrics()
	assert.Equal(t, int64(2), m.Calls)
	assert.Equal(t, int64(1), m.Hits)
	assert.InDelta(t, 50.0, m.HitRatePercent, 0.001)
	assert.Zero(t, m.Warnings)

	h.client.ResetMetrics()
	m = h.client.Metrics()
	assert.Zero(t, m.Calls)
	assert.Zero(t, m.Hits)
	assert.Zero(t, m.HitRatePercent)
}
