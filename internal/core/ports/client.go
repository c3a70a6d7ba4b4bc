package ports

import (
	"context"

	"github.com/wfops/wfops/internal/core/domain"
)

// APIClient is the rate-limit-aware, cache-first API surface.
// Payloads pass through uninterpreted; parsing is the caller's concern.
//
//go:generate mockgen -source=client.go -destination=mocks/mock_client.go -package=mocks
type APIClient interface {
	// Call fetches the endpoint, consulting the cache first. On a miss
	// it checks the remaining quota, performs the live call and caches
	// the successful payload. Failed calls are never cached.
	Call(ctx context.Context, endpoint string) ([]byte, error)

	// Delete issues a destructive call against the endpoint. Never
	// cached, but still quota-checked.
	Delete(ctx context.Context, endpoint string) error

	// CheckRateLimit verifies the remaining quota, warning below the
	// soft buffer and sleeping out a short reset when below the hard
	// floor. An infeasible wait is domain.ErrRateLimited.
	CheckRateLimit(ctx context.Context) error

	// Metrics reads the client's counters.
	Metrics() domain.ClientMetrics

	// ResetMetrics zeroes the client's counters.
	ResetMetrics()
}
