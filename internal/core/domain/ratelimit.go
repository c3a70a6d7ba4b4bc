package domain

import "time"

// RateLimitState is the quota snapshot read before every live API call.
// It is derived from the provider's rate limit endpoint and persisted
// only as its own cache entry.
type RateLimitState struct {
	// Limit is the total request budget of the current window.
	Limit int

	// Used is the number of requests already spent.
	Used int

	// Remaining is the number of requests left in the window.
	Remaining int

	// Reset is the epoch second at which the window rolls over.
	Reset int64
}

// ResetIn returns the duration from now until the window resets.
// The result is negative when the reset time has already passed.
func (s RateLimitState) ResetIn(now time.Time) time.Duration {
	return time.Unix(s.Reset, 0).Sub(now)
}
