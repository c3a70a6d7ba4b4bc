package github

// DecodeRateLimitState exposes the payload decoder for tests.
var DecodeRateLimitState = decodeRateLimitState
