// Package ports defines the core interfaces for the application.
package ports

import (
	"time"

	"github.com/wfops/wfops/internal/core/domain"
)

// CacheStore is a content-addressed key-value store on local disk with
// TTL-validated reads and atomic writes.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type CacheStore interface {
	// Key derives the deterministic key for a freeform identifier plus
	// optional caller context. Empty identifiers and identifiers with
	// parent-directory segments are rejected as invalid input.
	Key(identifier, context string) (domain.CacheKey, error)

	// KeyForFile derives the key for a file path. The key incorporates
	// the canonical absolute path, the content digest and the
	// modification time, so any content or timestamp change yields a
	// different key.
	KeyForFile(path, context string) (domain.CacheKey, error)

	// Get returns the stored payload when the entry exists and is
	// younger than ttl. An absent or expired entry is reported as
	// domain.ErrCacheMiss, not as a failure.
	Get(key domain.CacheKey, ttl time.Duration) ([]byte, error)

	// Put stores the payload under key via a unique temp file and an
	// atomic rename. Concurrent readers never observe partial data.
	Put(key domain.CacheKey, payload []byte) error

	// Sweep removes every entry older than ttl and reports how many
	// were removed. A non-positive ttl is invalid input.
	Sweep(ttl time.Duration) (int, error)

	// Flush removes every entry regardless of age.
	Flush() error

	// Dir returns the cache directory the store operates on.
	Dir() string
}
