// Package domain contains the core types shared by all adapters.
package domain

import (
	"path/filepath"
	"strings"
)

// CacheKeyLength is the length of a hex-encoded cache key.
const CacheKeyLength = 64

// CacheKey identifies one cache entry. Keys are lowercase hex sha256
// digests and double as entry file names inside the cache directory.
type CacheKey string

// String returns the key as a plain string.
func (k CacheKey) String() string {
	return string(k)
}

// Valid reports whether the key is a well-formed 64-character hex digest.
// Only valid keys may be joined onto the cache directory path.
func (k CacheKey) Valid() bool {
	if len(k) != CacheKeyLength {
		return false
	}
	for _, c := range k {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// ContainsTraversal reports whether the identifier has a parent-directory
// path segment. Identifiers with traversal segments are rejected before
// any filesystem access.
func ContainsTraversal(identifier string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(identifier), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
