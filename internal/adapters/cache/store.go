// Package cache implements the content-addressed on-disk cache store.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/wfops/wfops/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.CacheStore using a file-per-key strategy.
// Writes go through a unique temp file and an atomic rename, so no
// locking is required for concurrent access; an entry's mtime is the
// sole validity signal.
type Store struct {
	dir string
}

// NewStore creates a cache store rooted at dir, creating the directory
// with owner-only permissions if needed.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, zerr.With(domain.ErrInvalidInput, "reason", "empty cache directory")
	}
	if domain.ContainsTraversal(dir) {
		return nil, zerr.With(domain.ErrTraversalPath, "dir", dir)
	}

	clean := filepath.Clean(dir)
	if err := os.MkdirAll(clean, domain.CacheDirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	return &Store{dir: clean}, nil
}

// Dir returns the cache directory the store operates on.
func (s *Store) Dir() string {
	return s.dir
}

// Key derives the deterministic key for a freeform identifier plus
// caller context.
func (s *Store) Key(identifier, context string) (domain.CacheKey, error) {
	if identifier == "" {
		return "", zerr.With(domain.ErrInvalidInput, "reason", "empty identifier")
	}
	if domain.ContainsTraversal(identifier) {
		return "", zerr.With(domain.ErrTraversalPath, "identifier", identifier)
	}

	return digestKey(identifier, context), nil
}

// KeyForFile derives the key for a file path from the canonical absolute
// path, the content digest and the modification time. Any content or
// timestamp change yields a different key.
func (s *Store) KeyForFile(path, context string) (domain.CacheKey, error) {
	if path == "" {
		return "", zerr.With(domain.ErrInvalidInput, "reason", "empty path")
	}
	if domain.ContainsTraversal(path) {
		return "", zerr.With(domain.ErrTraversalPath, "path", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrInvalidInput.Error()), "path", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheIO.Error()), "path", path)
	}

	digest, err := fileDigest(abs)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrCacheIO.Error()), "path", path)
	}

	mtime := strconv.FormatInt(info.ModTime().UnixNano(), 10)
	return digestKey(abs, digest, mtime, context), nil
}

// Get returns the stored payload when the entry exists and is younger
// than ttl. An absent or expired entry reports domain.ErrCacheMiss.
func (s *Store) Get(key domain.CacheKey, ttl time.Duration) ([]byte, error) {
	if err := validKey(key); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		return nil, zerr.With(domain.ErrInvalidInput, "ttl", ttl.String())
	}

	path := s.entryPath(key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	if time.Since(info.ModTime()) >= ttl {
		return nil, domain.ErrCacheMiss
	}

	//nolint:gosec // Path is the cache dir plus a validated hex key
	data, err := os.ReadFile(path)
	if err != nil {
		// Swept between stat and read
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrCacheMiss
		}
		return nil, zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	return data, nil
}

// Put stores the payload under key. The payload lands in a unique temp
// file first and is renamed over the target, so concurrent readers never
// observe partial data. A failed write leaves no temp file behind.
func (s *Store) Put(key domain.CacheKey, payload []byte) error {
	if err := validKey(key); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, string(key)+".*.tmp")
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	if err := os.Rename(tmp.Name(), s.entryPath(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	return nil
}

// Sweep removes every entry older than ttl and reports how many were
// removed. Orphaned temp files from failed writes are collected too.
func (s *Store) Sweep(ttl time.Duration) (int, error) {
	if ttl <= 0 {
		return 0, zerr.With(domain.ErrInvalidInput, "ttl", ttl.String())
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !ownsEntry(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed by a concurrent sweep
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return removed, zerr.Wrap(err, domain.ErrCacheIO.Error())
		}

		if time.Since(info.ModTime()) <= ttl {
			continue
		}

		if err := s.removeEntry(entry.Name()); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// Flush removes every entry regardless of age. Files not created by the
// store are left untouched.
func (s *Store) Flush() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheIO.Error())
	}

	for _, entry := range entries {
		if entry.IsDir() || !ownsEntry(entry.Name()) {
			continue
		}
		if err := s.removeEntry(entry.Name()); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) removeEntry(name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return zerr.Wrap(err, domain.ErrCacheIO.Error())
	}
	return nil
}

func (s *Store) entryPath(key domain.CacheKey) string {
	return filepath.Join(s.dir, string(key))
}

// ownsEntry reports whether a directory entry was created by the store:
// either a key-named file or a temp file left by an interrupted write.
func ownsEntry(name string) bool {
	if domain.CacheKey(name).Valid() {
		return true
	}
	if !strings.HasSuffix(name, ".tmp") {
		return false
	}
	return len(name) > domain.CacheKeyLength && domain.CacheKey(name[:domain.CacheKeyLength]).Valid()
}

func validKey(key domain.CacheKey) error {
	if !key.Valid() {
		return zerr.With(domain.ErrInvalidCacheKey, "key", string(key))
	}
	return nil
}

// digestKey hashes the given parts into a 64-character hex key. Parts
// are joined with a zero byte so distinct part boundaries cannot collide.
func digestKey(parts ...string) domain.CacheKey {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return domain.CacheKey(hex.EncodeToString(sum[:]))
}

// fileDigest computes the xxhash64 content digest of the file at path.
func fileDigest(path string) (string, error) {
	//nolint:gosec // Path was validated against traversal by the caller
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}

	return strconv.FormatUint(h.Sum64(), 16), nil
}
