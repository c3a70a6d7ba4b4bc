package watcher

import (
	"sync"
	"unique"

	"github.com/wfops/wfops/internal/core/ports"
)

// ChangeFilter suppresses events for files whose content is unchanged
// since the last observation. Editor atomic saves and CI checkouts
// rewrite files byte for byte; re-validating those is wasted work.
type ChangeFilter struct {
	mu      sync.Mutex
	hasher  ports.FileHasher
	digests map[unique.Handle[string]]string
}

// NewChangeFilter creates a filter that digests files with hasher.
func NewChangeFilter(hasher ports.FileHasher) *ChangeFilter {
	return &ChangeFilter{
		hasher:  hasher,
		digests: make(map[unique.Handle[string]]string),
	}
}

// Record stores a known digest for path without reporting a change.
// Seeding the filter from discovery results keeps the first watch batch
// limited to real edits.
func (f *ChangeFilter) Record(path, digest string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.digests[unique.Make(path)] = digest
}

// Changed reports whether path's content differs from its recorded
// digest, and records the new digest. A path seen for the first time
// counts as changed. An unreadable path counts as changed and loses its
// recorded digest, so a file deleted mid-batch still surfaces.
func (f *ChangeFilter) Changed(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	handle := unique.Make(path)
	digest, err := f.hasher.Digest(path)
	if err != nil {
		delete(f.digests, handle)
		return true
	}

	if previous, ok := f.digests[handle]; ok && previous == digest {
		return false
	}
	f.digests[handle] = digest
	return true
}

// Forget drops the recorded digest for path. Remove and rename events
// call this so a path recreated later counts as changed.
func (f *ChangeFilter) Forget(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.digests, unique.Make(path))
}
