// Package executor fans a registered processing function out over a
// list of work items with a resource-aware concurrency bound.
package executor

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"

	"github.com/wfops/wfops/internal/core/domain"
	"go.trai.ch/zerr"
)

// JobFunc processes one work item. The item string arrives exactly as
// submitted; the context carries the per-job timeout when configured.
type JobFunc func(ctx context.Context, item string) error

// functionNamePattern is the only shape a registered name may have.
// Dispatch never interprets names as code, but the same strings end up
// in logs, spans and cache identifiers, so they stay this narrow.
var functionNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Registry maps validated function names to callables. Runs resolve
// through the registry only, never through any dynamic lookup.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]JobFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]JobFunc)}
}

// Register binds fn to name. Re-registering a name replaces the
// previous function.
func (r *Registry) Register(name string, fn JobFunc) error {
	if !functionNamePattern.MatchString(name) {
		return errors.Join(
			domain.ErrInvalidInput,
			zerr.With(domain.ErrInvalidFunctionName, "name", name),
		)
	}
	if fn == nil {
		return errors.Join(domain.ErrInvalidInput, zerr.New("nil job function"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fns[name] = fn
	return nil
}

// Resolve returns the function registered under name.
func (r *Registry) Resolve(name string) (JobFunc, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.fns[name]
	if !ok {
		return nil, errors.Join(
			domain.ErrUnknownFunction,
			zerr.With(zerr.New("no function registered under this name"), "function", name),
		)
	}
	return fn, nil
}

// Names lists the registered function names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
