package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/wfops/wfops/internal/adapters/watcher"
	"github.com/wfops/wfops/internal/adapters/workflows"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"github.com/wfops/wfops/internal/engine/executor"
)

// watchBatchBuffer bounds how many debounced batches may queue while a
// revalidation is still running.
const watchBatchBuffer = 16

// WatchOptions configuration for the Watch method.
type WatchOptions struct {
	Jobs       int
	OutputMode string
}

// Watch revalidates workflow files as they change on disk. An initial
// pass covers every discovered file; after that, debounced batches of
// content-changed files are revalidated until ctx is cancelled. Files
// failing validation keep the watch alive.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	// The watcher starts before discovery so a file changing between
	// the two still produces an event; the change filter absorbs the
	// duplicate validation.
	if err := a.watch.Start(ctx, a.cfg.WorkflowsDir); err != nil {
		return err
	}
	defer func() {
		_ = a.watch.Stop()
	}()

	files, err := a.source.Discover(a.cfg.WorkflowsDir)
	if err != nil {
		return err
	}
	for _, file := range files {
		a.changes.Record(file.Path, file.Digest)
	}

	items := make([]string, len(files))
	for i, file := range files {
		items[i] = file.Path
	}

	return a.runWithRenderer(ctx, opts.OutputMode, func(ctx context.Context, tracer ports.Tracer) error {
		pool := a.pool(tracer)

		if err := a.watchBatch(ctx, pool, opts.Jobs, items); err != nil {
			return err
		}

		batches := make(chan []string, watchBatchBuffer)
		debouncer := watcher.NewDebouncer(watcher.DefaultDebounceWindow, func(paths []string) {
			changed := a.changedPaths(paths)
			if len(changed) == 0 {
				return
			}
			select {
			case batches <- changed:
			case <-ctx.Done():
			}
		})

		pumpDone := make(chan struct{})
		go func() {
			defer close(pumpDone)
			a.pumpEvents(debouncer)
		}()

		a.logger.Info(fmt.Sprintf("watching %s", a.cfg.WorkflowsDir))

		for {
			select {
			case <-ctx.Done():
				return errors.Join(domain.ErrInterrupted, ctx.Err())
			case <-pumpDone:
				if ctx.Err() != nil {
					return errors.Join(domain.ErrInterrupted, ctx.Err())
				}
				return domain.ErrWatcherClosed
			case batch := <-batches:
				if err := a.watchBatch(ctx, pool, opts.Jobs, batch); err != nil {
					return err
				}
			}
		}
	})
}

// watchBatch revalidates one batch of workflow files. Per-file failures
// are reported and swallowed; anything else ends the watch.
func (a *App) watchBatch(ctx context.Context, pool *executor.Pool, jobs int, items []string) error {
	summary, err := pool.Run(ctx, functionValidate, jobs, items)
	a.logSummary(summary)

	if err != nil && !errors.Is(err, domain.ErrJobsFailed) {
		return err
	}
	return nil
}

// pumpEvents feeds watcher events into the debouncer until the event
// stream ends. Removed paths are forgotten so a recreated file always
// shows up as changed.
func (a *App) pumpEvents(debouncer *watcher.Debouncer) {
	for event := range a.watch.Events() {
		switch event.Operation {
		case ports.OpRemove, ports.OpRename:
			a.changes.Forget(event.Path)
		case ports.OpCreate, ports.OpWrite:
			if workflows.IsWorkflowFile(event.Path) {
				debouncer.Add(event.Path)
			}
		}
	}
}

// changedPaths keeps only the paths whose content digest moved since
// the last validation.
func (a *App) changedPaths(paths []string) []string {
	changed := make([]string, 0, len(paths))
	for _, path := range paths {
		if a.changes.Changed(path) {
			changed = append(changed, path)
		}
	}
	return changed
}
