// Package app implements the application layer for wfops.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/wfops/wfops/internal/adapters/config"
	"github.com/wfops/wfops/internal/adapters/detector"
	"github.com/wfops/wfops/internal/adapters/linear"
	"github.com/wfops/wfops/internal/adapters/metrics"
	"github.com/wfops/wfops/internal/adapters/telemetry"
	"github.com/wfops/wfops/internal/adapters/watcher"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"github.com/wfops/wfops/internal/engine/executor"
	"github.com/wfops/wfops/internal/ui/output"
)

// Registered job function names. `wfops run` dispatches any of them;
// validate, cleanup and watch reuse them internally.
const (
	functionValidate  = "validate"
	functionFetch     = "fetch"
	functionDigest    = "digest"
	functionDeleteRun = "delete-run"
)

// App represents the main application logic.
type App struct {
	cfg       *config.Config
	logger    ports.Logger
	monitor   ports.ResourceMonitor
	client    ports.APIClient
	store     ports.CacheStore
	source    ports.WorkflowSource
	validator ports.WorkflowValidator
	hasher    ports.FileHasher
	collector *metrics.Collector
	watch     ports.Watcher
	changes   *watcher.ChangeFilter

	registry *executor.Registry

	stdout io.Writer
	stderr io.Writer
}

// New creates a new App instance with the built-in job functions
// registered.
func New(
	cfg *config.Config,
	log ports.Logger,
	monitor ports.ResourceMonitor,
	client ports.APIClient,
	store ports.CacheStore,
	source ports.WorkflowSource,
	validator ports.WorkflowValidator,
	hasher ports.FileHasher,
	collector *metrics.Collector,
	watch ports.Watcher,
	changes *watcher.ChangeFilter,
) (*App, error) {
	a := &App{
		cfg:       cfg,
		logger:    log,
		monitor:   monitor,
		client:    client,
		store:     store,
		source:    source,
		validator: validator,
		hasher:    hasher,
		collector: collector,
		watch:     watch,
		changes:   changes,
		registry:  executor.NewRegistry(),
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}

	if err := a.registerJobs(); err != nil {
		return nil, err
	}
	return a, nil
}

// WithOutput redirects renderer and report output.
// This is primarily used for testing to capture what a run prints.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// Functions lists the registered job function names in sorted order.
func (a *App) Functions() []string {
	return a.registry.Names()
}

// RunOptions configuration for the Run method.
type RunOptions struct {
	Jobs          int
	OutputMode    string
	Metrics       bool
	ExportMetrics string
}

// Run dispatches the named function over the items with bounded
// fan-out. jobs <= 0 derives the bound from the resource monitor.
func (a *App) Run(ctx context.Context, function string, items []string, opts RunOptions) error {
	runErr := a.runWithRenderer(ctx, opts.OutputMode, func(ctx context.Context, tracer ports.Tracer) error {
		summary, err := a.pool(tracer).Run(ctx, function, opts.Jobs, items)
		a.logSummary(summary)
		return err
	})

	if opts.Metrics {
		if err := a.collector.Report(a.stderr); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	if opts.ExportMetrics != "" {
		if err := a.exportMetrics(opts.ExportMetrics); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}

// ValidateOptions configuration for the Validate method.
type ValidateOptions struct {
	Jobs       int
	OutputMode string
}

// Validate discovers the workflow files and runs the structural rules
// over each of them through the executor. Any file with findings makes
// the whole validation fail.
func (a *App) Validate(ctx context.Context, opts ValidateOptions) error {
	files, err := a.source.Discover(a.cfg.WorkflowsDir)
	if err != nil {
		return err
	}

	items := make([]string, len(files))
	for i, file := range files {
		items[i] = file.Path
	}

	return a.runWithRenderer(ctx, opts.OutputMode, func(ctx context.Context, tracer ports.Tracer) error {
		summary, runErr := a.pool(tracer).Run(ctx, functionValidate, opts.Jobs, items)
		a.logSummary(summary)
		if summary.Failed > 0 {
			return errors.Join(domain.ErrValidationFailed, runErr)
		}
		return runErr
	})
}

// CleanupOptions configuration for the Cleanup method.
type CleanupOptions struct {
	Repository string
	OlderThan  time.Duration
	Runs       bool
	Cache      bool
	Flush      bool
	Jobs       int
	OutputMode string
}

// Cleanup removes expired cache entries and old workflow runs based on
// the provided options. Partial failures are accumulated, not
// short-circuited.
func (a *App) Cleanup(ctx context.Context, opts CleanupOptions) error {
	var errs error

	switch {
	case opts.Flush:
		if err := a.store.Flush(); err != nil {
			errs = errors.Join(errs, err)
		} else {
			a.logger.Info("cache flushed")
		}
	case opts.Cache:
		removed, err := a.store.Sweep(a.cfg.CacheTTL)
		if err != nil {
			errs = errors.Join(errs, err)
		} else {
			a.collector.RecordCacheSweep(removed)
			a.logger.Info(fmt.Sprintf("removed %d expired cache entries", removed))
		}
	}

	if opts.Runs {
		if err := a.cleanupRuns(ctx, opts); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}

// cleanupRuns lists the repository's workflow runs and deletes every
// run older than the cutoff through the executor, best effort.
func (a *App) cleanupRuns(ctx context.Context, opts CleanupOptions) error {
	if opts.OlderThan <= 0 {
		return errors.Join(domain.ErrInvalidInput, zerr.New("cleanup cutoff must be positive"))
	}

	repo, err := a.repository(opts.Repository)
	if err != nil {
		return err
	}

	payload, err := a.client.Call(ctx, fmt.Sprintf("repos/%s/actions/runs?per_page=%d", repo, cleanupListLimit))
	if err != nil {
		return err
	}

	runs, err := decodeRuns(payload)
	if err != nil {
		return err
	}

	cutoff := time.Now().Add(-opts.OlderThan)
	var items []string
	for _, run := range runs {
		if !run.UpdatedAt.IsZero() && run.UpdatedAt.Before(cutoff) {
			items = append(items, fmt.Sprintf("repos/%s/actions/runs/%d", repo, run.ID))
		}
	}
	if len(items) == 0 {
		a.logger.Info(fmt.Sprintf("no runs older than %s", opts.OlderThan))
		return nil
	}

	return a.runWithRenderer(ctx, opts.OutputMode, func(ctx context.Context, tracer ports.Tracer) error {
		summary, runErr := a.pool(tracer).Run(ctx, functionDeleteRun, opts.Jobs, items)
		a.logSummary(summary)
		return runErr
	})
}

// ReportOptions configuration for the Report method.
type ReportOptions struct {
	JSON     bool
	FromFile string
	Textfile string
}

// Report renders the metrics counters. FromFile renders a previously
// exported snapshot instead of the live collector; Textfile
// additionally writes the Prometheus textfile.
func (a *App) Report(w io.Writer, opts ReportOptions) error {
	if opts.FromFile != "" {
		data, err := os.ReadFile(opts.FromFile)
		if err != nil {
			return zerr.Wrap(err, "failed to read metrics export")
		}
		snapshot, err := metrics.ParseExport(data)
		if err != nil {
			return err
		}
		return metrics.ReportSnapshot(w, snapshot)
	}

	if opts.Textfile != "" {
		if err := a.collector.WriteTextfile(opts.Textfile); err != nil {
			return err
		}
	}

	if opts.JSON {
		payload, err := a.collector.ExportJSON()
		if err != nil {
			return err
		}
		payload = append(payload, '\n')
		if _, err := w.Write(payload); err != nil {
			return zerr.Wrap(err, "failed to write metrics report")
		}
		return nil
	}
	return a.collector.Report(w)
}

// repository resolves the target repository from the flag or the
// project configuration.
func (a *App) repository(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if a.cfg.Repository != "" {
		return a.cfg.Repository, nil
	}
	return "", errors.Join(
		domain.ErrRepositoryUnknown,
		zerr.New("pass --repo or set repository in "+domain.ProjectFileName),
	)
}

// pool assembles a fresh executor pool wired to the given tracer. Pools
// carry per-run state, so every traced operation builds its own.
func (a *App) pool(tracer ports.Tracer) *executor.Pool {
	return executor.NewPool(a.registry, a.monitor, tracer, a.logger, a.collector, executor.Options{
		BaseJobs:      a.cfg.MaxParallelJobs,
		MinJobs:       a.cfg.MinParallelJobs,
		SystemMaxJobs: a.cfg.MaxSystemParallelJobs,
		JobTimeout:    a.cfg.ParallelJobTimeout,
		CheckInterval: a.cfg.ResourceCheckInterval,
		Monitoring:    a.cfg.ResourceMonitorEnabled,
	})
}

// runWithRenderer owns the renderer and telemetry lifecycle around one
// traced operation. The work function receives the tracer wired to the
// renderer and runs concurrently with the renderer loop.
func (a *App) runWithRenderer(
	ctx context.Context,
	outputMode string,
	work func(ctx context.Context, tracer ports.Tracer) error,
) error {
	mode := detector.ResolveMode(detector.DetectEnvironment(), outputMode)

	renderer := linear.NewRenderer(a.stdout, a.stderr)
	if mode == detector.ModeInteractive {
		renderer = renderer.WithProfile(output.ColorProfile())
	} else {
		renderer = renderer.WithStartLines(false)
	}

	// Configure the global OTel SDK to report every started span to the
	// renderer.
	bridge := telemetry.NewBridge(renderer)
	setupOTel(bridge)

	// The renderer is also injected directly so span output streams
	// through the batcher.
	tracer := telemetry.NewOTelTracer("wfops").WithRenderer(renderer)
	defer func() {
		_ = tracer.Shutdown(ctx)
	}()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(a.stderr, "wfops panic: %v\n", r)
			}
			_ = renderer.Stop()
		}()

		return work(ctx, tracer)
	})

	return g.Wait()
}

// logSummary reports the outcome of one executor run.
func (a *App) logSummary(s domain.RunSummary) {
	if s.Total == 0 {
		return
	}

	msg := fmt.Sprintf("%s: %d/%d completed, %d failed, %d interrupted in %s",
		s.Function, s.Completed, s.Total, s.Failed, s.Interrupted,
		s.Elapsed.Round(time.Millisecond))

	if s.Failed > 0 || s.Interrupted > 0 {
		a.logger.Warn(msg)
		return
	}
	a.logger.Info(msg)
}

// exportMetrics writes the counter snapshot to path for a later
// `report --from`.
func (a *App) exportMetrics(path string) error {
	payload, err := a.collector.ExportJSON()
	if err != nil {
		return err
	}
	payload = append(payload, '\n')

	if err := os.WriteFile(path, payload, domain.FilePerm); err != nil {
		return zerr.Wrap(err, "failed to write metrics export")
	}
	return nil
}

// setupOTel configures the OpenTelemetry SDK with the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
}
