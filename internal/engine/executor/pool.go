package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/wfops/wfops/internal/adapters/metrics"
	"github.com/wfops/wfops/internal/core/domain"
	"github.com/wfops/wfops/internal/core/ports"
	"go.trai.ch/zerr"
)

// Options carries the concurrency tunables read from the configuration.
// A nil Clock means the wall clock.
type Options struct {
	// BaseJobs is the concurrency an unconstrained adaptive run starts
	// from. Explicit job counts bypass it.
	BaseJobs int

	// MinJobs is the floor the adaptive bound never goes below.
	MinJobs int

	// SystemMaxJobs caps every run, explicit or adaptive.
	SystemMaxJobs int

	// JobTimeout bounds a single item; zero disables the per-job limit.
	JobTimeout time.Duration

	// CheckInterval is how often an adaptive run re-consults the
	// resource monitor while items are still queued.
	CheckInterval time.Duration

	// Monitoring gates the resource monitor entirely. When false an
	// adaptive run uses BaseJobs as a fixed bound.
	Monitoring bool

	Clock clockwork.Clock
}

// Pool runs one named function over many items with bounded fan-out.
// A pool handles one Run at a time; every Run builds fresh run state.
type Pool struct {
	registry  *Registry
	monitor   ports.ResourceMonitor
	tracer    ports.Tracer
	logger    ports.Logger
	collector *metrics.Collector
	clock     clockwork.Clock
	opts      Options

	state atomic.Int32

	mu       sync.Mutex
	cleanups []func()
}

// NewPool assembles a pool over the given registry and monitor.
func NewPool(
	registry *Registry,
	monitor ports.ResourceMonitor,
	tracer ports.Tracer,
	logger ports.Logger,
	collector *metrics.Collector,
	opts Options,
) *Pool {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Pool{
		registry:  registry,
		monitor:   monitor,
		tracer:    tracer,
		logger:    logger,
		collector: collector,
		clock:     clock,
		opts:      opts,
	}
}

// State reports the phase of the current or most recent run.
func (p *Pool) State() domain.RunState {
	return domain.RunState(p.state.Load())
}

func (p *Pool) setState(s domain.RunState) {
	p.state.Store(int32(s))
}

// OnCleanup registers fn to run when a run is interrupted. Callbacks
// run in reverse registration order, exactly once.
func (p *Pool) OnCleanup(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleanups = append(p.cleanups, fn)
}

func (p *Pool) runCleanups() {
	p.mu.Lock()
	fns := p.cleanups
	p.cleanups = nil
	p.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Run dispatches every item to the function registered under name.
// jobs > 0 is an explicit bound (capped at SystemMaxJobs); jobs <= 0
// derives the bound from the resource monitor. One failing item never
// aborts the rest: the summary carries the exact failure count and the
// error is domain.ErrJobsFailed when any item failed, or
// domain.ErrInterrupted when the context was cancelled first.
func (p *Pool) Run(
	ctx context.Context,
	function string,
	jobs int,
	items []string,
) (domain.RunSummary, error) {
	fn, err := p.registry.Resolve(function)
	if err != nil {
		return domain.RunSummary{}, err
	}
	if len(items) == 0 {
		return domain.RunSummary{}, domain.ErrNoItems
	}

	bound, err := p.admissionBound(jobs)
	if err != nil {
		return domain.RunSummary{}, err
	}

	p.tracer.EmitRunPlan(ctx, function, bound, len(items))

	st := &runState{
		pool:      p,
		ctx:       ctx,
		fn:        fn,
		function:  function,
		queue:     items,
		limit:     bound,
		initial:   bound,
		resultsCh: make(chan domain.JobResult, bound),
		summary: domain.RunSummary{
			Function: function,
			Jobs:     bound,
			Total:    len(items),
		},
	}

	if jobs <= 0 && p.opts.Monitoring && p.opts.CheckInterval > 0 {
		ticker := p.clock.NewTicker(p.opts.CheckInterval)
		defer ticker.Stop()
		st.ticker = ticker
	}

	return st.run()
}

// admissionBound resolves the starting concurrency for one run.
func (p *Pool) admissionBound(jobs int) (int, error) {
	if jobs > 0 {
		if jobs > p.opts.SystemMaxJobs {
			return p.opts.SystemMaxJobs, nil
		}
		return jobs, nil
	}

	if !p.opts.Monitoring {
		return p.opts.BaseJobs, nil
	}

	optimal, err := p.monitor.OptimalJobs(p.opts.BaseJobs, p.opts.MinJobs, p.opts.SystemMaxJobs)
	if err != nil {
		return 0, err
	}
	return optimal, nil
}

// runState is the per-run bookkeeping. Only the run loop touches it;
// workers communicate through resultsCh alone.
type runState struct {
	pool      *Pool
	ctx       context.Context
	fn        JobFunc
	function  string
	queue     []string
	active    int
	limit     int
	initial   int
	resultsCh chan domain.JobResult
	ticker    clockwork.Ticker
	summary   domain.RunSummary
	errs      error
}

func (st *runState) run() (domain.RunSummary, error) {
	started := st.pool.clock.Now()

	for !st.done() {
		st.pool.setState(domain.StateDispatching)
		st.dispatch()

		if st.done() {
			break
		}

		if st.ctx.Err() != nil {
			st.drain()
			break
		}

		st.pool.setState(domain.StateAwaiting)
		st.await()
	}

	st.pool.setState(domain.StateAggregating)
	st.summary.Interrupted = len(st.queue)
	st.summary.Elapsed = st.pool.clock.Since(started)

	defer st.pool.setState(domain.StateDone)
	return st.summary, st.finalError()
}

// dispatch admits queued items while the bound allows and the context
// is still live.
func (st *runState) dispatch() {
	for len(st.queue) > 0 && st.active < st.limit && st.ctx.Err() == nil {
		item := st.queue[0]
		st.queue = st.queue[1:]
		st.active++
		go st.execute(item)
	}
}

// await blocks for the next result, adaptive re-check or cancellation.
func (st *runState) await() {
	if st.ticker != nil {
		select {
		case res := <-st.resultsCh:
			st.collect(res)
		case <-st.ticker.Chan():
			st.adapt()
		case <-st.ctx.Done():
		}
		return
	}

	select {
	case res := <-st.resultsCh:
		st.collect(res)
	case <-st.ctx.Done():
	}
}

// drain joins the in-flight workers after cancellation. No new items
// are admitted; queued items stay unattempted.
func (st *runState) drain() {
	for st.active > 0 {
		st.collect(<-st.resultsCh)
	}
}

// execute runs one item in a worker goroutine. Spans are named by the
// item so renderers can label concurrent output. The result closure
// ends the span before the result is sent, so the run loop never
// finishes ahead of the span stream.
func (st *runState) execute(item string) {
	res := func() domain.JobResult {
		ctx, span := st.pool.tracer.Start(st.ctx, item)
		defer span.End()
		span.SetAttribute("job.function", st.function)

		start := st.pool.clock.Now()
		err := st.invoke(ctx, item)
		if err != nil {
			span.RecordError(err)
		}

		return domain.JobResult{
			Item:     item,
			Err:      err,
			Duration: st.pool.clock.Since(start),
		}
	}()

	st.resultsCh <- res
}

// invoke calls the job function with panic recovery and the optional
// per-job timeout.
func (st *runState) invoke(ctx context.Context, item string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.New("job panicked"), "panic", fmt.Sprintf("%v", r))
		}
	}()

	if st.pool.opts.JobTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, st.pool.opts.JobTimeout)
		defer cancel()
	}

	err = st.fn(ctx, item)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && st.ctx.Err() == nil {
		return errors.Join(domain.ErrJobTimeout, err)
	}
	return err
}

func (st *runState) collect(res domain.JobResult) {
	st.active--
	st.pool.collector.RecordOperation(res.Err == nil)

	if res.Err != nil {
		st.summary.Failed++
		detail := zerr.With(zerr.New("job failed"), "item", res.Item)
		st.errs = errors.Join(st.errs, detail, res.Err)
		return
	}
	st.summary.Completed++
}

// adapt re-consults the resource monitor and shrinks or restores the
// admission bound, never past the bound the run started with.
func (st *runState) adapt() {
	jobs, err := st.pool.monitor.OptimalJobs(
		st.pool.opts.BaseJobs,
		st.pool.opts.MinJobs,
		st.pool.opts.SystemMaxJobs,
	)
	if err != nil {
		return
	}
	if jobs > st.initial {
		jobs = st.initial
	}
	if jobs != st.limit {
		st.pool.logger.Debug(fmt.Sprintf("adjusting parallelism from %d to %d", st.limit, jobs))
		st.limit = jobs
	}
}

func (st *runState) done() bool {
	return st.active == 0 && len(st.queue) == 0
}

func (st *runState) finalError() error {
	if st.ctx.Err() != nil {
		st.pool.runCleanups()
		err := errors.Join(domain.ErrInterrupted, st.ctx.Err())
		if st.errs != nil {
			err = errors.Join(err, st.errs)
		}
		return err
	}

	if st.summary.Failed > 0 {
		detail := zerr.With(zerr.New("run completed with failures"), "failed", st.summary.Failed)
		return errors.Join(domain.ErrJobsFailed, detail, st.errs)
	}
	return nil
}
