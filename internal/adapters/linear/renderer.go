// Package linear renders run progress as chronological prefixed lines
// for terminals and CI logs.
package linear

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/muesli/termenv"
	"github.com/wfops/wfops/internal/core/ports"
	"github.com/wfops/wfops/internal/ui/output"
	"github.com/wfops/wfops/internal/ui/style"
)

var _ ports.Renderer = (*Renderer)(nil)

// itemPalette holds the prefix colors. An item's color is derived from
// its name, so the same item keeps its color across lines and runs.
var itemPalette = []termenv.Color{
	termenv.ANSIBlue,
	termenv.ANSICyan,
	termenv.ANSIMagenta,
	termenv.ANSIYellow,
	termenv.ANSIGreen,
}

// Renderer implements ports.Renderer with synchronous, line-buffered
// output. Job output goes to stdout prefixed with the item label;
// lifecycle messages go to stderr.
type Renderer struct {
	stdout io.Writer
	stderr io.Writer
	output *termenv.Output

	announceStarts bool

	mu      sync.Mutex
	jobs    map[string]*jobState // spanID -> state
	buffers map[string]*bytes.Buffer
}

type jobState struct {
	item      string
	startTime time.Time
}

// NewRenderer creates a renderer writing job output to stdout and
// lifecycle messages to stderr. Nil writers fall back to the process
// streams. The default color profile is plain ANSI, which CI systems
// render; NO_COLOR disables it.
func NewRenderer(stdout, stderr io.Writer) *Renderer {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Renderer{
		stdout:         stdout,
		stderr:         stderr,
		output:         output.NewWithProfile(stderr, output.ColorProfileANSI),
		announceStarts: true,
		jobs:           make(map[string]*jobState),
		buffers:        make(map[string]*bytes.Buffer),
	}
}

// WithProfile overrides the color profile.
func (r *Renderer) WithProfile(profile termenv.Profile) *Renderer {
	r.output = termenv.NewOutput(r.stderr, termenv.WithProfile(profile), termenv.WithTTY(true))
	return r
}

// WithStartLines controls whether each job announces itself when it
// starts. CI logs usually only want completion lines.
func (r *Renderer) WithStartLines(enabled bool) *Renderer {
	r.announceStarts = enabled
	return r
}

// Start is a no-op; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop flushes buffered partial lines of jobs still in flight.
func (r *Renderer) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for spanID := range r.buffers {
		r.flushBufferLocked(spanID)
	}

	return nil
}

// Wait is a no-op; Stop leaves nothing pending.
func (r *Renderer) Wait() error {
	return nil
}

// OnRunPlan prints the run header.
func (r *Renderer) OnRunPlan(function string, jobs, items int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, _ = fmt.Fprintf(r.stderr, "Running %s on %d item(s) with %d job(s)\n",
		function, items, jobs)
}

// OnJobStart registers the job and optionally announces it.
func (r *Renderer) OnJobStart(spanID, item string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[spanID] = &jobState{
		item:      item,
		startTime: startTime,
	}
	r.buffers[spanID] = new(bytes.Buffer)

	if !r.announceStarts {
		return
	}
	_, _ = fmt.Fprintf(r.stderr, "%s Starting...\n", r.prefix(item))
}

// OnJobLog buffers output and prints complete lines with the item
// prefix.
func (r *Renderer) OnJobLog(spanID string, data []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	buf.Write(data)

	for {
		line, err := buf.ReadBytes('\n')
		if err != nil {
			// Keep the partial tail for the next chunk.
			if len(line) > 0 {
				rest := new(bytes.Buffer)
				rest.Write(line)
				r.buffers[spanID] = rest
			}
			break
		}

		r.printLineLocked(job.item, line)
	}
}

// OnJobComplete flushes remaining output and prints the result line.
func (r *Renderer) OnJobComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[spanID]
	if !ok {
		return
	}

	r.flushBufferLocked(spanID)

	duration := endTime.Sub(job.startTime).Round(time.Millisecond)
	prefix := r.prefix(job.item)

	if err != nil {
		symbol := r.output.String(style.Cross).Foreground(termenv.ANSIRed).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Failed after %v: %v\n",
			prefix, symbol, duration, err)
	} else {
		symbol := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
		_, _ = fmt.Fprintf(r.stderr, "%s %s Completed in %v\n",
			prefix, symbol, duration)
	}

	delete(r.jobs, spanID)
	delete(r.buffers, spanID)
}

// prefix renders the bracketed item label in the item's color.
func (r *Renderer) prefix(item string) string {
	idx := xxhash.Sum64String(item) % uint64(len(itemPalette))
	return r.output.String("[" + item + "]").Foreground(itemPalette[idx]).String()
}

// flushBufferLocked prints whatever partial line a job has buffered.
// Must be called with r.mu held.
func (r *Renderer) flushBufferLocked(spanID string) {
	job, ok := r.jobs[spanID]
	if !ok {
		return
	}

	buf := r.buffers[spanID]
	if buf.Len() > 0 {
		r.printLineLocked(job.item, buf.Bytes())
		buf.Reset()
	}
}

// printLineLocked prints one output line with a plain item prefix.
// stdout stays free of escape codes so it can be piped and grepped.
// Must be called with r.mu held.
func (r *Renderer) printLineLocked(item string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))

	if len(line) == 0 {
		return
	}

	_, _ = fmt.Fprintf(r.stdout, "[%s] %s\n", item, string(line))
}
