// Package telemetry implements the tracer port on the OpenTelemetry SDK
// and bridges span lifecycle events and span output to the renderer.
package telemetry

import (
	"bytes"
	"errors"
	"sync"
	"time"
)

const (
	// DefaultBatchSize is the buffered byte count that forces a flush.
	DefaultBatchSize = 4096
	// DefaultFlushInterval is the longest output sits buffered.
	DefaultFlushInterval = 50 * time.Millisecond
)

// Batcher coalesces many small writes into fewer callback invocations.
// Data is handed to onFlush once the size threshold is crossed or the
// flush interval elapses, whichever comes first. Safe for concurrent
// use; Close performs the final flush.
type Batcher struct {
	size    int
	every   time.Duration
	onFlush func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewBatcher returns a running Batcher. Non-positive limits fall back
// to the defaults.
func NewBatcher(size int, every time.Duration, onFlush func([]byte)) *Batcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if every <= 0 {
		every = DefaultFlushInterval
	}

	b := &Batcher{
		size:    size,
		every:   every,
		onFlush: onFlush,
		stopCh:  make(chan struct{}),
	}

	b.ticker = time.NewTicker(every)
	go b.run()

	return b
}

// Write buffers p, flushing when the size threshold is reached.
func (b *Batcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, errors.New("batcher is closed")
	}

	n, err := b.buf.Write(p)
	if err != nil {
		return n, err
	}

	if b.buf.Len() >= b.size {
		b.flushLocked()
		// A size-triggered flush restarts the interval.
		b.ticker.Reset(b.every)
	}

	return n, nil
}

// Flush hands any buffered data to the callback immediately.
func (b *Batcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.flushLocked()
}

// Close stops the interval flusher and flushes whatever remains.
// Closing twice is harmless.
func (b *Batcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	b.closed = true
	close(b.stopCh)
	b.flushLocked()
	return nil
}

func (b *Batcher) run() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.stopCh:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held. The callback receives a
// copy so the buffer can be reused right away; it runs under the lock,
// so it must not call back into the batcher.
func (b *Batcher) flushLocked() {
	if b.buf.Len() == 0 {
		return
	}

	data := make([]byte, b.buf.Len())
	copy(data, b.buf.Bytes())
	b.buf.Reset()

	if b.onFlush != nil {
		b.onFlush(data)
	}
}
