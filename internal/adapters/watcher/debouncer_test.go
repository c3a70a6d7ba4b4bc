package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfops/wfops/internal/adapters/watcher"
)

func TestNewDebouncer(t *testing.T) {
	tests := []struct {
		name     string
		window   time.Duration
		callback func([]string)
	}{
		{
			name:     "with callback",
			window:   100 * time.Millisecond,
			callback: func([]string) {},
		},
		{
			name:     "with nil callback",
			window:   50 * time.Millisecond,
			callback: nil,
		},
		{
			name:     "with zero window",
			window:   0,
			callback: func([]string) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := watcher.NewDebouncer(tt.window, tt.callback)
			require.NotNil(t, d)
		})
	}
}

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/repo/.github/workflows/ci.yml")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/repo/.github/workflows/ci.yml", receivedPaths[0])
	})
}

func TestDebouncer_Add_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		// An editor save burst lands well inside one window.
		d.Add("/repo/.github/workflows/ci.yml")
		d.Add("/repo/.github/workflows/release.yml")
		d.Add("/repo/.github/workflows/nightly.yml")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 3)

		// Pending paths live in a map, so order is not guaranteed.
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/ci.yml")
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/release.yml")
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/nightly.yml")
	})
}

func TestDebouncer_Add_DeduplicatesPaths(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/repo/.github/workflows/ci.yml")
		d.Add("/repo/.github/workflows/ci.yml")
		d.Add("/repo/.github/workflows/ci.yml")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)
		assert.Equal(t, "/repo/.github/workflows/ci.yml", receivedPaths[0])
	})
}

func TestDebouncer_Add_RestartsWindow(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			mu.Lock()
			callCount++
			mu.Unlock()
		})

		d.Add("/repo/.github/workflows/ci.yml")
		time.Sleep(30 * time.Millisecond)

		// A second add 30ms in restarts the window, so nothing fires at
		// the original 50ms mark.
		d.Add("/repo/.github/workflows/release.yml")
		time.Sleep(30 * time.Millisecond)

		synctest.Wait()
		mu.Lock()
		count := callCount
		mu.Unlock()
		assert.Equal(t, 0, count)

		time.Sleep(30 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		count = callCount
		mu.Unlock()
		require.Equal(t, 1, count)
	})
}

func TestDebouncer_Flush_Immediate(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/repo/.github/workflows/ci.yml")
		d.Add("/repo/.github/workflows/release.yml")

		// Flush before the window expires delivers synchronously.
		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 2)
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/ci.yml")
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/release.yml")
	})
}

func TestDebouncer_Flush_Empty(t *testing.T) {
	var callCount int

	d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
		callCount++
	})

	d.Flush()

	assert.Equal(t, 0, callCount)
}

func TestDebouncer_Flush_AfterFire(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/repo/.github/workflows/ci.yml")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 1, callCount)

		// The timer already delivered this batch.
		d.Flush()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Flush_ClearsPending(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int

		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) {
			callCount++
		})

		d.Add("/repo/.github/workflows/ci.yml")
		d.Flush()

		require.Equal(t, 1, callCount)

		// The cancelled timer must not deliver the same batch again.
		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, 1, callCount)
	})
}

func TestDebouncer_Add_AfterFlush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var callCount int
		var receivedPaths []string

		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			callCount++
			receivedPaths = paths
		})

		d.Add("/repo/.github/workflows/ci.yml")
		d.Flush()

		require.Equal(t, 1, callCount)
		require.Len(t, receivedPaths, 1)

		d.Add("/repo/.github/workflows/release.yml")
		d.Add("/repo/.github/workflows/nightly.yml")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		require.Equal(t, 2, callCount)
		require.Len(t, receivedPaths, 2)
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/release.yml")
		assert.Contains(t, receivedPaths, "/repo/.github/workflows/nightly.yml")
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(50*time.Millisecond, nil)

		d.Add("/repo/.github/workflows/ci.yml")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()

		d.Flush()
	})
}
