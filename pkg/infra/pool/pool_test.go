package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolDefaults(t *testing.T) {
	p, err := New("preprocess", PreprocessPool, PreprocessConfig(3))
	require.NoError(t, err)
	defer p.Release()

	assert.Equal(t, "preprocess", p.Name())
	assert.Equal(t, PreprocessPool, p.Type())
	assert.Equal(t, 3, p.Cap())
	assert.Equal(t, 3, p.Free())
	assert.Zero(t, p.Running())
	assert.Zero(t, p.Waiting())
}

func TestPreprocessConfigFloor(t *testing.T) {
	assert.Equal(t, 1, PreprocessConfig(0).Capacity)
	assert.Equal(t, 1, PreprocessConfig(-4).Capacity)
	assert.Equal(t, 5, PreprocessConfig(5).Capacity)
}

func TestBackgroundConfig(t *testing.T) {
	cfg := BackgroundConfig()
	assert.Equal(t, 8, cfg.Capacity)
	assert.True(t, cfg.Nonblocking)
}

func TestSubmitRunsTasksAndCounts(t *testing.T) {
	p, err := New("test", PreprocessPool, PreprocessConfig(4))
	require.NoError(t, err)

	var counter atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			counter.Add(1)
		}))
	}
	wg.Wait()

	// Draining the pool makes the counters final.
	require.NoError(t, p.ReleaseTimeout(5*time.Second))

	assert.Equal(t, int32(50), counter.Load())
	st := p.Stats()
	assert.Equal(t, int64(50), st.Submitted)
	assert.Equal(t, int64(50), st.Completed)
	assert.Zero(t, st.Failed)
	assert.Zero(t, st.Rejected)
	assert.GreaterOrEqual(t, st.TotalWaitTimeNs, int64(0))
}

func TestSubmitWithContextCancelled(t *testing.T) {
	p, err := New("test", BackgroundPool, BackgroundConfig())
	require.NoError(t, err)
	defer p.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = p.SubmitWithContext(ctx, func() {
		t.Error("task must not run on a cancelled context")
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubmitWithContextRuns(t *testing.T) {
	p, err := New("test", BackgroundPool, BackgroundConfig())
	require.NoError(t, err)

	done := make(chan struct{})
	require.NoError(t, p.SubmitWithContext(context.Background(), func() {
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}
	require.NoError(t, p.ReleaseTimeout(5*time.Second))
}

func TestNonblockingOverload(t *testing.T) {
	p, err := New("test", BackgroundPool, &Config{
		Capacity:       1,
		ExpiryDuration: 5 * time.Second,
		Nonblocking:    true,
	})
	require.NoError(t, err)
	defer p.Release()

	release := make(chan struct{})
	require.NoError(t, p.Submit(func() { <-release }))

	err = p.Submit(func() {
		t.Error("saturated nonblocking pool must not run the task")
	})
	assert.ErrorIs(t, err, ErrPoolOverload)
	assert.Equal(t, int64(1), p.Stats().Rejected)

	close(release)
}

func TestSubmitAfterRelease(t *testing.T) {
	p, err := New("test", PreprocessPool, PreprocessConfig(2))
	require.NoError(t, err)

	p.Release()

	err = p.Submit(func() {
		t.Error("released pool must not run the task")
	})
	assert.ErrorIs(t, err, ErrPoolClosed)

	err = p.SubmitWithContext(context.Background(), func() {})
	assert.ErrorIs(t, err, ErrPoolClosed)

	// Releasing again is a no-op.
	assert.NoError(t, p.ReleaseTimeout(time.Second))
}

func TestPanicAccounting(t *testing.T) {
	caught := make(chan struct{})
	p, err := New("test", PreprocessPool, &Config{
		Capacity:       1,
		ExpiryDuration: 5 * time.Second,
		PanicHandler: func(interface{}) {
			close(caught)
		},
	})
	require.NoError(t, err)
	defer p.Release()

	require.NoError(t, p.Submit(func() {
		panic("worker failure")
	}))

	select {
	case <-caught:
	case <-time.After(2 * time.Second):
		t.Fatal("panic was not recovered")
	}

	st := p.Stats()
	assert.Equal(t, int64(1), st.PanicRecovered)
	assert.Equal(t, int64(1), st.Failed)
	assert.Zero(t, st.Completed)
}

func TestTune(t *testing.T) {
	p, err := New("test", PreprocessPool, PreprocessConfig(2))
	require.NoError(t, err)
	defer p.Release()

	p.Tune(6)
	assert.Equal(t, 6, p.Cap())
}
