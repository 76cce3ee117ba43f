package workerpool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitReturnsValue(t *testing.T) {
	p := New(2)
	v, err := Submit(context.Background(), p, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	boom := errors.New("boom")
	_, err = Submit(context.Background(), p, func() (string, error) { return "", boom })
	assert.ErrorIs(t, err, boom)
}

func TestDoBoundsConcurrency(t *testing.T) {
	p := New(3)
	var running, peak atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int64(3))
	assert.Equal(t, int64(0), p.InFlight())
}

func TestDoDoesNotCancelRunningTask(t *testing.T) {
	p := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var finished atomic.Bool

	go func() {
		<-started
		cancel()
	}()
	err := p.Do(ctx, func() error {
		close(started)
		time.Sleep(20 * time.Millisecond)
		finished.Store(true)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, finished.Load())
}

func TestDoHonorsContextWhileWaiting(t *testing.T) {
	p := New(1)
	release := make(chan struct{})
	go func() {
		_ = p.Do(context.Background(), func() error { <-release; return nil })
	}()
	require.Eventually(t, func() bool { return p.InFlight() == 1 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ran := false
	err := p.Do(ctx, func() error { ran = true; return nil })
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
	close(release)
}

func TestDoRecoversPanic(t *testing.T) {
	p := New(1)
	err := p.Do(context.Background(), func() error { panic("kaboom") })
	assert.ErrorIs(t, err, ErrPanicked)

	// slot was released
	assert.NoError(t, p.Do(context.Background(), func() error { return nil }))
}

func TestNewDefaultsToGOMAXPROCS(t *testing.T) {
	assert.Greater(t, New(0).Size(), 0)
}
