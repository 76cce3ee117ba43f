// Package workerpool runs CPU-bound work (password hashing) on a bounded set
// of goroutines so a burst of slow verifications cannot take every core away
// from request handling.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrPanicked is wrapped by Do when the task panics.
var ErrPanicked = errors.New("workerpool: task panicked")

type Pool struct {
	sem      *semaphore.Weighted
	size     int
	inflight atomic.Int64
}

// New crea un pool de size workers; size <= 0 usa GOMAXPROCS.
func New(size int) *Pool {
	if size <= 0 {
		size = runtime.GOMAXPROCS(0)
	}
	return &Pool{sem: semaphore.NewWeighted(int64(size)), size: size}
}

func (p *Pool) Size() int { return p.size }

// InFlight reports tasks currently running.
func (p *Pool) InFlight() int64 { return p.inflight.Load() }

// Do waits for a free slot, runs fn on its own goroutine and blocks until fn
// returns. ctx only bounds the wait for a slot: once fn has started it runs
// to completion and its result is always returned.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	done := make(chan error, 1)
	p.inflight.Add(1)
	go func() {
		var err error
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrPanicked, r)
			}
			p.inflight.Add(-1)
			p.sem.Release(1)
			done <- err
		}()
		err = fn()
	}()
	return <-done
}

// Submit is Do for tasks that produce a value.
func Submit[T any](ctx context.Context, p *Pool, fn func() (T, error)) (T, error) {
	var out T
	err := p.Do(ctx, func() error {
		v, err := fn()
		out = v
		return err
	})
	return out, err
}
