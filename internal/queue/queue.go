// Package queue runs cache work off the caller's goroutine.
//
// Submit never blocks: every task gets its own goroutine and then waits for
// one of limit slots. Tasks may submit follow-up tasks (back-fills from a
// load) without risking a deadlock on a full pool.
package queue

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

type Queue struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// New returns a queue that runs at most limit tasks at once.
// limit <= 0 is treated as 1.
func New(limit int) *Queue {
	if limit <= 0 {
		limit = 1
	}
	return &Queue{sem: semaphore.NewWeighted(int64(limit))}
}

// Submit schedules task. It reports false (and drops task) once the queue is closed.
func (q *Queue) Submit(task func()) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		// Background never cancels, so Acquire only returns once a slot is free.
		_ = q.sem.Acquire(context.Background(), 1)
		defer q.sem.Release(1)
		task()
	}()
	return true
}

// Wait blocks until every submitted task, including tasks submitted by
// running tasks, has returned.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// Close stops accepting tasks and waits for the ones already accepted.
// It returns ctx.Err() if ctx ends first; those tasks still run to completion.
// Safe to call multiple times.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
