// Package queue provides the producer/consumer queues used to shuttle
// results out of the agent system. A closure agent puts received payloads
// on a queue; the surrounding application drains it after the runtime goes
// idle. Buffered is the in-memory implementation; queue/redisq backs the
// same interface with a Redis list for cross-process draining.
package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Put on a closed queue and by Get once a closed
// queue has been fully drained.
var ErrClosed = errors.New("queue closed")

// Queue is a FIFO producer/consumer queue. Get blocks until an item is
// available or ctx is cancelled. Implementations must be safe for
// concurrent use.
type Queue[T any] interface {
	Put(ctx context.Context, item T) error
	Get(ctx context.Context) (T, error)
	TryGet() (T, bool)
	Len() int
	Close() error
}

// BufferedOptions configure a Buffered queue.
type BufferedOptions struct {
	// Capacity bounds the queue; Put blocks while the queue is full.
	// Set to 0 for unbounded (the default).
	Capacity int
}

// Buffered is an in-memory Queue. Unbounded by default; with a capacity,
// Put blocks until space frees up or ctx is cancelled.
type Buffered[T any] struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []T
	capacity int
	closed   bool
}

// NewBuffered constructs an empty in-memory queue.
func NewBuffered[T any](optFns ...func(o *BufferedOptions)) *Buffered[T] {
	var opts BufferedOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	q := &Buffered[T]{capacity: opts.Capacity}
	q.cond = sync.NewCond(&q.mu)

	return q
}

// Put appends an item, blocking while a bounded queue is full.
func (q *Buffered[T]) Put(ctx context.Context, item T) error {
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && len(q.items) >= q.capacity && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, item)
	q.cond.Broadcast()

	return nil
}

// Get removes and returns the oldest item, blocking until one is available,
// the queue is closed and drained, or ctx is cancelled.
func (q *Buffered[T]) Get(ctx context.Context) (T, error) {
	var zero T

	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if len(q.items) == 0 {
		return zero, ErrClosed
	}

	item := q.items[0]
	q.items = q.items[1:]
	q.cond.Broadcast()

	return item, nil
}

// TryGet removes and returns the oldest item without blocking.
func (q *Buffered[T]) TryGet() (T, bool) {
	var zero T

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return zero, false
	}

	item := q.items[0]
	q.items = q.items[1:]
	q.cond.Broadcast()

	return item, true
}

// Len returns the number of queued items.
func (q *Buffered[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed. Queued items remain drainable; further Puts
// fail with ErrClosed. Close is idempotent.
func (q *Buffered[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()

	return nil
}
