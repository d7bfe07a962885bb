// Package redisq backs queue.Queue with a Redis list so results produced by
// one process can be drained by another. Items are JSON encoded; ordering
// follows Redis list semantics (RPUSH producer, BLPOP consumer).
package redisq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	rds "github.com/redis/go-redis/v9"

	"github.com/agenthub-go/agenthub/queue"
)

// Options configure a redisq Queue.
type Options struct {
	// TTL applied to the backing list after each Put. Zero disables expiry.
	TTL time.Duration

	// PollInterval bounds each BLPOP block so Get can observe ctx
	// cancellation. Defaults to one second.
	PollInterval time.Duration
}

// Queue is a Redis-list-backed queue.Queue. Close only marks the local
// handle closed; the backing list is shared and left intact for other
// consumers.
type Queue[T any] struct {
	client *rds.Client
	key    string
	opts   Options
	closed bool
}

// New constructs a queue over the given Redis list key.
func New[T any](client *rds.Client, key string, optFns ...func(o *Options)) *Queue[T] {
	opts := Options{PollInterval: time.Second}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Queue[T]{client: client, key: key, opts: opts}
}

// Put appends a JSON encoded item to the list.
func (q *Queue[T]) Put(ctx context.Context, item T) error {
	if q.closed {
		return queue.ErrClosed
	}

	b, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode queue item: %w", err)
	}
	if err := q.client.RPush(ctx, q.key, b).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.key, err)
	}
	if q.opts.TTL > 0 {
		_ = q.client.Expire(ctx, q.key, q.opts.TTL).Err()
	}

	return nil
}

// Get blocks until an item is available or ctx is cancelled.
func (q *Queue[T]) Get(ctx context.Context) (T, error) {
	var zero T

	for {
		if q.closed {
			return zero, queue.ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		vals, err := q.client.BLPop(ctx, q.opts.PollInterval, q.key).Result()
		if err != nil {
			if errors.Is(err, rds.Nil) {
				continue // timed out, poll again
			}
			return zero, fmt.Errorf("blpop %s: %w", q.key, err)
		}

		// BLPOP returns [key, value].
		var item T
		if err := json.Unmarshal([]byte(vals[1]), &item); err != nil {
			return zero, fmt.Errorf("decode queue item: %w", err)
		}
		return item, nil
	}
}

// TryGet removes and returns the oldest item without blocking.
func (q *Queue[T]) TryGet() (T, bool) {
	if q.closed {
		return *new(T), false
	}

	val, err := q.client.LPop(context.Background(), q.key).Bytes()
	if err != nil {
		return *new(T), false
	}

	var item T
	if err := json.Unmarshal(val, &item); err != nil {
		return *new(T), false
	}

	return item, true
}

// Len returns the current list length, or 0 if Redis is unreachable.
func (q *Queue[T]) Len() int {
	n, err := q.client.LLen(context.Background(), q.key).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Close marks the local handle closed without touching the shared list.
func (q *Queue[T]) Close() error {
	q.closed = true
	return nil
}

var _ queue.Queue[string] = (*Queue[string])(nil)
