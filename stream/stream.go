// Package stream is the runtime half of the push-sequence representation:
// generated code hands its chunks to New and consumers drain them in order.
package stream

import (
	"context"
	"iter"
	"time"
)

type config struct {
	delay         time.Duration
	after         func(index int)
	synchronous   bool
	buffer        int
	interruptible bool
}

// Option configures a Sequence.
type Option func(*config)

// WithDelay waits d after each chunk, strictly before the next one.
func WithDelay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// WithAfterChunk calls fn with the index of each chunk once the chunk is
// enqueued and before the next chunk is produced.
func WithAfterChunk(fn func(index int)) Option {
	return func(c *config) {
		c.after = fn
	}
}

// Synchronous enqueues every chunk before the consumer starts draining.
func Synchronous() Option {
	return func(c *config) {
		c.synchronous = true
	}
}

// WithBuffer sets the channel capacity of asynchronous sequences.
func WithBuffer(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.buffer = n
		}
	}
}

// WithInterruptibleDelay lets cancellation cut short a delay in progress.
// By default a started delay runs to completion.
func WithInterruptibleDelay() Option {
	return func(c *config) {
		c.interruptible = true
	}
}

// Sequence is a single-producer, single-consumer ordered sequence of chunks.
type Sequence[T any] struct {
	chunks []T
	cfg    config
}

// New creates a sequence over chunks.
func New[T any](chunks []T, opts ...Option) *Sequence[T] {
	cfg := config{buffer: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Sequence[T]{chunks: chunks, cfg: cfg}
}

// Len returns the number of chunks.
func (s *Sequence[T]) Len() int {
	return len(s.chunks)
}

// Chunks starts producing and returns the channel chunks arrive on. The
// channel is closed after the last chunk or once ctx is cancelled.
func (s *Sequence[T]) Chunks(ctx context.Context) <-chan T {
	if s.cfg.synchronous {
		out := make(chan T, len(s.chunks))
		for _, c := range s.chunks {
			out <- c
		}
		close(out)
		return out
	}

	out := make(chan T, s.cfg.buffer)
	go s.produce(ctx, out)
	return out
}

func (s *Sequence[T]) produce(ctx context.Context, out chan<- T) {
	defer close(out)
	for i, c := range s.chunks {
		if ctx.Err() != nil {
			return
		}
		select {
		case out <- c:
		case <-ctx.Done():
			return
		}
		if i == len(s.chunks)-1 {
			return
		}
		if s.cfg.after != nil {
			s.cfg.after(i)
		}
		if s.cfg.delay > 0 {
			s.wait(ctx)
		}
	}
}

func (s *Sequence[T]) wait(ctx context.Context) {
	timer := time.NewTimer(s.cfg.delay)
	defer timer.Stop()
	if !s.cfg.interruptible {
		<-timer.C
		return
	}
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// All returns an iterator over the chunks. Stopping the iteration cancels
// the producer.
func (s *Sequence[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		for c := range s.Chunks(ctx) {
			if !yield(c) {
				return
			}
		}
	}
}

// Collect drains the sequence.
func (s *Sequence[T]) Collect(ctx context.Context) []T {
	var out []T
	for c := range s.Chunks(ctx) {
		out = append(out, c)
	}
	return out
}
