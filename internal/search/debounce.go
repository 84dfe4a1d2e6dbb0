// Package search runs as-you-type lookups: input is debounced, and every
// issued search is tagged so a slow response can never overwrite a newer one.
package search

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultQuiet is the pause in input that triggers a search.
const DefaultQuiet = 300 * time.Millisecond

// Func performs one search.
type Func[T any] func(ctx context.Context, query string) (T, error)

// Result is delivered for the latest search only.
type Result[T any] struct {
	Query string
	Value T
	Err   error
}

// Debouncer coalesces rapid Submit calls into one search per quiet period
// and drops results that are no longer the latest.
type Debouncer[T any] struct {
	quiet   time.Duration
	search  Func[T]
	deliver func(Result[T])
	logger  *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	closed  bool
	ctx     context.Context
	cancel  context.CancelFunc
	running sync.WaitGroup
}

// NewDebouncer creates a Debouncer. deliver is called from a background
// goroutine with each fresh result.
func NewDebouncer[T any](quiet time.Duration, search Func[T], deliver func(Result[T]), logger *slog.Logger) *Debouncer[T] {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Debouncer[T]{
		quiet:   quiet,
		search:  search,
		deliver: deliver,
		logger:  logger.With("component", "search"),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Submit records new input. The search runs once no further input arrives
// for the quiet period. An empty query still invalidates pending results
// but issues no search.
func (d *Debouncer[T]) Submit(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}

	d.gen++
	gen := d.gen
	if d.timer != nil && d.timer.Stop() {
		d.running.Done()
	}
	if query == "" {
		d.timer = nil
		return
	}
	d.running.Add(1)
	d.timer = time.AfterFunc(d.quiet, func() {
		defer d.running.Done()
		d.run(gen, query)
	})
}

// Latest reports whether gen is the most recently issued generation.
func (d *Debouncer[T]) Latest(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen && !d.closed
}

func (d *Debouncer[T]) run(gen uint64, query string) {
	if !d.Latest(gen) {
		return
	}
	value, err := d.search(d.ctx, query)
	if !d.Latest(gen) {
		d.logger.Debug("discarding stale search result", "query", query, "generation", gen)
		return
	}
	d.deliver(Result[T]{Query: query, Value: value, Err: err})
}

// Drain waits for a pending search to fire and deliver. It must not be
// called concurrently with Submit.
func (d *Debouncer[T]) Drain() {
	d.running.Wait()
}

// Close cancels the pending timer and any in-flight search, then waits for
// running callbacks. No result is delivered after Close returns.
func (d *Debouncer[T]) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	if d.timer != nil && d.timer.Stop() {
		d.running.Done()
	}
	d.timer = nil
	d.mu.Unlock()

	d.cancel()
	d.running.Wait()
}
