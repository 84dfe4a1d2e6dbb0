// Package notify keeps the unread notification count of the signed-in user
// fresh by polling the backend on a fixed interval.
package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 30 * time.Second

// Fetcher returns the unread count for a user. *hms.NotificationService
// satisfies it.
type Fetcher interface {
	UnreadCount(ctx context.Context, userID int64) (int64, error)
}

// Poller periodically refreshes an unread count. The zero value is not
// usable; construct with NewPoller.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	userID   int64
	count    int64
	fetched  bool
	cancel   context.CancelFunc
	done     chan struct{}
	onChange func(int64)
}

// NewPoller creates a stopped poller.
func NewPoller(fetcher Fetcher, interval time.Duration, logger *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger.With("component", "notify"),
	}
}

// OnChange registers fn to be called with the first count fetched after
// Start and then whenever the count changes.
func (p *Poller) OnChange(fn func(int64)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

// Start begins polling for userID: one fetch immediately, then one per
// interval until Stop or ctx is done. A userID of 0 stops any running poll
// and does nothing else. Starting for the user already being polled is a
// no-op; a different user restarts the loop and resets the count.
func (p *Poller) Start(ctx context.Context, userID int64) {
	p.mu.Lock()
	if userID != 0 && p.cancel != nil && p.userID == userID {
		p.mu.Unlock()
		return
	}
	p.stopLocked()
	if userID == 0 {
		p.mu.Unlock()
		return
	}

	loopCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.userID = userID
	p.count = 0
	p.fetched = false
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	p.logger.Debug("notification polling started", "user_id", userID, "interval", p.interval)
	go p.loop(loopCtx, userID, done)
}

// Stop cancels polling and waits for the loop to exit. The last count is kept.
func (p *Poller) Stop() {
	p.mu.Lock()
	done := p.done
	p.stopLocked()
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// stopLocked cancels the running loop. p.mu must be held.
func (p *Poller) stopLocked() {
	if p.cancel != nil {
		p.cancel()
	}
	p.cancel = nil
	p.done = nil
	p.userID = 0
}

// Count returns the most recently fetched unread count.
func (p *Poller) Count() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Refresh fetches immediately for the polled user, outside the tick schedule.
// It does nothing when the poller is stopped.
func (p *Poller) Refresh(ctx context.Context) {
	p.mu.Lock()
	userID := p.userID
	p.mu.Unlock()
	if userID == 0 {
		return
	}
	p.fetch(ctx, userID)
}

func (p *Poller) loop(ctx context.Context, userID int64, done chan struct{}) {
	defer close(done)

	p.fetch(ctx, userID)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetch(ctx, userID)
		}
	}
}

// fetch updates the count. Errors are swallowed and keep the previous value.
func (p *Poller) fetch(ctx context.Context, userID int64) {
	n, err := p.fetcher.UnreadCount(ctx, userID)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug("unread count fetch failed", "user_id", userID, "error", err)
		}
		return
	}

	p.mu.Lock()
	if p.userID != userID {
		p.mu.Unlock()
		return
	}
	changed := !p.fetched || p.count != n
	p.count = n
	p.fetched = true
	fn := p.onChange
	p.mu.Unlock()

	if changed && fn != nil {
		fn(n)
	}
}
