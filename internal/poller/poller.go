// Package poller keeps a user's notification list fresh while its host view
// is visible.
//
// A Poller is mounted once. Mounting fetches immediately and starts a
// repeating timer; hiding the view stops the timer and showing it again
// fetches and restarts it. Unmounting stops the timer for good and discards
// any response that resolves afterwards. Fetch failures keep the previous
// list and are only logged; the next tick simply tries again.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/agence-immo/agence/internal/domain"
	"github.com/agence-immo/agence/internal/logging"
)

// DefaultInterval is the refetch period while the view is visible.
const DefaultInterval = 30 * time.Second

// Fetcher loads the current user's notifications.
type Fetcher interface {
	FetchNotifications(ctx context.Context, includeRead bool) ([]domain.Notification, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, includeRead bool) ([]domain.Notification, error)

// FetchNotifications calls f.
func (f FetcherFunc) FetchNotifications(ctx context.Context, includeRead bool) ([]domain.Notification, error) {
	return f(ctx, includeRead)
}

// Visibility is the state of the host view.
type Visibility int

const (
	Visible Visibility = iota
	Hidden
)

// Snapshot is a copy of the poller state.
type Snapshot struct {
	Notifications []domain.Notification
	IsLoading     bool
	UnreadCount   int
	// Version increases with every state change.
	Version uint64
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(p *Poller) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithInterval sets the refetch period. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithDiscardStale controls whether a response older than the last applied
// one is dropped. When disabled the last response to resolve wins.
func WithDiscardStale(discard bool) Option {
	return func(p *Poller) {
		p.discardStale = discard
	}
}

// WithLogger sets the logger used for fetch failures.
func WithLogger(l logging.Logger) Option {
	return func(p *Poller) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithOnChange registers a listener called with a snapshot after each state change.
// It runs outside the poller lock on the goroutine that made the change.
func WithOnChange(fn func(Snapshot)) Option {
	return func(p *Poller) {
		p.onChange = fn
	}
}

// Poller owns one notification list and its refresh timer.
type Poller struct {
	fetcher      Fetcher
	clock        Clock
	interval     time.Duration
	discardStale bool
	logger       logging.Logger
	onChange     func(Snapshot)

	mu            sync.Mutex
	idle          *sync.Cond
	notifications []domain.Notification
	isLoading     bool
	version       uint64
	mounted       bool
	unmounted     bool
	visible       bool
	ctx           context.Context
	stopTick      chan struct{}
	issued        uint64
	applied       uint64
	inflight      int
}

// New returns an unmounted poller backed by fetcher.
func New(fetcher Fetcher, opts ...Option) *Poller {
	p := &Poller{
		fetcher:      fetcher,
		clock:        RealClock(),
		interval:     DefaultInterval,
		discardStale: true,
		logger:       logging.Nop(),
		isLoading:    true,
	}
	p.idle = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Interval returns the refetch period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Mount issues the first fetch and starts the timer. The view starts visible.
// ctx is used for every fetch of this mount. A poller mounts only once.
func (p *Poller) Mount(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mounted || p.unmounted {
		return
	}
	p.mounted = true
	p.visible = true
	p.ctx = ctx
	p.issueLocked()
	p.startTimerLocked()
}

// Unmount stops the timer. In-flight fetches are not cancelled but their
// responses are discarded.
func (p *Poller) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimerLocked()
	p.mounted = false
	p.unmounted = true
}

// SetVisibility reacts to the host view being shown or hidden.
func (p *Poller) SetVisibility(v Visibility) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return
	}
	switch v {
	case Hidden:
		p.visible = false
		p.stopTimerLocked()
	case Visible:
		if p.visible {
			return
		}
		p.visible = true
		p.issueLocked()
		p.startTimerLocked()
	}
}

// Refresh issues one fetch now.
func (p *Poller) Refresh() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mounted {
		p.issueLocked()
	}
}

// OnNotificationClick marks the matching local record read without refetching.
// The server is expected to be told separately; the next successful fetch
// replaces the local record with whatever the server holds.
func (p *Poller) OnNotificationClick(id string) {
	p.mu.Lock()
	found := false
	for i := range p.notifications {
		if p.notifications[i].ID == id {
			at := p.clock.Now()
			p.notifications[i].IsRead = true
			p.notifications[i].ReadAt = &at
			found = true
			break
		}
	}
	if !found {
		p.mu.Unlock()
		return
	}
	snap := p.changedLocked()
	p.mu.Unlock()
	p.notify(snap)
}

// OnMarkAllRead refetches after the bulk mark-read has been performed elsewhere.
// Local records are not touched.
func (p *Poller) OnMarkAllRead() {
	p.Refresh()
}

// Snapshot returns a copy of the current state.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// Wait blocks until no fetch is in flight.
func (p *Poller) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for p.inflight > 0 {
		p.idle.Wait()
	}
}

func (p *Poller) issueLocked() {
	p.issued++
	p.inflight++
	go p.fetch(p.ctx, p.issued)
}

func (p *Poller) fetch(ctx context.Context, seq uint64) {
	list, err := p.fetcher.FetchNotifications(ctx, true)
	if snap, changed := p.apply(seq, list, err); changed {
		p.notify(snap)
	}

	p.mu.Lock()
	p.inflight--
	if p.inflight == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()
}

// apply folds one fetch result into the state and reports whether it changed.
func (p *Poller) apply(seq uint64, list []domain.Notification, err error) (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.mounted {
		return Snapshot{}, false
	}
	if err != nil {
		p.logger.Warn("notification fetch failed", "seq", seq, "error", err.Error())
		if !p.isLoading {
			return Snapshot{}, false
		}
		p.isLoading = false
		return p.changedLocked(), true
	}
	if p.discardStale && seq < p.applied {
		p.logger.Debug("discarding stale notification response", "seq", seq, "applied", p.applied)
		return Snapshot{}, false
	}
	p.applied = seq
	p.notifications = append([]domain.Notification(nil), list...)
	p.isLoading = false
	return p.changedLocked(), true
}

func (p *Poller) startTimerLocked() {
	if p.stopTick != nil {
		return
	}
	stop := make(chan struct{})
	p.stopTick = stop
	go p.tickLoop(p.clock.NewTicker(p.interval), stop)
}

func (p *Poller) stopTimerLocked() {
	if p.stopTick != nil {
		close(p.stopTick)
		p.stopTick = nil
	}
}

func (p *Poller) tickLoop(t Ticker, stop chan struct{}) {
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.Chan():
			p.mu.Lock()
			// a tick that raced with a stop must not fetch
			if p.stopTick != stop {
				p.mu.Unlock()
				return
			}
			p.issueLocked()
			p.mu.Unlock()
		}
	}
}

func (p *Poller) changedLocked() Snapshot {
	p.version++
	return p.snapshotLocked()
}

func (p *Poller) snapshotLocked() Snapshot {
	list := make([]domain.Notification, len(p.notifications))
	copy(list, p.notifications)
	return Snapshot{
		Notifications: list,
		IsLoading:     p.isLoading,
		UnreadCount:   domain.UnreadCount(list),
		Version:       p.version,
	}
}

func (p *Poller) notify(s Snapshot) {
	if p.onChange != nil {
		p.onChange(s)
	}
}
