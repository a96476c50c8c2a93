// ABOUTME: Background poller observing server-side session transitions.
// ABOUTME: Re-fetches the active session every 5s and ticks the elapsed clock every 1s.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// RefreshInterval is how often the active session is re-fetched while a
	// workout is in progress. The server alone computes auto-advance and
	// auto-finish, so the client has to look.
	RefreshInterval = 5 * time.Second

	// ClockInterval drives the local elapsed-time display. Never sent to
	// the server.
	ClockInterval = time.Second
)

// Poller runs the two timers of an active workout view. It stops when the
// session ends, the context is cancelled, or Stop is called, and leaks no
// further callbacks after that.
type Poller struct {
	store    *Store
	log      logrus.FieldLogger
	refresh  time.Duration
	tick     time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewPoller creates a poller over the given store with default intervals.
func NewPoller(s *Store, log logrus.FieldLogger) *Poller {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{
		store:   s,
		log:     log,
		refresh: RefreshInterval,
		tick:    ClockInterval,
		done:    make(chan struct{}),
	}
}

// WithIntervals overrides the timer intervals. Used by tests to run the
// loop at speed.
func (p *Poller) WithIntervals(refresh, tick time.Duration) *Poller {
	p.refresh = refresh
	p.tick = tick
	return p
}

// Run blocks until the active session is gone, the context is cancelled,
// or Stop is called. Poll failures are logged and retried on the next
// interval; a transient network blip never kills the loop.
func (p *Poller) Run(ctx context.Context) {
	p.wg.Add(1)
	defer p.wg.Done()

	refreshTicker := time.NewTicker(p.refresh)
	defer refreshTicker.Stop()
	clockTicker := time.NewTicker(p.tick)
	defer clockTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.done:
			return
		case <-clockTicker.C:
			p.store.Tick()
		case <-refreshTicker.C:
			if err := p.store.Refresh(ctx); err != nil {
				p.log.WithError(err).Warn("session poll failed")
				continue
			}
			if p.store.Active() == nil {
				return
			}
		}
	}
}

// Stop ends the loop and waits for it to exit. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}
