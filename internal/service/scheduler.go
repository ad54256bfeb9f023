package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"intentguard/internal/logger"
)

var (
	ErrPollerRunning   = errors.New("poller already running")
	errInvalidInterval = errors.New("poll interval must be positive")
)

// FetchFunc performs one poll. Errors are logged; they never stop the schedule.
type FetchFunc func(ctx context.Context) error

// Poller invokes a FetchFunc immediately and then on every wall-clock tick.
// Ticks never wait for the previous fetch, so fetches may overlap.
type Poller struct {
	name string
	log  *logger.Logger

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}

	inflight sync.WaitGroup
}

func NewPoller(name string, log *logger.Logger) *Poller {
	return &Poller{name: name, log: log.Component("poller")}
}

// Start begins polling. Canceling ctx ends the loop like Stop does; fetches
// already running keep going on a context detached from ctx.
func (p *Poller) Start(ctx context.Context, interval time.Duration, fetch FetchFunc) error {
	if interval <= 0 {
		return fmt.Errorf("%s: %w", p.name, errInvalidInterval)
	}

	p.mu.Lock()
	if p.stop != nil {
		p.mu.Unlock()
		return fmt.Errorf("%s: %w", p.name, ErrPollerRunning)
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	p.stop, p.done = stop, done
	p.mu.Unlock()

	go p.loop(ctx, context.WithoutCancel(ctx), interval, fetch, stop, done)
	return nil
}

// Stop cancels future ticks and returns once the loop has exited. It is
// idempotent and does not wait for in-flight fetches.
func (p *Poller) Stop() {
	p.mu.Lock()
	stop, done := p.stop, p.done
	p.stop, p.done = nil, nil
	p.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	<-done
}

// Running reports whether the loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

// Wait blocks until every fetch started so far has returned. Call it after Stop.
func (p *Poller) Wait() {
	p.inflight.Wait()
}

func (p *Poller) loop(ctx, fetchCtx context.Context, interval time.Duration, fetch FetchFunc, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer p.release(done)

	p.invoke(fetchCtx, fetch)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-t.C:
			// a stop racing a tick wins
			select {
			case <-stop:
				return
			default:
			}
			p.invoke(fetchCtx, fetch)
		}
	}
}

// release clears the running state when the loop ends on its own (ctx canceled).
func (p *Poller) release(done chan<- struct{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done == done {
		p.stop, p.done = nil, nil
	}
}

func (p *Poller) invoke(ctx context.Context, fetch FetchFunc) {
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				p.log.Errorw("poll_panicked", "poller", p.name, "panic", r)
			}
		}()
		if err := fetch(ctx); err != nil {
			p.log.Warnw("poll_failed", "poller", p.name, "err", err)
		}
	}()
}
