package session

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Runner drives a Timer from a ticker in its own goroutine. The goroutine
// only lives while the timer is busy: it parks after the tick that leaves
// the timer idle and is relaunched when the timer starts, resumes or rests.
type Runner struct {
	timer    *Timer
	interval time.Duration

	// onRun is told when the tick loop starts or ends. It runs outside the
	// runner lock.
	onRun func(running bool)

	mu     sync.Mutex
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner returns a stopped runner ticking timer every interval.
// A non-positive interval means one second.
func NewRunner(timer *Timer, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	r := &Runner{timer: timer, interval: interval}
	timer.wake = r.Wake
	return r
}

// Timer returns the driven timer.
func (r *Runner) Timer() *Timer {
	return r.timer
}

// Start enables the runner for the lifetime of ctx and launches the tick
// loop when the timer is busy. Starting an enabled runner is a no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	if r.parent != nil {
		r.mu.Unlock()
		return
	}
	r.parent = ctx
	launched := r.launchLocked()
	r.mu.Unlock()

	if launched {
		r.notify(true)
	}
}

// Wake relaunches a parked tick loop if the timer has become busy.
func (r *Runner) Wake() {
	r.mu.Lock()
	launched := r.launchLocked()
	r.mu.Unlock()

	if launched {
		r.notify(true)
	}
}

func (r *Runner) launchLocked() bool {
	if r.cancel != nil || r.parent == nil || r.parent.Err() != nil || !r.timer.Busy() {
		return false
	}

	ctx, cancel := context.WithCancel(r.parent)
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	go r.loop(ctx, done)
	return true
}

func (r *Runner) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Stop may race with a pending tick.
			if ctx.Err() != nil {
				return
			}
			r.timer.Tick()
			if r.park(done) {
				r.notify(false)
				return
			}
		}
	}
}

// park ends the loop identified by done once the timer has nothing left to count.
func (r *Runner) park(done chan struct{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done != done || r.timer.Busy() {
		return false
	}
	r.cancel()
	r.cancel, r.done = nil, nil
	return true
}

// Running reports whether the tick loop is active.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Stop disables the runner, cancels the tick loop and waits for it to exit.
// No tick is delivered after Stop returns and the timer no longer wakes it.
func (r *Runner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.parent, r.cancel, r.done = nil, nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	r.notify(false)
	log.Debug("session runner stopped")
}

func (r *Runner) notify(running bool) {
	if r.onRun != nil {
		r.onRun(running)
	}
}
