package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Registry keeps one timer per owner (a chat). A timer ticks only while it
// is busy, so an idle or paused timer costs no goroutine.
type Registry struct {
	interval time.Duration
	onRest   func(owner int64, exerciseID string)
	onChange func(active int)

	active atomic.Int64

	mu      sync.Mutex
	runners map[int64]*Runner
}

// NewRegistry creates a registry. onRest is notified when an owner's rest
// countdown completes, onChange with the number of ticking timers. Both may be nil.
func NewRegistry(interval time.Duration, onRest func(owner int64, exerciseID string), onChange func(active int)) *Registry {
	return &Registry{
		interval: interval,
		onRest:   onRest,
		onChange: onChange,
		runners:  make(map[int64]*Runner),
	}
}

// Get returns the owner's timer, creating it on first use. The timer ticks
// under ctx whenever it is busy.
func (r *Registry) Get(ctx context.Context, owner int64) *Timer {
	r.mu.Lock()
	runner, ok := r.runners[owner]
	if !ok {
		timer := NewTimer()
		if r.onRest != nil {
			timer.OnRestComplete = func(exerciseID string) { r.onRest(owner, exerciseID) }
		}
		runner = NewRunner(timer, r.interval)
		runner.onRun = r.running
		r.runners[owner] = runner
	}
	r.mu.Unlock()

	runner.Start(ctx)
	return runner.Timer()
}

// Lookup returns the owner's timer without creating one.
func (r *Registry) Lookup(owner int64) (*Timer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runner, ok := r.runners[owner]
	if !ok {
		return nil, false
	}
	return runner.Timer(), true
}

// Remove deactivates the owner's timer and drops it.
func (r *Registry) Remove(owner int64) {
	r.mu.Lock()
	runner, ok := r.runners[owner]
	delete(r.runners, owner)
	r.mu.Unlock()

	if !ok {
		return
	}
	runner.Stop()
	runner.Timer().Deactivate()
}

// Len returns the number of timers held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runners)
}

// Active returns the number of timers currently ticking.
func (r *Registry) Active() int {
	return int(r.active.Load())
}

// Close stops and drops every timer.
func (r *Registry) Close() {
	r.mu.Lock()
	runners := r.runners
	r.runners = make(map[int64]*Runner)
	r.mu.Unlock()

	for _, runner := range runners {
		runner.Stop()
		runner.Timer().Deactivate()
	}
}

func (r *Registry) running(started bool) {
	delta := int64(-1)
	if started {
		delta = 1
	}
	r.active.Add(delta)
	if r.onChange != nil {
		r.onChange(r.Active())
	}
}
