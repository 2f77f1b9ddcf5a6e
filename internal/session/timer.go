package session

import (
	"sync"
)

// Status of the main workout timer.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusPaused  Status = "paused"
)

// State is a snapshot of a Timer.
type State struct {
	Elapsed          int    `json:"elapsed"`
	Status           Status `json:"status"`
	ActiveExerciseID string `json:"active_exercise_id,omitempty"`
	CurrentSet       int    `json:"current_set"`
	Resting          bool   `json:"resting"`
	RestRemaining    int    `json:"rest_remaining"`
}

// Timer tracks elapsed workout time and an independent rest countdown.
// It does not own a clock: Tick is called once per second by a Runner.
type Timer struct {
	mu    sync.Mutex
	state State

	// OnRestComplete is called when a rest countdown reaches 0 through Tick.
	// It runs outside the timer lock.
	OnRestComplete func(exerciseID string)

	// wake is set by the Runner driving the timer and called, outside the
	// lock, whenever the timer becomes busy.
	wake func()
}

// NewTimer returns an idle timer.
func NewTimer() *Timer {
	return &Timer{state: State{Status: StatusIdle}}
}

// Start moves idle or paused to running.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.state.Status == StatusIdle || t.state.Status == StatusPaused {
		t.state.Status = StatusRunning
	}
	t.mu.Unlock()
	t.woke()
}

// Pause freezes elapsed time. A rest countdown keeps going.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.Status == StatusRunning {
		t.state.Status = StatusPaused
	}
}

// Resume moves paused to running.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.state.Status == StatusPaused {
		t.state.Status = StatusRunning
	}
	t.mu.Unlock()
	t.woke()
}

// Reset returns to idle with zero elapsed time and no rest. The active
// exercise and its set are kept.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Status = StatusIdle
	t.state.Elapsed = 0
	t.state.Resting = false
	t.state.RestRemaining = 0
}

// Tick advances both counters by one second.
func (t *Timer) Tick() {
	t.mu.Lock()
	if t.state.Status == StatusRunning {
		t.state.Elapsed++
	}

	finished := false
	if t.state.Resting {
		t.state.RestRemaining--
		if t.state.RestRemaining <= 0 {
			t.state.RestRemaining = 0
			t.state.Resting = false
			finished = true
		}
	}
	exerciseID := t.state.ActiveExerciseID
	notify := t.OnRestComplete
	t.mu.Unlock()

	if finished && notify != nil {
		notify(exerciseID)
	}
}

// StartRest begins a rest countdown. Non-positive durations are ignored.
func (t *Timer) StartRest(seconds int) {
	if seconds <= 0 {
		return
	}
	t.mu.Lock()
	t.state.Resting = true
	t.state.RestRemaining = seconds
	t.mu.Unlock()
	t.woke()
}

// SkipRest ends the rest countdown without a notification. The main timer is untouched.
func (t *Timer) SkipRest() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.Resting = false
	t.state.RestRemaining = 0
}

// Activate makes exerciseID the active exercise, starting at set 1.
func (t *Timer) Activate(exerciseID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.ActiveExerciseID != exerciseID {
		t.state.ActiveExerciseID = exerciseID
		t.state.CurrentSet = 1
	}
}

// NextSet advances the set counter of the active exercise and returns it.
func (t *Timer) NextSet() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state.ActiveExerciseID == "" {
		return 0
	}
	t.state.CurrentSet++
	return t.state.CurrentSet
}

// Deactivate clears the active exercise and any rest countdown.
func (t *Timer) Deactivate() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state.ActiveExerciseID = ""
	t.state.CurrentSet = 0
	t.state.Resting = false
	t.state.RestRemaining = 0
}

// State returns a snapshot.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Timer) woke() {
	if t.wake != nil {
		t.wake()
	}
}

// Busy reports whether a tick would change anything.
func (t *Timer) Busy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Status == StatusRunning || t.state.Resting
}
