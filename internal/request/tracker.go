package request

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrInFlight is returned by Acquire when the same work is already running.
var ErrInFlight = errors.New("request already in flight")

// Token identifies one request within a scope. Only the latest token of a
// scope is valid.
type Token struct {
	ID      string
	Scope   string
	tracker *Tracker
}

// Valid reports whether the request is still the latest of its scope and
// its scope was not cancelled.
func (t Token) Valid() bool {
	if t.tracker == nil {
		return false
	}
	return t.tracker.current(t.Scope) == t.ID
}

// Tracker implements last-request-wins per scope and a duplicate guard per key.
type Tracker struct {
	mu       sync.Mutex
	latest   map[string]string
	inFlight map[string]struct{}
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		latest:   make(map[string]string),
		inFlight: make(map[string]struct{}),
	}
}

// Begin starts a request in scope, superseding any earlier one.
func (t *Tracker) Begin(scope string) Token {
	id := uuid.NewString()

	t.mu.Lock()
	t.latest[scope] = id
	t.mu.Unlock()

	return Token{ID: id, Scope: scope, tracker: t}
}

// Cancel invalidates the current request of scope, for example when its dialog is closed.
func (t *Tracker) Cancel(scope string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.latest, scope)
}

func (t *Tracker) current(scope string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[scope]
}

// Acquire marks key as in flight. The returned release func must be called
// when the work finishes; calling it more than once is safe.
func (t *Tracker) Acquire(key string) (func(), error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, busy := t.inFlight[key]; busy {
		return nil, ErrInFlight
	}
	t.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.inFlight, key)
			t.mu.Unlock()
		})
	}, nil
}
