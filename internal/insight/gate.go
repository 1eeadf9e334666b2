package insight

import (
	"errors"
	"sync"
)

// SubmitState tracks where a submission cycle is. One cycle runs at a time;
// a finished cycle, success or failure, re-arms the gate for the next.
type SubmitState int

const (
	StateIdle SubmitState = iota
	StatePending
	StateError
)

func (s SubmitState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrInFlight is returned by Begin while a submission is pending.
var ErrInFlight = errors.New("a prediction is already in progress")

// Gate serializes submissions. Begin claims the gate; Finish releases it and
// records the outcome. Safe for concurrent use.
type Gate struct {
	mu      sync.Mutex
	state   SubmitState
	lastErr error
}

func NewGate() *Gate { return &Gate{} }

// Begin moves the gate to pending. It fails with ErrInFlight when another
// submission holds the gate; an earlier error outcome does not block a new
// cycle.
func (g *Gate) Begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StatePending {
		return ErrInFlight
	}
	g.state = StatePending
	g.lastErr = nil
	return nil
}

// Finish releases the gate, landing on error state when err is non-nil and
// idle otherwise.
func (g *Gate) Finish(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		g.state = StateError
		g.lastErr = err
		return
	}
	g.state = StateIdle
	g.lastErr = nil
}

func (g *Gate) State() SubmitState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// LastError reports the outcome of the most recent finished cycle, nil after
// a success or while idle.
func (g *Gate) LastError() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastErr
}
