// Package session models one end-to-end spell invocation, from hotkey press
// to terminal outcome, as an explicit state machine. Focus-regain resets and
// cancellation are total transitions, not scattered flags.
package session

import (
	"context"
	"fmt"
	"sync"

	"spellcast/internal/system"
)

// State is the session's position in the invocation lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateCapturing  State = "capturing"
	StateExecuting  State = "executing"
	StateReplacing  State = "replacing"
	StatePreviewing State = "previewing"
	StateStreaming  State = "streaming"
	StateDone       State = "done"
	StateCancelled  State = "cancelled"
	StateError      State = "error"
)

// Terminal reports whether the state ends the invocation.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled || s == StateError
}

// transitions lists the forward edges of the lifecycle. Idle (hard reset)
// and Cancelled are reachable from every state and handled separately.
var transitions = map[State][]State{
	StateIdle:       {StateCapturing},
	StateCapturing:  {StateExecuting, StateError},
	StateExecuting:  {StateReplacing, StatePreviewing, StateStreaming, StateDone, StateError},
	StateReplacing:  {StateDone, StateError},
	StatePreviewing: {StateDone, StateError},
	StateStreaming:  {StateDone, StateError},
	StateDone:       {},
	StateCancelled:  {},
	StateError:      {},
}

// allowed is the total transition predicate.
func allowed(from, to State) bool {
	if to == StateIdle || to == StateCancelled {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// EventKind tags the asynchronous events a session pushes to its consumer.
type EventKind string

const (
	// EventState reports a state transition.
	EventState EventKind = "state"
	// EventStreamChunk carries one ordered chunk of streaming output.
	EventStreamChunk EventKind = "spell-stream"
	// EventStreamEnd signals that no more chunks will arrive.
	EventStreamEnd EventKind = "spell-stream-end"
)

// Event is one asynchronous notification from the session.
type Event struct {
	Kind  EventKind
	State State  // set for EventState
	Chunk string // set for EventStreamChunk
	Err   error  // set when a transition to StateError carries a cause
}

// Session is the single mutable object tracking one invocation. It owns the
// cancellation token for the in-flight execution and the event stream the UI
// consumes. At most one session is live per process; re-activation replaces
// the previous one.
type Session struct {
	mu     sync.Mutex
	state  State
	err    error
	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a session in Idle with its own cancellation scope.
func New() *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		state:  StateIdle,
		events: make(chan Event, 64),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context carries the session's cancellation; executions run under it.
func (s *Session) Context() context.Context { return s.ctx }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the failure recorded by Fail, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Events is the push stream of session notifications, consumed in order.
func (s *Session) Events() <-chan Event { return s.events }

// To moves the session to next, rejecting transitions outside the
// lifecycle table.
func (s *Session) To(next State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !allowed(s.state, next) {
		return fmt.Errorf("invalid session transition %s -> %s", s.state, next)
	}
	s.state = next
	s.emit(Event{Kind: EventState, State: next})
	return nil
}

// Fail records err and moves to Error from any non-terminal state.
func (s *Session) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return
	}
	s.err = err
	s.state = StateError
	s.emit(Event{Kind: EventState, State: StateError, Err: err})
}

// Cancel aborts the in-flight execution and moves to Cancelled. Legal from
// any state; cancelling a terminal session is a no-op.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	if s.state.Terminal() {
		return
	}
	s.state = StateCancelled
	s.emit(Event{Kind: EventState, State: StateCancelled})
}

// Reset forces the session back to Idle, abandoning in-flight work. Used
// when the host window regains focus mid-invocation.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()
	s.state = StateIdle
	s.emit(Event{Kind: EventState, State: StateIdle})
}

// EmitChunk pushes one streaming output chunk.
func (s *Session) EmitChunk(chunk string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(Event{Kind: EventStreamChunk, Chunk: chunk})
}

// EmitStreamEnd signals end-of-stream to the consumer.
func (s *Session) EmitStreamEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emit(Event{Kind: EventStreamEnd})
}

// Close tears the event stream down. The session must not be used after.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
	close(s.events)
}

// emit delivers an event without ever blocking the state machine; a consumer
// that stopped draining loses events rather than wedging the session.
func (s *Session) emit(ev Event) {
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	default:
		system.Logger.Warn("session event dropped", "kind", ev.Kind)
	}
}
