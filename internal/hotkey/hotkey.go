// Package hotkey is the activation boundary: something external decides when
// the palette opens. Registering a true OS-global hotkey is out of scope;
// the shipped production trigger reacts to SIGUSR1, which desktop hotkey
// daemons (skhd, sxhkd) can send with a one-line binding.
package hotkey

import (
	"context"
)

// Trigger emits an event each time the user asks for the palette.
type Trigger interface {
	// Start begins listening and returns the activation channel. The
	// channel is closed when ctx is cancelled.
	Start(ctx context.Context) <-chan struct{}
}

// Chan is a manual trigger for tests and embedding.
type Chan chan struct{}

func (c Chan) Start(ctx context.Context) <-chan struct{} { return c }

// Fire requests an activation.
func (c Chan) Fire() { c <- struct{}{} }
