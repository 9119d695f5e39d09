//go:build windows

package hotkey

import "context"

// Signals is a no-op on Windows, which has no SIGUSR1. Bind the hotkey to
// `spellcast` directly (AutoHotkey: Run, spellcast) instead of the daemon.
type Signals struct{}

// NewSignals returns the signal-based production trigger.
func NewSignals() *Signals { return &Signals{} }

func (s *Signals) Start(ctx context.Context) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		<-ctx.Done()
		close(out)
	}()
	return out
}
