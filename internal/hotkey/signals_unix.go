//go:build !windows

package hotkey

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Signals activates on SIGUSR1.
type Signals struct{}

// NewSignals returns the signal-based production trigger.
func NewSignals() *Signals { return &Signals{} }

func (s *Signals) Start(ctx context.Context) <-chan struct{} {
	out := make(chan struct{}, 1)
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGUSR1)
	go func() {
		defer close(out)
		defer signal.Stop(sigc)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sigc:
				select {
				case out <- struct{}{}:
				default: // an activation is already pending
				}
			}
		}
	}()
	return out
}
