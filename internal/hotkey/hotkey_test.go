//go:build !windows

package hotkey

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestChanFires(t *testing.T) {
	c := make(Chan, 1)
	fires := c.Start(context.Background())
	c.Fire()
	select {
	case <-fires:
	case <-time.After(time.Second):
		t.Fatal("manual trigger did not fire")
	}
}

func TestSignalsFireOnSIGUSR1(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fires := NewSignals().Start(ctx)
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fires:
	case <-time.After(2 * time.Second):
		t.Fatal("SIGUSR1 did not activate")
	}

	// Coalescing: a burst while idle yields at most a pending activation,
	// never a blocked sender.
	for i := 0; i < 3; i++ {
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGUSR1); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-fires:
	case <-time.After(2 * time.Second):
		t.Fatal("burst was lost entirely")
	}

	cancel()
	select {
	case _, ok := <-fires:
		if ok {
			// a pending activation may still drain before close
			if _, ok := <-fires; ok {
				t.Fatal("channel not closed after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
