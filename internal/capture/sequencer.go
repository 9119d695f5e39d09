// Package capture owns the clipboard during a spell invocation. It implements
// the save→copy→read→(handoff)→paste→restore protocol with bounded waits, and
// guarantees that clipboard ownership acquired by Capture is released exactly
// once on every exit path.
package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"spellcast/internal/system"
)

var (
	// ErrCaptureTimeout is returned when clipboard reads keep failing until
	// the copy settle deadline.
	ErrCaptureTimeout = errors.New("selection capture timed out")
	// ErrPasteFailed is returned when the paste keystroke could not be sent.
	// The spell result is left on the clipboard so the user can paste by hand.
	ErrPasteFailed = errors.New("paste failed")
	// ErrBusy is returned when a capture is started while a previous one
	// still owns the clipboard.
	ErrBusy = errors.New("clipboard capture already in progress")
)

// state tracks the sequencer's position in the protocol.
type state int

const (
	stateIdle state = iota
	stateSaving
	stateSimulatingCopy
	stateReading
	stateHeld // handoff: selection captured, awaiting commit/abort
	stateSimulatingPaste
	stateRestoring
)

// Result is what a capture produced.
type Result struct {
	// Text is the selected text, empty when nothing was selected.
	Text string
	// HadSelection distinguishes an empty selection from no selection at
	// all (clipboard unchanged after the simulated copy).
	HadSelection bool
}

// Timing bounds the waits in the protocol.
type Timing struct {
	// CopySettle is the total budget for the simulated copy to land.
	CopySettle time.Duration
	// PollInterval is how often the clipboard is re-read while waiting.
	PollInterval time.Duration
	// PasteSettle is the delay after the paste keystroke before restore.
	PasteSettle time.Duration
}

// Sequencer drives one capture/restore cycle at a time. It is the only
// component allowed to touch the clipboard while a cycle is outstanding.
// Commit/Deposit and Abort may race (cancel arrives mid-apply), so the
// protocol state is guarded.
type Sequencer struct {
	os     system.OS
	timing Timing

	mu    sync.Mutex
	state state
	saved string
}

// NewSequencer returns a sequencer over the given OS binding.
func NewSequencer(osys system.OS, timing Timing) *Sequencer {
	return &Sequencer{os: osys, timing: timing}
}

// Holding reports whether the sequencer currently owns the clipboard.
func (s *Sequencer) Holding() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == stateHeld
}

// Capture saves the clipboard, simulates the platform copy keystroke, and
// polls for the copied selection within the settle budget. On success the
// sequencer holds the saved snapshot until exactly one of Commit, Deposit or
// Abort releases it. A clipboard unchanged after the settle window means no
// selection existed; that is a success with HadSelection=false.
func (s *Sequencer) Capture(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateIdle {
		return Result{}, ErrBusy
	}

	s.state = stateSaving
	saved, err := s.os.ReadClipboard(ctx)
	if err != nil {
		s.state = stateIdle
		return Result{}, fmt.Errorf("save clipboard: %w", err)
	}
	s.saved = saved

	s.state = stateSimulatingCopy
	if err := s.os.SimulateCopy(ctx); err != nil {
		// nothing was mutated yet; no restore owed
		s.state = stateIdle
		return Result{}, fmt.Errorf("simulate copy: %w", err)
	}

	s.state = stateReading
	text, readOK := s.pollForCopy(ctx, saved)
	// from here on the clipboard may hold the selection; ownership is live
	s.state = stateHeld
	if !readOK {
		return Result{}, ErrCaptureTimeout
	}
	if text == saved {
		return Result{HadSelection: false}, nil
	}
	return Result{Text: text, HadSelection: true}, nil
}

// pollForCopy re-reads the clipboard until it changes from the snapshot or
// the settle budget runs out. The second return is false only when every
// read failed (or the context died), distinguishing a broken clipboard from
// a genuinely empty selection.
func (s *Sequencer) pollForCopy(ctx context.Context, saved string) (string, bool) {
	deadline := time.Now().Add(s.timing.CopySettle)
	anyRead := false
	last := saved
	for {
		if ctx.Err() != nil {
			return last, anyRead
		}
		text, err := s.os.ReadClipboard(ctx)
		if err == nil {
			anyRead = true
			last = text
			if text != saved {
				return text, true
			}
		}
		if time.Now().After(deadline) {
			return last, anyRead
		}
		time.Sleep(s.timing.PollInterval)
	}
}

// Commit places the result on the clipboard, simulates the paste keystroke,
// waits for the paste to land, and restores the saved snapshot. On paste
// failure the result stays on the clipboard (ErrPasteFailed) and ownership
// is released without restoring.
func (s *Sequencer) Commit(ctx context.Context, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateHeld {
		return fmt.Errorf("commit without a held capture")
	}

	s.state = stateSimulatingPaste
	// trailing newline would paste an extra line break in most apps
	if err := s.os.WriteClipboard(ctx, strings.TrimRight(result, "\n")); err != nil {
		s.restore(ctx)
		return fmt.Errorf("write result: %w", err)
	}
	if err := s.os.SimulatePaste(ctx); err != nil {
		// leave the result in place for a manual paste
		s.state = stateIdle
		return fmt.Errorf("%w: %v", ErrPasteFailed, err)
	}
	time.Sleep(s.timing.PasteSettle)
	s.restore(ctx)
	return nil
}

// Deposit places the result on the clipboard as the delivery target itself:
// no paste, no restore. Used by clipboard-output spells.
func (s *Sequencer) Deposit(ctx context.Context, result string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateHeld {
		return fmt.Errorf("deposit without a held capture")
	}
	s.state = stateIdle
	if err := s.os.WriteClipboard(ctx, strings.TrimRight(result, "\n")); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Abort restores the saved clipboard without pasting. Safe to call from any
// state, idempotent.
func (s *Sequencer) Abort(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == stateIdle {
		return
	}
	s.restore(ctx)
}

// restore writes the snapshot back and returns to Idle. Restore failures are
// logged, not returned: by this point the invocation outcome is already
// decided and must not be overwritten.
func (s *Sequencer) restore(ctx context.Context) {
	s.state = stateRestoring
	if err := s.os.WriteClipboard(ctx, s.saved); err != nil {
		system.Logger.Warn("failed to restore clipboard", "err", err)
	}
	s.state = stateIdle
}
