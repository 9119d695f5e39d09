package capture

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"spellcast/internal/system"
)

func fastTiming() Timing {
	return Timing{
		CopySettle:   100 * time.Millisecond,
		PollInterval: time.Millisecond,
		PasteSettle:  time.Millisecond,
	}
}

func TestCapture_SelectionThenCommitRestores(t *testing.T) {
	fake := system.NewFake("previous clipboard")
	fake.Selection = "hello"
	fake.CopyLag = 2 // copy lands on the third poll
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	res, err := seq.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	if !res.HadSelection || res.Text != "hello" {
		t.Fatalf("capture = %+v", res)
	}
	if !seq.Holding() {
		t.Fatalf("expected clipboard to be held after capture")
	}

	if err := seq.Commit(ctx, "HELLO"); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if got := fake.Clipboard(); got != "previous clipboard" {
		t.Fatalf("clipboard not restored, got %q", got)
	}

	// protocol order: save read, copy keystroke, polls, result write,
	// paste keystroke, restoring write
	calls := fake.CallNames()
	if !strings.HasPrefix(calls, "read,copy,read") {
		t.Fatalf("unexpected call order: %s", calls)
	}
	if !strings.HasSuffix(calls, "write:HELLO,paste,write:previous clipboard") {
		t.Fatalf("unexpected call order: %s", calls)
	}
}

func TestCapture_NoSelection(t *testing.T) {
	fake := system.NewFake("unchanged")
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	res, err := seq.Capture(ctx)
	if err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	if res.HadSelection || res.Text != "" {
		t.Fatalf("capture = %+v", res)
	}

	seq.Abort(ctx)
	if got := fake.Clipboard(); got != "unchanged" {
		t.Fatalf("clipboard = %q", got)
	}
}

func TestCapture_RejectsReentry(t *testing.T) {
	fake := system.NewFake("x")
	fake.Selection = "sel"
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	if _, err := seq.Capture(ctx); err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	if _, err := seq.Capture(ctx); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy, got %v", err)
	}
	seq.Abort(ctx)
}

func TestCapture_ReadFailuresTimeout(t *testing.T) {
	fake := system.NewFake("x")
	fake.ReadErr = errors.New("clipboard unavailable")
	fake.ReadErrAfter = 1 // the save read succeeds, polling reads fail
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	_, err := seq.Capture(ctx)
	if !errors.Is(err, ErrCaptureTimeout) {
		t.Fatalf("expected ErrCaptureTimeout, got %v", err)
	}
	// capture still owes a restore
	seq.Abort(ctx)
	if got := fake.Clipboard(); got != "x" {
		t.Fatalf("clipboard = %q", got)
	}
}

func TestCommit_TrimsTrailingNewlines(t *testing.T) {
	fake := system.NewFake("old")
	fake.Selection = "sel"
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	if _, err := seq.Capture(ctx); err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	if err := seq.Commit(ctx, "result\n"); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if !strings.Contains(fake.CallNames(), "write:result,") {
		t.Fatalf("result not trimmed: %s", fake.CallNames())
	}
}

func TestCommit_PasteFailedLeavesResultOnClipboard(t *testing.T) {
	fake := system.NewFake("old")
	fake.Selection = "sel"
	fake.PasteErr = errors.New("no input permission")
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	if _, err := seq.Capture(ctx); err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	err := seq.Commit(ctx, "RESULT")
	if !errors.Is(err, ErrPasteFailed) {
		t.Fatalf("expected ErrPasteFailed, got %v", err)
	}
	if got := fake.Clipboard(); got != "RESULT" {
		t.Fatalf("result not left on clipboard, got %q", got)
	}
	// ownership released: a later abort must not clobber the result
	seq.Abort(ctx)
	if got := fake.Clipboard(); got != "RESULT" {
		t.Fatalf("abort after release overwrote clipboard: %q", got)
	}
}

func TestDeposit_SkipsPasteAndRestore(t *testing.T) {
	fake := system.NewFake("old")
	fake.Selection = "sel"
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	if _, err := seq.Capture(ctx); err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	if err := seq.Deposit(ctx, "kept"); err != nil {
		t.Fatalf("Deposit error: %v", err)
	}
	if got := fake.Clipboard(); got != "kept" {
		t.Fatalf("clipboard = %q", got)
	}
	if strings.Contains(fake.CallNames(), "paste") {
		t.Fatalf("deposit must not paste: %s", fake.CallNames())
	}
}

func TestAbort_Idempotent(t *testing.T) {
	fake := system.NewFake("old")
	fake.Selection = "sel"
	seq := NewSequencer(fake, fastTiming())
	ctx := context.Background()

	if _, err := seq.Capture(ctx); err != nil {
		t.Fatalf("Capture error: %v", err)
	}
	seq.Abort(ctx)
	seq.Abort(ctx)

	if got := strings.Count(fake.CallNames(), "write:old"); got != 1 {
		t.Fatalf("restore ran %d times: %s", got, fake.CallNames())
	}
	if got := fake.Clipboard(); got != "old" {
		t.Fatalf("clipboard = %q", got)
	}
}
