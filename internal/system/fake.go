package system

import (
	"context"
	"strings"
	"sync"
)

// Fake is the deterministic in-memory OS used by tests. It records every call
// in order, simulates copy by placing a scripted selection on the clipboard,
// and lets tests inject per-operation failures. Like the production
// backends, every operation fails once its context is dead.
type Fake struct {
	mu sync.Mutex

	clip  string
	calls []string

	// Selection is what a simulated copy puts on the clipboard. Empty means
	// the user had nothing selected, so the clipboard stays unchanged.
	Selection string
	// CopyLag delays the copied text by N clipboard reads, modeling the
	// asynchronous OS copy the sequencer polls for.
	CopyLag int

	// Injected failures. Nil means the operation succeeds.
	ReadErr error
	// ReadErrAfter delays ReadErr by N successful reads (0 = fail at once).
	ReadErrAfter int
	WriteErr     error
	CopyErr  error
	PasteErr error
	TypeErr  error
	FocusErr error

	Active WindowRef

	pending    string
	pendingLag int
	hasPending bool
	reads      int
	typed      []string
}

// NewFake returns a Fake with the given initial clipboard content.
func NewFake(clip string) *Fake {
	return &Fake{clip: clip, Active: WindowRef{ID: "host"}}
}

func (f *Fake) record(call string) {
	f.calls = append(f.calls, call)
}

// Calls returns the ordered operation log.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallNames returns the log as a single comma-joined string for assertions.
func (f *Fake) CallNames() string {
	return strings.Join(f.Calls(), ",")
}

// Clipboard returns the current fake clipboard content.
func (f *Fake) Clipboard() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clip
}

// Typed returns the chunks delivered via TypeText, in order.
func (f *Fake) Typed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.typed))
	copy(out, f.typed)
	return out
}

func (f *Fake) ReadClipboard(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("read")
	if f.ReadErr != nil && f.reads >= f.ReadErrAfter {
		return "", f.ReadErr
	}
	f.reads++
	if f.hasPending {
		if f.pendingLag > 0 {
			f.pendingLag--
		} else {
			f.clip = f.pending
			f.hasPending = false
		}
	}
	return f.clip, nil
}

func (f *Fake) WriteClipboard(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("write:" + text)
	if f.WriteErr != nil {
		return f.WriteErr
	}
	f.clip = text
	f.hasPending = false
	return nil
}

func (f *Fake) SimulateCopy(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("copy")
	if f.CopyErr != nil {
		return f.CopyErr
	}
	if f.Selection != "" {
		f.pending = f.Selection
		f.pendingLag = f.CopyLag
		f.hasPending = true
	}
	return nil
}

func (f *Fake) SimulatePaste(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("paste")
	return f.PasteErr
}

func (f *Fake) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("type:" + text)
	if f.TypeErr != nil {
		return f.TypeErr
	}
	f.typed = append(f.typed, text)
	return nil
}

func (f *Fake) ActiveWindow(ctx context.Context) (WindowRef, error) {
	if err := ctx.Err(); err != nil {
		return WindowRef{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("active")
	return f.Active, nil
}

func (f *Fake) FocusWindow(ctx context.Context, ref WindowRef) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("focus:" + ref.ID)
	return f.FocusErr
}
