package system

import "context"

// WindowRef identifies a host application window (or process) so focus can be
// returned to it after the palette closes. The zero value means "unknown".
type WindowRef struct {
	ID string
}

// IsZero reports whether the reference points at nothing.
func (w WindowRef) IsZero() bool { return w.ID == "" }

// OS is the capability boundary over the desktop facilities spellcast needs:
// clipboard access, keystroke simulation, and window focus. It carries no
// behavioral logic of its own. Production code binds to Desktop; tests use
// Fake. Every component that touches the desktop takes an OS value, never a
// global call.
type OS interface {
	// ReadClipboard returns the current clipboard text. An empty clipboard
	// yields "" with a nil error.
	ReadClipboard(ctx context.Context) (string, error)
	// WriteClipboard replaces the clipboard text.
	WriteClipboard(ctx context.Context, text string) error

	// SimulateCopy sends the platform copy keystroke to the focused app.
	SimulateCopy(ctx context.Context) error
	// SimulatePaste sends the platform paste keystroke to the focused app.
	SimulatePaste(ctx context.Context) error
	// TypeText types text into the focused app keystroke by keystroke.
	// Used by stream-to-paste spells that emit output incrementally.
	TypeText(ctx context.Context, text string) error

	// ActiveWindow returns a reference to the currently focused window.
	ActiveWindow(ctx context.Context) (WindowRef, error)
	// FocusWindow gives focus back to a previously captured window.
	FocusWindow(ctx context.Context, ref WindowRef) error
}
