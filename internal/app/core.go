// Package app wires the spell catalog, clipboard sequencer, and
// executor into a single facade that drives one session at a time.
package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"spellcast/internal/capture"
	"spellcast/internal/cast"
	"spellcast/internal/config"
	"spellcast/internal/history"
	"spellcast/internal/session"
	"spellcast/internal/spell"
	"spellcast/internal/system"
)

// ResultMode tells the caller how to present the outcome of Apply.
type ResultMode int

const (
	// ResultDone means the spell finished and any output was already
	// delivered (pasted, typed, or placed on the clipboard).
	ResultDone ResultMode = iota
	// ResultPreview carries the full output for display.
	ResultPreview
	// ResultStream means output arrives as spell-stream events on the
	// session's event channel.
	ResultStream
)

// Result is what Apply hands back to the UI layer.
type Result struct {
	Mode    ResultMode
	Trigger string
	Content string
}

// invocation is the per-activation state: one session, one clipboard
// hold, one catalog snapshot.
type invocation struct {
	sess   *session.Session
	seq    *capture.Sequencer
	cat    *spell.Catalog
	cap    capture.Result
	capErr error
	prev   system.WindowRef
}

// Core owns the activation lifecycle. All methods are safe for
// concurrent use; at most one invocation is live at a time and a new
// Activate replaces the previous one.
type Core struct {
	mu       sync.Mutex
	osys     system.OS
	settings config.Settings
	exec     *cast.Executor

	cur     *invocation
	events  chan session.Event
	watcher *fsnotify.Watcher
}

// NewCore builds a Core around the given OS backend and settings. It
// starts a best-effort watcher on the collections root so edits are
// logged; the catalog itself is rescanned on every activation.
func NewCore(osys system.OS, settings config.Settings) *Core {
	c := &Core{
		osys:     osys,
		settings: settings,
		exec:     &cast.Executor{},
		events:   make(chan session.Event, 64),
	}
	c.watch()
	return c
}

func (c *Core) watch() {
	root, err := c.settings.Collections()
	if err != nil {
		system.Logger.Debug("collections root unknown", "err", err)
		return
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		system.Logger.Debug("collections watcher unavailable", "err", err)
		return
	}
	if err := w.Add(root); err != nil {
		system.Logger.Debug("collections watch failed", "err", err)
		w.Close()
		return
	}
	c.watcher = w
	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				system.Logger.Debug("collections changed", "op", ev.Op.String(), "path", ev.Name)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				system.Logger.Debug("collections watch error", "err", err)
			}
		}
	}()
}

// Events returns the merged event stream across invocations. The UI
// subscribes once; each new session is forwarded into the same channel.
func (c *Core) Events() <-chan session.Event { return c.events }

func (c *Core) forward(s *session.Session) {
	go func() {
		for ev := range s.Events() {
			select {
			case c.events <- ev:
			default:
				system.Logger.Warn("dropping app event", "kind", ev.Kind, "state", ev.State)
			}
		}
	}()
}

// Activate begins a new invocation: remember the frontmost window,
// rescan the catalog, and capture the current selection. A still-live
// previous invocation is aborted first so its clipboard hold is
// restored.
func (c *Core) Activate() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked()

	sess := session.New()
	c.forward(sess)
	inv := &invocation{
		sess: sess,
		seq:  capture.NewSequencer(c.osys, c.timing()),
	}
	c.cur = inv

	if err := sess.To(session.StateCapturing); err != nil {
		return err
	}

	ctx := sess.Context()
	if win, err := c.osys.ActiveWindow(ctx); err == nil {
		inv.prev = win
	} else {
		system.Logger.Debug("active window unknown", "err", err)
	}

	root, err := c.settings.Collections()
	if err != nil {
		sess.Fail(err)
		return err
	}
	cat, err := spell.Scan(root)
	if err != nil {
		sess.Fail(err)
		return err
	}
	inv.cat = cat

	inv.cap, inv.capErr = inv.seq.Capture(ctx)
	if inv.capErr != nil {
		// The hold may still be live; keep it so Abort can restore.
		system.Logger.Warn("capture failed", "err", inv.capErr)
	}
	return nil
}

// Spells returns the current catalog snapshot in scan order, or nil
// when no invocation is live.
func (c *Core) Spells() []spell.Info {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.cat == nil {
		return nil
	}
	return c.cur.cat.Infos()
}

// Recent returns the most-recently-used triggers for ranking.
func (c *Core) Recent() []string {
	recent, err := history.Recent()
	if err != nil {
		system.Logger.Debug("history unreadable", "err", err)
		return nil
	}
	return recent
}

// Selection returns the captured text of the live invocation.
func (c *Core) Selection() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return "", false
	}
	return c.cur.cap.Text, c.cur.cap.HadSelection
}

// Apply runs the named spell against the captured selection and
// delivers its output according to the spell's output mode. It blocks
// for buffered spells and returns immediately for streaming ones.
func (c *Core) Apply(trigger string) (Result, error) {
	c.mu.Lock()
	inv := c.cur
	c.mu.Unlock()
	if inv == nil {
		return Result{}, fmt.Errorf("no active session")
	}

	d, ok := inv.cat.Lookup(trigger)
	if !ok {
		return Result{}, fmt.Errorf("unknown spell %q", trigger)
	}
	if d.AcceptsInput && inv.capErr != nil {
		err := fmt.Errorf("spell %q needs a selection: %w", trigger, inv.capErr)
		inv.sess.Fail(err)
		inv.seq.Abort(inv.sess.Context())
		return Result{}, err
	}

	sess := inv.sess
	if err := sess.To(session.StateExecuting); err != nil {
		return Result{}, err
	}
	if err := history.Record(trigger); err != nil {
		system.Logger.Debug("history not recorded", "err", err)
	}

	req := cast.Request{
		Spell:   d,
		Input:   inv.cap.Text,
		Timeout: c.settings.SpellTimeout(),
	}
	if d.Stream && d.Output == spell.OutputPreview {
		return c.applyStreamPreview(inv, d, req)
	}
	if d.Stream && d.Output == spell.OutputPaste {
		return c.applyStreamPaste(inv, d, req)
	}
	return c.applyBuffered(inv, d, req)
}

func (c *Core) applyBuffered(inv *invocation, d spell.Descriptor, req cast.Request) (Result, error) {
	sess := inv.sess
	ctx := sess.Context()

	// Preview and no-output spells never paste, so the clipboard hold
	// can be released before the subprocess runs.
	if d.Output == spell.OutputPreview || d.Output == spell.OutputNone {
		inv.seq.Abort(ctx)
	}

	out := c.exec.Run(ctx, req)
	switch out.Status {
	case cast.StatusCancelled:
		// ctx is the session context and is already dead here
		inv.seq.Abort(context.Background())
		sess.Cancel()
		return Result{}, context.Canceled
	case cast.StatusFailed:
		inv.seq.Abort(ctx)
		sess.Fail(out.Err)
		return Result{}, out.Err
	}

	switch d.Output {
	case spell.OutputPaste:
		if err := sess.To(session.StateReplacing); err != nil {
			return Result{}, err
		}
		c.refocus(ctx, inv)
		if err := inv.seq.Commit(ctx, out.Content); err != nil {
			sess.Fail(err)
			return Result{}, err
		}
		sess.To(session.StateDone)
		return Result{Mode: ResultDone, Trigger: d.Trigger}, nil

	case spell.OutputClipboard:
		if err := sess.To(session.StateReplacing); err != nil {
			return Result{}, err
		}
		if err := inv.seq.Deposit(ctx, out.Content); err != nil {
			sess.Fail(err)
			return Result{}, err
		}
		c.refocus(ctx, inv)
		sess.To(session.StateDone)
		return Result{Mode: ResultDone, Trigger: d.Trigger}, nil

	case spell.OutputPreview:
		if err := sess.To(session.StatePreviewing); err != nil {
			return Result{}, err
		}
		return Result{Mode: ResultPreview, Trigger: d.Trigger, Content: out.Content}, nil

	default: // OutputNone
		c.refocus(ctx, inv)
		sess.To(session.StateDone)
		return Result{Mode: ResultDone, Trigger: d.Trigger, Content: out.Content}, nil
	}
}

func (c *Core) applyStreamPreview(inv *invocation, d spell.Descriptor, req cast.Request) (Result, error) {
	sess := inv.sess
	ctx := sess.Context()
	inv.seq.Abort(ctx)

	out := c.exec.Run(ctx, req)
	if out.Status == cast.StatusCancelled {
		sess.Cancel()
		return Result{}, context.Canceled
	}
	if out.Status != cast.StatusStreaming {
		sess.Fail(out.Err)
		return Result{}, out.Err
	}
	if err := sess.To(session.StateStreaming); err != nil {
		return Result{}, err
	}
	go func() {
		for chunk := range out.Stream.C {
			sess.EmitChunk(chunk)
		}
		sess.EmitStreamEnd()
		if err := out.Stream.Wait(); err != nil {
			sess.Fail(err)
		}
	}()
	return Result{Mode: ResultStream, Trigger: d.Trigger}, nil
}

func (c *Core) applyStreamPaste(inv *invocation, d spell.Descriptor, req cast.Request) (Result, error) {
	sess := inv.sess
	ctx := sess.Context()
	// Chunks are typed directly, so the clipboard is never touched.
	inv.seq.Abort(ctx)

	out := c.exec.Run(ctx, req)
	if out.Status == cast.StatusCancelled {
		sess.Cancel()
		return Result{}, context.Canceled
	}
	if out.Status != cast.StatusStreaming {
		sess.Fail(out.Err)
		return Result{}, out.Err
	}
	if err := sess.To(session.StateReplacing); err != nil {
		return Result{}, err
	}
	c.refocus(ctx, inv)
	go func() {
		for chunk := range out.Stream.C {
			if err := c.osys.TypeText(ctx, chunk); err != nil {
				sess.Fail(err)
				return
			}
		}
		if err := out.Stream.Wait(); err != nil {
			sess.Fail(err)
			return
		}
		sess.To(session.StateDone)
	}()
	return Result{Mode: ResultDone, Trigger: d.Trigger}, nil
}

// Dismiss closes a preview or finished stream, moving the session to
// Done.
func (c *Core) Dismiss() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return
	}
	st := c.cur.sess.State()
	if st == session.StatePreviewing || st == session.StateStreaming {
		c.cur.sess.To(session.StateDone)
	}
}

// Cancel aborts the live invocation: the subprocess context is
// cancelled, the clipboard hold is restored, and focus returns to the
// remembered window.
func (c *Core) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil {
		return
	}
	inv := c.cur
	inv.sess.Cancel()
	// the session context died with Cancel; teardown still has to restore
	// the clipboard and hand focus back
	ctx := context.Background()
	inv.seq.Abort(ctx)
	c.refocus(ctx, inv)
}

// FocusGained is the hard reset: the host regaining focus mid-session
// means the user bailed out, so any live invocation is torn down.
func (c *Core) FocusGained() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cur == nil || c.cur.sess.State() == session.StateIdle {
		return
	}
	c.dropLocked()
}

// Close releases the watcher and any live invocation.
func (c *Core) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dropLocked()
	if c.watcher != nil {
		c.watcher.Close()
		c.watcher = nil
	}
}

func (c *Core) dropLocked() {
	if c.cur == nil {
		return
	}
	inv := c.cur
	c.cur = nil
	inv.seq.Abort(inv.sess.Context())
	inv.sess.Cancel()
	inv.sess.Close()
}

func (c *Core) refocus(ctx context.Context, inv *invocation) {
	if inv.prev.IsZero() {
		return
	}
	if err := c.osys.FocusWindow(ctx, inv.prev); err != nil {
		system.Logger.Debug("refocus failed", "err", err)
	}
}

func (c *Core) timing() capture.Timing {
	return capture.Timing{
		CopySettle:   c.settings.CopySettle(),
		PollInterval: c.settings.PollInterval(),
		PasteSettle:  c.settings.PasteSettle(),
	}
}
