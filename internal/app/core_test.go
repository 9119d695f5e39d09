package app

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"spellcast/internal/cast"
	"spellcast/internal/config"
	"spellcast/internal/session"
	"spellcast/internal/system"
	tu "spellcast/internal/testutil"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("spells run through sh")
	}
}

func writeCollection(t *testing.T, root, name, index string) {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}
}

// newTestCore isolates config state in a temp dir and points the
// collections root at a scratch directory the test populates.
func newTestCore(t *testing.T, fake *system.Fake) (*Core, string) {
	t.Helper()
	cfgDir := t.TempDir()
	t.Cleanup(tu.WithEnv(t, "XDG_CONFIG_HOME", cfgDir))
	t.Cleanup(tu.WithEnv(t, "HOME", cfgDir))

	root := t.TempDir()
	settings := config.Settings{
		CollectionsDir: root,
		CopySettleMS:   200,
		PollIntervalMS: 5,
		PasteSettleMS:  1,
	}
	c := NewCore(fake, settings)
	t.Cleanup(c.Close)
	return c, root
}

const upperIndex = `{
  "spells": [
    {
      "trigger": "uppercase",
      "description": "Uppercase the selection",
      "entry": {"default": "tr a-z A-Z"},
      "settings": {"acceptsInput": true}
    }
  ]
}`

const uuidIndex = `{
  "spells": [
    {
      "trigger": "uuid",
      "description": "Generate an identifier",
      "entry": {"default": "printf fixed-id"}
    }
  ]
}`

func TestApplyPasteReplacesSelection(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("previous clipboard")
	fake.Selection = "hello"
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "text", upperIndex)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if text, ok := c.Selection(); !ok || text != "hello" {
		t.Fatalf("selection = %q, %v", text, ok)
	}

	res, err := c.Apply("uppercase")
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != ResultDone {
		t.Fatalf("mode = %v, want ResultDone", res.Mode)
	}
	if got := fake.Clipboard(); got != "previous clipboard" {
		t.Fatalf("clipboard = %q, want restored original", got)
	}
	calls := fake.CallNames()
	if !strings.Contains(calls, "write:HELLO,paste") {
		t.Fatalf("result not pasted, calls: %s", calls)
	}
	if !strings.Contains(calls, "focus:host") {
		t.Fatalf("previous window not refocused, calls: %s", calls)
	}
}

func TestApplyDynamicWithoutSelection(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("keep me")
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "gen", uuidIndex)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Selection(); ok {
		t.Fatal("expected no selection")
	}

	if _, err := c.Apply("uuid"); err != nil {
		t.Fatal(err)
	}
	if got := fake.Clipboard(); got != "keep me" {
		t.Fatalf("clipboard = %q, want restored original", got)
	}
	if !strings.Contains(fake.CallNames(), "write:fixed-id,paste") {
		t.Fatalf("generated text not pasted, calls: %s", fake.CallNames())
	}
}

func TestApplyUnknownSpell(t *testing.T) {
	fake := system.NewFake("prev")
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "gen", uuidIndex)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Apply("nope"); err == nil {
		t.Fatal("expected error for unknown trigger")
	}
}

func TestApplyTimeoutLeavesClipboardIntact(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	fake.Selection = "x"
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "slow", `{
  "spells": [
    {
      "trigger": "slow",
      "entry": {"default": "sleep 5"},
      "settings": {"acceptsInput": true}
    }
  ]
}`)
	c.settings.SpellTimeoutMS = 100

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	_, err := c.Apply("slow")
	if !errors.Is(err, cast.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", err)
	}
	if got := fake.Clipboard(); got != "prev" {
		t.Fatalf("clipboard = %q, want original restored", got)
	}
}

func TestCancelDuringExecution(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	fake.Selection = "x"
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "slow", `{
  "spells": [
    {
      "trigger": "slow",
      "entry": {"default": "sleep 5"},
      "settings": {"acceptsInput": true}
    }
  ]
}`)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	go func() {
		time.Sleep(50 * time.Millisecond)
		c.Cancel()
	}()
	if _, err := c.Apply("slow"); err == nil {
		t.Fatal("expected cancellation error")
	}
	if got := fake.Clipboard(); got != "prev" {
		t.Fatalf("clipboard = %q, want original restored", got)
	}
	// teardown must hand focus back even though the session context is dead
	if !strings.Contains(fake.CallNames(), "focus:host") {
		t.Fatalf("previous window not refocused after cancel, calls: %s", fake.CallNames())
	}
}

func TestApplyPreviewReturnsContent(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	fake.Selection = "hello"
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "view", `{
  "spells": [
    {
      "trigger": "shout",
      "entry": {"default": "tr a-z A-Z"},
      "settings": {"acceptsInput": true, "outputMode": "preview"}
    }
  ]
}`)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	res, err := c.Apply("shout")
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != ResultPreview {
		t.Fatalf("mode = %v, want ResultPreview", res.Mode)
	}
	if strings.TrimSpace(res.Content) != "HELLO" {
		t.Fatalf("content = %q", res.Content)
	}
	// Preview never pastes, so the hold is released up front.
	if got := fake.Clipboard(); got != "prev" {
		t.Fatalf("clipboard = %q, want original restored", got)
	}
	c.Dismiss()
}

func TestApplyClipboardOutputKeepsResult(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "gen", `{
  "spells": [
    {
      "trigger": "id",
      "entry": {"default": "printf abc123"},
      "settings": {"outputMode": "clipboard"}
    }
  ]
}`)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Apply("id"); err != nil {
		t.Fatal(err)
	}
	if got := fake.Clipboard(); got != "abc123" {
		t.Fatalf("clipboard = %q, want spell output kept", got)
	}
	if strings.Contains(fake.CallNames(), "paste") {
		t.Fatalf("clipboard output must not paste, calls: %s", fake.CallNames())
	}
}

func TestApplyStreamPreviewEmitsChunks(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "stream", `{
  "spells": [
    {
      "trigger": "count",
      "entry": {"default": "printf 'a\nb\nc\n'"},
      "settings": {"outputMode": "preview", "streamMode": true}
    }
  ]
}`)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	res, err := c.Apply("count")
	if err != nil {
		t.Fatal(err)
	}
	if res.Mode != ResultStream {
		t.Fatalf("mode = %v, want ResultStream", res.Mode)
	}

	var got strings.Builder
	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-c.Events():
			if ev.Kind == session.EventStreamEnd {
				if got.String() != "a\nb\nc\n" {
					t.Fatalf("streamed = %q", got.String())
				}
				return
			}
			if ev.Kind == session.EventStreamChunk {
				got.WriteString(ev.Chunk)
			}
		case <-deadline:
			t.Fatal("stream never ended")
		}
	}
}

func TestApplyStreamPasteTypesChunks(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "stream", `{
  "spells": [
    {
      "trigger": "dictate",
      "entry": {"default": "printf 'one two'"},
      "settings": {"streamMode": true}
    }
  ]
}`)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Apply("dictate"); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for strings.Join(fake.Typed(), "") != "one two" {
		if time.Now().After(deadline) {
			t.Fatalf("typed = %q", fake.Typed())
		}
		time.Sleep(10 * time.Millisecond)
	}
	if got := fake.Clipboard(); got != "prev" {
		t.Fatalf("clipboard = %q, typing must not touch it", got)
	}
}

func TestFocusGainedResetsSession(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	fake.Selection = "hello"
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "text", upperIndex)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	c.FocusGained()

	if got := fake.Clipboard(); got != "prev" {
		t.Fatalf("clipboard = %q, want original restored", got)
	}
	if _, err := c.Apply("uppercase"); err == nil {
		t.Fatal("expected error after reset")
	}
}

func TestActivateReplacesLiveInvocation(t *testing.T) {
	skipOnWindows(t)
	fake := system.NewFake("prev")
	fake.Selection = "hello"
	c, root := newTestCore(t, fake)
	writeCollection(t, root, "text", upperIndex)

	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	if err := c.Activate(); err != nil {
		t.Fatal(err)
	}
	// The first hold must have been restored before the second capture.
	if text, ok := c.Selection(); !ok || text != "hello" {
		t.Fatalf("selection after replace = %q, %v", text, ok)
	}
	if _, err := c.Apply("uppercase"); err != nil {
		t.Fatal(err)
	}
	if got := fake.Clipboard(); got != "prev" {
		t.Fatalf("clipboard = %q, want original restored", got)
	}
}
