package system

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// Desktop is the production OS binding. Clipboard access goes through the
// atotto/clipboard package; keystroke simulation and window focus shell out
// to the platform helper tool (osascript on macOS, xdotool on X11 Linux,
// PowerShell on Windows).
type Desktop struct{}

// NewDesktop returns the production OS implementation.
func NewDesktop() *Desktop { return &Desktop{} }

func (d *Desktop) ReadClipboard(ctx context.Context) (string, error) {
	text, err := clipboard.ReadAll()
	if err != nil {
		// An empty clipboard reads as an error on some platforms; treat it
		// as empty text so capture comparisons still work.
		return "", nil
	}
	return text, nil
}

func (d *Desktop) WriteClipboard(ctx context.Context, text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	return nil
}

func (d *Desktop) SimulateCopy(ctx context.Context) error {
	return d.sendShortcut(ctx, "c")
}

func (d *Desktop) SimulatePaste(ctx context.Context) error {
	return d.sendShortcut(ctx, "v")
}

// sendShortcut presses the platform modifier plus key (copy/paste chords).
func (d *Desktop) sendShortcut(ctx context.Context, key string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "System Events" to keystroke "%s" using command down`, key)
		out, err := runCmd(ctx, "osascript", "-e", script)
		if err != nil {
			return fmt.Errorf("osascript keystroke: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	case "windows":
		ps := fmt.Sprintf(`$w = New-Object -ComObject WScript.Shell; $w.SendKeys('^%s')`, key)
		out, err := runCmd(ctx, "powershell", "-NoProfile", "-Command", ps)
		if err != nil {
			return fmt.Errorf("powershell sendkeys: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	default:
		out, err := runCmd(ctx, "xdotool", "key", "--clearmodifiers", "ctrl+"+key)
		if err != nil {
			return fmt.Errorf("xdotool key: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	}
}

func (d *Desktop) TypeText(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		// osascript needs the payload quoted; escape backslashes and quotes.
		esc := strings.ReplaceAll(text, `\`, `\\`)
		esc = strings.ReplaceAll(esc, `"`, `\"`)
		script := fmt.Sprintf(`tell application "System Events" to keystroke "%s"`, esc)
		out, err := runCmd(ctx, "osascript", "-e", script)
		if err != nil {
			return fmt.Errorf("osascript type: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	case "windows":
		esc := strings.ReplaceAll(text, `'`, `''`)
		ps := fmt.Sprintf(`$w = New-Object -ComObject WScript.Shell; $w.SendKeys('%s')`, esc)
		out, err := runCmd(ctx, "powershell", "-NoProfile", "-Command", ps)
		if err != nil {
			return fmt.Errorf("powershell type: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	default:
		out, err := runCmd(ctx, "xdotool", "type", "--delay", "0", "--", text)
		if err != nil {
			return fmt.Errorf("xdotool type: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	}
}

func (d *Desktop) ActiveWindow(ctx context.Context) (WindowRef, error) {
	switch runtime.GOOS {
	case "darwin":
		script := `tell application "System Events" to get name of first process whose frontmost is true`
		out, err := runCmd(ctx, "osascript", "-e", script)
		if err != nil {
			return WindowRef{}, fmt.Errorf("osascript frontmost: %v", err)
		}
		return WindowRef{ID: strings.TrimSpace(out)}, nil
	case "windows":
		// No stable cheap handle via PowerShell one-liners; callers tolerate
		// an unknown ref and simply skip the refocus step.
		return WindowRef{}, nil
	default:
		out, err := runCmd(ctx, "xdotool", "getactivewindow")
		if err != nil {
			return WindowRef{}, fmt.Errorf("xdotool getactivewindow: %v", err)
		}
		return WindowRef{ID: strings.TrimSpace(out)}, nil
	}
}

func (d *Desktop) FocusWindow(ctx context.Context, ref WindowRef) error {
	if ref.IsZero() {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application %q to activate`, ref.ID)
		if out, err := runCmd(ctx, "osascript", "-e", script); err != nil {
			return fmt.Errorf("osascript activate: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	case "windows":
		return nil
	default:
		if out, err := runCmd(ctx, "xdotool", "windowactivate", ref.ID); err != nil {
			return fmt.Errorf("xdotool windowactivate: %v: %s", err, strings.TrimSpace(out))
		}
		return nil
	}
}
