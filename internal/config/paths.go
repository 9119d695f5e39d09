package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the spellcast config directory under the user config base.
// On Linux, this typically resolves to $XDG_CONFIG_HOME/spellcast; on macOS
// to ~/Library/Application Support/spellcast; and on Windows to
// %AppData%/spellcast. Falls back to HOME when UserConfigDir is unavailable.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", errors.New("cannot determine config directory")
		}
	}
	return filepath.Join(base, "spellcast"), nil
}

// CollectionsDir returns the default spell collections root, ~/.spellcast/collections.
// Users edit spells in place there, so it lives under HOME rather than the
// platform config base.
func CollectionsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return "", errors.New("cannot determine home directory")
	}
	return filepath.Join(home, ".spellcast", "collections"), nil
}
