package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Settings holds the tunable timing and path knobs, persisted as
// settings.json in the config dir. Zero fields fall back to defaults.
type Settings struct {
	// CollectionsDir overrides the default spell collections root.
	CollectionsDir string `json:"collectionsDir,omitempty"`
	// CopySettleMS bounds the wait for the simulated copy to land on the
	// clipboard. The clipboard is polled until this deadline.
	CopySettleMS int `json:"copySettleMs,omitempty"`
	// PollIntervalMS is the clipboard polling interval during capture.
	PollIntervalMS int `json:"pollIntervalMs,omitempty"`
	// PasteSettleMS is the delay after the paste keystroke before the saved
	// clipboard is restored.
	PasteSettleMS int `json:"pasteSettleMs,omitempty"`
	// SpellTimeoutMS is the default per-invocation subprocess budget.
	SpellTimeoutMS int `json:"spellTimeoutMs,omitempty"`
}

// Defaults mirror the timings the capture protocol was tuned with.
const (
	DefaultCopySettleMS   = 400
	DefaultPollIntervalMS = 20
	DefaultPasteSettleMS  = 150
	DefaultSpellTimeoutMS = 30_000
)

// CopySettle returns the copy settle deadline as a duration.
func (s Settings) CopySettle() time.Duration {
	return msOrDefault(s.CopySettleMS, DefaultCopySettleMS)
}

// PollInterval returns the clipboard poll interval as a duration.
func (s Settings) PollInterval() time.Duration {
	return msOrDefault(s.PollIntervalMS, DefaultPollIntervalMS)
}

// PasteSettle returns the paste settle delay as a duration.
func (s Settings) PasteSettle() time.Duration {
	return msOrDefault(s.PasteSettleMS, DefaultPasteSettleMS)
}

// SpellTimeout returns the default spell execution budget as a duration.
func (s Settings) SpellTimeout() time.Duration {
	return msOrDefault(s.SpellTimeoutMS, DefaultSpellTimeoutMS)
}

// Collections resolves the collections root, honoring the override.
func (s Settings) Collections() (string, error) {
	if s.CollectionsDir != "" {
		return s.CollectionsDir, nil
	}
	return CollectionsDir()
}

func msOrDefault(ms, def int) time.Duration {
	if ms <= 0 {
		ms = def
	}
	return time.Duration(ms) * time.Millisecond
}

// settingsPath returns the settings storage file path.
func settingsPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.json"), nil
}

// LoadSettings returns the persisted settings. Missing file yields defaults.
func LoadSettings() (Settings, error) {
	var s Settings
	p, err := settingsPath()
	if err != nil {
		return s, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// SaveSettings writes settings to disk, creating the directory if needed.
func SaveSettings(s Settings) error {
	p, err := settingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o644)
}
