package config

import (
	"testing"
	"time"

	tu "spellcast/internal/testutil"
)

func TestSettings_Defaults(t *testing.T) {
	var s Settings
	if got := s.CopySettle(); got != 400*time.Millisecond {
		t.Fatalf("CopySettle default = %v", got)
	}
	if got := s.PollInterval(); got != 20*time.Millisecond {
		t.Fatalf("PollInterval default = %v", got)
	}
	if got := s.PasteSettle(); got != 150*time.Millisecond {
		t.Fatalf("PasteSettle default = %v", got)
	}
	if got := s.SpellTimeout(); got != 30*time.Second {
		t.Fatalf("SpellTimeout default = %v", got)
	}
}

func TestSettings_SaveLoad(t *testing.T) {
	tmp := t.TempDir()
	defer tu.WithEnv(t, "XDG_CONFIG_HOME", tmp)()
	defer tu.WithEnv(t, "HOME", tmp)()

	// missing file yields zero settings without error
	s, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s != (Settings{}) {
		t.Fatalf("expected zero settings, got %+v", s)
	}

	s.SpellTimeoutMS = 2000
	s.CollectionsDir = tmp
	if err := SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings error: %v", err)
	}

	got, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if got.SpellTimeout() != 2*time.Second {
		t.Fatalf("SpellTimeout = %v", got.SpellTimeout())
	}
	dir, err := got.Collections()
	if err != nil || dir != tmp {
		t.Fatalf("Collections = %q, %v", dir, err)
	}
}
