// Package settings provides the interactive form for settings.json.
package settings

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"spellcast/internal/config"
)

// Run launches an interactive form over the timing and path knobs and
// saves the result to settings.json.
func Run() error {
	current, err := config.LoadSettings()
	if err != nil {
		return err
	}

	collections := current.CollectionsDir
	copySettle := msField(current.CopySettleMS, config.DefaultCopySettleMS)
	pollInterval := msField(current.PollIntervalMS, config.DefaultPollIntervalMS)
	pasteSettle := msField(current.PasteSettleMS, config.DefaultPasteSettleMS)
	spellTimeout := msField(current.SpellTimeoutMS, config.DefaultSpellTimeoutMS)

	green := lipgloss.Color("#03BF87")
	theme := huh.ThemeCharm()
	theme.FieldSeparator = lipgloss.NewStyle()
	theme.Blurred.Title = theme.Blurred.Title.Width(22).Foreground(lipgloss.Color("7"))
	theme.Focused.Title = theme.Focused.Title.Width(22).Foreground(green).Bold(true)
	theme.Focused.Base.BorderForeground(green)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Settings").Description("Timing knobs are in milliseconds; leave a field as-is to keep it."),
			huh.NewInput().Title("Collections dir").Placeholder("default: ~/.spellcast/collections").Value(&collections),
			huh.NewInput().Title("Copy settle").Validate(validMS).Value(&copySettle),
			huh.NewInput().Title("Poll interval").Validate(validMS).Value(&pollInterval),
			huh.NewInput().Title("Paste settle").Validate(validMS).Value(&pasteSettle),
			huh.NewInput().Title("Spell timeout").Validate(validMS).Value(&spellTimeout),
		),
	).WithTheme(theme).WithWidth(60)

	if err := form.Run(); err != nil {
		return err // form canceled or failed
	}

	next := config.Settings{
		CollectionsDir: collections,
		CopySettleMS:   parseMS(copySettle),
		PollIntervalMS: parseMS(pollInterval),
		PasteSettleMS:  parseMS(pasteSettle),
		SpellTimeoutMS: parseMS(spellTimeout),
	}
	if err := config.SaveSettings(next); err != nil {
		return err
	}
	fmt.Println("\n✓ saved settings.json")
	return nil
}

func msField(ms, def int) string {
	if ms <= 0 {
		ms = def
	}
	return strconv.Itoa(ms)
}

func validMS(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of milliseconds")
	}
	return nil
}

func parseMS(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
