package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"spellcast/internal/app"
)

// Commands
func activateCmd(core *app.Core) tea.Cmd {
	return func() tea.Msg {
		if err := core.Activate(); err != nil {
			return errMsg{err}
		}
		text, had := core.Selection()
		return activatedMsg{
			spells:    core.Spells(),
			recent:    core.Recent(),
			selection: text,
			hadSel:    had,
		}
	}
}

func applyCmd(core *app.Core, trigger string) tea.Cmd {
	return func() tea.Msg {
		res, err := core.Apply(trigger)
		if err != nil {
			return errMsg{err}
		}
		return appliedMsg{result: res}
	}
}

// waitEventCmd blocks on the core event stream and re-arms itself from
// Update after each delivery.
func waitEventCmd(core *app.Core) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-core.Events()
		if !ok {
			return nil
		}
		return sessionEventMsg{ev: ev}
	}
}
