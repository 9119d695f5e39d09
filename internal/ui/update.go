package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"spellcast/internal/app"
	"spellcast/internal/session"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		// Click a row to cast it; click the input zone to refocus.
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			if zone.Get("palette.input").InBounds(msg) {
				if !m.ti.Focused() {
					m.ti.Focus()
				}
				return m, nil
			}
			for i := range m.filtered {
				if zone.Get("palette.row." + m.filtered[i].Trigger).InBounds(msg) {
					m.sel = i
					return m.cast()
				}
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		inner := msg.Width - 2
		if inner < 10 {
			inner = 10
		}
		tiw := inner - 4
		if tiw < 5 {
			tiw = 5
		}
		m.ti.Width = tiw
		m.vp.Width = maxInt(20, msg.Width-4)
		m.vp.Height = maxInt(5, msg.Height-6)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			m.core.Cancel()
			return m, tea.Quit
		}
		if m.pane != paneList {
			switch msg.String() {
			case "esc", "q", "enter":
				m.core.Dismiss()
				m.quitting = true
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.vp, cmd = m.vp.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "esc":
			m.quitting = true
			m.core.Cancel()
			return m, tea.Quit
		case "up", "ctrl+p":
			if m.sel > 0 {
				m.sel--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.sel < len(m.filtered)-1 {
				m.sel++
			}
			return m, nil
		case "enter":
			return m.cast()
		}
		var cmd tea.Cmd
		m.ti, cmd = m.ti.Update(msg)
		m.refilter()
		return m, cmd

	case activatedMsg:
		m.spells = msg.spells
		m.recent = msg.recent
		m.selection = msg.selection
		m.hadSel = msg.hadSel
		m.refilter()
		return m, nil

	case appliedMsg:
		m.executing = false
		switch msg.result.Mode {
		case app.ResultPreview:
			m.pane = panePreview
			m.previewOf = msg.result.Trigger
			m.preview.Reset()
			m.preview.WriteString(msg.result.Content)
			m.vp.SetContent(renderMarkdown(msg.result.Content, m.vp.Width))
			return m, nil
		case app.ResultStream:
			m.pane = paneStream
			m.previewOf = msg.result.Trigger
			m.preview.Reset()
			m.streamEnd = false
			m.vp.SetContent("")
			return m, nil
		default:
			m.quitting = true
			return m, tea.Quit
		}

	case sessionEventMsg:
		switch msg.ev.Kind {
		case session.EventStreamChunk:
			if m.pane == paneStream {
				m.preview.WriteString(msg.ev.Chunk)
				m.vp.SetContent(m.preview.String())
				m.vp.GotoBottom()
			}
		case session.EventStreamEnd:
			m.streamEnd = true
		case session.EventState:
			if msg.ev.State == session.StateError && msg.ev.Err != nil {
				m.executing = false
				m.errText = msg.ev.Err.Error()
			}
		}
		return m, waitEventCmd(m.core)

	case errMsg:
		m.executing = false
		m.errText = msg.err.Error()
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m model) cast() (tea.Model, tea.Cmd) {
	info, ok := m.current()
	if !ok {
		return m, nil
	}
	m.executing = true
	m.errText = ""
	return m, applyCmd(m.core, info.Trigger)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
