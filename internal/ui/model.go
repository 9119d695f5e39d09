// Package ui implements the palette overlay: a filterable spell list
// over the captured selection, plus a preview pane for spells that
// render instead of paste.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"spellcast/internal/app"
	"spellcast/internal/spell"
)

type paneKind int

const (
	paneList paneKind = iota
	panePreview
	paneStream
)

// Model for TUI
type model struct {
	core *app.Core

	spells    []spell.Info
	recent    []string
	filtered  []spell.Info
	sel       int
	selection string
	hadSel    bool

	executing bool
	pane      paneKind
	preview   strings.Builder
	previewOf string
	streamEnd bool

	ti   textinput.Model
	spin spinner.Model
	vp   viewport.Model

	notice   string
	errText  string
	width    int
	height   int
	quitting bool
}

func initialModel(core *app.Core) model {
	m := model{core: core}

	ti := textinput.New()
	ti.Prompt = " › "
	ti.Placeholder = "Type to filter spells"
	ti.CharLimit = 256
	ti.Focus()
	m.ti = ti

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = AccentBold()
	m.spin = sp

	m.vp = viewport.New(80, 20)
	return m
}

// InitialModel is the public constructor for app.
func InitialModel(core *app.Core) tea.Model { return initialModel(core) }

func (m model) Init() tea.Cmd {
	return tea.Batch(activateCmd(m.core), waitEventCmd(m.core), m.spin.Tick, textinput.Blink)
}

func (m *model) refilter() {
	m.filtered = rankSpells(m.spells, strings.TrimSpace(m.ti.Value()), m.recent)
	if m.sel >= len(m.filtered) {
		m.sel = len(m.filtered) - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
}

func (m model) current() (spell.Info, bool) {
	if len(m.filtered) == 0 || m.sel >= len(m.filtered) {
		return spell.Info{}, false
	}
	return m.filtered[m.sel], true
}
