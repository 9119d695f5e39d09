package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"
	runewidth "github.com/mattn/go-runewidth"
)

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if m.pane != paneList {
		return zone.Scan(m.renderPreview())
	}
	return zone.Scan(m.renderPalette())
}

// renderPalette draws the bordered overlay: input echo line on top, the
// ranked spell rows below, a status line at the bottom.
func (m model) renderPalette() string {
	inner := m.width - 2
	if inner < 20 {
		inner = 20
	}
	nameWidth := 16
	accent := Vitesse.Primary
	muted := Vitesse.Muted
	border := BorderStyle()
	fillBG := FillBG()
	hl := lipgloss.NewStyle().Bold(true).Foreground(accent).Render
	dim := lipgloss.NewStyle().Foreground(muted).Render

	var b strings.Builder
	b.WriteString(border.Render("╭"+strings.Repeat("─", inner)+"╮") + "\n")

	in := m.ti.View()
	if xansi.StringWidth(in) > inner {
		in = xansi.Truncate(in, inner, "")
	}
	b.WriteString(border.Render("│"))
	b.WriteString(zone.Mark("palette.input", fillBG.Width(inner).Render(in)))
	b.WriteString(border.Render("│\n"))

	rows := m.filtered
	maxItems := 10
	sel := m.sel
	if len(rows) > maxItems {
		rows = rows[:maxItems]
		if sel >= maxItems {
			sel = maxItems - 1
		}
	}
	if len(rows) == 0 {
		line := "  no matching spells"
		b.WriteString(border.Render("│"))
		b.WriteString(fillBG.Width(inner).Render(dim(line)))
		b.WriteString(border.Render("│\n"))
	}
	for i, info := range rows {
		name := runewidth.FillRight(info.Trigger, nameWidth)
		line := fmt.Sprintf("  %s  %s", name, dim(info.Description))
		if xansi.StringWidth(line) > inner {
			line = xansi.Truncate(line, inner, "…")
		}
		if i == sel {
			line = hl(line)
		}
		b.WriteString(border.Render("│"))
		b.WriteString(zone.Mark("palette.row."+info.Trigger, fillBG.Width(inner).Render(line)))
		b.WriteString(border.Render("│\n"))
	}
	b.WriteString(border.Render("╰"+strings.Repeat("─", inner)+"╯") + "\n")
	b.WriteString(m.renderStatusLine())
	return b.String()
}

func (m model) renderStatusLine() string {
	if m.errText != "" {
		return "  " + lipgloss.NewStyle().Foreground(Vitesse.Red).Render(m.errText) + "\n"
	}
	if m.executing {
		return "  " + m.spin.View() + " casting…\n"
	}
	if m.notice != "" {
		return "  " + m.notice + "\n"
	}
	var sel string
	if m.hadSel {
		sel = fmt.Sprintf("%d chars selected · ", len(m.selection))
	}
	return "  " + sel + "↑/↓ select · Enter cast · Esc cancel\n"
}

func (m model) renderPreview() string {
	title := AccentBold().Render(m.previewOf)
	var tail string
	switch {
	case m.pane == paneStream && !m.streamEnd:
		tail = "  " + m.spin.View() + " streaming… · Esc cancel\n"
	default:
		tail = "  ↑/↓ scroll · Enter close\n"
	}
	return title + "\n" + m.vp.View() + "\n" + tail
}

// renderMarkdown renders preview output through glamour, falling back to
// the raw text when rendering fails.
func renderMarkdown(content string, width int) string {
	if width < 10 {
		width = 10
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}
