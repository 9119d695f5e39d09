package ui

import "github.com/charmbracelet/lipgloss"

// Design centralizes the palette colors and common styles.
//
// Palette is based on Vitesse Dark Soft:
// https://github.com/antfu/vscode-theme-vitesse/blob/main/themes/vitesse-dark-soft.json
type designTheme struct {
	Primary lipgloss.Color // #4d9375
	Red     lipgloss.Color // #cb7676

	Text      lipgloss.Color // #dbd7caee
	Secondary lipgloss.Color // #bfbaaa
	Muted     lipgloss.Color // #dedcd590

	Bg     lipgloss.Color // #181818
	Border lipgloss.Color // #252525
}

// Vitesse defines the current global design theme for the TUI.
var Vitesse = designTheme{
	Primary: lipgloss.Color("#4d9375"),
	Red:     lipgloss.Color("#cb7676"),

	Text:      lipgloss.Color("#dbd7caee"),
	Secondary: lipgloss.Color("#bfbaaa"),
	Muted:     lipgloss.Color("#dedcd590"),

	Bg:     lipgloss.Color("#181818"),
	Border: lipgloss.Color("#252525"),
}

// Convenience style helpers

// BorderStyle returns a style with the standard border color.
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(Vitesse.Border)
}

// FillBG returns a style with the base background color.
func FillBG() lipgloss.Style {
	return lipgloss.NewStyle().Background(Vitesse.Bg)
}

// AccentBold returns a bold style using the primary accent color.
func AccentBold() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(Vitesse.Primary)
}
