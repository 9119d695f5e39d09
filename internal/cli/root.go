package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	zone "github.com/lrstanley/bubblezone"

	"spellcast/internal/app"
	"spellcast/internal/config"
	"spellcast/internal/spell"
	"spellcast/internal/system"
	"spellcast/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "spellcast",
	Short: "spellcast – text transformations from anywhere",
	Long:  "spellcast captures the current selection, runs a spell over it, and puts the result back where you were typing.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPalette()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// runPalette assembles the core and runs one palette session.
func runPalette() error {
	settings, err := config.LoadSettings()
	if err != nil {
		return err
	}
	root, err := settings.Collections()
	if err != nil {
		return err
	}
	if err := spell.EnsureRoot(root); err != nil {
		return err
	}
	core := app.NewCore(system.NewDesktop(), settings)
	defer core.Close()

	// Initialize global bubblezone manager for mouse-aware zones.
	zone.NewGlobal()
	if _, err := tea.NewProgram(ui.InitialModel(core), tea.WithAltScreen(), tea.WithMouseCellMotion()).Run(); err != nil {
		return err
	}
	return nil
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
