package cli

import (
	"github.com/spf13/cobra"

	"spellcast/internal/settings"
)

func init() {
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Edit timing and path settings interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		return settings.Run()
	},
}
