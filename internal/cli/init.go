package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spellcast/internal/config"
	"spellcast/internal/spell"
)

func init() {
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the collections directory with a sample spell",
	RunE: func(cmd *cobra.Command, args []string) error {
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
		fmt.Printf("collections ready at %s\n", root)
		return nil
	},
}
