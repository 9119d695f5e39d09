package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spellcast/internal/config"
	"spellcast/internal/spell"
)

var lsJSON bool

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolVar(&lsJSON, "json", false, "output JSON report")
}

type lsReport struct {
	Root    string       `json:"root"`
	Spells  []spell.Info `json:"spells"`
	Skipped []spell.Skip `json:"skipped,omitempty"`
}

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the spells in the collections directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := config.LoadSettings()
		if err != nil {
			return err
		}
		root, err := settings.Collections()
		if err != nil {
			return err
		}
		cat, err := spell.Scan(root)
		if err != nil {
			return err
		}

		if lsJSON {
			rep := lsReport{Root: root, Spells: cat.Infos(), Skipped: cat.Skipped}
			b, err := json.MarshalIndent(rep, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}

		if len(cat.Spells) == 0 {
			fmt.Printf("no spells in %s (run `spellcast init`)\n", root)
			return nil
		}
		for _, d := range cat.Spells {
			line := fmt.Sprintf("- %-16s %s", d.Trigger, d.Description)
			if d.Description == "" {
				line = fmt.Sprintf("- %s", d.Trigger)
			}
			fmt.Println(line)
		}
		for _, sk := range cat.Skipped {
			fmt.Fprintf(os.Stderr, "skipped %s: %s\n", sk.Path, sk.Reason)
		}
		return nil
	},
}
