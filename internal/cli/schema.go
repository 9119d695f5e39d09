package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spellcast/internal/spell"
)

func init() {
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema for collection index.json files",
	Long:  "Writes the index.json JSON Schema to stdout, for editor validation of spell collections.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sch := spell.IndexSchema()
		b, err := spell.MarshalSchema(sch)
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	},
}
