package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"spellcast/internal/cast"
	"spellcast/internal/config"
	"spellcast/internal/spell"
)

var castTimeout time.Duration

func init() {
	rootCmd.AddCommand(castCmd)
	castCmd.Flags().DurationVar(&castTimeout, "timeout", 0, "override the spell timeout (0 = settings default)")
}

var castCmd = &cobra.Command{
	Use:   "cast <trigger>",
	Short: "Run a spell headless: stdin in, stdout out",
	Long:  "Runs the named spell without the palette. The selection comes from stdin when piped; the result goes to stdout. Useful for scripting and for testing collections.",
	Args:  cobra.ExactArgs(1),
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
		d, ok := cat.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown spell %q", args[0])
		}

		var input string
		if st, err := os.Stdin.Stat(); err == nil && st.Mode()&os.ModeCharDevice == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			input = string(b)
		}

		timeout := settings.SpellTimeout()
		if castTimeout > 0 {
			timeout = castTimeout
		}

		exec := &cast.Executor{}
		out := exec.Run(cmd.Context(), cast.Request{Spell: d, Input: input, Timeout: timeout})
		switch out.Status {
		case cast.StatusCompleted:
			fmt.Print(out.Content)
			return nil
		case cast.StatusStreaming:
			for chunk := range out.Stream.C {
				fmt.Print(chunk)
			}
			return out.Stream.Wait()
		default:
			return out.Err
		}
	},
}
