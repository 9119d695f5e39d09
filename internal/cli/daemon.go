package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"spellcast/internal/hotkey"
	"spellcast/internal/system"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Wait for activation signals and open the palette",
	Long: "Runs until interrupted and opens the palette each time the process receives SIGUSR1. " +
		"Bind a global hotkey to `kill -USR1 $(pidof spellcast)` with your hotkey daemon of choice.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		trigger := hotkey.NewSignals()
		fires := trigger.Start(ctx)
		fmt.Fprintf(os.Stderr, "spellcast daemon: pid %d, send SIGUSR1 to activate\n", os.Getpid())

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-fires:
				if err := runPalette(); err != nil {
					system.Logger.Error("palette run failed", "err", err)
				}
			}
		}
	},
}
