package cli

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"spellcast/internal/config"
	"spellcast/internal/spell"
	"spellcast/internal/system"
)

var doctorJSON bool

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output JSON report")
}

type doctorCheck struct {
	Name   string `json:"name"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the platform backends are available",
	RunE: func(cmd *cobra.Command, args []string) error {
		checks := []doctorCheck{
			checkSettings(),
			checkCollections(),
			checkClipboard(cmd),
			checkKeystrokes(),
		}

		if doctorJSON {
			b, err := json.MarshalIndent(checks, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(b))
			return nil
		}
		bad := 0
		for _, c := range checks {
			mark := "✓"
			if !c.OK {
				mark = "✗"
				bad++
			}
			if c.Detail != "" {
				fmt.Printf("%s %-12s %s\n", mark, c.Name, c.Detail)
			} else {
				fmt.Printf("%s %s\n", mark, c.Name)
			}
		}
		if bad > 0 {
			return fmt.Errorf("%d check(s) failed", bad)
		}
		return nil
	},
}

func checkSettings() doctorCheck {
	c := doctorCheck{Name: "settings"}
	dir, err := config.Dir()
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	if _, err := config.LoadSettings(); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	c.Detail = dir
	return c
}

func checkCollections() doctorCheck {
	c := doctorCheck{Name: "collections"}
	settings, err := config.LoadSettings()
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	root, err := settings.Collections()
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	cat, err := spell.Scan(root)
	if err != nil {
		c.Detail = fmt.Sprintf("%s (run `spellcast init`)", root)
		return c
	}
	c.OK = true
	c.Detail = fmt.Sprintf("%d spell(s), %d skipped", len(cat.Spells), len(cat.Skipped))
	return c
}

func checkClipboard(cmd *cobra.Command) doctorCheck {
	c := doctorCheck{Name: "clipboard"}
	desktop := system.NewDesktop()
	if _, err := desktop.ReadClipboard(cmd.Context()); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.OK = true
	return c
}

func checkKeystrokes() doctorCheck {
	c := doctorCheck{Name: "keystrokes"}
	var tool string
	switch runtime.GOOS {
	case "darwin":
		tool = "osascript"
	case "windows":
		tool = "powershell"
	default:
		tool = "xdotool"
	}
	path, err := exec.LookPath(tool)
	if err != nil {
		c.Detail = fmt.Sprintf("%s not found", tool)
		return c
	}
	c.OK = true
	c.Detail = path
	return c
}
