//go:build windows

package cast

import "os/exec"

// killProcessGroup is a no-op on Windows; the default context cancel kills
// the cmd.exe process directly.
func killProcessGroup(cmd *exec.Cmd) {}
