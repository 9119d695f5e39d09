//go:build !windows

package cast

import (
	"os/exec"
	"syscall"
)

// killProcessGroup puts the shell in its own process group and replaces the
// default context cancel (which signals only the shell itself) with a kill
// of the whole group.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
