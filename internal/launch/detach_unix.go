//go:build unix

package launch

import (
	"os/exec"
	"syscall"
)

// detach starts the child in a new session so it outlives the launcher and
// does not receive the launcher's terminal signals.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
