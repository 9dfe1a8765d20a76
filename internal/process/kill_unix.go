//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// Isolate places the child in its own process group so the whole group can
// be signalled at once.
func Isolate(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// KillGroup kills a process and all its children by sending SIGKILL to the
// process group (negative PID).
func KillGroup(pid int) {
	// Best-effort cleanup; cmd.Process.Kill() provides fallback
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
