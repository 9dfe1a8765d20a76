//go:build !windows

package process

import (
	"os/exec"
	"syscall"
	"testing"
)

func TestIsolate(t *testing.T) {
	cmd := exec.Command("true")
	Isolate(cmd)

	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setpgid {
		t.Error("Isolate() should set Setpgid")
	}
}

func TestKillGroup(t *testing.T) {
	cmd := exec.Command("sleep", "10")
	Isolate(cmd)
	if err := cmd.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	KillGroup(cmd.Process.Pid)

	err := cmd.Wait()
	if err == nil {
		t.Fatal("expected process to be killed")
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("unexpected wait error: %v", err)
	}
	status, ok := exitErr.Sys().(syscall.WaitStatus)
	if !ok || status.Signal() != syscall.SIGKILL {
		t.Errorf("expected SIGKILL, got %v", err)
	}
}

func TestKillGroup_NonexistentPID(t *testing.T) {
	// Must not panic on an already-reaped process.
	KillGroup(999999)
}
