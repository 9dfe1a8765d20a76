package pandocd

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/alnah/go-pandocd/internal/process"
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout []byte, stderr string, err error)
}

// waitDelay gives a killed process a grace period to release its pipes
// before Wait gives up on them.
const waitDelay = 5 * time.Second

// ExecRunner implements CommandRunner using os/exec. Arguments are passed
// as discrete tokens; no shell is ever involved, so format names, variable
// values, and filter names from untrusted callers cannot inject commands.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// Pandoc filters are child processes of pandoc; kill the whole group
	// on cancellation so none of them outlives the request.
	process.Isolate(cmd)
	cmd.Cancel = func() error {
		if cmd.Process != nil {
			process.KillGroup(cmd.Process.Pid)
		}
		return cmd.Process.Kill()
	}
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	return stdout.Bytes(), stderr.String(), err
}
