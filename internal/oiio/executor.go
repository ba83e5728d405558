package oiio

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/backmassage/sbsconv/internal/config"
)

// ExecResult holds the outcome of a single converter invocation.
type ExecResult struct {
	Stderr string
	Err    error
}

// Execute runs the prepared argument slice as a child process. When verbose
// is enabled, stderr is tee'd to os.Stderr in real time; otherwise it is
// captured silently for the per-job failure log. Cancelling ctx kills the
// process, so the dispatcher never leaks children on interrupt.
func Execute(ctx context.Context, cfg *config.Config, args []string) ExecResult {
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	if cfg.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	return ExecResult{
		Stderr: stderrBuf.String(),
		Err:    err,
	}
}
