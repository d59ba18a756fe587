package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// LocalExecutor runs commands with sh -c on the console host.
type LocalExecutor struct {
	// Shell defaults to /bin/sh.
	Shell string
}

// NewLocalExecutor returns a LocalExecutor using /bin/sh.
func NewLocalExecutor() *LocalExecutor {
	return &LocalExecutor{Shell: "/bin/sh"}
}

// Execute implements Gateway. Stdout and stderr are merged in arrival order.
func (l *LocalExecutor) Execute(ctx context.Context, command, account string) (*Result, error) {
	shell := l.Shell
	if shell == "" {
		shell = "/bin/sh"
	}

	cmd := exec.CommandContext(ctx, shell, "-c", WrapForAccount(command, account))
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	log.Debug().
		Str("account", account).
		Dur("duration", time.Since(start)).
		Msg("Local command finished")

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return &Result{Output: out.String(), ExitCode: IntPtr(exitErr.ExitCode())}, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("local command interrupted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("start local command: %w", err)
	}
	return &Result{Output: out.String(), ExitCode: IntPtr(0)}, nil
}
