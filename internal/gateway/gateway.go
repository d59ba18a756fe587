// Package gateway defines the remote execution contract the console dispatches
// every action through, and a local backend that runs commands on this host.
package gateway

import (
	"context"
	"strings"
)

// Result is the outcome of one execute_command round trip. A non-zero exit
// status is a result, not an error.
type Result struct {
	Output   string
	ExitCode *int
}

// Code returns the exit code, or -1 when the backend did not report one.
func (r *Result) Code() int {
	if r == nil || r.ExitCode == nil {
		return -1
	}
	return *r.ExitCode
}

// Gateway executes a shell command under an optional account. An empty account
// means the connection default. Implementations make exactly one round trip
// and never retry; a deadline, if any, comes from ctx.
type Gateway interface {
	Execute(ctx context.Context, command, account string) (*Result, error)
}

// Func adapts a function to the Gateway interface.
type Func func(ctx context.Context, command, account string) (*Result, error)

// Execute implements Gateway.
func (f Func) Execute(ctx context.Context, command, account string) (*Result, error) {
	return f(ctx, command, account)
}

// IntPtr returns a pointer to code.
func IntPtr(code int) *int {
	return &code
}

// WrapForAccount rewrites command so it runs as account through sudo. The
// command is single-quoted for sh -c. An empty account leaves it untouched.
func WrapForAccount(command, account string) string {
	if account == "" {
		return command
	}
	return "sudo -n -u " + ShellQuote(account) + " -- sh -c " + ShellQuote(command)
}

// ShellQuote wraps s in single quotes for POSIX sh.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
