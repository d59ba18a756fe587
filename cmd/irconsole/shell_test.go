package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcourtman/irconsole/internal/accounts"
	"github.com/rcourtman/irconsole/internal/console"
	"github.com/rcourtman/irconsole/internal/gateway"
)

type fixedAccounts []accounts.Account

func (f fixedAccounts) Accounts(context.Context) ([]accounts.Account, error) {
	return f, nil
}

func newTestShell(t *testing.T, gw gateway.Gateway) (*shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app := console.NewApp(console.Deps{
		Gateway:  gw,
		Backend:  "test",
		Accounts: fixedAccounts{{Username: "root", IsDefault: true}, {Username: "alice", Description: "ops"}},
		Renderer: newTermRenderer(&out),
	})
	t.Cleanup(app.Close)
	return newShell(app, &out), &out
}

func TestShellOpenAndRun(t *testing.T) {
	var gotCommand, gotAccount string
	sh, out := newTestShell(t, gateway.Func(func(ctx context.Context, command, account string) (*gateway.Result, error) {
		gotCommand, gotAccount = command, account
		return &gateway.Result{Output: "nginx -g daemon off;", ExitCode: gateway.IntPtr(0)}, nil
	}))
	ctx := context.Background()

	require.NoError(t, sh.exec(ctx, "open process pid=1234"))
	assert.Equal(t, "irconsole process:1234 [default]> ", sh.prompt())

	require.NoError(t, sh.exec(ctx, "accounts"))
	assert.Contains(t, out.String(), "alice (ops)")

	require.NoError(t, sh.exec(ctx, "account alice"))
	assert.Equal(t, "irconsole process:1234 [alice]> ", sh.prompt())

	require.NoError(t, sh.exec(ctx, "do cmdline"))
	assert.Equal(t, `cat /proc/1234/cmdline | tr '\0' ' '`, gotCommand)
	assert.Equal(t, "alice", gotAccount)
	assert.Contains(t, out.String(), "Process 1234 - Command line")
	assert.Contains(t, out.String(), "nginx -g daemon off;")

	// the menu closed on dispatch
	err := sh.exec(ctx, "do kill")
	assert.ErrorIs(t, err, console.ErrMenuClosed)
}

func TestShellRequiresOpenEntity(t *testing.T) {
	sh, _ := newTestShell(t, gateway.Func(func(context.Context, string, string) (*gateway.Result, error) {
		t.Fatal("no dispatch expected")
		return nil, nil
	}))
	ctx := context.Background()

	assert.Error(t, sh.exec(ctx, "do cmdline"))
	assert.Error(t, sh.exec(ctx, "open nope pid=1"))
	assert.Error(t, sh.exec(ctx, "open process"), "pid is required")
	assert.Error(t, sh.exec(ctx, "frobnicate"))
	assert.NoError(t, sh.exec(ctx, "   "))
}

func TestShellLoop(t *testing.T) {
	sh, out := newTestShell(t, gateway.Func(func(context.Context, string, string) (*gateway.Result, error) {
		return &gateway.Result{Output: "", ExitCode: gateway.IntPtr(0)}, nil
	}))
	in := strings.NewReader("help\nopen service name=nginx\ndo teleport\nexplain\nquit\nopen process pid=1\n")

	require.NoError(t, sh.loop(context.Background(), in))
	text := out.String()
	assert.Contains(t, text, "Commands:")
	assert.Contains(t, text, "❌ ", "unknown action is rendered in the modal")
	assert.Contains(t, text, "error: "+console.ErrNoResult.Error(), "explain without a result is reported once")
	assert.NotContains(t, text, "process:1", "input after quit is ignored")
}
