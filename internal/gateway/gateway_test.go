package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapForAccount(t *testing.T) {
	assert.Equal(t, "id -u", WrapForAccount("id -u", ""))
	assert.Equal(t, `sudo -n -u 'alice' -- sh -c 'echo '\''hi'\'''`, WrapForAccount("echo 'hi'", "alice"))
}

func TestLocalExecutorOutputAndExitCode(t *testing.T) {
	l := NewLocalExecutor()

	res, err := l.Execute(context.Background(), "echo out; echo err >&2", "")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Code())
	assert.Contains(t, res.Output, "out\n")
	assert.Contains(t, res.Output, "err\n")

	res, err = l.Execute(context.Background(), "echo nope; exit 3", "")
	require.NoError(t, err, "non-zero exit is a result")
	assert.Equal(t, 3, res.Code())
	assert.Equal(t, "nope\n", res.Output)
}

func TestLocalExecutorCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewLocalExecutor().Execute(ctx, "sleep 5", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestResultCode(t *testing.T) {
	var r *Result
	assert.Equal(t, -1, r.Code())
	assert.Equal(t, -1, (&Result{}).Code())
	assert.Equal(t, 7, (&Result{ExitCode: IntPtr(7)}).Code())
}
