package agentexec

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientExecuteValidatesAndTruncates(t *testing.T) {
	c, err := NewClient(ClientConfig{URL: "ws://x", AgentID: "a", Executor: &recordingExecutor{}}, zerolog.Nop())
	require.NoError(t, err)

	res := c.execute(context.Background(), ExecuteCommandPayload{RequestID: "r1"})
	assert.False(t, res.Success)
	assert.Nil(t, res.ExitCode)
	assert.Equal(t, "command is required", res.Error)

	res = c.execute(context.Background(), ExecuteCommandPayload{RequestID: "r2", Command: "uname"})
	assert.True(t, res.Success)
	assert.Equal(t, "ran uname", res.Output)

	long := strings.Repeat("x", maxOutputBytes+10)
	out := truncateOutput(long)
	assert.True(t, strings.HasSuffix(out, "(output truncated)"))
	assert.Less(t, len(out), len(long))
}

func TestNewClientRequiresURLAndID(t *testing.T) {
	_, err := NewClient(ClientConfig{AgentID: "a"}, zerolog.Nop())
	assert.Error(t, err)
	_, err = NewClient(ClientConfig{URL: "ws://x"}, zerolog.Nop())
	assert.Error(t, err)
}
