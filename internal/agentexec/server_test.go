package agentexec

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcourtman/irconsole/internal/gateway"
)

const testSecret = "0123456789abcdef0123"

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

type recordingExecutor struct {
	mu    sync.Mutex
	calls [][2]string
}

func (r *recordingExecutor) Execute(ctx context.Context, command, account string) (*gateway.Result, error) {
	r.mu.Lock()
	r.calls = append(r.calls, [2]string{command, account})
	r.mu.Unlock()
	if command == "boom" {
		return nil, errors.New("exec: \"sh\": not found")
	}
	if command == "false" {
		return &gateway.Result{Output: "", ExitCode: gateway.IntPtr(1)}, nil
	}
	return &gateway.Result{Output: "ran " + command, ExitCode: gateway.IntPtr(0)}, nil
}

func startConsole(t *testing.T) (*Server, *httptest.Server, *Tokens) {
	t.Helper()
	tokens, err := NewTokens(testSecret)
	require.NoError(t, err)
	srv := NewServer(tokens.Validate)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return srv, ts, tokens
}

func startAgent(t *testing.T, ts *httptest.Server, token string, exec gateway.Gateway) {
	t.Helper()
	client, err := NewClient(ClientConfig{
		URL:            wsURL(ts),
		Token:          token,
		AgentID:        "agent-1",
		Hostname:       "web-1",
		Platform:       "linux",
		Version:        "test",
		Executor:       exec,
		ReconnectDelay: 10 * time.Millisecond,
	}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = client.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestAgentRoundTrip(t *testing.T) {
	srv, ts, tokens := startConsole(t)
	token, err := tokens.Issue("agent-1", time.Hour)
	require.NoError(t, err)

	exec := &recordingExecutor{}
	startAgent(t, ts, token, exec)
	require.Eventually(t, func() bool { return srv.IsAgentConnected("agent-1") }, 2*time.Second, 10*time.Millisecond)

	agents := srv.GetConnectedAgents()
	require.Len(t, agents, 1)
	assert.Equal(t, "web-1", agents[0].Hostname)

	gw := srv.Gateway("")
	res, err := gw.Execute(context.Background(), "uptime", "")
	require.NoError(t, err)
	assert.Equal(t, "ran uptime", res.Output)
	assert.Equal(t, 0, res.Code())

	res, err = srv.Gateway("web-1").Execute(context.Background(), "id", "alice")
	require.NoError(t, err)
	assert.Equal(t, "ran id", res.Output)

	res, err = gw.Execute(context.Background(), "false", "")
	require.NoError(t, err, "non-zero exit is a result")
	assert.Equal(t, 1, res.Code())

	_, err = gw.Execute(context.Background(), "boom", "")
	assert.ErrorContains(t, err, "not found")

	exec.mu.Lock()
	defer exec.mu.Unlock()
	assert.Equal(t, [2]string{"id", "alice"}, exec.calls[1], "account travels as run_as")
}

func TestConcurrentRequestsCorrelate(t *testing.T) {
	srv, ts, tokens := startConsole(t)
	token, err := tokens.Issue("agent-1", 0)
	require.NoError(t, err)
	startAgent(t, ts, token, &recordingExecutor{})
	require.Eventually(t, func() bool { return srv.IsAgentConnected("agent-1") }, 2*time.Second, 10*time.Millisecond)

	gw := srv.Gateway("agent-1")
	var wg sync.WaitGroup
	for _, cmd := range []string{"a", "b", "c", "d", "e"} {
		wg.Add(1)
		go func(cmd string) {
			defer wg.Done()
			res, err := gw.Execute(context.Background(), cmd, "")
			if assert.NoError(t, err) {
				assert.Equal(t, "ran "+cmd, res.Output)
			}
		}(cmd)
	}
	wg.Wait()
}

func TestRejectedToken(t *testing.T) {
	srv, ts, tokens := startConsole(t)
	wrong, err := tokens.Issue("someone-else", time.Hour)
	require.NoError(t, err)

	client, err := NewClient(ClientConfig{URL: wsURL(ts), Token: wrong, AgentID: "agent-1"}, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = client.Run(ctx)
	assert.ErrorIs(t, err, ErrRegistrationRejected)
	assert.False(t, srv.IsAgentConnected("agent-1"))
}

func TestDisconnectFailsPendingRequest(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	reg, err := NewMessage(MsgTypeAgentRegister, "", AgentRegisterPayload{AgentID: "flaky"})
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(reg))

	var ack Message
	require.NoError(t, conn.ReadJSON(&ack))
	require.Equal(t, MsgTypeRegistered, ack.Type)

	go func() {
		var msg Message
		if err := conn.ReadJSON(&msg); err == nil {
			conn.Close()
		}
	}()

	_, err = srv.Gateway("flaky").Execute(context.Background(), "sleep 100", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disconnected")
	assert.Eventually(t, func() bool { return !srv.IsAgentConnected("flaky") }, 2*time.Second, 10*time.Millisecond)
}

func TestExecuteCommandHonoursContext(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer ts.Close()
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()
	reg, _ := NewMessage(MsgTypeAgentRegister, "", AgentRegisterPayload{AgentID: "silent"})
	require.NoError(t, conn.WriteJSON(reg))
	var ack Message
	require.NoError(t, conn.ReadJSON(&ack))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = srv.ExecuteCommand(ctx, "silent", ExecuteCommandPayload{RequestID: "r1", Command: "true"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFirstMessageMustRegister(t *testing.T) {
	srv := NewServer(nil)
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	require.NoError(t, err)
	defer conn.Close()
	ping, _ := NewMessage(MsgTypeAgentPing, "", nil)
	require.NoError(t, conn.WriteJSON(ping))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "server closes the socket")
	assert.Empty(t, srv.GetConnectedAgents())
}

func TestExecuteCommandAgentNotConnected(t *testing.T) {
	s := NewServer(nil)
	_, err := s.ExecuteCommand(context.Background(), "missing", ExecuteCommandPayload{RequestID: "r1", Command: "true"})
	if err == nil || !strings.Contains(err.Error(), "not connected") {
		t.Fatalf("expected not connected error, got %v", err)
	}

	if _, err := s.Gateway("").Execute(context.Background(), "true", ""); err == nil {
		t.Fatalf("expected error with no agents")
	}
}

func TestExecuteCommandValidation(t *testing.T) {
	s := NewServer(nil)
	if _, err := s.ExecuteCommand(context.Background(), "", ExecuteCommandPayload{RequestID: "r1", Command: "true"}); err == nil {
		t.Fatalf("expected empty agent id error")
	}

	cases := []struct {
		name    string
		payload ExecuteCommandPayload
		wantErr string
	}{
		{"missing request id", ExecuteCommandPayload{Command: "true"}, "request id is required"},
		{"missing command", ExecuteCommandPayload{RequestID: "r1"}, "command is required"},
		{"request id too long", ExecuteCommandPayload{RequestID: strings.Repeat("a", maxRequestIDLength+1), Command: "true"}, "request id exceeds"},
		{"command too long", ExecuteCommandPayload{RequestID: "r1", Command: strings.Repeat("a", maxExecuteCommandLength+1)}, "command exceeds"},
		{"run_as injection", ExecuteCommandPayload{RequestID: "r1", Command: "true", RunAs: "root; id"}, "run_as contains invalid characters"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ExecuteCommand(context.Background(), "a1", tc.payload)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
