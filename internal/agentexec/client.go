package agentexec

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rcourtman/irconsole/internal/gateway"
)

const (
	maxOutputBytes    = 1 << 20
	maxReconnectDelay = time.Minute
)

// ErrRegistrationRejected means the console refused the agent's token.
var ErrRegistrationRejected = errors.New("registration rejected")

// ClientConfig configures the agent side of the connection.
type ClientConfig struct {
	URL      string // ws:// or wss:// endpoint of the console
	Token    string
	AgentID  string
	Hostname string
	Platform string
	Version  string
	Tags     []string

	// Executor runs received commands; RunAs becomes its account.
	Executor gateway.Gateway

	ReconnectDelay time.Duration
	PingInterval   time.Duration
}

// Client is the agent: it keeps a connection to the console and executes
// the commands it receives.
type Client struct {
	cfg    ClientConfig
	logger zerolog.Logger
	dialer *websocket.Dialer
}

// NewClient builds an agent client.
func NewClient(cfg ClientConfig, logger zerolog.Logger) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("console url is required")
	}
	if cfg.AgentID == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if cfg.Executor == nil {
		cfg.Executor = gateway.NewLocalExecutor()
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = 15 * time.Second
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With().Str("component", "agent").Str("agent_id", cfg.AgentID).Logger(),
		dialer: &websocket.Dialer{HandshakeTimeout: 15 * time.Second, Proxy: http.ProxyFromEnvironment},
	}, nil
}

// Run connects and serves until ctx is cancelled, reconnecting with backoff.
// A rejected registration stops it.
func (c *Client) Run(ctx context.Context) error {
	delay := c.cfg.ReconnectDelay
	for {
		err := c.connectAndHandle(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, ErrRegistrationRejected) {
			return err
		}
		if err != nil {
			c.logger.Warn().Err(err).Dur("retry_in", delay).Msg("Connection to console lost")
		} else {
			delay = c.cfg.ReconnectDelay
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(delay):
		}
		delay *= 2
		if delay > maxReconnectDelay {
			delay = maxReconnectDelay
		}
	}
}

func (c *Client) connectAndHandle(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}

	connCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		conn.Close()
		wg.Wait()
	}()

	var writeMu sync.Mutex
	send := func(msg Message) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(msg)
	}

	if err := c.register(conn, send); err != nil {
		return err
	}
	c.logger.Info().Str("url", c.cfg.URL).Msg("Registered with console")

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-connCtx.Done()
		conn.Close()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c.pingLoop(connCtx, send)
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if connCtx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		switch msg.Type {
		case MsgTypeExecuteCmd:
			var cmd ExecuteCommandPayload
			if err := msg.Decode(&cmd); err != nil {
				c.logger.Error().Err(err).Msg("Failed to parse command")
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				result := c.execute(connCtx, cmd)
				reply, err := NewMessage(MsgTypeCommandResult, cmd.RequestID, result)
				if err == nil {
					err = send(reply)
				}
				if err != nil {
					c.logger.Warn().Err(err).Str("request_id", cmd.RequestID).Msg("Failed to send command result")
				}
			}()
		case MsgTypePong:
		default:
			c.logger.Debug().Str("type", string(msg.Type)).Msg("Ignoring unexpected message")
		}
	}
}

func (c *Client) register(conn *websocket.Conn, send func(Message) error) error {
	msg, err := NewMessage(MsgTypeAgentRegister, "", AgentRegisterPayload{
		AgentID:  c.cfg.AgentID,
		Hostname: c.cfg.Hostname,
		Version:  c.cfg.Version,
		Platform: c.cfg.Platform,
		Tags:     c.cfg.Tags,
		Token:    c.cfg.Token,
	})
	if err != nil {
		return err
	}
	if err := send(msg); err != nil {
		return fmt.Errorf("send registration: %w", err)
	}

	conn.SetReadDeadline(time.Now().Add(registrationWait))
	defer conn.SetReadDeadline(time.Time{})

	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		return fmt.Errorf("read registration reply: %w", err)
	}
	if reply.Type != MsgTypeRegistered {
		return fmt.Errorf("unexpected registration reply %q", reply.Type)
	}
	var ack RegisteredPayload
	if err := reply.Decode(&ack); err != nil {
		return err
	}
	if !ack.Success {
		return fmt.Errorf("%w: %s", ErrRegistrationRejected, ack.Message)
	}
	return nil
}

func (c *Client) pingLoop(ctx context.Context, send func(Message) error) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ping, _ := NewMessage(MsgTypeAgentPing, "", nil)
			if err := send(ping); err != nil {
				c.logger.Debug().Err(err).Msg("Ping failed")
				return
			}
		}
	}
}

func (c *Client) execute(ctx context.Context, cmd ExecuteCommandPayload) CommandResultPayload {
	result := CommandResultPayload{RequestID: cmd.RequestID}
	if err := cmd.Validate(); err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	res, err := c.cfg.Executor.Execute(ctx, cmd.Command, cmd.RunAs)
	result.Duration = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		c.logger.Warn().Err(err).Str("request_id", cmd.RequestID).Msg("Command failed to run")
		return result
	}

	result.Output = truncateOutput(res.Output)
	result.ExitCode = res.ExitCode
	result.Success = res.Code() == 0
	c.logger.Debug().
		Str("request_id", cmd.RequestID).
		Str("run_as", cmd.RunAs).
		Int("exit_code", res.Code()).
		Int64("duration_ms", result.Duration).
		Msg("Command executed")
	return result
}

func truncateOutput(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return strings.ToValidUTF8(s[:maxOutputBytes], "") + "\n... (output truncated)"
}
