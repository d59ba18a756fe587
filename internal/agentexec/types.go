package agentexec

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// MessageType identifies a frame on the agent WebSocket.
type MessageType string

const (
	MsgTypeAgentRegister MessageType = "agent_register"
	MsgTypeRegistered    MessageType = "registered"
	MsgTypeAgentPing     MessageType = "agent_ping"
	MsgTypePong          MessageType = "pong"
	MsgTypeExecuteCmd    MessageType = "execute_command"
	MsgTypeCommandResult MessageType = "command_result"
)

const (
	maxRequestIDLength      = 128
	maxExecuteCommandLength = 64 * 1024
	maxRunAsLength          = 64
)

// Message is the envelope of every frame in either direction.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage encodes payload into an envelope. A nil payload is omitted.
func NewMessage(typ MessageType, id string, payload any) (Message, error) {
	msg := Message{Type: typ, ID: id, Timestamp: time.Now()}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", typ, err)
	}
	msg.Payload = raw
	return msg, nil
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s message has no payload", m.Type)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", m.Type, err)
	}
	return nil
}

// AgentRegisterPayload is the first frame an agent sends.
type AgentRegisterPayload struct {
	AgentID  string   `json:"agent_id"`
	Hostname string   `json:"hostname"`
	Version  string   `json:"version"`
	Platform string   `json:"platform"`
	Tags     []string `json:"tags,omitempty"`
	Token    string   `json:"token"`
}

// RegisteredPayload answers a registration.
type RegisteredPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ExecuteCommandPayload asks an agent to run a command. RunAs is the account
// selected in the console; empty means the agent's own user.
type ExecuteCommandPayload struct {
	RequestID string `json:"request_id"`
	Command   string `json:"command"`
	RunAs     string `json:"run_as,omitempty"`
}

// Validate checks the payload before it is sent.
func (p ExecuteCommandPayload) Validate() error {
	if strings.TrimSpace(p.RequestID) == "" {
		return fmt.Errorf("request id is required")
	}
	if len(p.RequestID) > maxRequestIDLength {
		return fmt.Errorf("request id exceeds %d characters", maxRequestIDLength)
	}
	if strings.TrimSpace(p.Command) == "" {
		return fmt.Errorf("command is required")
	}
	if len(p.Command) > maxExecuteCommandLength {
		return fmt.Errorf("command exceeds %d bytes", maxExecuteCommandLength)
	}
	if len(p.RunAs) > maxRunAsLength {
		return fmt.Errorf("run_as exceeds %d characters", maxRunAsLength)
	}
	if strings.ContainsAny(p.RunAs, " \t\n'\";&|$`") {
		return fmt.Errorf("run_as contains invalid characters")
	}
	return nil
}

// CommandResultPayload is the agent's answer. ExitCode is nil when the
// command could not be started.
type CommandResultPayload struct {
	RequestID string `json:"request_id"`
	Success   bool   `json:"success"`
	Output    string `json:"output"`
	ExitCode  *int   `json:"exit_code,omitempty"`
	Error     string `json:"error,omitempty"`
	Duration  int64  `json:"duration_ms"`
}

// ConnectedAgent describes a registered agent.
type ConnectedAgent struct {
	AgentID     string    `json:"agent_id"`
	Hostname    string    `json:"hostname"`
	Version     string    `json:"version"`
	Platform    string    `json:"platform"`
	Tags        []string  `json:"tags,omitempty"`
	ConnectedAt time.Time `json:"connected_at"`
}
