// Package agentexec is the agent execution backend: host agents dial the
// console over WebSocket, register with a signed token and run the commands
// the console sends them.
package agentexec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // agents are not browsers
	},
}

var (
	pingInterval     = 5 * time.Second
	pingWriteWait    = 5 * time.Second
	registrationWait = 30 * time.Second
)

// Server manages WebSocket connections from agents.
type Server struct {
	mu            sync.RWMutex
	agents        map[string]*agentConn                // agentID -> connection
	pendingReqs   map[string]chan CommandResultPayload // requestID -> response channel
	validateToken func(token, agentID string) bool
}

type agentConn struct {
	conn      *websocket.Conn
	agent     ConnectedAgent
	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

// shutdown closes the connection and releases everyone waiting on it.
func (ac *agentConn) shutdown() {
	ac.closeOnce.Do(func() {
		close(ac.done)
		_ = ac.conn.Close()
	})
}

func (ac *agentConn) send(msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ac.writeMu.Lock()
	defer ac.writeMu.Unlock()
	return ac.conn.WriteMessage(websocket.TextMessage, data)
}

// NewServer creates an agent server. A nil validateToken accepts every agent.
func NewServer(validateToken func(token, agentID string) bool) *Server {
	return &Server{
		agents:        make(map[string]*agentConn),
		pendingReqs:   make(map[string]chan CommandResultPayload),
		validateToken: validateToken,
	}
}

// HandleWebSocket upgrades an agent connection and serves it until it drops.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	// http.Server read/write timeouts would otherwise cut the long-lived socket.
	rc := http.NewResponseController(w)
	if err := rc.SetReadDeadline(time.Time{}); err != nil {
		log.Debug().Err(err).Msg("Failed to clear read deadline via ResponseController")
	}
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		log.Debug().Err(err).Msg("Failed to clear write deadline via ResponseController")
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	reg, err := readRegistration(conn)
	if err != nil {
		log.Error().Err(err).Str("remote", r.RemoteAddr).Msg("Agent registration failed")
		conn.Close()
		return
	}

	ac := &agentConn{
		conn: conn,
		agent: ConnectedAgent{
			AgentID:     reg.AgentID,
			Hostname:    reg.Hostname,
			Version:     reg.Version,
			Platform:    reg.Platform,
			Tags:        reg.Tags,
			ConnectedAt: time.Now(),
		},
		done: make(chan struct{}),
	}

	if reg.AgentID == "" || (s.validateToken != nil && !s.validateToken(reg.Token, reg.AgentID)) {
		log.Warn().Str("agent_id", reg.AgentID).Msg("Agent registration rejected: invalid token")
		if msg, err := NewMessage(MsgTypeRegistered, "", RegisteredPayload{Success: false, Message: "Invalid token"}); err == nil {
			_ = ac.send(msg)
		}
		conn.Close()
		return
	}

	conn.SetReadDeadline(time.Time{})
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Time{})
	})

	s.mu.Lock()
	if existing, ok := s.agents[reg.AgentID]; ok {
		existing.shutdown()
	}
	s.agents[reg.AgentID] = ac
	s.mu.Unlock()

	log.Info().
		Str("agent_id", reg.AgentID).
		Str("hostname", reg.Hostname).
		Str("version", reg.Version).
		Str("platform", reg.Platform).
		Msg("Agent connected")

	msg, _ := NewMessage(MsgTypeRegistered, "", RegisteredPayload{Success: true, Message: "Registered"})
	if err := ac.send(msg); err != nil {
		log.Warn().Err(err).Str("agent_id", reg.AgentID).Msg("Failed to acknowledge registration")
	}

	pingDone := make(chan struct{})
	go s.pingLoop(ac, pingDone)
	defer close(pingDone)

	// Blocking: returning from the handler would close the connection.
	s.readLoop(ac)
}

func readRegistration(conn *websocket.Conn) (AgentRegisterPayload, error) {
	var reg AgentRegisterPayload

	conn.SetReadDeadline(time.Now().Add(registrationWait))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return reg, fmt.Errorf("read registration: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return reg, fmt.Errorf("parse registration: %w", err)
	}
	if msg.Type != MsgTypeAgentRegister {
		return reg, fmt.Errorf("first message must be %s, got %q", MsgTypeAgentRegister, msg.Type)
	}
	if err := msg.Decode(&reg); err != nil {
		return reg, err
	}
	return reg, nil
}

func (s *Server) readLoop(ac *agentConn) {
	defer func() {
		s.mu.Lock()
		if existing, ok := s.agents[ac.agent.AgentID]; ok && existing == ac {
			delete(s.agents, ac.agent.AgentID)
		}
		s.mu.Unlock()
		ac.shutdown()
		log.Info().Str("agent_id", ac.agent.AgentID).Msg("Agent disconnected")
	}()

	for {
		_, data, err := ac.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("agent_id", ac.agent.AgentID).Msg("WebSocket read error")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Error().Err(err).Str("agent_id", ac.agent.AgentID).Msg("Failed to parse message")
			continue
		}

		switch msg.Type {
		case MsgTypeAgentPing:
			pong, _ := NewMessage(MsgTypePong, msg.ID, nil)
			if err := ac.send(pong); err != nil {
				log.Debug().Err(err).Str("agent_id", ac.agent.AgentID).Msg("Failed to send pong")
			}

		case MsgTypeCommandResult:
			var result CommandResultPayload
			if err := msg.Decode(&result); err != nil {
				log.Error().Err(err).Str("agent_id", ac.agent.AgentID).Msg("Failed to parse command result")
				continue
			}
			s.deliver(result)

		default:
			log.Debug().Str("type", string(msg.Type)).Str("agent_id", ac.agent.AgentID).Msg("Ignoring unexpected message")
		}
	}
}

func (s *Server) deliver(result CommandResultPayload) {
	s.mu.RLock()
	ch, ok := s.pendingReqs[result.RequestID]
	s.mu.RUnlock()

	if !ok {
		log.Warn().Str("request_id", result.RequestID).Msg("No pending request for result")
		return
	}
	select {
	case ch <- result:
	default:
		log.Warn().Str("request_id", result.RequestID).Msg("Duplicate result, dropping")
	}
}

func (s *Server) pingLoop(ac *agentConn, done chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	failures := 0
	const maxFailures = 3

	for {
		select {
		case <-done:
			return
		case <-ac.done:
			return
		case <-ticker.C:
			ac.writeMu.Lock()
			err := ac.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWait))
			ac.writeMu.Unlock()
			if err == nil {
				failures = 0
				continue
			}
			failures++
			log.Warn().
				Err(err).
				Str("agent_id", ac.agent.AgentID).
				Int("consecutive_failures", failures).
				Msg("Failed to send ping to agent")
			if failures >= maxFailures {
				log.Error().Str("agent_id", ac.agent.AgentID).Msg("Agent connection appears dead, closing")
				ac.shutdown()
				return
			}
		}
	}
}

// ExecuteCommand sends a command to an agent and waits for its result. There
// is no timeout beyond ctx; a disconnect fails the request.
func (s *Server) ExecuteCommand(ctx context.Context, agentID string, cmd ExecuteCommandPayload) (*CommandResultPayload, error) {
	if agentID == "" {
		return nil, fmt.Errorf("agent id is required")
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	ac, ok := s.agents[agentID]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("agent %s not connected", agentID)
	}
	if _, dup := s.pendingReqs[cmd.RequestID]; dup {
		s.mu.Unlock()
		return nil, fmt.Errorf("request %s already pending", cmd.RequestID)
	}
	respCh := make(chan CommandResultPayload, 1)
	s.pendingReqs[cmd.RequestID] = respCh
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pendingReqs, cmd.RequestID)
		s.mu.Unlock()
	}()

	msg, err := NewMessage(MsgTypeExecuteCmd, cmd.RequestID, cmd)
	if err != nil {
		return nil, err
	}
	if err := ac.send(msg); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	select {
	case result := <-respCh:
		return &result, nil
	case <-ac.done:
		return nil, fmt.Errorf("agent %s disconnected before returning a result", agentID)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetConnectedAgents returns the connected agents sorted by ID.
func (s *Server) GetConnectedAgents() []ConnectedAgent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agents := make([]ConnectedAgent, 0, len(s.agents))
	for _, ac := range s.agents {
		agents = append(agents, ac.agent)
	}
	sort.Slice(agents, func(i, j int) bool { return agents[i].AgentID < agents[j].AgentID })
	return agents
}

// IsAgentConnected checks if an agent is currently connected.
func (s *Server) IsAgentConnected(agentID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.agents[agentID]
	return ok
}

// GetAgentForHost finds the agent registered with hostname.
func (s *Server) GetAgentForHost(hostname string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ac := range s.agents {
		if ac.agent.Hostname == hostname {
			return ac.agent.AgentID, true
		}
	}
	return "", false
}

// Close disconnects every agent.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ac := range s.agents {
		ac.shutdown()
		delete(s.agents, id)
	}
}
