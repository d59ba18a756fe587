package agentexec

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/rcourtman/irconsole/internal/gateway"
)

// Gateway routes console commands to one agent.
type Gateway struct {
	server *Server
	target string
}

// Gateway returns a gateway.Gateway bound to target, which may be an agent ID
// or a hostname. An empty target uses the only connected agent.
func (s *Server) Gateway(target string) *Gateway {
	return &Gateway{server: s, target: target}
}

// Execute implements gateway.Gateway.
func (g *Gateway) Execute(ctx context.Context, command, account string) (*gateway.Result, error) {
	agentID, err := g.resolve()
	if err != nil {
		return nil, err
	}

	res, err := g.server.ExecuteCommand(ctx, agentID, ExecuteCommandPayload{
		RequestID: uuid.NewString(),
		Command:   command,
		RunAs:     account,
	})
	if err != nil {
		return nil, err
	}
	if !res.Success && res.ExitCode == nil {
		msg := res.Error
		if msg == "" {
			msg = "agent reported failure"
		}
		return nil, errors.New(msg)
	}
	return &gateway.Result{Output: res.Output, ExitCode: res.ExitCode}, nil
}

func (g *Gateway) resolve() (string, error) {
	if g.target != "" {
		if g.server.IsAgentConnected(g.target) {
			return g.target, nil
		}
		if id, ok := g.server.GetAgentForHost(g.target); ok {
			return id, nil
		}
		return "", fmt.Errorf("agent %s not connected", g.target)
	}

	agents := g.server.GetConnectedAgents()
	switch len(agents) {
	case 0:
		return "", fmt.Errorf("no agent connected")
	case 1:
		return agents[0].AgentID, nil
	default:
		return "", fmt.Errorf("%d agents connected; configure agent.target", len(agents))
	}
}
