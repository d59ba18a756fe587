package console

import (
	"errors"

	"github.com/rcourtman/irconsole/internal/entity"
	"github.com/rcourtman/irconsole/internal/gateway"
)

// State is the modal lifecycle of one controller.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateExecuting
	StateDisplayed
	StateExplaining
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateExecuting:
		return "executing"
	case StateDisplayed:
		return "displayed"
	case StateExplaining:
		return "explaining"
	}
	return "unknown"
}

// State machine misuse.
var (
	ErrMenuClosed   = errors.New("action menu is not open")
	ErrNoResult     = errors.New("no command result to explain")
	ErrKindMismatch = errors.New("entity kind does not match controller")
	ErrSuperseded   = errors.New("result discarded: the modal moved on")
)

// Snapshot is a copy of everything the modal shows.
type Snapshot struct {
	Kind               entity.Kind
	State              State
	Entity             entity.Entity
	Account            string
	Title              string
	Content            string
	Command            string
	Result             *gateway.Result
	Explanation        string
	ExplanationVisible bool
}

// Renderer observes every modal mutation.
type Renderer interface {
	Render(s Snapshot)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(s Snapshot)

// Render implements Renderer.
func (f RendererFunc) Render(s Snapshot) { f(s) }
