// Package console holds the per-entity controllers that turn a selected
// entity and action into a dispatched command, a displayed result and an
// optional streamed explanation.
package console

import (
	"context"
	"fmt"

	"github.com/rcourtman/irconsole/internal/entity"
)

// App owns one controller per entity kind.
type App struct {
	controllers map[entity.Kind]*Controller
}

// NewApp builds the seven controllers sharing deps.
func NewApp(deps Deps) *App {
	app := &App{controllers: make(map[entity.Kind]*Controller)}
	for _, kind := range entity.Kinds() {
		app.controllers[kind] = newController(kind, deps)
	}
	return app
}

// Controller returns the controller for kind.
func (a *App) Controller(kind entity.Kind) (*Controller, error) {
	c, ok := a.controllers[kind]
	if !ok {
		return nil, fmt.Errorf("no controller for kind %q", kind)
	}
	return c, nil
}

// Show routes e to its controller and opens the menu.
func (a *App) Show(ctx context.Context, e entity.Entity) (*Controller, error) {
	if e == nil {
		return nil, ErrKindMismatch
	}
	c, err := a.Controller(e.Kind())
	if err != nil {
		return nil, err
	}
	return c, c.Show(ctx, e)
}

// Close hides every controller.
func (a *App) Close() {
	for _, kind := range entity.Kinds() {
		a.controllers[kind].Hide()
	}
}
