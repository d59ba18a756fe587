package console

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rcourtman/irconsole/internal/accounts"
	"github.com/rcourtman/irconsole/internal/ai/explain"
	"github.com/rcourtman/irconsole/internal/audit"
	"github.com/rcourtman/irconsole/internal/catalog"
	"github.com/rcourtman/irconsole/internal/entity"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
	"github.com/rcourtman/irconsole/internal/gateway"
	"github.com/rcourtman/irconsole/internal/metrics"
)

const (
	emptyOutputText = "✓ Command completed with no output"
	errorTitle      = "Error"
)

// Explainer streams explanations.
type Explainer interface {
	Explain(ctx context.Context, req explain.Request, sink explain.Sink) (*explain.Result, error)
}

// AccountSource lists the accounts of the active connection.
type AccountSource interface {
	Accounts(ctx context.Context) ([]accounts.Account, error)
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Gateway   gateway.Gateway
	Backend   string
	Explainer Explainer
	Accounts  AccountSource
	Audit     audit.Recorder
	Renderer  Renderer
}

// Controller drives the action menu and result modal for one entity kind.
// Calls from a single caller are serialized by the caller; the mutex guards
// against settles and stream fragments arriving on other goroutines.
type Controller struct {
	kind entity.Kind
	deps Deps

	mu       sync.Mutex
	state    State
	entity   entity.Entity
	resolver accounts.Resolver
	options  []accounts.Option

	title   string
	content string
	command string
	result  *gateway.Result

	explanation        string
	explanationVisible bool

	// generation advances on show, hide and dispatch; a settle carrying an
	// older value is stale.
	generation uint64
	// session identifies the current explanation; fragments from older
	// sessions are dropped.
	session       uint64
	cancelExplain context.CancelFunc
}

func newController(kind entity.Kind, deps Deps) *Controller {
	return &Controller{kind: kind, deps: deps}
}

// Kind returns the entity kind this controller serves.
func (c *Controller) Kind() entity.Kind {
	return c.kind
}

// Show opens the action menu for e. Any running explanation is cancelled,
// the account selection is reset and the explanation panel cleared.
func (c *Controller) Show(ctx context.Context, e entity.Entity) error {
	if e == nil || e.Kind() != c.kind {
		return ErrKindMismatch
	}

	var accts []accounts.Account
	if c.deps.Accounts != nil {
		var err error
		accts, err = c.deps.Accounts.Accounts(ctx)
		if err != nil {
			log.Warn().Err(err).Str("kind", string(c.kind)).Msg("Failed to load account list")
		}
	}

	c.mu.Lock()
	c.stopExplainLocked()
	c.generation++
	c.state = StateOpen
	c.entity = e
	c.resolver.Reset()
	c.options = accounts.Options(accts)
	c.title = ""
	c.content = ""
	c.command = ""
	c.result = nil
	c.explanation = ""
	c.explanationVisible = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Debug().Str("kind", string(c.kind)).Str("subject", e.Subject()).Int("accounts", len(accts)).Msg("Action menu opened")
	c.render(snap)
	return nil
}

// AccountOptions returns the picker entries loaded by the last Show.
func (c *Controller) AccountOptions() []accounts.Option {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]accounts.Option, len(c.options))
	copy(out, c.options)
	return out
}

// SelectAccount picks the account for the next dispatch. An empty name
// restores the connection default.
func (c *Controller) SelectAccount(username string) {
	c.resolver.Select(username)
	c.mu.Lock()
	noAccounts := len(c.options) <= 1
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if noAccounts && snap.Account != "" {
		log.Debug().Str("kind", string(c.kind)).Str("account", snap.Account).Msg("Account selected but no accounts are configured")
	}
	c.render(snap)
}

// SelectAction runs the action key against the open entity. The menu closes
// as soon as an action is chosen, so only the first call after Show
// dispatches.
func (c *Controller) SelectAction(ctx context.Context, key string) (*gateway.Result, error) {
	c.mu.Lock()
	if c.state != StateOpen {
		c.mu.Unlock()
		return nil, ErrMenuClosed
	}
	e := c.entity

	cmd, err := catalog.Build(e, key)
	if err != nil {
		metrics.RecordExecution(string(c.kind), c.deps.Backend, metrics.OutcomeError, 0)
		c.state = StateDisplayed
		c.title = errorTitle
		c.content = "❌ " + err.Error()
		snap := c.snapshotLocked()
		c.mu.Unlock()
		log.Warn().Str("kind", string(c.kind)).Str("action", key).Msg("Unknown action requested")
		c.render(snap)
		return nil, err
	}

	if cmd.Inline {
		res := &gateway.Result{Output: cmd.Text, ExitCode: gateway.IntPtr(0)}
		c.state = StateDisplayed
		c.title = cmd.Title
		c.content = cmd.Text
		c.command = ""
		c.result = res
		snap := c.snapshotLocked()
		c.mu.Unlock()

		metrics.RecordExecution(string(c.kind), c.deps.Backend, metrics.OutcomeInline, 0)
		c.record(ctx, e, cmd, "", res, nil, time.Now(), 0)
		c.render(snap)
		return res, nil
	}

	account, _ := c.resolver.Selected()
	c.stopExplainLocked()
	c.generation++
	gen := c.generation
	c.state = StateExecuting
	c.title = cmd.Title
	c.content = runningText(cmd, account)
	c.command = cmd.Text
	c.result = nil
	c.explanation = ""
	c.explanationVisible = false
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)

	log.Info().
		Str("kind", string(c.kind)).
		Str("action", cmd.Key).
		Str("subject", e.Subject()).
		Str("account", account).
		Str("backend", c.deps.Backend).
		Msg("Dispatching action")

	start := time.Now()
	res, execErr := c.deps.Gateway.Execute(ctx, cmd.Text, account)
	elapsed := time.Since(start)
	if execErr != nil && consoleerrors.TypeOf(execErr) == "" {
		execErr = consoleerrors.WrapExecutionError("execute", execErr)
	}

	c.record(ctx, e, cmd, account, res, execErr, start, elapsed)
	metrics.RecordExecution(string(c.kind), c.deps.Backend, outcomeOf(res, execErr), elapsed)

	c.mu.Lock()
	if gen != c.generation || c.state != StateExecuting {
		c.mu.Unlock()
		metrics.RecordStaleSettle()
		log.Debug().Str("kind", string(c.kind)).Str("action", cmd.Key).Msg("Discarding stale execution result")
		if execErr != nil {
			return res, execErr
		}
		return res, ErrSuperseded
	}

	c.state = StateDisplayed
	if execErr != nil {
		c.content = fmt.Sprintf("❌ Execution failed: %v", execErr)
	} else {
		c.result = res
		c.content = res.Output
		if c.content == "" {
			c.content = emptyOutputText
		}
	}
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)

	return res, execErr
}

// Explain streams an explanation of the displayed result into the
// explanation panel. A new call supersedes any running session. It blocks
// until the stream ends, is cancelled, or is superseded.
func (c *Controller) Explain(ctx context.Context) (*explain.Result, error) {
	c.mu.Lock()
	if c.result == nil || (c.state != StateDisplayed && c.state != StateExplaining) {
		c.mu.Unlock()
		return nil, ErrNoResult
	}
	if c.deps.Explainer == nil {
		c.mu.Unlock()
		return nil, consoleerrors.Configuration("explain", "AI explanations are not configured")
	}

	c.stopExplainLocked()
	streamCtx, cancel := context.WithCancel(ctx)
	c.session++
	session := c.session
	c.cancelExplain = cancel
	c.state = StateExplaining
	c.explanation = explain.PendingText
	c.explanationVisible = true
	req := explain.Request{
		Kind:    c.kind,
		Title:   c.title,
		Content: explain.Content(c.command, c.content),
	}
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)
	defer cancel()

	received := false
	res, err := c.deps.Explainer.Explain(streamCtx, req, func(fragment string) {
		c.mu.Lock()
		if session != c.session {
			c.mu.Unlock()
			return
		}
		if !received {
			c.explanation = ""
			received = true
		}
		c.explanation += fragment
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.render(snap)
	})

	c.mu.Lock()
	if session != c.session {
		c.mu.Unlock()
		if err == nil {
			err = ErrSuperseded
		}
		return res, err
	}
	switch {
	case err == nil && !received:
		c.explanation = ""
	case err != nil && !received:
		c.explanation = explain.FailureText(err)
	case err != nil:
		c.explanation += explain.InterruptedNotice(err)
	}
	c.cancelExplain = nil
	c.state = StateDisplayed
	snap = c.snapshotLocked()
	c.mu.Unlock()
	c.render(snap)

	return res, err
}

// Hide closes the menu and modal. A running explanation is cancelled and an
// execution still in flight will be discarded when it settles.
func (c *Controller) Hide() {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.stopExplainLocked()
	c.generation++
	c.state = StateClosed
	c.explanationVisible = false
	snap := c.snapshotLocked()
	c.mu.Unlock()

	log.Debug().Str("kind", string(c.kind)).Msg("Modal closed")
	c.render(snap)
}

// Snapshot returns the current modal contents.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	account, _ := c.resolver.Selected()
	return Snapshot{
		Kind:               c.kind,
		State:              c.state,
		Entity:             c.entity,
		Account:            account,
		Title:              c.title,
		Content:            c.content,
		Command:            c.command,
		Result:             c.result,
		Explanation:        c.explanation,
		ExplanationVisible: c.explanationVisible,
	}
}

// stopExplainLocked cancels the running explanation, if any, and makes its
// remaining fragments stale.
func (c *Controller) stopExplainLocked() {
	if c.cancelExplain != nil {
		c.cancelExplain()
		c.cancelExplain = nil
	}
	c.session++
	if c.state == StateExplaining {
		c.state = StateDisplayed
	}
}

func (c *Controller) render(s Snapshot) {
	if c.deps.Renderer != nil {
		c.deps.Renderer.Render(s)
	}
}

func (c *Controller) record(ctx context.Context, e entity.Entity, cmd catalog.Command, account string, res *gateway.Result, execErr error, start time.Time, elapsed time.Duration) {
	if c.deps.Audit == nil {
		return
	}
	backend := c.deps.Backend
	if cmd.Inline {
		backend = "inline"
	}
	entry := audit.Entry{
		Kind:      string(c.kind),
		Action:    cmd.Key,
		Subject:   e.Subject(),
		Command:   cmd.Text,
		Account:   account,
		Backend:   backend,
		StartedAt: start,
		Duration:  elapsed,
	}
	if res != nil {
		entry.Output = res.Output
		entry.ExitCode = res.ExitCode
	}
	if execErr != nil {
		entry.Error = execErr.Error()
	}
	if _, err := c.deps.Audit.Record(context.WithoutCancel(ctx), entry); err != nil {
		log.Warn().Err(err).Str("action", cmd.Key).Msg("Failed to record audit entry")
	}
}

func runningText(cmd catalog.Command, account string) string {
	who := ""
	if account != "" {
		who = fmt.Sprintf(" (account: %s)", account)
	}
	return fmt.Sprintf("⏳ Running: %s%s...\n\nCommand: %s", cmd.Label, who, catalog.Preview(cmd.Text))
}

func outcomeOf(res *gateway.Result, err error) string {
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		return metrics.OutcomeCancelled
	case err != nil:
		return metrics.OutcomeError
	case res != nil && res.ExitCode != nil && *res.ExitCode != 0:
		return metrics.OutcomeNonZero
	}
	return metrics.OutcomeSuccess
}
