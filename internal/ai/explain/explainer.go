// Package explain streams a natural-language explanation of a command result
// from the configured AI provider.
package explain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rcourtman/irconsole/internal/ai/providers"
	"github.com/rcourtman/irconsole/internal/config"
	"github.com/rcourtman/irconsole/internal/entity"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
	"github.com/rcourtman/irconsole/internal/metrics"
)

// Request parameters sent with every explanation.
const (
	Temperature = 0.7
	MaxTokens   = 1000
)

// Texts shown in the explanation panel.
const (
	PendingText = "🤔 AI is analyzing..."
	hintText    = "Hint: configure AI in settings, or check that the AI service is available."
)

// FailureText renders an explanation that could not start.
func FailureText(err error) string {
	return fmt.Sprintf("❌ AI explanation failed: %v\n\n%s", err, hintText)
}

// InterruptedNotice is appended to partial text when the stream breaks.
func InterruptedNotice(err error) string {
	return fmt.Sprintf("\n\n⚠️ Explanation interrupted: %v", err)
}

// Request is one explanation ask.
type Request struct {
	Kind    entity.Kind
	Title   string
	Content string
}

// Sink receives fragments in arrival order.
type Sink func(fragment string)

// Result summarizes a finished session.
type Result struct {
	Provider    string
	Prompt      string
	Text        string
	Fragments   int
	ParseErrors int
	// Terminated is true when the stream ended with [DONE].
	Terminated bool
}

// ProviderFactory builds a provider for resolved settings.
type ProviderFactory func(p config.ResolvedProvider) (providers.Provider, error)

// Explainer resolves provider settings per request and streams replies.
type Explainer struct {
	settings    config.SettingsSource
	newProvider ProviderFactory
}

// Option configures an Explainer.
type Option func(*Explainer)

// WithHTTPClient sets the client used by the default provider factory.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Explainer) {
		e.newProvider = func(p config.ResolvedProvider) (providers.Provider, error) {
			return providers.NewFromResolved(p, client)
		}
	}
}

// WithProviderFactory replaces provider construction.
func WithProviderFactory(f ProviderFactory) Option {
	return func(e *Explainer) { e.newProvider = f }
}

// New creates an Explainer reading settings from source.
func New(source config.SettingsSource, opts ...Option) *Explainer {
	e := &Explainer{settings: source}
	WithHTTPClient(nil)(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Provider resolves the current provider. Every failure is a configuration
// error and happens before any network traffic.
func (e *Explainer) Provider(ctx context.Context) (providers.Provider, error) {
	doc, err := e.settings.Settings(ctx)
	if err != nil {
		return nil, consoleerrors.WrapConfigurationError("read_settings", err)
	}
	resolved, err := doc.ResolveAI()
	if err != nil {
		return nil, err
	}
	p, err := e.newProvider(resolved)
	if err != nil {
		if consoleerrors.IsConfigurationError(err) {
			return nil, err
		}
		return nil, consoleerrors.WrapConfigurationError("new_provider", err)
	}
	return p, nil
}

// Explain streams an explanation of req to sink. On a transport failure the
// returned Result still holds the text received so far.
func (e *Explainer) Explain(ctx context.Context, req Request, sink Sink) (*Result, error) {
	if sink == nil {
		sink = func(string) {}
	}
	res := &Result{Prompt: BuildPrompt(req.Kind, req.Title, req.Content)}

	provider, err := e.Provider(ctx)
	if err != nil {
		metrics.RecordExplanation("none", "configuration_error")
		log.Warn().Err(err).Str("kind", string(req.Kind)).Msg("Explanation not started")
		return res, err
	}
	res.Provider = provider.Name()

	metrics.ExplanationsActive.Inc()
	defer metrics.ExplanationsActive.Dec()

	start := time.Now()
	var (
		mu   sync.Mutex
		text strings.Builder
	)
	err = provider.ChatStream(ctx, providers.ChatRequest{
		System:      res.Prompt,
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}, func(event providers.StreamEvent) {
		switch event.Type {
		case providers.EventContent:
			fragment := event.Data.(providers.ContentEvent).Text
			mu.Lock()
			text.WriteString(fragment)
			res.Fragments++
			mu.Unlock()
			metrics.RecordStreamFrame("content")
			sink(fragment)
		case providers.EventParseError:
			pe := event.Data.(providers.ParseErrorEvent)
			mu.Lock()
			res.ParseErrors++
			mu.Unlock()
			metrics.RecordStreamFrame("parse_error")
			log.Warn().Err(pe.Err).Str("provider", res.Provider).Msg("Skipped malformed stream frame")
		case providers.EventDone:
			res.Terminated = event.Data.(providers.DoneEvent).Terminated
		}
	})

	mu.Lock()
	res.Text = text.String()
	mu.Unlock()

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && errors.Is(err, context.Canceled):
		outcome = metrics.OutcomeCancelled
	case err != nil:
		outcome = metrics.OutcomeError
	}
	metrics.RecordExplanation(res.Provider, outcome)

	evt := log.Debug()
	if err != nil && outcome == metrics.OutcomeError {
		evt = log.Warn().Err(err)
	}
	evt.Str("provider", res.Provider).
		Str("kind", string(req.Kind)).
		Int("fragments", res.Fragments).
		Int("parseErrors", res.ParseErrors).
		Dur("elapsed", time.Since(start)).
		Msg("Explanation session ended")

	return res, err
}
