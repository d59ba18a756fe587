package config

import (
	"encoding/json"
	"fmt"
	"strings"

	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

// Provider keys with special handling.
const (
	AIProviderOpenAI = "openai"
	AIProviderOllama = "ollama"
)

// SettingsDocument is the application settings file. Only the ai section is
// read here; everything else is preserved untouched by the writer that owns it.
type SettingsDocument struct {
	AI *AISettings `json:"ai,omitempty"`
}

// AISettings is settings.ai.
type AISettings struct {
	CurrentProvider string                        `json:"currentProvider"`
	Providers       map[string]AIProviderSettings `json:"providers"`
}

// AIProviderSettings is one entry of settings.ai.providers.
type AIProviderSettings struct {
	Name    string `json:"name"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
	BaseURL string `json:"baseUrl"`
}

// ResolvedProvider is the provider an explanation will use.
type ResolvedProvider struct {
	Key string
	AIProviderSettings
}

// Keyless reports whether the provider runs without an API key.
func (p ResolvedProvider) Keyless() bool {
	return p.Key == AIProviderOllama
}

// DefaultAISettings is used when the document has no ai section.
func DefaultAISettings() *AISettings {
	return &AISettings{
		CurrentProvider: AIProviderOpenAI,
		Providers: map[string]AIProviderSettings{
			AIProviderOpenAI: {
				Name:    "OpenAI",
				APIKey:  "",
				Model:   "gpt-3.5-turbo",
				BaseURL: "https://api.openai.com/v1",
			},
		},
	}
}

// ParseSettings decodes a settings document. Empty input is an empty document.
func ParseSettings(data []byte) (*SettingsDocument, error) {
	doc := &SettingsDocument{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return doc, nil
}

// ResolveAI picks the current provider, falling back to the defaults when the
// ai section is absent. Every failure is a configuration error.
func (d *SettingsDocument) ResolveAI() (ResolvedProvider, error) {
	ai := DefaultAISettings()
	if d != nil && d.AI != nil {
		ai = d.AI
	}

	if ai.CurrentProvider == "" || ai.Providers == nil {
		return ResolvedProvider{}, consoleerrors.Configuration("resolve_provider", "AI configuration is invalid, configure AI in settings")
	}
	p, ok := ai.Providers[ai.CurrentProvider]
	if !ok {
		return ResolvedProvider{}, consoleerrors.Configuration("resolve_provider", "AI provider configuration does not exist")
	}

	resolved := ResolvedProvider{Key: ai.CurrentProvider, AIProviderSettings: p}
	if strings.TrimSpace(p.APIKey) == "" && !resolved.Keyless() {
		return ResolvedProvider{}, consoleerrors.Configuration("resolve_provider", "Please configure the AI API key in settings")
	}
	if strings.TrimSpace(p.BaseURL) == "" {
		return ResolvedProvider{}, consoleerrors.Configuration("resolve_provider", fmt.Sprintf("provider %s has no baseUrl", resolved.Key))
	}
	if strings.TrimSpace(p.Model) == "" {
		return ResolvedProvider{}, consoleerrors.Configuration("resolve_provider", fmt.Sprintf("provider %s has no model", resolved.Key))
	}
	return resolved, nil
}
