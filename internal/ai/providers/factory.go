package providers

import (
	"net/http"

	"github.com/rcourtman/irconsole/internal/config"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

// NewFromResolved creates a Provider for the resolved settings entry. Every
// configured provider speaks the OpenAI-compatible protocol; ollama is the
// only one that runs without a key.
func NewFromResolved(p config.ResolvedProvider, httpClient *http.Client) (Provider, error) {
	if p.APIKey == "" && !p.Keyless() {
		return nil, consoleerrors.Configuration("new_provider", "Please configure the AI API key in settings")
	}
	if p.BaseURL == "" {
		return nil, consoleerrors.Configuration("new_provider", "provider "+p.Key+" has no baseUrl")
	}

	client := NewOpenAIClient(p.APIKey, p.Model, p.BaseURL, httpClient)
	client.name = p.Key
	return client, nil
}
