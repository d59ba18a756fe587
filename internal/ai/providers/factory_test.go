package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcourtman/irconsole/internal/config"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

func TestNewFromResolved(t *testing.T) {
	p, err := NewFromResolved(config.ResolvedProvider{
		Key:                "deepseek",
		AIProviderSettings: config.AIProviderSettings{APIKey: "sk", Model: "deepseek-chat", BaseURL: "https://api.deepseek.com/v1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "deepseek", p.Name())

	p, err = NewFromResolved(config.ResolvedProvider{
		Key:                config.AIProviderOllama,
		AIProviderSettings: config.AIProviderSettings{Model: "llama3", BaseURL: "http://localhost:11434/v1"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	_, err = NewFromResolved(config.ResolvedProvider{
		Key:                config.AIProviderOpenAI,
		AIProviderSettings: config.AIProviderSettings{Model: "gpt-4", BaseURL: "https://api.openai.com/v1"},
	}, nil)
	assert.True(t, consoleerrors.IsConfigurationError(err))
}
