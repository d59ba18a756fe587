package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcourtman/irconsole/internal/ai/providers"
	"github.com/rcourtman/irconsole/internal/config"
	"github.com/rcourtman/irconsole/internal/entity"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

func settingsFor(baseURL, key string) config.StaticSettings {
	return config.StaticSettings{Doc: &config.SettingsDocument{AI: &config.AISettings{
		CurrentProvider: "openai",
		Providers: map[string]config.AIProviderSettings{
			"openai": {Name: "OpenAI", APIKey: key, Model: "gpt-3.5-turbo", BaseURL: baseURL},
		},
	}}}
}

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(entity.KindProcess, "Process 1234 - Command line", Content("cat /proc/1234/cmdline", "/usr/sbin/sshd -D"))
	assert.True(t, strings.HasPrefix(prompt, "You are a Linux system security expert"))
	assert.Contains(t, prompt, "Title: Process 1234 - Command line")
	assert.Contains(t, prompt, "Content:\nCommand: cat /proc/1234/cmdline\n\n/usr/sbin/sshd -D")
	assert.True(t, strings.HasSuffix(prompt, "4. Recommended actions (if applicable)"))

	assert.Contains(t, BuildPrompt(entity.KindService, "t", "c"), "3. Status assessment")
	assert.Contains(t, BuildPrompt(entity.KindFirewall, "t", "c"), "4. Configuration suggestions (if applicable)")
	assert.Contains(t, BuildPrompt(entity.KindNetwork, "t", "c"), "following network information:")
	assert.Equal(t, "raw", Content("", "raw"))
}

func TestExplainStreamsInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
			Temperature float64 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Stream      bool    `json:"stream"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.True(t, body.Stream)
		assert.Equal(t, 0.7, body.Temperature)
		assert.Equal(t, 1000, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[0].Content, "Title: T")

		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n\n")
		fmt.Fprint(w, "data: {oops\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	var fragments []string
	ex := New(settingsFor(server.URL, "sk"))
	res, err := ex.Explain(context.Background(), Request{Kind: entity.KindProcess, Title: "T", Content: "out"}, func(f string) {
		fragments = append(fragments, f)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, fragments)
	assert.Equal(t, "AB", res.Text)
	assert.Equal(t, 1, res.ParseErrors)
	assert.Equal(t, 2, res.Fragments)
	assert.True(t, res.Terminated)
	assert.Equal(t, "openai", res.Provider)
}

func TestExplainWithoutKeyMakesNoRequest(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	ex := New(settingsFor(server.URL, ""))
	res, err := ex.Explain(context.Background(), Request{Kind: entity.KindUser, Title: "T"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, consoleerrors.ErrConfiguration))
	assert.Contains(t, err.Error(), "Please configure the AI API key in settings")
	assert.Empty(t, res.Text)
	assert.Zero(t, hits.Load())
}

func TestExplainDefaultsWhenSettingsHaveNoAISection(t *testing.T) {
	ex := New(config.StaticSettings{})
	_, err := ex.Provider(context.Background())
	require.Error(t, err)
	assert.True(t, consoleerrors.IsConfigurationError(err), "default provider has an empty key")
}

func TestExplainKeylessOllama(t *testing.T) {
	var factoryCalls int
	doc := &config.SettingsDocument{AI: &config.AISettings{
		CurrentProvider: "ollama",
		Providers: map[string]config.AIProviderSettings{
			"ollama": {Name: "Ollama", Model: "llama3", BaseURL: "http://127.0.0.1:11434/v1"},
		},
	}}
	ex := New(config.StaticSettings{Doc: doc}, WithProviderFactory(func(p config.ResolvedProvider) (providers.Provider, error) {
		factoryCalls++
		assert.Equal(t, "ollama", p.Key)
		return providers.NewFromResolved(p, nil)
	}))
	p, err := ex.Provider(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())
	assert.Equal(t, 1, factoryCalls)
}

type failingSettings struct{}

func (failingSettings) Settings(context.Context) (*config.SettingsDocument, error) {
	return nil, errors.New("settings unreadable")
}

func TestExplainSettingsReadFailureIsConfiguration(t *testing.T) {
	_, err := New(failingSettings{}).Explain(context.Background(), Request{Kind: entity.KindCron}, nil)
	assert.True(t, consoleerrors.IsConfigurationError(err))
}

func TestExplainTransportFailureKeepsPartialText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n")
		w.(http.Flusher).Flush()
		panic(http.ErrAbortHandler)
	}))
	defer server.Close()

	res, err := New(settingsFor(server.URL, "sk")).Explain(context.Background(), Request{Kind: entity.KindStartup}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, consoleerrors.ErrStreamTransport))
	assert.Equal(t, "partial", res.Text)
	assert.False(t, res.Terminated)
}

func TestTexts(t *testing.T) {
	msg := FailureText(errors.New("boom"))
	assert.True(t, strings.HasPrefix(msg, "❌ AI explanation failed: boom"))
	assert.Contains(t, msg, "Hint:")
	assert.Contains(t, InterruptedNotice(errors.New("eof")), "⚠️")
}
