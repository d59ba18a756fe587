package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

type recorder struct {
	content     string
	fragments   []string
	parseErrors int
	done        *DoneEvent
}

func (r *recorder) callback(event StreamEvent) {
	switch event.Type {
	case EventContent:
		text := event.Data.(ContentEvent).Text
		r.fragments = append(r.fragments, text)
		r.content += text
	case EventParseError:
		r.parseErrors++
	case EventDone:
		d := event.Data.(DoneEvent)
		r.done = &d
	}
}

func sseServer(t *testing.T, frames ...string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, f := range frames {
			fmt.Fprint(w, f)
			w.(http.Flusher).Flush()
		}
	}))
}

func chunk(text string) string {
	return fmt.Sprintf("data: {\"choices\":[{\"delta\":{\"content\":%q}}]}\n\n", text)
}

func TestOpenAIClient_ChatStream_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4", body["model"])
		assert.Equal(t, true, body["stream"])
		assert.Equal(t, 0.7, body["temperature"])
		assert.Equal(t, float64(1000), body["max_tokens"])
		msgs := body["messages"].([]interface{})
		require.Len(t, msgs, 1)
		assert.Equal(t, "system", msgs[0].(map[string]interface{})["role"])

		w.Header().Set("Content-Type", "text/event-stream")
		for _, f := range []string{chunk("Hello"), chunk(" World"), "data: [DONE]\n\n", chunk("ignored")} {
			fmt.Fprint(w, f)
			w.(http.Flusher).Flush()
			time.Sleep(5 * time.Millisecond)
		}
	}))
	defer server.Close()

	client := NewOpenAIClient("sk-test", "gpt-4", server.URL+"/v1", nil)
	var rec recorder
	err := client.ChatStream(context.Background(), ChatRequest{
		System:      "explain this",
		MaxTokens:   1000,
		Temperature: 0.7,
	}, rec.callback)
	require.NoError(t, err)
	assert.Equal(t, []string{"Hello", " World"}, rec.fragments)
	require.NotNil(t, rec.done)
	assert.True(t, rec.done.Terminated)
}

func TestOpenAIClient_ChatStream_SkipsMalformedFrames(t *testing.T) {
	server := sseServer(t,
		chunk("A"),
		"data: {not json\n\n",
		": keep-alive comment\n",
		"event: ping\n",
		"data:{\"choices\":[{\"delta\":{\"content\":\"no-space\"}}]}\n",
		"data: {\"choices\":[]}\n",
		chunk("B"),
		"data: [DONE]\n",
	)
	defer server.Close()

	var rec recorder
	err := NewOpenAIClient("k", "m", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, rec.callback)
	require.NoError(t, err)
	assert.Equal(t, "Ano-spaceB", rec.content)
	assert.Equal(t, 1, rec.parseErrors)
}

func TestOpenAIClient_ChatStream_CompactFrames(t *testing.T) {
	server := sseServer(t,
		"data:{\"choices\":[{\"delta\":{\"content\":\"A\"}}]}\n\n",
		"data:{\"choices\":[{\"delta\":{\"content\":\"B\"}}]}\n\n",
		"data:[DONE]\n\n",
	)
	defer server.Close()

	var rec recorder
	err := NewOpenAIClient("k", "m", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, rec.callback)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, rec.fragments)
	assert.Equal(t, "AB", rec.content)
	require.NotNil(t, rec.done)
	assert.True(t, rec.done.Terminated)
}

func TestOpenAIClient_ChatStream_SplitAcrossWrites(t *testing.T) {
	body := chunk("A") + "data: {bad\n\n" + chunk("B") + "data: [DONE]\n\n"
	writes := make([]string, 0, len(body))
	for i := range len(body) {
		writes = append(writes, body[i:i+1])
	}
	server := sseServer(t, writes...)
	defer server.Close()

	var rec recorder
	err := NewOpenAIClient("k", "m", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, rec.callback)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, rec.fragments)
	assert.Equal(t, 1, rec.parseErrors)
	require.NotNil(t, rec.done)
	assert.True(t, rec.done.Terminated)
}

func TestOpenAIClient_ChatStream_EOFWithoutDone(t *testing.T) {
	server := sseServer(t, chunk("partial"), "data: {\"choices\":[{\"delta\":{\"content\":\"tail\"}}]}")
	defer server.Close()

	var rec recorder
	err := NewOpenAIClient("k", "m", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, rec.callback)
	require.NoError(t, err)
	assert.Equal(t, "partialtail", rec.content)
	require.NotNil(t, rec.done)
	assert.False(t, rec.done.Terminated)
}

func TestOpenAIClient_ChatStream_TransportFailureKeepsFragments(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, chunk("before"))
		w.(http.Flusher).Flush()
		time.Sleep(10 * time.Millisecond)
		panic(http.ErrAbortHandler)
	}))
	defer server.Close()

	var rec recorder
	err := NewOpenAIClient("k", "m", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, rec.callback)
	require.Error(t, err)
	assert.True(t, errors.Is(err, consoleerrors.ErrStreamTransport))
	assert.Equal(t, "before", rec.content)
	assert.Nil(t, rec.done)
}

func TestOpenAIClient_ChatStream_Errors(t *testing.T) {
	t.Run("401 Unauthorized", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "Invalid API key"},
			})
		}))
		defer server.Close()

		err := NewOpenAIClient("bad-key", "gpt-4", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API error (401): Invalid API key")
		assert.True(t, errors.Is(err, consoleerrors.ErrStreamTransport))
	})

	t.Run("plain text error body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream down", http.StatusBadGateway)
		}))
		defer server.Close()

		err := NewOpenAIClient("k", "m", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API error (502): upstream down")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := NewOpenAIClient("sk", "gpt", "http://127.0.0.1:1", nil).ChatStream(ctx, ChatRequest{}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestOpenAIClient_ChatStream_CancelMidStream(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, chunk("one"))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	got := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- NewOpenAIClient("k", "m", server.URL, nil).ChatStream(ctx, ChatRequest{}, func(e StreamEvent) {
			if e.Type == EventContent {
				got <- e.Data.(ContentEvent).Text
			}
		})
	}()

	assert.Equal(t, "one", <-got)
	cancel()
	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not stop after cancel")
	}
}

func TestOpenAIClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, streaming := body["stream"]
		assert.False(t, streaming)
		json.NewEncoder(w).Encode(openaiResponse{
			Model: "gpt-4",
			Choices: []openaiChoice{{
				Message:      openaiMessage{Role: "assistant", Content: "hello"},
				FinishReason: "stop",
			}},
			Usage: openaiUsage{PromptTokens: 3, CompletionTokens: 1},
		})
	}))
	defer server.Close()

	client := NewOpenAIClient("k", "gpt-4", server.URL, nil)
	resp, err := client.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "Hi"}}})
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content)
	assert.Equal(t, "stop", resp.StopReason)
	assert.Equal(t, 3, resp.InputTokens)

	assert.NoError(t, client.TestConnection(context.Background()))
}

func TestOpenAIClient_Endpoint(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		expected string
	}{
		{"Default", "", "https://api.openai.com/v1/chat/completions"},
		{"Base with version", "https://api.deepseek.com/v1", "https://api.deepseek.com/v1/chat/completions"},
		{"Trailing slash", "http://localhost:11434/v1/", "http://localhost:11434/v1/chat/completions"},
		{"Full endpoint", "https://proxy.local/v1/chat/completions", "https://proxy.local/v1/chat/completions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewOpenAIClient("k", "m", tt.baseURL, nil)
			assert.Equal(t, tt.expected, client.endpoint())
		})
	}
}

func TestOpenAIClient_KeylessOmitsAuthorization(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, "data: [DONE]\n")
	}))
	defer server.Close()

	err := NewOpenAIClient("", "llama3", server.URL, nil).ChatStream(context.Background(), ChatRequest{}, nil)
	assert.NoError(t, err)
}
