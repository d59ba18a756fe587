package providers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

const (
	openaiBaseURL       = "https://api.openai.com/v1"
	chatCompletionsPath = "/chat/completions"
	dataPrefix          = "data:"
	doneMarker          = "[DONE]"
)

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	name    string
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIClient creates a new client. A nil httpClient gets a default with
// no overall timeout, since streams may run for minutes.
func NewOpenAIClient(apiKey, model, baseURL string, httpClient *http.Client) *OpenAIClient {
	if baseURL == "" {
		baseURL = openaiBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &OpenAIClient{
		name:    "openai",
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  httpClient,
	}
}

// Name returns the provider name
func (c *OpenAIClient) Name() string {
	return c.name
}

// endpoint returns the chat completions URL for the configured base.
func (c *OpenAIClient) endpoint() string {
	base := strings.TrimRight(c.baseURL, "/")
	if strings.HasSuffix(base, chatCompletionsPath) {
		return base
	}
	return base + chatCompletionsPath
}

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	Stream      bool            `json:"stream,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	ID      string         `json:"id"`
	Model   string         `json:"model"`
	Choices []openaiChoice `json:"choices"`
	Usage   openaiUsage    `json:"usage"`
}

type openaiChoice struct {
	Index        int           `json:"index"`
	Message      openaiMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openaiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// openaiStreamChunk is one decoded data frame.
type openaiStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type openaiError struct {
	Error openaiErrorDetail `json:"error"`
}

type openaiErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (c *OpenAIClient) buildRequest(req ChatRequest, stream bool) openaiRequest {
	messages := make([]openaiMessage, 0, len(req.Messages)+1)
	if req.System != "" {
		messages = append(messages, openaiMessage{Role: "system", Content: req.System})
	}
	for _, m := range req.Messages {
		messages = append(messages, openaiMessage{Role: m.Role, Content: m.Content})
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	out := openaiRequest{Model: model, Messages: messages, Stream: stream}
	if req.MaxTokens > 0 {
		out.MaxTokens = req.MaxTokens
	}
	if req.Temperature > 0 {
		out.Temperature = req.Temperature
	}
	return out
}

func (c *OpenAIClient) post(ctx context.Context, body openaiRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}
	return resp, nil
}

// apiError turns a non-2xx response into an error, preferring the
// provider's error.message when the body is JSON.
func apiError(resp *http.Response) error {
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var errResp openaiError
	if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
	}
	return fmt.Errorf("API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
}

// Chat sends a non-streaming request.
func (c *OpenAIClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	resp, err := c.post(ctx, c.buildRequest(req, false))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var openaiResp openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&openaiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned")
	}

	return &ChatResponse{
		Content:      openaiResp.Choices[0].Message.Content,
		Model:        openaiResp.Model,
		StopReason:   openaiResp.Choices[0].FinishReason,
		InputTokens:  openaiResp.Usage.PromptTokens,
		OutputTokens: openaiResp.Usage.CompletionTokens,
	}, nil
}

// ChatStream posts a streaming request and reads server-sent data frames.
//
// Only lines starting with "data:" are frames; one space after the colon is
// optional. A "[DONE]" frame ends the
// stream; so does a clean end of body. Frames that fail to decode are
// reported as parse_error events and skipped. Any other failure ends the
// stream with a stream transport error.
func (c *OpenAIClient) ChatStream(ctx context.Context, req ChatRequest, callback StreamCallback) error {
	if callback == nil {
		callback = func(StreamEvent) {}
	}
	start := time.Now()

	resp, err := c.post(ctx, c.buildRequest(req, true))
	if err != nil {
		return consoleerrors.WrapStreamTransportError("request", err)
	}
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	frames := 0
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimRight(line, "\r\n")
			if strings.HasPrefix(line, dataPrefix) {
				data := strings.TrimPrefix(strings.TrimPrefix(line, dataPrefix), " ")
				if data == doneMarker {
					log.Debug().Int("frames", frames).Dur("elapsed", time.Since(start)).Msg("Explanation stream finished")
					callback(StreamEvent{Type: EventDone, Data: DoneEvent{Terminated: true}})
					return nil
				}
				frames++
				c.handleFrame(data, callback)
			}
		}

		if readErr == io.EOF {
			log.Debug().Int("frames", frames).Msg("Explanation stream ended without a done marker")
			callback(StreamEvent{Type: EventDone, Data: DoneEvent{Terminated: false}})
			return nil
		}
		if readErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return consoleerrors.WrapStreamTransportError("read_stream", ctxErr)
			}
			return consoleerrors.WrapStreamTransportError("read_stream", readErr)
		}
	}
}

func (c *OpenAIClient) handleFrame(data string, callback StreamCallback) {
	var chunk openaiStreamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		log.Debug().Err(err).Str("frame", truncate(data, 120)).Msg("Skipping undecodable stream frame")
		callback(StreamEvent{Type: EventParseError, Data: ParseErrorEvent{Raw: data, Err: consoleerrors.WrapStreamParseError(err)}})
		return
	}
	if len(chunk.Choices) == 0 {
		return
	}
	if text := chunk.Choices[0].Delta.Content; text != "" {
		callback(StreamEvent{Type: EventContent, Data: ContentEvent{Text: text}})
	}
}

// TestConnection validates the API key by making a minimal request
func (c *OpenAIClient) TestConnection(ctx context.Context) error {
	_, err := c.Chat(ctx, ChatRequest{
		Messages: []Message{
			{Role: "user", Content: "Hi"},
		},
		MaxTokens: 10,
	})
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
