// Package providers contains AI provider client implementations
package providers

import (
	"context"
)

// Message represents a chat message
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ChatRequest represents a request to the AI provider
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
	System      string    `json:"system,omitempty"`
}

// ChatResponse represents a response from the AI provider
type ChatResponse struct {
	Content      string `json:"content"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason,omitempty"`
	InputTokens  int    `json:"input_tokens,omitempty"`
	OutputTokens int    `json:"output_tokens,omitempty"`
}

// Stream event types.
const (
	EventContent    = "content"
	EventParseError = "parse_error"
	EventDone       = "done"
)

// StreamEvent is one notification delivered while a reply streams in.
type StreamEvent struct {
	Type string
	Data interface{}
}

// ContentEvent carries one text fragment, in arrival order.
type ContentEvent struct {
	Text string
}

// ParseErrorEvent reports a data frame that could not be decoded. The stream
// continues after it.
type ParseErrorEvent struct {
	Raw string
	Err error
}

// DoneEvent marks the end of a successful stream.
type DoneEvent struct {
	// Terminated is false when the body ended without a [DONE] frame.
	Terminated bool
}

// StreamCallback receives stream events. It is called from the goroutine
// running ChatStream.
type StreamCallback func(event StreamEvent)

// Provider defines the interface for AI providers
type Provider interface {
	// Chat sends a chat request and returns the response
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// ChatStream sends a streaming request and reports fragments through callback
	ChatStream(ctx context.Context, req ChatRequest, callback StreamCallback) error

	// TestConnection validates the API key and connectivity
	TestConnection(ctx context.Context) error

	// Name returns the provider name
	Name() string
}
