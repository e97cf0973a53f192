package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"pantry-planner/internal/shared"
)

// ErrNoContent is returned when a model answers with nothing but whitespace.
var ErrNoContent = errors.New("no content generated")

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// ChatStream yields response chunks in arrival order. Recv returns io.EOF
// once the response is complete.
type ChatStream interface {
	Recv() (string, error)
	// Usage is only meaningful after Recv returned io.EOF.
	Usage() shared.TokenUsage
	Close() error
}

// ChatStreamer opens a streamed chat completion.
type ChatStreamer interface {
	StreamChat(ctx context.Context, messages []Message) (ChatStream, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// Drain reads the stream to completion, concatenating chunks, and closes it.
func Drain(stream ChatStream) (ContentResponse, error) {
	defer stream.Close()

	var sb strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return ContentResponse{Content: sb.String()}, fmt.Errorf("failed to read stream: %w", err)
		}
		sb.WriteString(chunk)
	}
	return ContentResponse{Content: sb.String(), Usage: stream.Usage()}, nil
}

// Complete sends messages and waits for the whole answer.
func Complete(ctx context.Context, c ChatStreamer, messages []Message) (ContentResponse, error) {
	stream, err := c.StreamChat(ctx, messages)
	if err != nil {
		return ContentResponse{}, err
	}
	resp, err := Drain(stream)
	if err != nil {
		return resp, err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return resp, ErrNoContent
	}
	return resp, nil
}

// StatusError reports a non-2xx answer from an HTTP chat API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s api error: status=%d body=%s", e.Provider, e.StatusCode, e.Body)
}
