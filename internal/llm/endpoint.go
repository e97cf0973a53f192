package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"pantry-planner/internal/shared"
)

const endpointReadSize = 4096

// EndpointClient talks to a chat endpoint that accepts {"messages": [...]}
// and streams plain text back in the response body.
type EndpointClient struct {
	url        string
	httpClient *http.Client
}

// NewEndpointClient creates a client for url. Deadlines come from the
// request context.
func NewEndpointClient(url string) *EndpointClient {
	return &EndpointClient{url: url, httpClient: &http.Client{}}
}

func (c *EndpointClient) StreamChat(ctx context.Context, messages []Message) (ChatStream, error) {
	body, err := json.Marshal(map[string]any{"messages": messages})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{Provider: "chat", StatusCode: resp.StatusCode, Body: string(b)}
	}
	return &bodyStream{body: resp.Body, buf: make([]byte, endpointReadSize)}, nil
}

// bodyStream hands out raw body reads as chunks.
type bodyStream struct {
	body io.ReadCloser
	buf  []byte
}

func (s *bodyStream) Recv() (string, error) {
	for {
		n, err := s.body.Read(s.buf)
		if n > 0 {
			return string(s.buf[:n]), nil
		}
		if err != nil {
			return "", err
		}
	}
}

func (s *bodyStream) Usage() shared.TokenUsage { return shared.TokenUsage{Model: "chat-endpoint"} }

func (s *bodyStream) Close() error { return s.body.Close() }
