package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"pantry-planner/internal/config"
	"pantry-planner/internal/shared"
)

const (
	groqAPIURL = "https://api.groq.com/openai/v1/chat/completions"
	groqModel  = "llama-3.3-70b-versatile"
)

// GroqClient is a streaming client for the Groq chat completions API.
type GroqClient struct {
	apiKey      string
	model       string
	url         string
	temperature float64
	httpClient  *http.Client
}

// NewGroqClient creates a new Groq API client.
func NewGroqClient(cfg *config.Config, temperature float64) *GroqClient {
	model := cfg.GroqModel
	if model == "" {
		model = groqModel
	}
	return &GroqClient{
		apiKey:      cfg.GroqAPIKey,
		model:       model,
		url:         groqAPIURL,
		temperature: temperature,
		httpClient:  &http.Client{},
	}
}

// StreamChat sends the conversation with stream=true and returns a stream
// over the server-sent events.
func (c *GroqClient) StreamChat(ctx context.Context, messages []Message) (ChatStream, error) {
	reqBody := map[string]any{
		"model":          c.model,
		"messages":       messages,
		"temperature":    c.temperature,
		"stream":         true,
		"stream_options": map[string]bool{"include_usage": true},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{Provider: "groq", StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	return &sseStream{
		body:    resp.Body,
		scanner: bufio.NewScanner(resp.Body),
		usage:   shared.TokenUsage{Model: c.model},
	}, nil
}

type groqChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// sseStream decodes OpenAI-style "data: {...}" lines until "data: [DONE]".
type sseStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	usage   shared.TokenUsage
	done    bool
}

func (s *sseStream) Recv() (string, error) {
	for !s.done && s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		payload = strings.TrimSpace(payload)
		if payload == "[DONE]" {
			s.done = true
			break
		}

		var chunk groqChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			return "", fmt.Errorf("failed to decode stream chunk: %w", err)
		}
		if chunk.Usage != nil {
			s.usage.PromptTokens = chunk.Usage.PromptTokens
			s.usage.CompletionTokens = chunk.Usage.CompletionTokens
			s.usage.TotalTokens = chunk.Usage.TotalTokens
		}
		if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
			return chunk.Choices[0].Delta.Content, nil
		}
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read stream: %w", err)
	}
	return "", io.EOF
}

func (s *sseStream) Usage() shared.TokenUsage { return s.usage }

func (s *sseStream) Close() error { return s.body.Close() }
