package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"pantry-planner/internal/config"
	"pantry-planner/internal/shared"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiClient is a streaming client for the Google Gemini API.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

// NewGeminiClient creates a new Gemini API client.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: cfg.GeminiModel}, nil
}

// StreamChat maps the conversation onto a Gemini chat session: system
// messages become the system instruction, earlier turns the history, and
// the last message is sent.
func (c *GeminiClient) StreamChat(ctx context.Context, messages []Message) (ChatStream, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages to send")
	}

	// A model per call keeps SystemInstruction from leaking between requests.
	model := c.client.GenerativeModel(c.modelName)
	var system []genai.Part
	var history []*genai.Content
	for _, m := range messages[:len(messages)-1] {
		switch m.Role {
		case RoleSystem:
			system = append(system, genai.Text(m.Content))
		case RoleAssistant:
			history = append(history, &genai.Content{Role: "model", Parts: []genai.Part{genai.Text(m.Content)}})
		default:
			history = append(history, &genai.Content{Role: "user", Parts: []genai.Part{genai.Text(m.Content)}})
		}
	}
	if len(system) > 0 {
		model.SystemInstruction = &genai.Content{Parts: system}
	}

	cs := model.StartChat()
	cs.History = history
	last := messages[len(messages)-1]
	iter := cs.SendMessageStream(ctx, genai.Text(last.Content))

	return &geminiStream{iter: iter, usage: shared.TokenUsage{Model: c.modelName}}, nil
}

// Close closes the underlying Gemini client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

type geminiStream struct {
	iter  *genai.GenerateContentResponseIterator
	usage shared.TokenUsage
}

func (s *geminiStream) Recv() (string, error) {
	for {
		resp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("failed to generate content: %w", err)
		}
		if resp.UsageMetadata != nil {
			s.usage.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
			s.usage.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			s.usage.TotalTokens = int(resp.UsageMetadata.TotalTokenCount)
		}

		var text string
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text += string(t)
				}
			}
			break
		}
		if text != "" {
			return text, nil
		}
	}
}

func (s *geminiStream) Usage() shared.TokenUsage { return s.usage }

func (s *geminiStream) Close() error { return nil }
