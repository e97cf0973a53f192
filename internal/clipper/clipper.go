// Package clipper imports recipes from web pages.
package clipper

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/template"
	"time"

	"pantry-planner/internal/llm"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	agentName = "clipper"

	// maxContentChars keeps the prompt within small model context windows.
	maxContentChars = 12000
)

// ErrNoRecipe is returned when the page does not contain a usable recipe.
var ErrNoRecipe = errors.New("no recipe found on page")

//go:embed extract_prompt.md
var extractPrompt string

var extractTemplate = template.Must(template.New("Extract").Parse(extractPrompt))

// RecipeSaver persists a clipped recipe.
type RecipeSaver interface {
	CreateRecipe(ctx context.Context, r recipe.Recipe) recipe.Recipe
}

// Clipper handles fetching and extracting recipes from URLs.
type Clipper struct {
	chat   llm.ChatStreamer
	saver  RecipeSaver
	client *http.Client
	logger *zap.Logger
}

// ExtractedRecipe represents the data structured by the AI.
type ExtractedRecipe struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Image       string                `json:"image"`
	Nutrition   recipe.Nutrition      `json:"nutrition"`
	Ingredients []ExtractedIngredient `json:"ingredients"`
	Steps       []ExtractedStep       `json:"steps"`
}

type ExtractedIngredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type ExtractedStep struct {
	Instruction string `json:"instruction"`
	Duration    string `json:"duration"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(chat llm.ChatStreamer, saver RecipeSaver, logger *zap.Logger) *Clipper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Clipper{
		chat:   chat,
		saver:  saver,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// ClipURL fetches the page, extracts the recipe with the model and saves it.
// The returned meta is nil when the model was never called.
func (c *Clipper) ClipURL(ctx context.Context, pageURL string) (recipe.Recipe, *shared.AgentMeta, error) {
	content, err := c.fetchAndCleanHTML(ctx, pageURL)
	if err != nil {
		return recipe.Recipe{}, nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt, err := buildExtractPrompt(pageURL, content)
	if err != nil {
		return recipe.Recipe{}, nil, err
	}

	start := time.Now()
	resp, err := llm.Complete(ctx, c.chat, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	meta := &shared.AgentMeta{
		AgentName: agentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
		Outcome:   shared.OutcomeError,
	}
	if err != nil {
		return recipe.Recipe{}, meta, fmt.Errorf("ai extraction failed: %w", err)
	}
	meta.Outcome = shared.OutcomeOK

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &extracted); err != nil {
		return recipe.Recipe{}, meta, fmt.Errorf("failed to parse AI response: %w", err)
	}
	if strings.TrimSpace(extracted.Name) == "" || len(extracted.Ingredients) == 0 {
		return recipe.Recipe{}, meta, ErrNoRecipe
	}

	saved := c.saver.CreateRecipe(ctx, toRecipe(extracted, pageURL))
	c.logger.Info("recipe clipped",
		zap.String("url", pageURL),
		zap.String("recipe_id", saved.ID),
		zap.Int("ingredients", len(saved.Ingredients)),
	)
	return saved, meta, nil
}

func (c *Clipper) fetchAndCleanHTML(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, noscript, svg, .ads, #ads, .comments").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")
	if len(text) > maxContentChars {
		text = text[:maxContentChars]
	}
	return text, nil
}

func buildExtractPrompt(pageURL, content string) (string, error) {
	var buf bytes.Buffer
	err := extractTemplate.Execute(&buf, struct {
		URL     string
		Content string
	}{pageURL, content})
	if err != nil {
		return "", fmt.Errorf("failed to render extract prompt: %w", err)
	}
	return buf.String(), nil
}

// stripCodeFence removes a surrounding ```json fence some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	rest, ok := strings.CutPrefix(s, "```")
	if !ok {
		return s
	}
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), "```")
	return strings.TrimSpace(rest)
}

func toRecipe(e ExtractedRecipe, pageURL string) recipe.Recipe {
	r := recipe.Recipe{
		Name:        strings.TrimSpace(e.Name),
		Creator:     pageURL,
		Image:       e.Image,
		Description: e.Description,
		Nutrition:   e.Nutrition,
	}
	if u, err := url.Parse(pageURL); err == nil && u.Host != "" {
		r.Creator = strings.TrimPrefix(u.Host, "www.")
	}
	for _, ing := range e.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		r.Ingredients = append(r.Ingredients, recipe.Ingredient{Name: ing.Name, Quantity: ing.Quantity})
	}
	for i, step := range e.Steps {
		r.CookingSteps = append(r.CookingSteps, recipe.CookingStep{Step: i + 1, Instruction: step.Instruction, Duration: step.Duration})
	}
	return r
}
