package clipper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pantry-planner/internal/llm"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockSaver struct {
	Saved []recipe.Recipe
}

func (m *MockSaver) CreateRecipe(_ context.Context, r recipe.Recipe) recipe.Recipe {
	r.ID = "saved-1"
	m.Saved = append(m.Saved, r)
	return r
}

type MockChat struct {
	Response string
	Err      error
	Prompt   string
}

func (m *MockChat) StreamChat(_ context.Context, messages []llm.Message) (llm.ChatStream, error) {
	m.Prompt = messages[len(messages)-1].Content
	if m.Err != nil {
		return nil, m.Err
	}
	return &oneShot{text: m.Response}, nil
}

type oneShot struct {
	text string
	done bool
}

func (s *oneShot) Recv() (string, error) {
	if s.done {
		return "", io.EOF
	}
	s.done = true
	return s.text, nil
}

func (s *oneShot) Usage() shared.TokenUsage {
	return shared.TokenUsage{PromptTokens: 120, CompletionTokens: 60}
}

func (s *oneShot) Close() error { return nil }

func recipePage(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`
		<html>
			<head><script>alert('bad');</script></head>
			<body>
				<h1>Tasty Recipe</h1>
				<div class="ads">Buy stuff!</div>
				<p>Mix flour and water.</p>
				<script>more_bad_stuff()</script>
				<footer>Copyright 2024</footer>
			</body>
		</html>`))
	}))
	t.Cleanup(ts.Close)
	return ts
}

// --- Tests ---

func TestFetchAndCleanHTML(t *testing.T) {
	ts := recipePage(t)
	c := NewClipper(&MockChat{}, &MockSaver{}, nil)

	cleanText, err := c.fetchAndCleanHTML(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.NotContains(t, cleanText, "alert('bad')")
	assert.NotContains(t, cleanText, "Buy stuff!")
	assert.NotContains(t, cleanText, "Copyright 2024")
	assert.Contains(t, cleanText, "Tasty Recipe Mix flour and water.")
}

func TestFetchAndCleanHTML_BadStatus(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	c := NewClipper(&MockChat{}, &MockSaver{}, nil)
	_, err := c.fetchAndCleanHTML(context.Background(), ts.URL)
	assert.ErrorContains(t, err, "status 404")

	_, meta, err := c.ClipURL(context.Background(), ts.URL)
	assert.Error(t, err)
	assert.Nil(t, meta, "model must not be called for an unreachable page")
}

func TestClipURL_Success(t *testing.T) {
	ts := recipePage(t)
	chat := &MockChat{Response: "```json\n" + `{
		"name": "Mock Pie",
		"image": "🥧",
		"nutrition": {"energy": "380Kcal"},
		"ingredients": [{"name": "Apple", "quantity": "4"}, {"name": ""}],
		"steps": [{"instruction": "Slice"}, {"instruction": "Bake", "duration": "40 min"}]
	}` + "\n```"}
	saver := &MockSaver{}
	c := NewClipper(chat, saver, nil)

	saved, meta, err := c.ClipURL(context.Background(), ts.URL+"/pie")
	require.NoError(t, err)

	assert.Equal(t, "saved-1", saved.ID)
	assert.Equal(t, "Mock Pie", saved.Name)
	assert.Equal(t, []string{"Apple"}, saved.IngredientNames())
	require.Len(t, saved.CookingSteps, 2)
	assert.Equal(t, 2, saved.CookingSteps[1].Step)
	assert.Equal(t, "40 min", saved.CookingSteps[1].Duration)
	assert.Equal(t, strings.TrimPrefix(ts.URL, "http://"), saved.Creator)
	require.Len(t, saver.Saved, 1)

	require.NotNil(t, meta)
	assert.Equal(t, shared.OutcomeOK, meta.Outcome)
	assert.Equal(t, 120, meta.Usage.PromptTokens)
	assert.Contains(t, chat.Prompt, "Mix flour and water.")
	assert.Contains(t, chat.Prompt, ts.URL+"/pie")
}

func TestClipURL_Failures(t *testing.T) {
	ts := recipePage(t)

	t.Run("ModelError", func(t *testing.T) {
		saver := &MockSaver{}
		c := NewClipper(&MockChat{Err: errors.New("boom")}, saver, nil)
		_, meta, err := c.ClipURL(context.Background(), ts.URL)
		assert.ErrorContains(t, err, "ai extraction failed")
		require.NotNil(t, meta)
		assert.Equal(t, shared.OutcomeError, meta.Outcome)
		assert.Empty(t, saver.Saved)
	})

	t.Run("NotJSON", func(t *testing.T) {
		c := NewClipper(&MockChat{Response: "Sorry, I can't"}, &MockSaver{}, nil)
		_, _, err := c.ClipURL(context.Background(), ts.URL)
		assert.ErrorContains(t, err, "failed to parse AI response")
	})

	t.Run("NoRecipe", func(t *testing.T) {
		saver := &MockSaver{}
		c := NewClipper(&MockChat{Response: `{"name": "", "ingredients": []}`}, saver, nil)
		_, _, err := c.ClipURL(context.Background(), ts.URL)
		assert.ErrorIs(t, err, ErrNoRecipe)
		assert.Empty(t, saver.Saved)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`  {"a":1} `))
}
