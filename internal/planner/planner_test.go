package planner

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"pantry-planner/internal/llm"
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"
	"pantry-planner/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mocks ---

type textStream struct {
	chunks []string
}

func (s *textStream) Recv() (string, error) {
	if len(s.chunks) == 0 {
		return "", io.EOF
	}
	c := s.chunks[0]
	s.chunks = s.chunks[1:]
	return c, nil
}

func (s *textStream) Usage() shared.TokenUsage { return shared.TokenUsage{Model: "mock", PromptTokens: 120} }

func (s *textStream) Close() error { return nil }

type MockChat struct {
	mu       sync.Mutex
	Response []string
	Err      error
	Block    bool
	Prompts  []string
}

func (m *MockChat) StreamChat(ctx context.Context, messages []llm.Message) (llm.ChatStream, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, messages[len(messages)-1].Content)
	m.mu.Unlock()

	if m.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &textStream{chunks: append([]string(nil), m.Response...)}, nil
}

type recordingParser struct {
	response string
	snap     Snapshot
}

func (r *recordingParser) Parse(_ context.Context, response string, snap Snapshot) ([]mealplan.PlannedMeal, error) {
	r.response = response
	r.snap = snap
	return []mealplan.PlannedMeal{{ID: "custom", Date: snap.Dates[0], MealType: mealplan.Dinner}}, nil
}

// --- Helpers ---

var fixedNow = time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, recipes ...recipe.Recipe) *storage.Store {
	t.Helper()
	ctx := context.Background()
	store := storage.NewStore(storage.NewMemoryBackend(), nil)
	for _, r := range store.Recipes(ctx) {
		store.DeleteRecipe(ctx, r.ID)
	}
	for _, r := range recipes {
		store.CreateRecipe(ctx, r)
	}
	return store
}

func twoRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			Name:        "Salad",
			Nutrition:   recipe.Nutrition{Energy: "667Kcal", Proteins: "17g", Carbs: "10g", Fats: "5g"},
			Ingredients: []recipe.Ingredient{{Name: "Lettuce"}, {Name: "Tomato"}},
		},
		{
			Name:        "Cheese Toast",
			Nutrition:   recipe.Nutrition{Energy: "300Kcal", Proteins: "12g", Carbs: "30g", Fats: "14g"},
			Ingredients: []recipe.Ingredient{{Name: "Bread"}, {Name: "Cheese"}},
		},
	}
}

func lunchAndDinner() *mealplan.Override {
	types := []mealplan.MealType{mealplan.Lunch, mealplan.Dinner}
	return &mealplan.Override{PreferredMealTypes: &types}
}

// --- Tests ---

func TestGeneratePlanFallbackRoundRobin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, twoRecipes()...)
	p := NewPlanner(store, &MockChat{Err: errors.New("network down")}, nil, WithClock(func() time.Time { return fixedNow }))

	plan, metas := p.GeneratePlan(ctx, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-03",
		Type:      mealplan.Weekly,
		Override:  lunchAndDinner(),
	})

	require.Len(t, plan.Meals, 6)
	assert.Equal(t, mealplan.SourceFallback, plan.Source)
	require.Len(t, metas, 1)
	assert.Equal(t, shared.OutcomeError, metas[0].Outcome)

	recipes := store.Recipes(ctx)
	wantRecipe := []string{recipes[0].ID, recipes[0].ID, recipes[1].ID, recipes[1].ID, recipes[0].ID, recipes[0].ID}
	wantType := []mealplan.MealType{mealplan.Lunch, mealplan.Dinner, mealplan.Lunch, mealplan.Dinner, mealplan.Lunch, mealplan.Dinner}
	wantDate := []string{"2024-01-01", "2024-01-01", "2024-01-02", "2024-01-02", "2024-01-03", "2024-01-03"}
	for i, m := range plan.Meals {
		assert.Equal(t, wantRecipe[i], m.Recipe.ID, "meal %d", i)
		assert.Equal(t, wantType[i], m.MealType, "meal %d", i)
		assert.Equal(t, wantDate[i], m.Date, "meal %d", i)
		assert.Equal(t, MealID(plan.ID, m.Date, m.MealType), m.ID)
	}

	// Default inventory has lettuce and tomato but no bread or cheese.
	assert.True(t, plan.Meals[0].IsAvailable)
	assert.False(t, plan.Meals[2].IsAvailable)
	assert.Equal(t, []string{"Bread", "Cheese"}, plan.Meals[2].MissingIngredients)
	assert.Equal(t, 100, plan.Meals[0].NutritionScore)
	assert.Equal(t, "30 min", plan.Meals[0].PreparationTime)

	assert.Equal(t, fixedNow, plan.GeneratedAt)
	stored, ok := store.MealPlan(ctx, plan.ID)
	require.True(t, ok)
	assert.Len(t, stored.Meals, 6)
}

func TestGeneratePlanAIPath(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, twoRecipes()...)
	chat := &MockChat{Response: []string{"Day 1: ", "Salad"}}
	p := NewPlanner(store, chat, nil)

	plan, metas := p.GeneratePlan(ctx, Request{StartDate: "2024-01-01", EndDate: "2024-01-02", Override: lunchAndDinner()})

	assert.Equal(t, mealplan.SourceAI, plan.Source)
	assert.Len(t, plan.Meals, 4)
	require.Len(t, metas, 1)
	assert.Equal(t, shared.OutcomeOK, metas[0].Outcome)
	assert.Equal(t, 120, metas[0].Usage.PromptTokens)

	require.Len(t, chat.Prompts, 1)
	prompt := chat.Prompts[0]
	assert.Contains(t, prompt, "Ingredients in inventory: 8")
	assert.Contains(t, prompt, "Recipes available: 2")
	assert.Contains(t, prompt, "lunch, dinner")
	assert.Contains(t, prompt, "find_recipes_by_ingredients")
	assert.Contains(t, prompt, "create_ingredient")
}

func TestGeneratePlanParserSeam(t *testing.T) {
	store := newTestStore(t, twoRecipes()...)
	parser := &recordingParser{}
	p := NewPlanner(store, &MockChat{Response: []string{"use ", "pasta"}}, nil, WithParser(parser))

	plan, _ := p.GeneratePlan(context.Background(), Request{StartDate: "2024-01-01", EndDate: "2024-01-07"})

	assert.Equal(t, "use pasta", parser.response)
	assert.Len(t, parser.snap.Dates, 7)
	assert.Len(t, parser.snap.Recipes, 2)
	require.Len(t, plan.Meals, 1)
	assert.Equal(t, "custom", plan.Meals[0].ID)
}

func TestGeneratePlanFallbackCases(t *testing.T) {
	tests := []struct {
		name string
		chat *MockChat
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"EmptyResponse", &MockChat{Response: []string{" ", "\n"}}, nil},
		{"StatusError", &MockChat{Err: &llm.StatusError{Provider: "chat", StatusCode: 502}}, nil},
		{"Timeout", &MockChat{Block: true}, nil},
		{"Cancelled", &MockChat{Block: true}, func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			store := newTestStore(t, twoRecipes()...)
			p := NewPlanner(store, tt.chat, nil, WithTimeout(50*time.Millisecond))

			start := time.Now()
			plan, _ := p.GeneratePlan(ctx, Request{StartDate: "2024-01-01", EndDate: "2024-01-03", Override: lunchAndDinner()})

			assert.Less(t, time.Since(start), 5*time.Second)
			assert.Equal(t, mealplan.SourceFallback, plan.Source)
			assert.Len(t, plan.Meals, 6)
			_, stored := store.MealPlan(context.Background(), plan.ID)
			assert.True(t, stored)
		})
	}
}

func TestGeneratePlanWithoutChat(t *testing.T) {
	p := NewPlanner(newTestStore(t, twoRecipes()...), nil, nil)
	plan, metas := p.GeneratePlan(context.Background(), Request{StartDate: "2024-01-01", EndDate: "2024-01-01"})

	assert.Equal(t, mealplan.SourceFallback, plan.Source)
	assert.Empty(t, metas)
	assert.Len(t, plan.Meals, 3, "default preferences have three meal types")
	assert.Equal(t, mealplan.Weekly, plan.Type)
}

func TestGeneratePlanDegenerateInputs(t *testing.T) {
	t.Run("InvalidDates", func(t *testing.T) {
		p := NewPlanner(newTestStore(t, twoRecipes()...), nil, nil)
		plan, _ := p.GeneratePlan(context.Background(), Request{StartDate: "someday", EndDate: "2024-01-03"})
		assert.NotEmpty(t, plan.ID)
		assert.Empty(t, plan.Meals)
	})

	t.Run("EndBeforeStart", func(t *testing.T) {
		p := NewPlanner(newTestStore(t, twoRecipes()...), nil, nil)
		plan, _ := p.GeneratePlan(context.Background(), Request{StartDate: "2024-01-05", EndDate: "2024-01-03"})
		assert.Empty(t, plan.Meals)
	})

	t.Run("RangeTooLong", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		p := NewPlanner(newTestStore(t, twoRecipes()...), nil, zap.New(core))
		plan, _ := p.GeneratePlan(context.Background(), Request{StartDate: "2024-01-01", EndDate: "2025-01-01"})
		assert.Empty(t, plan.Meals)

		rejected := logs.FilterMessage("date range rejected, plan will have no meals").All()
		require.Len(t, rejected, 1)
		assert.Equal(t, int64(maxPlanDays), rejected[0].ContextMap()["max_days"])
	})

	t.Run("NoRecipes", func(t *testing.T) {
		p := NewPlanner(newTestStore(t), &MockChat{Response: []string{"ok"}}, nil)
		plan, _ := p.GeneratePlan(context.Background(), Request{StartDate: "2024-01-01", EndDate: "2024-01-03"})
		assert.Empty(t, plan.Meals)
		assert.NotNil(t, plan.Meals)
	})
}

func TestOverridesDoNotChangeStoredPreferences(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, twoRecipes()...)
	p := NewPlanner(store, nil, nil)

	calories := 3000
	plan, _ := p.GeneratePlan(ctx, Request{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-01",
		Override:  &mealplan.Override{NutritionGoals: &mealplan.GoalsOverride{DailyCalories: &calories}},
	})

	assert.Equal(t, 3000, plan.Preferences.NutritionGoals.DailyCalories)
	assert.Equal(t, mealplan.DefaultDailyCalories, store.Preferences(ctx).NutritionGoals.DailyCalories)
}

func TestCurrentPlanAndRecheck(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, twoRecipes()...)
	p := NewPlanner(store, nil, nil, WithClock(func() time.Time { return fixedNow }))

	_, ok := p.CurrentPlan(ctx)
	assert.False(t, ok)

	plan, _ := p.GeneratePlan(ctx, Request{StartDate: "2024-01-01", EndDate: "2024-01-03", Override: lunchAndDinner()})
	require.False(t, plan.Meals[2].IsAvailable)

	store.CreateIngredient(ctx, recipe.Ingredient{Name: "bread"})
	store.CreateIngredient(ctx, recipe.Ingredient{Name: "CHEESE "})

	// stored snapshot is not refreshed implicitly
	current, ok := p.CurrentPlan(ctx)
	require.True(t, ok)
	assert.False(t, current.Meals[2].IsAvailable)

	fresh, ok := p.RecheckCurrent(ctx)
	require.True(t, ok)
	assert.True(t, fresh.Meals[2].IsAvailable)
	assert.Empty(t, fresh.Meals[2].MissingIngredients)

	current, _ = p.CurrentPlan(ctx)
	assert.True(t, current.Meals[2].IsAvailable)
}

func TestRecheckAvailabilityDoesNotMutate(t *testing.T) {
	plan := mealplan.MealPlan{Meals: []mealplan.PlannedMeal{{
		Recipe:             recipe.Recipe{Ingredients: []recipe.Ingredient{{Name: "Egg"}}},
		IsAvailable:        false,
		MissingIngredients: []string{"Egg"},
	}}}

	fresh := RecheckAvailability(plan, []recipe.Ingredient{{Name: "egg"}})

	assert.True(t, fresh.Meals[0].IsAvailable)
	assert.False(t, plan.Meals[0].IsAvailable)
	assert.Equal(t, []string{"Egg"}, plan.Meals[0].MissingIngredients)
}

func TestDateRange(t *testing.T) {
	assert.Equal(t, []string{"2024-02-28", "2024-02-29", "2024-03-01"}, DateRange("2024-02-28", "2024-03-01"))
	assert.Equal(t, []string{"2024-01-01"}, DateRange("2024-01-01", "2024-01-01"))
	assert.Empty(t, DateRange("2024-01-02", "2024-01-01"))
	assert.Empty(t, DateRange("2024-13-01", "2024-12-01"))
	assert.Empty(t, DateRange("", ""))
	assert.Len(t, DateRange("2024-01-01", "2024-12-31"), 366)
	assert.Empty(t, DateRange("2024-01-01", "2025-01-01"))
}

func TestPromptMentionsPreferences(t *testing.T) {
	prefs := mealplan.DefaultPreferences()
	prefs.DietaryRestrictions = []string{"vegetarian"}
	out, err := buildPlannerPrompt(Request{StartDate: "2024-01-01", EndDate: "2024-01-07"}, Snapshot{
		Dates:       DateRange("2024-01-01", "2024-01-07"),
		Preferences: prefs,
		Inventory:   make([]recipe.Ingredient, 4),
		Recipes:     make([]recipe.Recipe, 9),
	})
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "vegetarian"))
	assert.Contains(t, out, "(7 days)")
	assert.Contains(t, out, "Daily calories: 2000 kcal")
	assert.Contains(t, out, "Favorite ingredients: none")
	assert.Contains(t, out, "Recipes available: 9")
}
