package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingBackend fails every call.
type failingBackend struct{}

func (failingBackend) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("disk on fire")
}

func (failingBackend) Put(context.Context, string, []byte) error {
	return errors.New("disk on fire")
}

func strPtr(s string) *string { return &s }

func TestSeedingHappensOnce(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	first := store.Recipes(ctx)
	second := store.Recipes(ctx)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	for _, r := range first {
		assert.True(t, store.DeleteRecipe(ctx, r.ID))
	}
	assert.Empty(t, store.Recipes(ctx), "emptied collection must not re-seed")

	assert.Len(t, store.Inventory(ctx), len(DefaultInventory()))
}

func TestCorruptDataIsTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Put(ctx, InventoryKey, []byte("{not json")))
	require.NoError(t, backend.Put(ctx, PreferencesKey, []byte("[1,2,3]")))

	store := NewStore(backend, nil)
	assert.Equal(t, DefaultInventory(), store.Inventory(ctx))
	assert.Equal(t, mealplan.DefaultPreferences(), store.Preferences(ctx))

	// the seed was written back over the corrupt document
	data, err := backend.Get(ctx, InventoryKey)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Lettuce")
}

func TestBackendFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore(failingBackend{}, nil)

	assert.Equal(t, DefaultRecipes(), store.Recipes(ctx))
	assert.Empty(t, store.MealPlans(ctx))
	assert.Equal(t, mealplan.DefaultPreferences(), store.Preferences(ctx))

	created := store.CreateIngredient(ctx, recipe.Ingredient{Name: "Salt"})
	assert.NotEmpty(t, created.ID)
	_, found := store.UpdateIngredient(ctx, "nope", IngredientPatch{})
	assert.False(t, found)
}

func TestIngredientCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	created := store.CreateIngredient(ctx, recipe.Ingredient{ID: "ignored", Name: "Basil", Quantity: "1 bunch"})
	require.NotEqual(t, "ignored", created.ID)

	got, ok := store.InventoryItem(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)

	updated, ok := store.UpdateIngredient(ctx, created.ID, IngredientPatch{Quantity: strPtr("2 bunches")})
	require.True(t, ok)
	assert.Equal(t, "Basil", updated.Name)
	assert.Equal(t, "2 bunches", updated.Quantity)

	_, ok = store.UpdateIngredient(ctx, "missing", IngredientPatch{Name: strPtr("x")})
	assert.False(t, ok, "update must not create")
	_, ok = store.InventoryItem(ctx, "missing")
	assert.False(t, ok)

	assert.True(t, store.DeleteIngredient(ctx, created.ID))
	assert.False(t, store.DeleteIngredient(ctx, created.ID))
}

func TestIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		item := store.CreateIngredient(ctx, recipe.Ingredient{Name: "Item"})
		require.False(t, seen[item.ID], "duplicate id %s", item.ID)
		seen[item.ID] = true
	}
}

func TestCreateRecipeAssignsIngredientIDs(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	r := store.CreateRecipe(ctx, recipe.Recipe{
		Name:        "Toast",
		Ingredients: []recipe.Ingredient{{Name: "Bread"}, {ID: "keep", Name: "Butter"}},
	})
	assert.NotEmpty(t, r.Ingredients[0].ID)
	assert.Equal(t, "keep", r.Ingredients[1].ID)

	name := "Buttered Toast"
	updated, ok := store.UpdateRecipe(ctx, r.ID, RecipePatch{Name: &name})
	require.True(t, ok)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, r.Ingredients, updated.Ingredients)
}

func TestCurrentMealPlan(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)
	now := time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

	_, ok := store.CurrentMealPlan(ctx, now)
	assert.False(t, ok)

	store.SaveMealPlan(ctx, mealplan.MealPlan{Name: "old", StartDate: "2024-01-01", EndDate: "2024-01-07"})
	store.SaveMealPlan(ctx, mealplan.MealPlan{Name: "other", StartDate: "2024-02-01", EndDate: "2024-02-07"})
	latest := store.SaveMealPlan(ctx, mealplan.MealPlan{Name: "new", StartDate: "2024-01-02", EndDate: "2024-01-04"})

	got, ok := store.CurrentMealPlan(ctx, now)
	require.True(t, ok)
	assert.Equal(t, latest.ID, got.ID)
	assert.Equal(t, "new", got.Name)
}

func TestSaveMealPlanReplacesByID(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	p := store.SaveMealPlan(ctx, mealplan.MealPlan{ID: "plan-1", Name: "v1"})
	p.Name = "v2"
	store.SaveMealPlan(ctx, p)

	plans := store.MealPlans(ctx)
	require.Len(t, plans, 1)
	assert.Equal(t, "v2", plans[0].Name)
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend(), nil)

	assert.Equal(t, mealplan.DefaultPreferences(), store.Preferences(ctx))

	p := mealplan.DefaultPreferences()
	p.MaxCookingTime = 0
	p.NutritionGoals.DailyCalories = 2800
	saved := store.SavePreferences(ctx, p)

	assert.Equal(t, 60, saved.MaxCookingTime)
	assert.Equal(t, saved, store.Preferences(ctx))
}
