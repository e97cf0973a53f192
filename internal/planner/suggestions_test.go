package planner

import (
	"context"
	"testing"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inventoryOf(names ...string) []recipe.Ingredient {
	out := make([]recipe.Ingredient, len(names))
	for i, n := range names {
		out[i] = recipe.Ingredient{Name: n}
	}
	return out
}

func TestSuggest(t *testing.T) {
	prefs := mealplan.DefaultPreferences()

	t.Run("NothingToSay", func(t *testing.T) {
		got := Suggest(nil, inventoryOf("Egg"), prefs)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("MissingIngredientsDeduplicated", func(t *testing.T) {
		plan := &mealplan.MealPlan{Meals: []mealplan.PlannedMeal{
			{MissingIngredients: []string{"Cheese", "Bread"}},
			{MissingIngredients: []string{"Cheese"}},
		}}
		got := Suggest(plan, nil, prefs)
		require.Len(t, got, 1)
		assert.Equal(t, SuggestIngredient, got[0].Type)
		assert.True(t, got[0].Actionable)
		assert.Contains(t, got[0].Message, "2 ingredients")
		assert.Equal(t, &Action{Type: ActionAddToShoppingList, Data: []string{"Cheese", "Bread"}}, got[0].Action)
	})

	t.Run("RecipeIdeasNeedMoreThanFiveDistinct", func(t *testing.T) {
		five := inventoryOf("A", "B", "C", "D", "E", " a ", "b")
		assert.Empty(t, Suggest(nil, five, prefs))

		six := inventoryOf("A", "B", "C", "D", "E", "F")
		got := Suggest(nil, six, prefs)
		require.Len(t, got, 1)
		assert.Equal(t, SuggestRecipe, got[0].Type)
		assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, got[0].Action.Data)
	})

	t.Run("HighCalorieAdvisory", func(t *testing.T) {
		p := prefs
		p.NutritionGoals.DailyCalories = 2501
		got := Suggest(nil, nil, p)
		require.Len(t, got, 1)
		assert.Equal(t, SuggestNutrition, got[0].Type)
		assert.False(t, got[0].Actionable)
		assert.Nil(t, got[0].Action)

		p.NutritionGoals.DailyCalories = 2500
		assert.Empty(t, Suggest(nil, nil, p))
	})

	t.Run("AllRulesApply", func(t *testing.T) {
		p := prefs
		p.NutritionGoals.DailyCalories = 3000
		plan := &mealplan.MealPlan{Meals: []mealplan.PlannedMeal{{MissingIngredients: []string{"Salt"}}}}
		got := Suggest(plan, inventoryOf("A", "B", "C", "D", "E", "F"), p)
		require.Len(t, got, 3)
		assert.Equal(t, []SuggestionType{SuggestIngredient, SuggestRecipe, SuggestNutrition},
			[]SuggestionType{got[0].Type, got[1].Type, got[2].Type})
	})
}

func TestGenerateSuggestionsIsReadOnly(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, twoRecipes()...)
	p := NewPlanner(store, nil, nil)

	plan, _ := p.GeneratePlan(ctx, Request{StartDate: "2024-01-01", EndDate: "2024-01-02", Override: lunchAndDinner()})
	before := plan.Clone()
	inventoryBefore := store.Inventory(ctx)

	got := p.GenerateSuggestions(ctx, &plan)

	// default inventory has 8 distinct items and the plan misses bread and cheese
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Bread", "Cheese"}, got[0].Action.Data)
	assert.Equal(t, before, plan)
	assert.Equal(t, inventoryBefore, store.Inventory(ctx))
	assert.Len(t, store.MealPlans(ctx), 1)
}
