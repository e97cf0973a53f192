package planner

import (
	"context"
	"fmt"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"
)

// SuggestionType groups suggestions by the rule that produced them.
type SuggestionType string

const (
	SuggestIngredient SuggestionType = "ingredient"
	SuggestRecipe     SuggestionType = "recipe"
	SuggestNutrition  SuggestionType = "nutrition"
)

// Action types attached to actionable suggestions.
const (
	ActionAddToShoppingList = "add_to_shopping_list"
	ActionSuggestRecipes    = "suggest_recipes"
)

const (
	recipeIdeaThreshold  = 5
	highCalorieThreshold = 2500
)

// Action is the follow-up a client can offer for an actionable suggestion.
type Action struct {
	Type string   `json:"type"`
	Data []string `json:"data"`
}

// Suggestion is advisory only; nothing is changed when it is produced.
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Message    string         `json:"message"`
	Actionable bool           `json:"actionable"`
	Action     *Action        `json:"action,omitempty"`
}

// Suggest applies every rule independently and returns all that match.
// current may be nil.
func Suggest(current *mealplan.MealPlan, inventory []recipe.Ingredient, prefs mealplan.Preferences) []Suggestion {
	suggestions := []Suggestion{}

	if current != nil {
		if missing := current.MissingIngredients(); len(missing) > 0 {
			suggestions = append(suggestions, Suggestion{
				Type:       SuggestIngredient,
				Message:    fmt.Sprintf("You're missing %d ingredients for your meal plan", len(missing)),
				Actionable: true,
				Action:     &Action{Type: ActionAddToShoppingList, Data: missing},
			})
		}
	}

	if names := distinctNames(inventory); len(names) > recipeIdeaThreshold {
		suggestions = append(suggestions, Suggestion{
			Type:       SuggestRecipe,
			Message:    fmt.Sprintf("You have %d ingredients available. Want me to suggest new recipes?", len(names)),
			Actionable: true,
			Action:     &Action{Type: ActionSuggestRecipes, Data: names},
		})
	}

	if prefs.NutritionGoals.DailyCalories > highCalorieThreshold {
		suggestions = append(suggestions, Suggestion{
			Type:    SuggestNutrition,
			Message: "Your calorie goal is high. Consider adding more protein-rich meals.",
		})
	}

	return suggestions
}

// GenerateSuggestions reads the current plan, inventory and preferences and
// applies Suggest. When current is nil the stored current plan is used.
func (p *Planner) GenerateSuggestions(ctx context.Context, current *mealplan.MealPlan) []Suggestion {
	if current == nil {
		if plan, ok := p.CurrentPlan(ctx); ok {
			current = &plan
		}
	}
	return Suggest(current, p.store.Inventory(ctx), p.store.Preferences(ctx))
}

// distinctNames keeps the first spelling of each normalized name.
func distinctNames(inventory []recipe.Ingredient) []string {
	seen := make(map[string]struct{}, len(inventory))
	names := []string{}
	for _, item := range inventory {
		key := recipe.NormalizeName(item.Name)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, item.Name)
	}
	return names
}
