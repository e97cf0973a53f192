package planner

import (
	"math"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"
)

// Component weights. Balance only counts when the goals ask for balanced
// meals, so without it the best possible score is 60.
const (
	calorieWeight = 0.3
	proteinWeight = 0.3
	balanceWeight = 0.4

	// Scoring assumes three meals a day regardless of MealsPerDay.
	mealsPerDayBaseline = 3
)

// Score rates how well one recipe fits the nutrition goals, from 0 to 100.
// A non-positive calorie target scores the calorie part 0; a non-positive
// protein target counts as met.
func Score(r recipe.Recipe, goals mealplan.NutritionGoals) int {
	energy := float64(recipe.ParseNumber(r.Nutrition.Energy))
	proteins := float64(recipe.ParseNumber(r.Nutrition.Proteins))
	carbs := float64(recipe.ParseNumber(r.Nutrition.Carbs))
	fats := float64(recipe.ParseNumber(r.Nutrition.Fats))

	calorie := 0.0
	if target := float64(goals.DailyCalories) / mealsPerDayBaseline; target > 0 {
		calorie = math.Max(0, 100-math.Abs(energy-target)/target*100)
	}

	protein := 100.0
	if target := float64(goals.MinProtein) / mealsPerDayBaseline; target > 0 {
		protein = math.Min(100, proteins/target*100)
	}

	balance := 0.0
	if goals.BalancedMeals {
		balance = 50
		if carbs > 0 && proteins > 0 && fats > 0 {
			balance = 100
		}
	}

	total := int(math.Round(calorie*calorieWeight + protein*proteinWeight + balance*balanceWeight))
	return max(0, min(100, total))
}
