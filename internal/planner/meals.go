package planner

import (
	"fmt"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"
)

// Snapshot is the read-only input of one generation request.
type Snapshot struct {
	PlanID      string
	Dates       []string
	Preferences mealplan.Preferences
	Inventory   []recipe.Ingredient
	Recipes     []recipe.Recipe
}

// BuildMeals assigns recipes round-robin by day: every meal type on the
// d-th date gets Recipes[d % len(Recipes)]. No recipes means no meals.
func BuildMeals(s Snapshot) []mealplan.PlannedMeal {
	meals := []mealplan.PlannedMeal{}
	if len(s.Recipes) == 0 {
		return meals
	}
	for i, date := range s.Dates {
		r := s.Recipes[i%len(s.Recipes)]
		for _, mt := range s.Preferences.PreferredMealTypes {
			meals = append(meals, newPlannedMeal(s, date, mt, r))
		}
	}
	return meals
}

func newPlannedMeal(s Snapshot, date string, mt mealplan.MealType, r recipe.Recipe) mealplan.PlannedMeal {
	avail := recipe.CheckAvailability(s.Inventory, r.Ingredients)
	return mealplan.PlannedMeal{
		ID:                 MealID(s.PlanID, date, mt),
		Date:               date,
		MealType:           mt,
		Recipe:             r.Clone(),
		IsAvailable:        avail.Available,
		MissingIngredients: avail.Missing,
		PreparationTime:    recipe.PreparationTime(r),
		NutritionScore:     Score(r, s.Preferences.NutritionGoals),
	}
}

// MealID namespaces a slot by plan so regenerated plans never collide.
func MealID(planID, date string, mt mealplan.MealType) string {
	return fmt.Sprintf("%s-%s-%s", planID, date, mt)
}

// RecheckAvailability returns a copy of plan with availability recomputed
// against inventory. plan itself is left untouched.
func RecheckAvailability(plan mealplan.MealPlan, inventory []recipe.Ingredient) mealplan.MealPlan {
	out := plan.Clone()
	for i := range out.Meals {
		avail := recipe.CheckAvailability(inventory, out.Meals[i].Recipe.Ingredients)
		out.Meals[i].IsAvailable = avail.Available
		out.Meals[i].MissingIngredients = avail.Missing
	}
	return out
}
