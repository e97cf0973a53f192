// Package shopping turns the missing ingredients of a meal plan into a
// shopping list.
package shopping

import (
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"
)

// Item is one ingredient to buy, with the quantity each meal asks for.
type Item struct {
	Name       string   `json:"name"`
	Quantities []string `json:"quantities"`
	Meals      []string `json:"meals"`
}

// List represents a shopping list for a meal plan.
type List struct {
	MealPlanID string `json:"mealPlanId"`
	Items      []Item `json:"items"`
}

// FromPlan groups the missing ingredients of every meal by normalized name,
// in order of first appearance. Quantities come from the recipe snapshot.
func FromPlan(plan mealplan.MealPlan) List {
	list := List{MealPlanID: plan.ID, Items: []Item{}}
	index := map[string]int{}

	for _, meal := range plan.Meals {
		for _, name := range meal.MissingIngredients {
			key := recipe.NormalizeName(name)
			i, ok := index[key]
			if !ok {
				i = len(list.Items)
				index[key] = i
				list.Items = append(list.Items, Item{Name: name, Quantities: []string{}, Meals: []string{}})
			}
			item := &list.Items[i]
			if q := quantityOf(meal.Recipe, key); q != "" {
				item.Quantities = append(item.Quantities, q)
			}
			item.Meals = append(item.Meals, meal.Date+" "+string(meal.MealType))
		}
	}
	return list
}

func quantityOf(r recipe.Recipe, key string) string {
	for _, ing := range r.Ingredients {
		if recipe.NormalizeName(ing.Name) == key {
			return ing.Quantity
		}
	}
	return ""
}

// Names lists the item names.
func (l List) Names() []string {
	names := make([]string, len(l.Items))
	for i, it := range l.Items {
		names[i] = it.Name
	}
	return names
}
