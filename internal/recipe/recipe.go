package recipe

// Ingredient is an inventory item or an ingredient line embedded in a recipe.
// Quantity is free-form ("2 pieces", "150g") and is never compared numerically.
type Ingredient struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Image    string `json:"image"`
}

// Nutrition holds human-entered values with embedded units, e.g. "749Kcal" or "36g".
type Nutrition struct {
	Energy   string `json:"energy"`
	Carbs    string `json:"carbs"`
	Proteins string `json:"proteins"`
	Fats     string `json:"fats"`
}

// CookingStep is a single 1-based instruction of a recipe.
type CookingStep struct {
	Step        int    `json:"step"`
	Instruction string `json:"instruction"`
	Duration    string `json:"duration,omitempty"`
}

// Recipe is a named dish. Its ingredients are independent copies with their
// own IDs and are not linked to inventory items.
type Recipe struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Creator      string        `json:"creator"`
	Image        string        `json:"image"`
	Description  string        `json:"description"`
	Nutrition    Nutrition     `json:"nutrition"`
	Ingredients  []Ingredient  `json:"ingredients"`
	CookingSteps []CookingStep `json:"cookingSteps,omitempty"`
}

// Clone returns a deep copy so callers can hand out snapshots without sharing slices.
func (r Recipe) Clone() Recipe {
	c := r
	if r.Ingredients != nil {
		c.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	if r.CookingSteps != nil {
		c.CookingSteps = append([]CookingStep(nil), r.CookingSteps...)
	}
	return c
}

// IngredientNames returns the names of the recipe's ingredients in order.
func (r Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		names = append(names, ing.Name)
	}
	return names
}
