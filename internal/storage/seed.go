package storage

import "pantry-planner/internal/recipe"

// DefaultInventory is written the first time the inventory is read.
func DefaultInventory() []recipe.Ingredient {
	return []recipe.Ingredient{
		{ID: "inv-lettuce", Name: "Lettuce", Quantity: "1 head", Image: "🥬"},
		{ID: "inv-tomato", Name: "Tomato", Quantity: "4 pieces", Image: "🍅"},
		{ID: "inv-eggs", Name: "Eggs", Quantity: "6 pieces", Image: "🥚"},
		{ID: "inv-milk", Name: "Milk", Quantity: "1 l", Image: "🥛"},
		{ID: "inv-chicken", Name: "Chicken Breast", Quantity: "500g", Image: "🍗"},
		{ID: "inv-rice", Name: "Rice", Quantity: "1 kg", Image: "🍚"},
		{ID: "inv-onion", Name: "Onion", Quantity: "3 pieces", Image: "🧅"},
		{ID: "inv-garlic", Name: "Garlic", Quantity: "1 bulb", Image: "🧄"},
	}
}

// DefaultRecipes is written the first time the recipes are read.
func DefaultRecipes() []recipe.Recipe {
	return []recipe.Recipe{
		{
			ID:          "rcp-greek-salad",
			Name:        "Greek Salad",
			Creator:     "Pantry Planner",
			Image:       "🥗",
			Description: "Crisp lettuce and tomato with feta and olive oil.",
			Nutrition:   recipe.Nutrition{Energy: "320Kcal", Carbs: "12g", Proteins: "9g", Fats: "26g"},
			Ingredients: []recipe.Ingredient{
				{ID: "rcp-greek-salad-1", Name: "Lettuce", Quantity: "1 head"},
				{ID: "rcp-greek-salad-2", Name: "Tomato", Quantity: "2 pieces"},
				{ID: "rcp-greek-salad-3", Name: "Feta Cheese", Quantity: "100g"},
				{ID: "rcp-greek-salad-4", Name: "Olive Oil", Quantity: "2 tbsp"},
			},
			CookingSteps: []recipe.CookingStep{
				{Step: 1, Instruction: "Wash and chop the lettuce and tomatoes.", Duration: "5 min"},
				{Step: 2, Instruction: "Crumble the feta over the vegetables.", Duration: "2 min"},
				{Step: 3, Instruction: "Dress with olive oil and serve.", Duration: "1 min"},
			},
		},
		{
			ID:          "rcp-chicken-rice",
			Name:        "Chicken Fried Rice",
			Creator:     "Pantry Planner",
			Image:       "🍛",
			Description: "Quick weeknight fried rice with chicken, egg and onion.",
			Nutrition:   recipe.Nutrition{Energy: "749Kcal", Carbs: "82g", Proteins: "45g", Fats: "24g"},
			Ingredients: []recipe.Ingredient{
				{ID: "rcp-chicken-rice-1", Name: "Chicken Breast", Quantity: "250g"},
				{ID: "rcp-chicken-rice-2", Name: "Rice", Quantity: "200g"},
				{ID: "rcp-chicken-rice-3", Name: "Eggs", Quantity: "2 pieces"},
				{ID: "rcp-chicken-rice-4", Name: "Onion", Quantity: "1 piece"},
				{ID: "rcp-chicken-rice-5", Name: "Garlic", Quantity: "2 cloves"},
				{ID: "rcp-chicken-rice-6", Name: "Soy Sauce", Quantity: "2 tbsp"},
			},
			CookingSteps: []recipe.CookingStep{
				{Step: 1, Instruction: "Cook the rice and let it cool.", Duration: "20 min"},
				{Step: 2, Instruction: "Fry diced chicken with onion and garlic.", Duration: "10 min"},
				{Step: 3, Instruction: "Add rice, eggs and soy sauce and stir-fry.", Duration: "5 min"},
			},
		},
		{
			ID:          "rcp-omelette",
			Name:        "Herb Omelette",
			Creator:     "Pantry Planner",
			Image:       "🍳",
			Description: "A fluffy omelette for a fast breakfast.",
			Nutrition:   recipe.Nutrition{Energy: "410Kcal", Carbs: "4g", Proteins: "28g", Fats: "31g"},
			Ingredients: []recipe.Ingredient{
				{ID: "rcp-omelette-1", Name: "Eggs", Quantity: "3 pieces"},
				{ID: "rcp-omelette-2", Name: "Milk", Quantity: "50ml"},
				{ID: "rcp-omelette-3", Name: "Butter", Quantity: "1 tbsp"},
			},
			CookingSteps: []recipe.CookingStep{
				{Step: 1, Instruction: "Whisk eggs with milk and a pinch of salt.", Duration: "2 min"},
				{Step: 2, Instruction: "Cook in butter over medium heat, then fold.", Duration: "6 min"},
			},
		},
	}
}
