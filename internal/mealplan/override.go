package mealplan

// Override carries request-level preference changes. Nil fields keep the
// stored value; set fields win.
type Override struct {
	DietaryRestrictions *[]string      `json:"dietaryRestrictions,omitempty"`
	MaxCookingTime      *int           `json:"maxCookingTime,omitempty"`
	MealsPerDay         *int           `json:"mealsPerDay,omitempty"`
	NutritionGoals      *GoalsOverride `json:"nutritionGoals,omitempty"`
	FavoriteIngredients *[]string      `json:"favoriteIngredients,omitempty"`
	AvoidIngredients    *[]string      `json:"avoidIngredients,omitempty"`
	PreferredMealTypes  *[]MealType    `json:"preferredMealTypes,omitempty"`
	CookingSkillLevel   *SkillLevel    `json:"cookingSkillLevel,omitempty"`
}

type GoalsOverride struct {
	DailyCalories *int  `json:"dailyCalories,omitempty"`
	MaxCarbs      *int  `json:"maxCarbs,omitempty"`
	MinProtein    *int  `json:"minProtein,omitempty"`
	MaxFats       *int  `json:"maxFats,omitempty"`
	BalancedMeals *bool `json:"balancedMeals,omitempty"`
}

// Apply merges o over p field by field and returns the result. p is not modified.
func (o *Override) Apply(p Preferences) Preferences {
	out := p.Clone()
	if o == nil {
		return out
	}
	if o.DietaryRestrictions != nil {
		out.DietaryRestrictions = cloneStrings(*o.DietaryRestrictions)
	}
	if o.MaxCookingTime != nil {
		out.MaxCookingTime = *o.MaxCookingTime
	}
	if o.MealsPerDay != nil {
		out.MealsPerDay = *o.MealsPerDay
	}
	if g := o.NutritionGoals; g != nil {
		if g.DailyCalories != nil {
			out.NutritionGoals.DailyCalories = *g.DailyCalories
		}
		if g.MaxCarbs != nil {
			out.NutritionGoals.MaxCarbs = *g.MaxCarbs
		}
		if g.MinProtein != nil {
			out.NutritionGoals.MinProtein = *g.MinProtein
		}
		if g.MaxFats != nil {
			out.NutritionGoals.MaxFats = *g.MaxFats
		}
		if g.BalancedMeals != nil {
			out.NutritionGoals.BalancedMeals = *g.BalancedMeals
		}
	}
	if o.FavoriteIngredients != nil {
		out.FavoriteIngredients = cloneStrings(*o.FavoriteIngredients)
	}
	if o.AvoidIngredients != nil {
		out.AvoidIngredients = cloneStrings(*o.AvoidIngredients)
	}
	if o.PreferredMealTypes != nil {
		out.PreferredMealTypes = append([]MealType{}, (*o.PreferredMealTypes)...)
	}
	if o.CookingSkillLevel != nil {
		out.CookingSkillLevel = *o.CookingSkillLevel
	}
	return out
}
