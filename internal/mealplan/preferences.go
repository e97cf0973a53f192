package mealplan

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// MealType is one of the four meal slots of a day.
type MealType string

const (
	Breakfast MealType = "breakfast"
	Lunch     MealType = "lunch"
	Dinner    MealType = "dinner"
	Snack     MealType = "snack"
)

// Valid reports whether m is a known meal type.
func (m MealType) Valid() bool {
	switch m {
	case Breakfast, Lunch, Dinner, Snack:
		return true
	}
	return false
}

// SkillLevel is the cook's self-reported experience.
type SkillLevel string

const (
	Beginner     SkillLevel = "beginner"
	Intermediate SkillLevel = "intermediate"
	Advanced     SkillLevel = "advanced"
)

// Valid reports whether s is a known skill level.
func (s SkillLevel) Valid() bool {
	switch s {
	case Beginner, Intermediate, Advanced:
		return true
	}
	return false
}

// Defaults applied when a stored value is missing or not a positive number.
const (
	DefaultMaxCookingTime = 60
	DefaultMealsPerDay    = 3
	DefaultDailyCalories  = 2000
	DefaultMaxCarbs       = 250
	DefaultMinProtein     = 50
	DefaultMaxFats        = 70
)

type NutritionGoals struct {
	DailyCalories int  `json:"dailyCalories" mapstructure:"dailyCalories"`
	MaxCarbs      int  `json:"maxCarbs" mapstructure:"maxCarbs"`
	MinProtein    int  `json:"minProtein" mapstructure:"minProtein"`
	MaxFats       int  `json:"maxFats" mapstructure:"maxFats"`
	BalancedMeals bool `json:"balancedMeals" mapstructure:"balancedMeals"`
}

// Preferences is the single per-installation planning configuration.
type Preferences struct {
	DietaryRestrictions []string       `json:"dietaryRestrictions" mapstructure:"dietaryRestrictions"`
	MaxCookingTime      int            `json:"maxCookingTime" mapstructure:"maxCookingTime"`
	MealsPerDay         int            `json:"mealsPerDay" mapstructure:"mealsPerDay"`
	NutritionGoals      NutritionGoals `json:"nutritionGoals" mapstructure:"nutritionGoals"`
	FavoriteIngredients []string       `json:"favoriteIngredients" mapstructure:"favoriteIngredients"`
	AvoidIngredients    []string       `json:"avoidIngredients" mapstructure:"avoidIngredients"`
	PreferredMealTypes  []MealType     `json:"preferredMealTypes" mapstructure:"preferredMealTypes"`
	CookingSkillLevel   SkillLevel     `json:"cookingSkillLevel" mapstructure:"cookingSkillLevel"`
}

// DefaultPreferences is used when nothing has been stored yet.
func DefaultPreferences() Preferences {
	return Preferences{
		DietaryRestrictions: []string{},
		MaxCookingTime:      DefaultMaxCookingTime,
		MealsPerDay:         DefaultMealsPerDay,
		NutritionGoals: NutritionGoals{
			DailyCalories: DefaultDailyCalories,
			MaxCarbs:      DefaultMaxCarbs,
			MinProtein:    DefaultMinProtein,
			MaxFats:       DefaultMaxFats,
			BalancedMeals: true,
		},
		FavoriteIngredients: []string{},
		AvoidIngredients:    []string{},
		PreferredMealTypes:  []MealType{Breakfast, Lunch, Dinner},
		CookingSkillLevel:   Intermediate,
	}
}

// Normalize coerces every field into its valid range: non-positive numbers
// take their default, unknown or repeated meal types are dropped and an
// unknown skill level becomes intermediate. Restrictions are treated as a set.
func (p Preferences) Normalize() Preferences {
	n := p.Clone()
	if n.MaxCookingTime <= 0 {
		n.MaxCookingTime = DefaultMaxCookingTime
	}
	if n.MealsPerDay <= 0 {
		n.MealsPerDay = DefaultMealsPerDay
	}
	g := &n.NutritionGoals
	if g.DailyCalories <= 0 {
		g.DailyCalories = DefaultDailyCalories
	}
	if g.MaxCarbs <= 0 {
		g.MaxCarbs = DefaultMaxCarbs
	}
	if g.MinProtein <= 0 {
		g.MinProtein = DefaultMinProtein
	}
	if g.MaxFats <= 0 {
		g.MaxFats = DefaultMaxFats
	}
	if !n.CookingSkillLevel.Valid() {
		n.CookingSkillLevel = Intermediate
	}

	if n.PreferredMealTypes == nil {
		n.PreferredMealTypes = DefaultPreferences().PreferredMealTypes
	} else {
		valid := make([]MealType, 0, len(n.PreferredMealTypes))
		seen := make(map[MealType]bool)
		for _, mt := range n.PreferredMealTypes {
			mt = MealType(strings.ToLower(strings.TrimSpace(string(mt))))
			if mt.Valid() && !seen[mt] {
				seen[mt] = true
				valid = append(valid, mt)
			}
		}
		n.PreferredMealTypes = valid
	}

	n.DietaryRestrictions = uniqueStrings(n.DietaryRestrictions)
	if n.FavoriteIngredients == nil {
		n.FavoriteIngredients = []string{}
	}
	if n.AvoidIngredients == nil {
		n.AvoidIngredients = []string{}
	}
	return n
}

// Clone returns a copy that shares no slices with p.
func (p Preferences) Clone() Preferences {
	c := p
	c.DietaryRestrictions = cloneStrings(p.DietaryRestrictions)
	c.FavoriteIngredients = cloneStrings(p.FavoriteIngredients)
	c.AvoidIngredients = cloneStrings(p.AvoidIngredients)
	if p.PreferredMealTypes != nil {
		c.PreferredMealTypes = append([]MealType{}, p.PreferredMealTypes...)
	}
	return c
}

// DecodePreferences builds preferences from loosely typed data such as a
// JSON object decoded into a map. Keys that are absent keep their default,
// numbers given as strings are parsed and values that cannot be parsed fall
// back to the default through Normalize.
func DecodePreferences(raw map[string]any) (Preferences, error) {
	prefs := DefaultPreferences()
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncKind(lenientScalars),
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           &prefs,
	})
	if err != nil {
		return Preferences{}, fmt.Errorf("failed to create preferences decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Preferences{}, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs.Normalize(), nil
}

// lenientScalars turns unparseable strings into zero values instead of errors.
func lenientScalars(from, to reflect.Kind, data any) (any, error) {
	s, ok := data.(string)
	if from != reflect.String || !ok {
		return data, nil
	}
	s = strings.TrimSpace(s)
	switch to {
	case reflect.Int, reflect.Int64, reflect.Int32:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, nil
		}
		return int(f), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, nil
		}
		return b, nil
	}
	return data, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string{}, in...)
}

func uniqueStrings(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
