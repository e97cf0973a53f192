package mealplan

import (
	"time"

	"pantry-planner/internal/recipe"
)

// DateLayout is the calendar date format used for plan ranges and meal dates.
const DateLayout = "2006-01-02"

// PlanType is the span a plan was requested for.
type PlanType string

const (
	Weekly  PlanType = "weekly"
	Monthly PlanType = "monthly"
)

// Source tells which path produced a plan.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)

// PlannedMeal is one date and meal type slot with a recipe snapshot.
// IsAvailable and MissingIngredients are computed at generation time and
// are not refreshed when inventory changes.
type PlannedMeal struct {
	ID                 string        `json:"id"`
	Date               string        `json:"date"`
	MealType           MealType      `json:"mealType"`
	Recipe             recipe.Recipe `json:"recipe"`
	IsAvailable        bool          `json:"isAvailable"`
	MissingIngredients []string      `json:"missingIngredients"`
	PreparationTime    string        `json:"preparationTime"`
	NutritionScore     int           `json:"nutritionScore"`
}

// MealPlan covers the inclusive range StartDate..EndDate.
type MealPlan struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	StartDate   string        `json:"startDate"`
	EndDate     string        `json:"endDate"`
	Type        PlanType      `json:"type"`
	Meals       []PlannedMeal `json:"meals"`
	Preferences Preferences   `json:"preferences"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Source      Source        `json:"source,omitempty"`
}

// Contains reports whether the calendar date of t falls inside the plan range.
// Plans with unparseable dates contain nothing.
func (p MealPlan) Contains(t time.Time) bool {
	start, err := time.Parse(DateLayout, p.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse(DateLayout, p.EndDate)
	if err != nil {
		return false
	}
	day, _ := time.Parse(DateLayout, t.Format(DateLayout))
	return !day.Before(start) && !day.After(end)
}

// MissingIngredients returns the deduplicated union of missing names across
// all meals, in first-seen order.
func (p MealPlan) MissingIngredients() []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, m := range p.Meals {
		for _, name := range m.MissingIngredients {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// Clone returns a deep copy of the plan.
func (p MealPlan) Clone() MealPlan {
	c := p
	c.Preferences = p.Preferences.Clone()
	if p.Meals != nil {
		c.Meals = make([]PlannedMeal, len(p.Meals))
		for i, m := range p.Meals {
			m.Recipe = m.Recipe.Clone()
			m.MissingIngredients = append([]string{}, m.MissingIngredients...)
			c.Meals[i] = m
		}
	}
	return c
}
