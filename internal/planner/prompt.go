package planner

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"pantry-planner/internal/mealplan"
)

//go:embed planner_prompt.md
var plannerPrompt string

var plannerTemplate = template.Must(template.New("Planner").Funcs(template.FuncMap{
	"join": func(items []mealplan.MealType, sep string) string {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = string(it)
		}
		return strings.Join(parts, sep)
	},
	"list": func(items []string) string {
		if len(items) == 0 {
			return "none"
		}
		return strings.Join(items, ", ")
	},
}).Parse(plannerPrompt))

type promptData struct {
	StartDate      string
	EndDate        string
	Days           int
	MealTypes      []mealplan.MealType
	Preferences    mealplan.Preferences
	InventoryCount int
	RecipeCount    int
}

func buildPlannerPrompt(req Request, snap Snapshot) (string, error) {
	var buf bytes.Buffer
	err := plannerTemplate.Execute(&buf, promptData{
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Days:           len(snap.Dates),
		MealTypes:      snap.Preferences.PreferredMealTypes,
		Preferences:    snap.Preferences,
		InventoryCount: len(snap.Inventory),
		RecipeCount:    len(snap.Recipes),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render planner prompt: %w", err)
	}
	return buf.String(), nil
}
