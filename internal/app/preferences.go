package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"pantry-planner/internal/mealplan"
)

// listKeys take comma separated values.
var listKeys = map[string]bool{
	"dietaryRestrictions": true,
	"favoriteIngredients": true,
	"avoidIngredients":    true,
	"preferredMealTypes":  true,
}

// UpdatePreferences applies "key=value" assignments to the stored
// preferences and saves the normalized result. Nested goals use dotted
// keys such as "nutritionGoals.dailyCalories".
func (a *App) UpdatePreferences(ctx context.Context, assignments []string) (mealplan.Preferences, error) {
	raw, err := preferencesMap(a.Store.Preferences(ctx))
	if err != nil {
		return mealplan.Preferences{}, err
	}

	for _, as := range assignments {
		key, value, ok := strings.Cut(as, "=")
		if !ok {
			return mealplan.Preferences{}, fmt.Errorf("invalid assignment %q, want key=value", as)
		}
		if err := setPath(raw, strings.Split(strings.TrimSpace(key), "."), parseValue(key, value)); err != nil {
			return mealplan.Preferences{}, err
		}
	}

	prefs, err := mealplan.DecodePreferences(raw)
	if err != nil {
		return mealplan.Preferences{}, err
	}
	return a.Store.SavePreferences(ctx, prefs), nil
}

func preferencesMap(p mealplan.Preferences) (map[string]any, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode preferences: %w", err)
	}
	raw := map[string]any{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return raw, nil
}

func parseValue(key, value string) any {
	value = strings.TrimSpace(value)
	if !listKeys[key] {
		return value
	}
	items := []any{}
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// setPath only replaces keys that already exist so typos are reported.
func setPath(m map[string]any, path []string, value any) error {
	for i, key := range path {
		current, ok := m[key]
		if !ok {
			return fmt.Errorf("unknown preference %q", strings.Join(path[:i+1], "."))
		}
		if i == len(path)-1 {
			m[key] = value
			return nil
		}
		next, ok := current.(map[string]any)
		if !ok {
			return fmt.Errorf("preference %q has no fields", strings.Join(path[:i+1], "."))
		}
		m = next
	}
	return nil
}
