package planner

import (
	"context"
	"errors"
	"strings"

	"pantry-planner/internal/mealplan"
)

// ErrEmptyResponse is returned for an AI answer with no text.
var ErrEmptyResponse = errors.New("empty AI response")

// Parser turns a complete AI answer into planned meals. Implementations may
// pick different recipes than the fallback; any error sends the request
// down the fallback path.
type Parser interface {
	Parse(ctx context.Context, response string, snap Snapshot) ([]mealplan.PlannedMeal, error)
}

// RoundRobinParser accepts any non-empty answer and derives the meals with
// the same round-robin rule as the fallback. The answer text is not yet
// interpreted.
type RoundRobinParser struct{}

func (RoundRobinParser) Parse(_ context.Context, response string, snap Snapshot) ([]mealplan.PlannedMeal, error) {
	if strings.TrimSpace(response) == "" {
		return nil, ErrEmptyResponse
	}
	return BuildMeals(snap), nil
}
