package storage

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"

	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

// Keys of the persisted collections.
const (
	InventoryKey   = "inventory"
	RecipesKey     = "recipes"
	MealPlansKey   = "meal_plans"
	PreferencesKey = "meal_preferences"
)

// Store owns every persisted entity. Reads return fresh copies decoded from
// the backend, so callers never share state with the store or each other.
// Persistence is best-effort: backend failures are logged and the caller
// gets defaults instead of an error.
type Store struct {
	backend Backend
	logger  *zap.Logger

	inventory *collection[recipe.Ingredient]
	recipes   *collection[recipe.Recipe]
	plans     *collection[mealplan.MealPlan]

	prefsMu sync.Mutex
}

// NewStore creates a Store on top of backend. A nil logger discards logs.
func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		backend: backend,
		logger:  logger,
		inventory: &collection[recipe.Ingredient]{
			key:  InventoryKey,
			seed: DefaultInventory,
			id:   func(i *recipe.Ingredient) *string { return &i.ID },
		},
		recipes: &collection[recipe.Recipe]{
			key:  RecipesKey,
			seed: DefaultRecipes,
			id:   func(r *recipe.Recipe) *string { return &r.ID },
		},
		plans: &collection[mealplan.MealPlan]{
			key: MealPlansKey,
			id:  func(p *mealplan.MealPlan) *string { return &p.ID },
		},
	}
}

// NewID returns a collision-resistant id (timestamp, counter and random block).
func (s *Store) NewID() string {
	return cuid.New()
}

// IngredientPatch lists the fields an update may change. Nil fields are kept.
type IngredientPatch struct {
	Name     *string `json:"name,omitempty"`
	Quantity *string `json:"quantity,omitempty"`
	Image    *string `json:"image,omitempty"`
}

func (p IngredientPatch) apply(i *recipe.Ingredient) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Quantity != nil {
		i.Quantity = *p.Quantity
	}
	if p.Image != nil {
		i.Image = *p.Image
	}
}

func (s *Store) Inventory(ctx context.Context) []recipe.Ingredient {
	return s.inventory.all(ctx, s)
}

func (s *Store) InventoryItem(ctx context.Context, id string) (recipe.Ingredient, bool) {
	return s.inventory.byID(ctx, s, id)
}

// CreateIngredient adds an inventory item under a fresh id. Any id on item is ignored.
func (s *Store) CreateIngredient(ctx context.Context, item recipe.Ingredient) recipe.Ingredient {
	return s.inventory.create(ctx, s, item)
}

// UpdateIngredient returns false when no item has the id.
func (s *Store) UpdateIngredient(ctx context.Context, id string, patch IngredientPatch) (recipe.Ingredient, bool) {
	return s.inventory.update(ctx, s, id, patch.apply)
}

func (s *Store) DeleteIngredient(ctx context.Context, id string) bool {
	return s.inventory.remove(ctx, s, id)
}

// RecipePatch lists the fields an update may change. Nil fields are kept.
type RecipePatch struct {
	Name         *string               `json:"name,omitempty"`
	Creator      *string               `json:"creator,omitempty"`
	Image        *string               `json:"image,omitempty"`
	Description  *string               `json:"description,omitempty"`
	Nutrition    *recipe.Nutrition     `json:"nutrition,omitempty"`
	Ingredients  *[]recipe.Ingredient  `json:"ingredients,omitempty"`
	CookingSteps *[]recipe.CookingStep `json:"cookingSteps,omitempty"`
}

func (s *Store) Recipes(ctx context.Context) []recipe.Recipe {
	return s.recipes.all(ctx, s)
}

func (s *Store) Recipe(ctx context.Context, id string) (recipe.Recipe, bool) {
	return s.recipes.byID(ctx, s, id)
}

// CreateRecipe stores r under a fresh id. Embedded ingredients without an id get one.
func (s *Store) CreateRecipe(ctx context.Context, r recipe.Recipe) recipe.Recipe {
	r = r.Clone()
	s.assignIngredientIDs(r.Ingredients)
	return s.recipes.create(ctx, s, r)
}

func (s *Store) UpdateRecipe(ctx context.Context, id string, patch RecipePatch) (recipe.Recipe, bool) {
	return s.recipes.update(ctx, s, id, func(r *recipe.Recipe) {
		if patch.Name != nil {
			r.Name = *patch.Name
		}
		if patch.Creator != nil {
			r.Creator = *patch.Creator
		}
		if patch.Image != nil {
			r.Image = *patch.Image
		}
		if patch.Description != nil {
			r.Description = *patch.Description
		}
		if patch.Nutrition != nil {
			r.Nutrition = *patch.Nutrition
		}
		if patch.Ingredients != nil {
			r.Ingredients = append([]recipe.Ingredient{}, (*patch.Ingredients)...)
			s.assignIngredientIDs(r.Ingredients)
		}
		if patch.CookingSteps != nil {
			r.CookingSteps = append([]recipe.CookingStep{}, (*patch.CookingSteps)...)
		}
	})
}

func (s *Store) DeleteRecipe(ctx context.Context, id string) bool {
	return s.recipes.remove(ctx, s, id)
}

func (s *Store) assignIngredientIDs(ings []recipe.Ingredient) {
	for i := range ings {
		if ings[i].ID == "" {
			ings[i].ID = s.NewID()
		}
	}
}

// MealPlanPatch lists the fields an update may change. Nil fields are kept.
type MealPlanPatch struct {
	Name  *string                 `json:"name,omitempty"`
	Meals *[]mealplan.PlannedMeal `json:"meals,omitempty"`
}

func (s *Store) MealPlans(ctx context.Context) []mealplan.MealPlan {
	return s.plans.all(ctx, s)
}

func (s *Store) MealPlan(ctx context.Context, id string) (mealplan.MealPlan, bool) {
	return s.plans.byID(ctx, s, id)
}

// CreateMealPlan stores p under a fresh id.
func (s *Store) CreateMealPlan(ctx context.Context, p mealplan.MealPlan) mealplan.MealPlan {
	return s.plans.create(ctx, s, p.Clone())
}

// SaveMealPlan replaces the plan with the same id, or appends it. Plans
// without an id get a fresh one.
func (s *Store) SaveMealPlan(ctx context.Context, p mealplan.MealPlan) mealplan.MealPlan {
	return s.plans.put(ctx, s, p.Clone())
}

func (s *Store) UpdateMealPlan(ctx context.Context, id string, patch MealPlanPatch) (mealplan.MealPlan, bool) {
	return s.plans.update(ctx, s, id, func(p *mealplan.MealPlan) {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Meals != nil {
			p.Meals = mealplan.MealPlan{Meals: *patch.Meals}.Clone().Meals
		}
	})
}

func (s *Store) DeleteMealPlan(ctx context.Context, id string) bool {
	return s.plans.remove(ctx, s, id)
}

// CurrentMealPlan returns the most recently stored plan whose date range
// contains now.
func (s *Store) CurrentMealPlan(ctx context.Context, now time.Time) (mealplan.MealPlan, bool) {
	plans := s.MealPlans(ctx)
	for i := len(plans) - 1; i >= 0; i-- {
		if plans[i].Contains(now) {
			return plans[i], true
		}
	}
	return mealplan.MealPlan{}, false
}

// Preferences returns the stored preferences with every field coerced into
// range, or the defaults when nothing usable is stored.
func (s *Store) Preferences(ctx context.Context) mealplan.Preferences {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()

	data, err := s.backend.Get(ctx, PreferencesKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("failed to read preferences, using defaults", zap.Error(err))
		}
		return mealplan.DefaultPreferences()
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		s.logger.Warn("corrupt preferences, using defaults", zap.Error(err))
		return mealplan.DefaultPreferences()
	}
	prefs, err := mealplan.DecodePreferences(raw)
	if err != nil {
		s.logger.Warn("invalid preferences, using defaults", zap.Error(err))
		return mealplan.DefaultPreferences()
	}
	return prefs
}

// SavePreferences normalizes and stores p, returning what was stored.
func (s *Store) SavePreferences(ctx context.Context, p mealplan.Preferences) mealplan.Preferences {
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()

	p = p.Normalize()
	data, err := json.Marshal(p)
	if err != nil {
		s.logger.Warn("failed to encode preferences", zap.Error(err))
		return p
	}
	if err := s.backend.Put(ctx, PreferencesKey, data); err != nil {
		s.logger.Warn("failed to write preferences", zap.Error(err))
	}
	return p
}
