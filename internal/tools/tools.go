// Package tools exposes the kitchen to a language model as named tool calls
// with JSON inputs. Every call answers with a short human-readable message
// plus structured data.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"

	"pantry-planner/internal/recipe"

	"github.com/mitchellh/mapstructure"
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrInvalidInput = errors.New("invalid tool input")
)

// Store is the part of the entity store the tools use.
type Store interface {
	Inventory(ctx context.Context) []recipe.Ingredient
	InventoryItem(ctx context.Context, id string) (recipe.Ingredient, bool)
	Recipes(ctx context.Context) []recipe.Recipe
	Recipe(ctx context.Context, id string) (recipe.Recipe, bool)
	CreateRecipe(ctx context.Context, r recipe.Recipe) recipe.Recipe
	CreateIngredient(ctx context.Context, item recipe.Ingredient) recipe.Ingredient
}

// Result is what a tool call returns to the model.
type Result struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type handler func(ctx context.Context, input map[string]any) (Result, error)

// Tool describes one callable tool.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`

	run handler
}

// Registry holds the tools bound to a store.
type Registry struct {
	store Store
	tools map[string]Tool
	order []string
}

func NewRegistry(store Store) *Registry {
	r := &Registry{store: store, tools: make(map[string]Tool)}
	r.register(Tool{Name: "get_inventory", Description: "List every ingredient currently in the kitchen.", InputSchema: emptySchema, run: r.getInventory})
	r.register(Tool{Name: "get_inventory_item", Description: "Get one inventory ingredient by id.", InputSchema: idSchema, run: r.getInventoryItem})
	r.register(Tool{Name: "get_recipes", Description: "List all saved recipes.", InputSchema: emptySchema, run: r.getRecipes})
	r.register(Tool{Name: "get_recipe", Description: "Get one recipe by id.", InputSchema: idSchema, run: r.getRecipe})
	r.register(Tool{Name: "check_recipe_availability", Description: "Check whether a recipe can be cooked with the current inventory.", InputSchema: recipeIDSchema, run: r.checkRecipeAvailability})
	r.register(Tool{Name: "find_recipes_by_ingredients", Description: "Find recipes that can be made from the given ingredients, allowing up to 2 missing.", InputSchema: findSchema, run: r.findRecipesByIngredients})
	r.register(Tool{Name: "create_recipe", Description: "Save a new recipe.", InputSchema: createRecipeSchema, run: r.createRecipe})
	r.register(Tool{Name: "create_ingredient", Description: "Add an ingredient to the inventory.", InputSchema: createIngredientSchema, run: r.createIngredient})
	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// Tools lists the tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

func (r *Registry) Tool(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return Tool{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Call runs the named tool with a JSON object input. An empty input is
// treated as {}.
func (r *Registry) Call(ctx context.Context, name string, input json.RawMessage) (Result, error) {
	t, err := r.Tool(name)
	if err != nil {
		return Result{}, err
	}
	args := map[string]any{}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &args); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return t.run(ctx, args)
}

// decode copies loosely typed tool arguments into out.
func decode(input map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.DecodeHookFuncType(ingredientFromString),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

// ingredientFromString lets the model pass "Tomato" where an ingredient object is expected.
func ingredientFromString(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() == reflect.String && to == reflect.TypeOf(ingredientInput{}) {
		return map[string]any{"name": data}, nil
	}
	return data, nil
}

type idInput struct {
	ID string `mapstructure:"id"`
}

func (r *Registry) getInventory(ctx context.Context, _ map[string]any) (Result, error) {
	inv := r.store.Inventory(ctx)
	return Result{Message: fmt.Sprintf("Found %d ingredients in the inventory", len(inv)), Data: inv}, nil
}

func (r *Registry) getInventoryItem(ctx context.Context, input map[string]any) (Result, error) {
	var in idInput
	if err := decode(input, &in); err != nil {
		return Result{}, err
	}
	item, ok := r.store.InventoryItem(ctx, in.ID)
	if !ok {
		return Result{Message: fmt.Sprintf("No ingredient with id %q", in.ID)}, nil
	}
	return Result{Message: fmt.Sprintf("%s: %s", item.Name, item.Quantity), Data: item}, nil
}

func (r *Registry) getRecipes(ctx context.Context, _ map[string]any) (Result, error) {
	recipes := r.store.Recipes(ctx)
	return Result{Message: fmt.Sprintf("Found %d recipes", len(recipes)), Data: recipes}, nil
}

func (r *Registry) getRecipe(ctx context.Context, input map[string]any) (Result, error) {
	var in idInput
	if err := decode(input, &in); err != nil {
		return Result{}, err
	}
	rec, ok := r.store.Recipe(ctx, in.ID)
	if !ok {
		return Result{Message: fmt.Sprintf("No recipe with id %q", in.ID)}, nil
	}
	return Result{Message: fmt.Sprintf("Recipe %s", rec.Name), Data: rec}, nil
}

// AvailabilityReport is the data of check_recipe_availability.
type AvailabilityReport struct {
	RecipeID   string   `json:"recipeId"`
	RecipeName string   `json:"recipeName"`
	Available  bool     `json:"available"`
	Missing    []string `json:"missing"`
}

func (r *Registry) checkRecipeAvailability(ctx context.Context, input map[string]any) (Result, error) {
	var in struct {
		RecipeID string `mapstructure:"recipeId"`
	}
	if err := decode(input, &in); err != nil {
		return Result{}, err
	}
	rec, ok := r.store.Recipe(ctx, in.RecipeID)
	if !ok {
		return Result{Message: fmt.Sprintf("No recipe with id %q", in.RecipeID)}, nil
	}

	avail := recipe.CheckAvailability(r.store.Inventory(ctx), rec.Ingredients)
	report := AvailabilityReport{RecipeID: rec.ID, RecipeName: rec.Name, Available: avail.Available, Missing: avail.Missing}
	if avail.Available {
		return Result{Message: fmt.Sprintf("You have everything to make %s", rec.Name), Data: report}, nil
	}
	return Result{Message: fmt.Sprintf("You're missing %d ingredients for %s", len(avail.Missing), rec.Name), Data: report}, nil
}

// MaxMissing is how many ingredients a recipe may lack and still be suggested.
const MaxMissing = 2

// RecipeMatch is one result of find_recipes_by_ingredients.
type RecipeMatch struct {
	Recipe       recipe.Recipe `json:"recipe"`
	Missing      []string      `json:"missing"`
	MissingCount int           `json:"missingCount"`
}

// FindRecipes returns recipes lacking at most maxMissing of the given
// ingredients, fewest missing first. Ties keep recipe order.
func FindRecipes(recipes []recipe.Recipe, ingredients []string, maxMissing int) []RecipeMatch {
	have := make([]recipe.Ingredient, len(ingredients))
	for i, name := range ingredients {
		have[i] = recipe.Ingredient{Name: name}
	}

	matches := []RecipeMatch{}
	for _, rec := range recipes {
		avail := recipe.CheckAvailability(have, rec.Ingredients)
		if len(avail.Missing) > maxMissing {
			continue
		}
		matches = append(matches, RecipeMatch{Recipe: rec, Missing: avail.Missing, MissingCount: len(avail.Missing)})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MissingCount < matches[j].MissingCount
	})
	return matches
}

func (r *Registry) findRecipesByIngredients(ctx context.Context, input map[string]any) (Result, error) {
	var in struct {
		Ingredients []string `mapstructure:"ingredients"`
	}
	if err := decode(input, &in); err != nil {
		return Result{}, err
	}
	if len(in.Ingredients) == 0 {
		for _, item := range r.store.Inventory(ctx) {
			in.Ingredients = append(in.Ingredients, item.Name)
		}
	}

	matches := FindRecipes(r.store.Recipes(ctx), in.Ingredients, MaxMissing)
	return Result{Message: fmt.Sprintf("Found %d recipes you can make or almost make", len(matches)), Data: matches}, nil
}

type ingredientInput struct {
	Name     string `mapstructure:"name"`
	Quantity string `mapstructure:"quantity"`
	Image    string `mapstructure:"image"`
}

func (r *Registry) createIngredient(ctx context.Context, input map[string]any) (Result, error) {
	var in ingredientInput
	if err := decode(input, &in); err != nil {
		return Result{}, err
	}
	if in.Name == "" {
		return Result{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	item := r.store.CreateIngredient(ctx, recipe.Ingredient{Name: in.Name, Quantity: in.Quantity, Image: in.Image})
	return Result{Message: fmt.Sprintf("Added %s to the inventory", item.Name), Data: item}, nil
}

type recipeInput struct {
	Name         string            `mapstructure:"name"`
	Creator      string            `mapstructure:"creator"`
	Image        string            `mapstructure:"image"`
	Description  string            `mapstructure:"description"`
	Nutrition    recipe.Nutrition  `mapstructure:"nutrition"`
	Ingredients  []ingredientInput `mapstructure:"ingredients"`
	CookingSteps []stepInput       `mapstructure:"cookingSteps"`
}

type stepInput struct {
	Step        int    `mapstructure:"step"`
	Instruction string `mapstructure:"instruction"`
	Duration    string `mapstructure:"duration"`
}

func (r *Registry) createRecipe(ctx context.Context, input map[string]any) (Result, error) {
	var in recipeInput
	if err := decode(input, &in); err != nil {
		return Result{}, err
	}
	if in.Name == "" {
		return Result{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	rec := recipe.Recipe{
		Name:        in.Name,
		Creator:     in.Creator,
		Image:       in.Image,
		Description: in.Description,
		Nutrition:   in.Nutrition,
	}
	if rec.Creator == "" {
		rec.Creator = "AI Assistant"
	}
	for _, ing := range in.Ingredients {
		rec.Ingredients = append(rec.Ingredients, recipe.Ingredient{Name: ing.Name, Quantity: ing.Quantity, Image: ing.Image})
	}
	for i, step := range in.CookingSteps {
		if step.Step == 0 {
			step.Step = i + 1
		}
		rec.CookingSteps = append(rec.CookingSteps, recipe.CookingStep{Step: step.Step, Instruction: step.Instruction, Duration: step.Duration})
	}

	saved := r.store.CreateRecipe(ctx, rec)
	return Result{Message: fmt.Sprintf("Saved recipe %s", saved.Name), Data: saved}, nil
}
