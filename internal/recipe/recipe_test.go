package recipe

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(ns ...string) []Ingredient {
	out := make([]Ingredient, 0, len(ns))
	for _, n := range ns {
		out = append(out, Ingredient{Name: n})
	}
	return out
}

func TestCheckAvailability(t *testing.T) {
	t.Run("MissingCheese", func(t *testing.T) {
		got := CheckAvailability(names("Lettuce", "Tomato"), names("Lettuce", "Tomato", "Cheese"))
		assert.False(t, got.Available)
		assert.Equal(t, []string{"Cheese"}, got.Missing)
	})

	t.Run("CaseAndWhitespaceInsensitive", func(t *testing.T) {
		got := CheckAvailability(names(" Tomato "), names("tomato"))
		assert.True(t, got.Available)
		assert.Empty(t, got.Missing)
	})

	t.Run("QuantityIgnored", func(t *testing.T) {
		inv := []Ingredient{{Name: "Flour", Quantity: "1g"}}
		req := []Ingredient{{Name: "flour", Quantity: "2 kg"}}
		assert.True(t, CheckAvailability(inv, req).Available)
	})

	t.Run("NoRequirementsIsAvailable", func(t *testing.T) {
		got := CheckAvailability(nil, nil)
		assert.True(t, got.Available)
		require.NotNil(t, got.Missing)
	})

	t.Run("EmptyInventory", func(t *testing.T) {
		got := CheckAvailability(nil, names("Egg", "Milk"))
		assert.Equal(t, []string{"Egg", "Milk"}, got.Missing)
	})
}

func TestCheckAvailabilityIsPure(t *testing.T) {
	faker := gofakeit.New(42)
	for i := 0; i < 50; i++ {
		inv := make([]Ingredient, faker.Number(0, 8))
		for j := range inv {
			inv[j] = Ingredient{ID: faker.UUID(), Name: faker.Vegetable(), Quantity: faker.Word()}
		}
		req := make([]Ingredient, faker.Number(0, 8))
		for j := range req {
			req[j] = Ingredient{Name: faker.Vegetable()}
		}
		before := make([]Ingredient, len(inv))
		copy(before, inv)

		first := CheckAvailability(inv, req)
		second := CheckAvailability(inv, req)

		assert.Equal(t, first, second)
		assert.Equal(t, before, inv)
		assert.Equal(t, len(first.Missing) == 0, first.Available)
	}
}

func TestParseNumber(t *testing.T) {
	tests := map[string]int{
		"749Kcal":  749,
		"52g":      52,
		"":         0,
		"none":     0,
		"1.5 cups": 15,
		"  30 min": 30,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseNumber(in), "input %q", in)
	}
}

func TestPreparationTime(t *testing.T) {
	r := Recipe{CookingSteps: []CookingStep{
		{Step: 1, Instruction: "Chop", Duration: "10 min"},
		{Step: 2, Instruction: "Fry", Duration: "15 minutes"},
		{Step: 3, Instruction: "Serve"},
	}}
	assert.Equal(t, "25 min", PreparationTime(r))
	assert.Equal(t, "30 min", PreparationTime(Recipe{}))
}

func TestCloneDoesNotShareSlices(t *testing.T) {
	r := Recipe{Name: "Salad", Ingredients: names("Lettuce")}
	c := r.Clone()
	c.Ingredients[0].Name = "Kale"
	assert.Equal(t, "Lettuce", r.Ingredients[0].Name)
}
