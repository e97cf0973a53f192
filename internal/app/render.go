package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/tools"
)

// RenderInventory prints one ingredient per row.
func RenderInventory(w io.Writer, items []recipe.Ingredient) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "Inventory is empty.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQUANTITY")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\n", it.ID, it.Image, it.Name, it.Quantity)
	}
	return tw.Flush()
}

// RenderRecipes prints a recipe summary per row.
func RenderRecipes(w io.Writer, recipes []recipe.Recipe) error {
	if len(recipes) == 0 {
		_, err := fmt.Fprintln(w, "No recipes saved.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tENERGY\tPREP\tINGREDIENTS")
	for _, r := range recipes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.Name, r.Nutrition.Energy, recipe.PreparationTime(r), len(r.Ingredients))
	}
	return tw.Flush()
}

// RenderRecipe prints a full recipe card.
func RenderRecipe(w io.Writer, r recipe.Recipe) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s (%s)\n", r.Image, r.Name, r.ID)
	if r.Description != "" {
		fmt.Fprintf(&sb, "%s\n", r.Description)
	}
	if r.Creator != "" {
		fmt.Fprintf(&sb, "By %s\n", r.Creator)
	}
	n := r.Nutrition
	fmt.Fprintf(&sb, "\nEnergy %s | Carbs %s | Protein %s | Fat %s\n", n.Energy, n.Carbs, n.Proteins, n.Fats)
	sb.WriteString("\nIngredients:\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "  - %s %s\n", ing.Quantity, ing.Name)
	}
	if len(r.CookingSteps) > 0 {
		sb.WriteString("\nSteps:\n")
		for _, s := range r.CookingSteps {
			fmt.Fprintf(&sb, "  %d. %s", s.Step, s.Instruction)
			if s.Duration != "" {
				fmt.Fprintf(&sb, " (%s)", s.Duration)
			}
			sb.WriteString("\n")
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderPlan prints a plan grouped by day.
func RenderPlan(w io.Writer, plan mealplan.MealPlan) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s ===\n", strings.ToUpper(plan.Name))
	fmt.Fprintf(&sb, "%s to %s, %s plan, %d meals (source: %s)\n", plan.StartDate, plan.EndDate, plan.Type, len(plan.Meals), plan.Source)

	day := ""
	for _, m := range plan.Meals {
		if m.Date != day {
			day = m.Date
			fmt.Fprintf(&sb, "\n%s\n", day)
		}
		status := "ready"
		if !m.IsAvailable {
			status = "missing: " + strings.Join(m.MissingIngredients, ", ")
		}
		fmt.Fprintf(&sb, "  %-9s %s (%s, score %d) [%s]\n", m.MealType, m.Recipe.Name, m.PreparationTime, m.NutritionScore, status)
	}

	if list := shopping.FromPlan(plan); len(list.Items) > 0 {
		sb.WriteString("\n=== SHOPPING LIST ===\n")
		for _, item := range list.Items {
			fmt.Fprintf(&sb, "- %s", item.Name)
			if len(item.Quantities) > 0 {
				fmt.Fprintf(&sb, " (%s)", strings.Join(item.Quantities, " + "))
			}
			fmt.Fprintf(&sb, "  for %d meals\n", len(item.Meals))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderPlans prints one plan summary per row.
func RenderPlans(w io.Writer, plans []mealplan.MealPlan) error {
	if len(plans) == 0 {
		_, err := fmt.Fprintln(w, "No meal plans yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tRANGE\tMEALS\tSOURCE")
	for _, p := range plans {
		fmt.Fprintf(tw, "%s\t%s\t%s..%s\t%d\t%s\n", p.ID, p.Name, p.StartDate, p.EndDate, len(p.Meals), p.Source)
	}
	return tw.Flush()
}

// RenderAvailability prints whether r can be cooked.
func RenderAvailability(w io.Writer, r recipe.Recipe, a recipe.Availability) error {
	if a.Available {
		_, err := fmt.Fprintf(w, "You have everything for %s.\n", r.Name)
		return err
	}
	_, err := fmt.Fprintf(w, "Missing for %s: %s\n", r.Name, strings.Join(a.Missing, ", "))
	return err
}

// RenderMatches prints find_recipes_by_ingredients results.
func RenderMatches(w io.Writer, matches []tools.RecipeMatch) error {
	if len(matches) == 0 {
		_, err := fmt.Fprintln(w, "No recipes within reach.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECIPE\tMISSING")
	for _, m := range matches {
		missing := "-"
		if m.MissingCount > 0 {
			missing = strings.Join(m.Missing, ", ")
		}
		fmt.Fprintf(tw, "%s\t%s\n", m.Recipe.Name, missing)
	}
	return tw.Flush()
}

// RenderSuggestions prints one suggestion per line.
func RenderSuggestions(w io.Writer, suggestions []planner.Suggestion) error {
	if len(suggestions) == 0 {
		_, err := fmt.Fprintln(w, "Nothing to suggest right now.")
		return err
	}
	var sb strings.Builder
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "[%s] %s\n", s.Type, s.Message)
		if s.Action != nil && len(s.Action.Data) > 0 {
			fmt.Fprintf(&sb, "    %s: %s\n", s.Action.Type, strings.Join(s.Action.Data, ", "))
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderUsage prints daily token usage.
func RenderUsage(w io.Writer, usage []metrics.DailyUsage) error {
	if len(usage) == 0 {
		_, err := fmt.Fprintln(w, "No AI activity recorded.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCALLS\tFAILED\tPROMPT\tCOMPLETION")
	for _, d := range usage {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", d.Date, d.TotalExecution, d.Failures, d.TotalPrompt, d.TotalCompletion)
	}
	return tw.Flush()
}
