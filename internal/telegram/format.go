package telegram

import (
	"encoding/json"
	"fmt"
	"strings"

	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shopping"
	"pantry-planner/internal/tools"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}

func toolInput(key, value string) json.RawMessage {
	data, _ := json.Marshal(map[string]string{key: value})
	return data
}

func formatPlanMarkdownParts(plan mealplan.MealPlan) (string, string) {
	var pb strings.Builder
	title := "Weekly Meal Plan"
	if plan.Type == mealplan.Monthly {
		title = "Monthly Meal Plan"
	}
	fmt.Fprintf(&pb, "📅 *%s*\n_%s to %s_\n", title, plan.StartDate, plan.EndDate)

	totalPrep := 0
	day := ""
	for _, m := range plan.Meals {
		if m.Date != day {
			day = m.Date
			fmt.Fprintf(&pb, "\n*%s*\n", day)
		}
		mark := "✅"
		if !m.IsAvailable {
			mark = "🛒"
		}
		fmt.Fprintf(&pb, "%s %s: %s", mark, m.MealType, escape(m.Recipe.Name))
		if m.PreparationTime != "" {
			fmt.Fprintf(&pb, " (%s)", m.PreparationTime)
		}
		pb.WriteString("\n")
		totalPrep += recipe.PrepMinutes(m.Recipe)
	}
	if len(plan.Meals) == 0 {
		pb.WriteString("\n_No recipes to plan with yet._\n")
	}
	fmt.Fprintf(&pb, "\n⏱ *Total Prep:* %d min", totalPrep)
	if plan.Source == mealplan.SourceFallback {
		pb.WriteString("\n_Planned offline_")
	}

	var sb strings.Builder
	sb.WriteString("🛒 *Shopping List*\n\n")
	list := shopping.FromPlan(plan)
	if len(list.Items) == 0 {
		sb.WriteString("Nothing to buy, you have everything.\n")
	}
	for _, item := range list.Items {
		fmt.Fprintf(&sb, "• %s", escape(item.Name))
		if len(item.Quantities) > 0 {
			fmt.Fprintf(&sb, " (%s)", escape(strings.Join(item.Quantities, " + ")))
		}
		sb.WriteString("\n")
	}

	return pb.String(), sb.String()
}

func formatInventory(items []recipe.Ingredient) string {
	if len(items) == 0 {
		return "🧺 Your inventory is empty. Use /add."
	}
	var sb strings.Builder
	sb.WriteString("🧺 *Inventory*\n\n")
	for _, it := range items {
		fmt.Fprintf(&sb, "%s %s", it.Image, escape(it.Name))
		if it.Quantity != "" {
			fmt.Fprintf(&sb, " - %s", escape(it.Quantity))
		}
		fmt.Fprintf(&sb, " `%s`\n", it.ID)
	}
	return sb.String()
}

func formatRecipes(recipes []recipe.Recipe) string {
	if len(recipes) == 0 {
		return "📖 No recipes yet. Send me a recipe URL."
	}
	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	for _, r := range recipes {
		fmt.Fprintf(&sb, "%s *%s* (%s) `%s`\n", r.Image, escape(r.Name), recipe.PreparationTime(r), r.ID)
	}
	return sb.String()
}

func formatRecipe(r recipe.Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *%s*\n", r.Image, escape(r.Name))
	if r.Description != "" {
		fmt.Fprintf(&sb, "_%s_\n", escape(r.Description))
	}
	n := r.Nutrition
	fmt.Fprintf(&sb, "\n🔥 %s · C %s · P %s · F %s\n", n.Energy, n.Carbs, n.Proteins, n.Fats)
	sb.WriteString("\n*Ingredients*\n")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "• %s %s\n", escape(ing.Quantity), escape(ing.Name))
	}
	if len(r.CookingSteps) > 0 {
		sb.WriteString("\n*Steps*\n")
		for _, s := range r.CookingSteps {
			fmt.Fprintf(&sb, "%d. %s\n", s.Step, escape(s.Instruction))
		}
	}
	return sb.String()
}

func formatMatches(matches []tools.RecipeMatch) string {
	if len(matches) == 0 {
		return "🤷 Nothing within reach. Time to shop!"
	}
	var sb strings.Builder
	sb.WriteString("🔎 *Recipes you can make*\n\n")
	for _, m := range matches {
		if m.MissingCount == 0 {
			fmt.Fprintf(&sb, "✅ %s\n", escape(m.Recipe.Name))
			continue
		}
		fmt.Fprintf(&sb, "🛒 %s (need %s)\n", escape(m.Recipe.Name), escape(strings.Join(m.Missing, ", ")))
	}
	return sb.String()
}

func formatSuggestions(suggestions []planner.Suggestion) string {
	if len(suggestions) == 0 {
		return "👍 Nothing to suggest right now."
	}
	var sb strings.Builder
	sb.WriteString("💡 *Suggestions*\n\n")
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "• %s\n", escape(s.Message))
		if s.Action != nil && s.Action.Type == planner.ActionAddToShoppingList {
			fmt.Fprintf(&sb, "  _%s_\n", escape(strings.Join(s.Action.Data, ", ")))
		}
	}
	return sb.String()
}

func formatPreferences(p mealplan.Preferences) string {
	mealTypes := make([]string, len(p.PreferredMealTypes))
	for i, mt := range p.PreferredMealTypes {
		mealTypes[i] = string(mt)
	}
	list := func(items []string) string {
		if len(items) == 0 {
			return "none"
		}
		return escape(strings.Join(items, ", "))
	}

	var sb strings.Builder
	sb.WriteString("⚙️ *Preferences*\n\n")
	fmt.Fprintf(&sb, "Meals: %s\n", list(mealTypes))
	fmt.Fprintf(&sb, "Max cooking time: %d min\n", p.MaxCookingTime)
	fmt.Fprintf(&sb, "Skill: %s\n", p.CookingSkillLevel)
	fmt.Fprintf(&sb, "Restrictions: %s\n", list(p.DietaryRestrictions))
	fmt.Fprintf(&sb, "Avoid: %s\n", list(p.AvoidIngredients))
	g := p.NutritionGoals
	fmt.Fprintf(&sb, "Goals: %d kcal, protein ≥ %dg, carbs ≤ %dg, fats ≤ %dg\n", g.DailyCalories, g.MinProtein, g.MaxCarbs, g.MaxFats)
	return sb.String()
}

func formatMetrics(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d execs, %d failed)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failures)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataSize)
	return sb.String()
}
