package main

import (
	"fmt"
	"time"

	"pantry-planner/internal/app"
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/planner"
	"pantry-planner/internal/storage"

	"github.com/spf13/cobra"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and inspect meal plans",
	}

	cmd.AddCommand(generateCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "current",
		Short: "Show the plan covering today, with availability rechecked",
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, ok := application.Planner.RecheckCurrent(cmd.Context())
			if !ok {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No plan covers today.")
				return err
			}
			return app.RenderPlan(cmd.OutOrStdout(), plan)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RenderPlans(cmd.OutOrStdout(), application.Store.MealPlans(cmd.Context()))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show ID",
		Short: "Show a stored plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, ok := application.Store.MealPlan(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no meal plan with id %s", args[0])
			}
			return app.RenderPlan(cmd.OutOrStdout(), plan)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a stored plan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[1]
			plan, ok := application.Store.UpdateMealPlan(cmd.Context(), args[0], storage.MealPlanPatch{Name: &name})
			if !ok {
				return fmt.Errorf("no meal plan with id %s", args[0])
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", plan.ID, plan.Name)
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a stored plan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !application.Store.DeleteMealPlan(cmd.Context(), args[0]) {
				return fmt.Errorf("no meal plan with id %s", args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Deleted", args[0])
			return err
		},
	})

	return cmd
}

func generateCmd() *cobra.Command {
	var (
		name, start, end, planType, skill string
		days, maxCookingTime, calories    int
		mealTypes, restrictions, avoid    []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a meal plan",
		Example: `  pantry-planner plan generate --days 7
  pantry-planner plan generate --start 2024-03-04 --end 2024-03-31 --type monthly --meal-types lunch,dinner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if start == "" {
				start = time.Now().Format(mealplan.DateLayout)
			}
			if end == "" {
				s, err := time.Parse(mealplan.DateLayout, start)
				if err != nil {
					return fmt.Errorf("invalid --start %q: %w", start, err)
				}
				end = s.AddDate(0, 0, days-1).Format(mealplan.DateLayout)
			}

			var o mealplan.Override
			flags := cmd.Flags()
			if flags.Changed("meal-types") {
				mts := make([]mealplan.MealType, len(mealTypes))
				for i, mt := range mealTypes {
					mts[i] = mealplan.MealType(mt)
				}
				o.PreferredMealTypes = &mts
			}
			if flags.Changed("max-cooking-time") {
				o.MaxCookingTime = &maxCookingTime
			}
			if flags.Changed("calories") {
				o.NutritionGoals = &mealplan.GoalsOverride{DailyCalories: &calories}
			}
			if flags.Changed("restrictions") {
				o.DietaryRestrictions = &restrictions
			}
			if flags.Changed("avoid") {
				o.AvoidIngredients = &avoid
			}
			if flags.Changed("skill") {
				level := mealplan.SkillLevel(skill)
				o.CookingSkillLevel = &level
			}

			plan, _ := application.GeneratePlan(cmd.Context(), planner.Request{
				Name:      name,
				StartDate: start,
				EndDate:   end,
				Type:      mealplan.PlanType(planType),
				Override:  &o,
			})
			return app.RenderPlan(cmd.OutOrStdout(), plan)
		},
	}

	f := cmd.Flags()
	f.StringVar(&name, "name", "", "plan name")
	f.StringVar(&start, "start", "", "first day (YYYY-MM-DD, default today)")
	f.StringVar(&end, "end", "", "last day, inclusive (default start + days - 1)")
	f.IntVar(&days, "days", 7, "plan length when --end is not given")
	f.StringVar(&planType, "type", string(mealplan.Weekly), "plan type (weekly or monthly)")
	f.StringSliceVar(&mealTypes, "meal-types", nil, "meal types for this plan only")
	f.IntVar(&maxCookingTime, "max-cooking-time", 0, "max cooking time in minutes for this plan only")
	f.IntVar(&calories, "calories", 0, "daily calorie goal for this plan only")
	f.StringSliceVar(&restrictions, "restrictions", nil, "dietary restrictions for this plan only")
	f.StringSliceVar(&avoid, "avoid", nil, "ingredients to avoid for this plan only")
	f.StringVar(&skill, "skill", "", "cooking skill level for this plan only")
	return cmd
}
