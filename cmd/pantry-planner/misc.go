package main

import (
	"encoding/json"
	"fmt"
	"io"

	"pantry-planner/internal/app"

	"github.com/spf13/cobra"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func prefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change planning preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), application.Store.Preferences(cmd.Context()))
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "set KEY=VALUE...",
		Short:   "Change preferences",
		Example: `  pantry-planner prefs set maxCookingTime=45 nutritionGoals.dailyCalories=1800 preferredMealTypes=lunch,dinner`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs, err := application.UpdatePreferences(cmd.Context(), args)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), prefs)
		},
	})
	return cmd
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest what to buy or cook next",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RenderSuggestions(cmd.OutOrStdout(), application.Planner.GenerateSuggestions(cmd.Context(), nil))
		},
	}
}

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List or call the assistant tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd.OutOrStdout(), application.Tools.Tools())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:     "call NAME [JSON]",
		Short:   "Call a tool with a JSON input",
		Example: `  pantry-planner tools call find_recipes_by_ingredients '{"ingredients":["eggs","milk"]}'`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input json.RawMessage
			if len(args) == 2 {
				input = json.RawMessage(args[1])
			}
			res, err := application.Tools.Call(cmd.Context(), args[0], input)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	})
	return cmd
}

func metricsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Inspect AI usage metrics",
	}

	var days int
	usage := &cobra.Command{
		Use:   "usage",
		Short: "Show daily token usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := application.Metrics.GetDailyUsage(cmd.Context(), days)
			if err != nil {
				return err
			}
			return app.RenderUsage(cmd.OutOrStdout(), u)
		},
	}
	usage.Flags().IntVar(&days, "days", 7, "number of days to show")

	var keep int
	cleanup := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove old metric records",
		RunE: func(cmd *cobra.Command, args []string) error {
			affected, err := application.Metrics.Cleanup(cmd.Context(), keep)
			if err != nil {
				return fmt.Errorf("cleanup failed: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Successfully removed %d old metric records.\n", affected)
			return err
		},
	}
	cleanup.Flags().IntVar(&keep, "days", 30, "keep records for the last N days")

	cmd.AddCommand(usage, cleanup)
	return cmd
}
