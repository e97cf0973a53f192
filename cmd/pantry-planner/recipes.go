package main

import (
	"fmt"

	"pantry-planner/internal/app"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/tools"

	"github.com/spf13/cobra"
)

func recipesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipes",
		Short: "Browse, check and import recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RenderRecipes(cmd.OutOrStdout(), application.Store.Recipes(cmd.Context()))
		},
	}

	list := &cobra.Command{Use: "list", Short: "List recipes", RunE: cmd.RunE}

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, ok := application.Store.Recipe(cmd.Context(), args[0])
			if !ok {
				return fmt.Errorf("no recipe with id %s", args[0])
			}
			return app.RenderRecipe(cmd.OutOrStdout(), r)
		},
	}

	remove := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Delete a recipe",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !application.Store.DeleteRecipe(cmd.Context(), args[0]) {
				return fmt.Errorf("no recipe with id %s", args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Removed", args[0])
			return err
		},
	}

	check := &cobra.Command{
		Use:   "check ID",
		Short: "Check whether the inventory covers a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, ok := application.Store.Recipe(ctx, args[0])
			if !ok {
				return fmt.Errorf("no recipe with id %s", args[0])
			}
			avail := recipe.CheckAvailability(application.Store.Inventory(ctx), r.Ingredients)
			return app.RenderAvailability(cmd.OutOrStdout(), r, avail)
		},
	}

	find := &cobra.Command{
		Use:   "find [INGREDIENT...]",
		Short: "Find recipes missing at most 2 ingredients (defaults to the inventory)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			names := args
			if len(names) == 0 {
				for _, it := range application.Store.Inventory(ctx) {
					names = append(names, it.Name)
				}
			}
			matches := tools.FindRecipes(application.Store.Recipes(ctx), names, tools.MaxMissing)
			return app.RenderMatches(cmd.OutOrStdout(), matches)
		},
	}

	clip := &cobra.Command{
		Use:   "clip URL",
		Short: "Import a recipe from a web page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := application.ClipRecipe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return app.RenderRecipe(cmd.OutOrStdout(), r)
		},
	}

	cmd.AddCommand(list, show, remove, check, find, clip)
	return cmd
}
