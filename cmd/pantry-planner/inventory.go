package main

import (
	"fmt"

	"pantry-planner/internal/app"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/storage"

	"github.com/spf13/cobra"
)

func inventoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "inventory",
		Aliases: []string{"inv"},
		Short:   "Manage the ingredients in your kitchen",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.RenderInventory(cmd.OutOrStdout(), application.Store.Inventory(cmd.Context()))
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List ingredients",
		RunE:  cmd.RunE,
	}

	var quantity, image string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item := application.Store.CreateIngredient(cmd.Context(), recipe.Ingredient{Name: args[0], Quantity: quantity, Image: image})
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", item.Name, item.ID)
			return err
		},
	}
	add.Flags().StringVarP(&quantity, "quantity", "q", "", "free-form quantity, e.g. \"2 pieces\"")
	add.Flags().StringVar(&image, "image", "", "image URL or emoji")

	var name string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change an ingredient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch storage.IngredientPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("quantity") {
				patch.Quantity = &quantity
			}
			if cmd.Flags().Changed("image") {
				patch.Image = &image
			}
			item, ok := application.Store.UpdateIngredient(cmd.Context(), args[0], patch)
			if !ok {
				return fmt.Errorf("no ingredient with id %s", args[0])
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", item.Name, item.Quantity)
			return err
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVarP(&quantity, "quantity", "q", "", "new quantity")
	update.Flags().StringVar(&image, "image", "", "new image")

	remove := &cobra.Command{
		Use:     "remove ID",
		Aliases: []string{"rm"},
		Short:   "Remove an ingredient",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !application.Store.DeleteIngredient(cmd.Context(), args[0]) {
				return fmt.Errorf("no ingredient with id %s", args[0])
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "Removed", args[0])
			return err
		},
	}

	cmd.AddCommand(list, add, update, remove)
	return cmd
}
