package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomeasure/internal/display"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/engine"
)

func newRecipesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "recipes [QUERY...]",
		Short: "List or search recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			var list []domain.RecipeSummary
			if query := strings.TrimSpace(strings.Join(args, " ")); query != "" {
				list, err = eng.SearchRecipes(cmd.Context(), query)
			} else {
				list, err = eng.ListRecipes(cmd.Context())
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.RecipesTable(list))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		servings int
		jsonOut  bool
	)

	cmd := &cobra.Command{
		Use:     "show RECIPE_ID",
		Short:   "Show a recipe scaled and converted for display",
		Example: "  ottomeasure show buttermilk-pancakes --servings 8 --system metric",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := ctx.engine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			view, err := eng.DisplayDefault(cmd.Context(), args[0], servings)
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, view)
			}
			return display.Recipe(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().IntVarP(&servings, "servings", "n", 0, "Serving count (default: the recipe's own)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newShopCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "shop RECIPE_ID[:SERVINGS]...",
		Short: "Build a shopping list from several recipes",
		Example: "  ottomeasure shop chicken-alfredo:4 vegetable-stir-fry\n" +
			"  ottomeasure shop buttermilk-pancakes --system imperial",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portions, err := parsePortions(args)
			if err != nil {
				return err
			}
			eng, err := ctx.engine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			items, err := eng.ShoppingList(cmd.Context(), portions, eng.DefaultTarget())
			if err != nil {
				return err
			}
			if jsonOut {
				return writeJSON(cmd, items)
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.ShoppingTable(items))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// parsePortions reads "id" and "id:servings" arguments.
func parsePortions(args []string) ([]engine.Portion, error) {
	portions := make([]engine.Portion, 0, len(args))
	for _, arg := range args {
		id, count, found := strings.Cut(arg, ":")
		p := engine.Portion{RecipeID: strings.TrimSpace(id)}
		if p.RecipeID == "" {
			return nil, fmt.Errorf("invalid recipe %q", arg)
		}
		if found {
			n, err := strconv.Atoi(strings.TrimSpace(count))
			if err != nil || n <= 0 {
				return nil, fmt.Errorf("invalid servings in %q", arg)
			}
			p.Servings = n
		}
		portions = append(portions, p)
	}
	return portions, nil
}
