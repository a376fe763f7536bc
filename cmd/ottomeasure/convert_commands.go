package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomeasure/internal/display"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
	"github.com/hammamikhairi/ottomeasure/internal/ingredient"
	"github.com/hammamikhairi/ottomeasure/internal/quantity"
	"github.com/hammamikhairi/ottomeasure/internal/units"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "convert AMOUNT UNIT [INGREDIENT...]",
		Short: "Convert an amount to another measurement system",
		Long: "Convert an amount to the system chosen with --system (or the config).\n" +
			"Naming the ingredient lets dry goods measured by volume come out in grams.",
		Example: "  ottomeasure convert 2 cups --system metric\n" +
			"  ottomeasure convert \"1 1/2\" cups all-purpose flour -s metric",
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := ingredient.ParseAmount(args[0])
			if err != nil {
				return err
			}
			target, err := ctx.target()
			if err != nil {
				return err
			}
			system, ok := target.System()
			if !ok {
				return fmt.Errorf("choose a system to convert to with --system metric or --system imperial")
			}

			eng, err := ctx.engine(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			unit := args[1]
			name := strings.Join(args[2:], " ")

			var res domain.ConversionResult
			if name != "" {
				res = eng.Converter().ConvertWithIngredient(amount, unit, system, name)
			} else {
				res = eng.Converter().Convert(amount, unit, system)
			}

			if jsonOut {
				return writeJSON(cmd, res)
			}
			line := display.ConversionLine(amount, unit, res)
			if name != "" {
				line += " " + name
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newFormatCommand(ctx *commandContext) *cobra.Command {
	var precision int

	cmd := &cobra.Command{
		Use:     "format AMOUNT...",
		Short:   "Render amounts the way a recipe shows them",
		Example: "  ottomeasure format 0.5 1.333 12.5 0.0333",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := precision
			if !cmd.Flags().Changed("precision") {
				if cfg, err := ctx.ensureConfig(); err == nil {
					p = cfg.Display.Precision
				}
			}
			out := cmd.OutOrStdout()
			for _, arg := range args {
				amount, err := ingredient.ParseAmount(arg)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\n", arg, quantity.Format(amount, p))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&precision, "precision", "p", quantity.DefaultPrecision, "Decimals for amounts below 0.1")
	return cmd
}

func newUnitsCommand() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:         "units",
		Short:       "List known units",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			defs := units.Definitions()
			if jsonOut {
				return writeJSON(cmd, defs)
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.UnitsTable(defs))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
