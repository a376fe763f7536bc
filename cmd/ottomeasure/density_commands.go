package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomeasure/internal/density"
	"github.com/hammamikhairi/ottomeasure/internal/display"
	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

func newDensityCommand(ctx *commandContext) *cobra.Command {
	densityCmd := &cobra.Command{
		Use:   "density",
		Short: "Inspect and edit the ingredient density catalog",
		Long: "Densities decide which ingredients are shown by weight in metric.\n" +
			"list and export read the catalog selected by density.source; set, remove\n" +
			"and import edit the SQLite catalog at density.database_path.",
	}

	densityCmd.AddCommand(newDensityListCommand(ctx))
	densityCmd.AddCommand(newDensitySetCommand(ctx))
	densityCmd.AddCommand(newDensityRemoveCommand(ctx))
	densityCmd.AddCommand(newDensityImportCommand(ctx))
	densityCmd.AddCommand(newDensityExportCommand(ctx))
	return densityCmd
}

func newDensityListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ctx.resolver(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			entries := table.Entries()
			if jsonOut {
				return writeJSON(cmd, entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), display.DensityTable(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newDensitySetCommand(ctx *commandContext) *cobra.Command {
	var (
		wet     bool
		aliases []string
	)

	cmd := &cobra.Command{
		Use:   "set NAME GRAMS_PER_CUP",
		Short: "Add or replace a catalog entry",
		Example: "  ottomeasure density set \"almond flour\" 96 --alias \"ground almonds\"\n" +
			"  ottomeasure density set \"coconut milk\" 0 --wet",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			grams, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid grams per cup %q", args[1])
			}
			store, err := ctx.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			entry := domain.DensityEntry{
				Name:        args[0],
				Aliases:     aliases,
				GramsPerCup: grams,
				Dry:         !wet,
			}
			if err := store.Upsert(cmd.Context(), entry); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", entry.Name, store.Path())
			return nil
		},
	}
	cmd.Flags().BoolVar(&wet, "wet", false, "Mark the ingredient as a liquid that stays in volume")
	cmd.Flags().StringArrayVar(&aliases, "alias", nil, "Alternative name (repeatable)")
	return cmd
}

func newDensityRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove a catalog entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("remove %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newDensityImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load a TOML catalog into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := density.LoadCatalogFile(args[0])
			if err != nil {
				return err
			}
			store, err := ctx.openStore(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			for _, e := range entries {
				if err := store.Upsert(cmd.Context(), e); err != nil {
					return fmt.Errorf("import %q: %w", e.Name, err)
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entries into %s\n", len(entries), store.Path())
			return nil
		},
	}
}

func newDensityExportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write the active catalog as TOML",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := ctx.resolver(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			return density.EncodeCatalog(cmd.OutOrStdout(), table.Entries())
		},
	}
}
