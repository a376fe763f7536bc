package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomeasure/internal/display"
)

// newRootCommand builds the command tree. The returned context owns the
// resources commands open; release them with execute or close.
func newRootCommand() (*cobra.Command, *commandContext) {
	var (
		configFlag string
		envFlag    string
		systemFlag string
		verbose    bool
		quiet      bool
	)

	ctx := newCommandContext(&configFlag, &envFlag, &systemFlag, &verbose, &quiet)

	rootCmd := &cobra.Command{
		Use:           "ottomeasure",
		Short:         "Convert and display recipe measurements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := ctx.target()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), display.Banner(0, target, ctx.config.Density.Source))
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.StringVar(&envFlag, "env-file", "", "Environment file to load (default .env)")
	flags.StringVarP(&systemFlag, "system", "s", "", "Display system: metric, imperial or original")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Disable logging")

	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newFormatCommand(ctx))
	rootCmd.AddCommand(newUnitsCommand())
	rootCmd.AddCommand(newRecipesCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newShopCommand(ctx))
	rootCmd.AddCommand(newDensityCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd, ctx
}

// execute runs cmd and closes whatever the commands opened, on failure as
// well as on success.
func execute(cmd *cobra.Command, ctx *commandContext) error {
	defer ctx.close()
	return cmd.Execute()
}
