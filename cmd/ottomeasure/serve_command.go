package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/ottomeasure/internal/api"
	"github.com/hammamikhairi/ottomeasure/internal/ingredient"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion API over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			eng, err := ctx.engine(signalCtx, cmd)
			if err != nil {
				return err
			}
			if strings.TrimSpace(bind) == "" {
				bind = ctx.config.Server.Bind
			}

			log := ctx.logger(cmd)
			srv := api.NewServer(eng, ingredient.NewLineParser(log), log)
			return srv.ListenAndServe(signalCtx, bind)
		},
	}
	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (default from config)")
	return cmd
}
