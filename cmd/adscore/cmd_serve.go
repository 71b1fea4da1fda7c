package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"adscore-bot/config"
	"adscore-bot/internal/api/rest"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API with Prometheus metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.build(cmd, func(cfg *config.Config) {
				if addr != "" {
					cfg.HTTPAddr = addr
				}
				addr = cfg.HTTPAddr
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return rest.NewServer(c.CreativeService, c.Metrics.Handler(), c.Log).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR)")
	return cmd
}
