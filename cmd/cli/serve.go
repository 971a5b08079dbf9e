package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gonomo/internal/config"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.container(func(cfg *config.Config) {
				if port != "" {
					cfg.Server.Port = port
				}
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := c.UI(ctx)
			if err != nil {
				return err
			}
			return a.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default PORT)")

	return cmd
}
