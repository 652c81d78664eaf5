package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gallery/internal/serve"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build, serve and live-reload the site while sources change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
				a.cfg.Serve.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s, err := serve.New(a.cfg, a.log)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.ListenAndServe(ctx, a.cfg.Serve.Addr)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default from config)")
	return cmd
}
