package main

import (
	"os/signal"
	"syscall"

	"geolist/internal/serve"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the listing pages and the JSON feed API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s, err := serve.New(cfg, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.ListenAndServe(ctx)
}
