package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Xunop/e-shelf/internal/config"
	"github.com/Xunop/e-shelf/internal/server"
	"github.com/Xunop/e-shelf/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog as a JSON API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return withStore(func(s *store.Store) error {
			if err := s.Ping(); err != nil {
				return err
			}
			fmt.Fprint(cmd.ErrOrStderr(), greetingBanner)
			return server.StartServer(ctx, s, config.Opts)
		})
	},
}

func init() {
	serveCmd.Flags().String("host", "", "address to listen on")
	serveCmd.Flags().Int("port", 0, "port to listen on")
}
