package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"go-rdpaudit/database"
	"go-rdpaudit/server"
	"os"
	"os/signal"
	"syscall"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs and their successes as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if appCfg.DB == "" {
				return fmt.Errorf("a run ledger is required (--db)")
			}

			db, err := database.New(appCfg.DB)
			if err != nil {
				return fmt.Errorf("couldn't open database: %w", err)
			}
			defer db.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Start(ctx, db, appCfg.Listen)
		},
	}

	flags := cmd.Flags()
	flags.String("listen", ":8080", "listen address")
	flags.String("db", "rdpaudit.db", "SQLite run ledger")

	return cmd
}
