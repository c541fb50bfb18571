package main

import (
	"fmt"
	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go-rdpaudit/database"
	"go-rdpaudit/executor"
	"go-rdpaudit/runner"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Try every combination of the target, user and password lists",
		Example: `  # Defaults: ip.txt, users.txt, passwords.txt -> good.txt
  rdpaudit run

  # Custom lists, fewer workers and a longer pause between attempts
  rdpaudit run --targets hosts.txt --users users.txt --passwords top100.txt --workers 10 --delay 1s

  # Extra FreeRDP flags
  rdpaudit run --extra-arg /cert:ignore --extra-arg /tls-seclevel:0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := appCfg
			ex := executor.New(cfg.Executor())
			if _, err := exec.LookPath(ex.Binary()); err != nil {
				logrus.Warnf("Client %s not found in PATH, every attempt will fail: %v", ex.Binary(), err)
			}

			var db *database.DB
			if cfg.DB != "" {
				var err error
				db, err = database.New(cfg.DB)
				if err != nil {
					logrus.Errorf("Run ledger disabled, couldn't open %s: %v", cfg.DB, err)
					db = nil
				} else {
					defer db.Close()
				}
			}

			pterm.Info.Printfln("Client %s | domain %s | timeout %v | %d workers | batch %d | delay %v",
				ex.Binary(), ex.Domain(), cfg.Timeout, cfg.Workers, cfg.BatchSize, cfg.Delay)

			report, err := runner.NewManager(cfg, ex, db).Run(ctx)
			if err != nil {
				return fmt.Errorf("couldn't start run: %w", err)
			}
			return report.Err()
		},
	}

	flags := cmd.Flags()
	flags.StringP("targets", "t", "ip.txt", "file of targets, one IP or IP:port per line")
	flags.StringP("users", "u", "users.txt", "file of usernames, one per line")
	flags.StringP("passwords", "p", "passwords.txt", "file of passwords, one per line")
	flags.StringP("output", "o", "good.txt", "file working combinations are appended to")
	flags.Duration("timeout", executor.DefaultTimeout, "deadline of a single attempt")
	flags.IntP("workers", "w", 30, "number of concurrent attempts")
	flags.Int("batch-size", 1000, "combinations dispatched per batch")
	flags.Duration("delay", executor.DefaultDelay, "pause before each attempt")
	flags.StringP("domain", "d", ".", "domain passed to the client")
	flags.String("binary", executor.DefaultBinary, "FreeRDP client binary")
	flags.StringArray("extra-arg", nil, "additional client argument (repeatable)")
	flags.String("db", "rdpaudit.db", "SQLite run ledger, empty to disable")
	flags.Bool("precheck", false, "skip targets whose port refuses TCP connections")
	flags.Duration("precheck-timeout", 3*time.Second, "dial timeout of the reachability check")

	return cmd
}
