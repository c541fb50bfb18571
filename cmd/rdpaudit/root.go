package main

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go-rdpaudit/config"
	"go-rdpaudit/logger"
	"io"
	"os"
)

var (
	cfgFile string
	v       = viper.New()
	appCfg  config.Config
	logFile io.Closer
)

// flagKeys maps CLI flag names to configuration keys.
var flagKeys = map[string]string{
	"targets":          "targets",
	"users":            "users",
	"passwords":        "passwords",
	"output":           "output",
	"timeout":          "timeout",
	"workers":          "workers",
	"batch-size":       "batch_size",
	"delay":            "delay",
	"domain":           "domain",
	"binary":           "binary",
	"extra-arg":        "extra_args",
	"db":               "db",
	"listen":           "listen",
	"precheck":         "precheck.enabled",
	"precheck-timeout": "precheck.timeout",
	"log-level":        "log.level",
	"log-file":         "log.file",
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rdpaudit",
		Short: "Audit RDP credentials with the FreeRDP client",
		Long: `rdpaudit tries every (target, username, password) combination from three
list files against RDP hosts you are authorized to test, using the FreeRDP
client in +auth-only mode, and appends working combinations to an output file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skip-config"] == "true" {
				return nil
			}
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logFile != nil {
				_ = logFile.Close()
			}
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml or ./configs/config.yaml)")
	flags.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "also write logs to this rotated file")

	cmd.AddCommand(newRunCmd(), newServeCmd(), newVersionCmd())
	return cmd
}

// setup binds the executing command's flags, loads the configuration and
// configures logging.
func setup(cmd *cobra.Command) error {
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	appCfg = cfg

	closer, err := logger.Setup(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return err
	}
	logFile = closer
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
