package main

import (
	"fmt"
	"github.com/spf13/cobra"
	"go-rdpaudit/executor"
	"runtime"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skip-config": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rdpaudit %s (%s/%s, client %s)\n",
				version, runtime.GOOS, runtime.GOARCH, executor.DefaultBinary)
		},
	}
}
