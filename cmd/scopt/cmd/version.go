package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/born-ml/scopt/internal/optim"
)

const version = "v0.1.0-dev"

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "scopt %s (%s, %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
			fmt.Fprintf(cmd.OutOrStdout(), "optimizers: %v\n", optim.Names())
		},
	}
}
