package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of todo",
	Args:  cobra.NoArgs,
	// Skips config loading so a broken config file cannot hide the version.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {},
	Run:              runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "todo version %s\n", Version)
	fmt.Fprintf(cmd.OutOrStdout(), "  Go version: %s\n", runtime.Version())
	fmt.Fprintf(cmd.OutOrStdout(), "  OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}
