package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/snapnote/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of snapnote.`,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "snapnote version %s\n", version.String())
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", version.ShortCommit())
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", version.BuildDate())
		},
	}
}
