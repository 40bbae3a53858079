package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNotionCheckCmd creates the notion-check command.
func NewNotionCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notion-check",
		Short: "List the Notion database properties",
		Long: `Connect to the configured Notion database with the current credentials
and print its property names, one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = rt.logger.Sync() }()

			a, err := buildApp(rt.cfg, rt.logger)
			if err != nil {
				return err
			}

			names, err := a.pipeline.CheckConnection(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
