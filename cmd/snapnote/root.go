package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/snapnote/internal/config"
	logpkg "github.com/kailas-cloud/snapnote/internal/logger"
	"github.com/kailas-cloud/snapnote/internal/version"
)

// NewRootCmd creates the root command for snapnote.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapnote",
		Short: "OCR an image, summarize it and save it to Notion",
		Long: `snapnote extracts text from an image, condenses it with an LLM and
stores the result as a page in a Notion database.

Configuration is read from config/<env>.yaml (or $XDG_CONFIG_HOME/snapnote/<env>.yaml).
Credentials come from the environment or a .env file.`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("env", "e", config.GetEnv(), "Configuration environment (local, dev, prod)")
	cmd.PersistentFlags().String("dotenv", ".env", "Path of the .env file loaded at startup")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewProcessCmd())
	cmd.AddCommand(NewNotionCheckCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runtimeEnv is what every command needs before it can build the app.
type runtimeEnv struct {
	env    string
	cfg    config.Config
	logger *zap.Logger
}

// loadRuntime loads .env, the configuration file and the logger.
func loadRuntime(cmd *cobra.Command) (*runtimeEnv, error) {
	env, err := cmd.Flags().GetString("env")
	if err != nil {
		return nil, fmt.Errorf("read env flag: %w", err)
	}
	dotenv, err := cmd.Flags().GetString("dotenv")
	if err != nil {
		return nil, fmt.Errorf("read dotenv flag: %w", err)
	}

	if err := config.LoadDotEnv(dotenv); err != nil {
		return nil, err
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level, version.String())
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &runtimeEnv{env: env, cfg: cfg, logger: logger}, nil
}
