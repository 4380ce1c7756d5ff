package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edgard/bridgebot/internal/config"
)

type rootOptions struct {
	configPath string
	envFile    string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "bridgebot",
		Short:         "Relay a Telegram chat into Bale and forward reports to the creator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "./config.yaml", "Path to the YAML configuration file (optional).")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file loaded before reading the environment (optional).")

	cmd.AddCommand(newValidateCmd(opts))
	cmd.SetContext(context.Background())
	return cmd
}

func newValidateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration, then exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration OK: relaying Telegram chat %d to Bale chat %d\n",
				cfg.Telegram.SourceChatID, cfg.Bale.DestinationChatID)
			return nil
		},
	}
}

// load reads .env and the configuration. Failures are logged before any
// listener starts.
func (o *rootOptions) load() (*config.Config, error) {
	if err := config.LoadDotEnv(o.envFile); err != nil {
		slog.Error("Failed to load env file", "path", o.envFile, "error", err)
		return nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfiguration) {
			slog.Error("Invalid configuration", "path", o.configPath, "error", err)
		}
		return nil, err
	}
	return cfg, nil
}

// fail logs err and returns it so RunE yields a non-zero exit.
func fail(log *slog.Logger, msg string, err error, args ...any) error {
	log.Error(msg, append(args, "error", err)...)
	return fmt.Errorf("%s: %w", msg, err)
}
