package main

import (
	"context"
	"fmt"
	"os"

	"SectorPulse/internal/di"
	"SectorPulse/pkg/config"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		noPreload  bool
	)

	cmd := &cobra.Command{
		Use:           "sectorpulse",
		Short:         "Serve the US job postings by sector volatility dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			if noPreload {
				cfg.Source.Preload = false
			}

			// Wire DI: Initialize all dependencies
			app, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}

			// Run application (blocks until signal)
			return app.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "config/config.yaml", "config file path; empty uses built-in defaults")
	cmd.Flags().BoolVar(&noPreload, "no-preload", false, "fetch the dataset on first request instead of at startup")
	return cmd
}
