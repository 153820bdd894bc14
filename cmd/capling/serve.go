package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/capling-app/capling/internal/api"
	"github.com/capling-app/capling/internal/config"
	"github.com/capling-app/capling/internal/insights"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Start the HTTP server exposing transaction processing, justification,
and insights endpoints. The server runs until interrupted.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", "", "listen address (default from config, :8080)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := slog.Default()

	processor, store, err := initProcessor(ctx, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	insightsSvc := insights.NewService(store, config.ScoringConfig(), config.EngineConfig().WeeklyBudget, logger)
	server := api.NewServer(processor, insightsSvc, logger)

	addr, _ := cmd.Flags().GetString("address")
	if addr == "" {
		addr = config.ServerAddress()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	}
}
