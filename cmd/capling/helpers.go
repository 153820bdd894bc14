package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/capling-app/capling/internal/config"
	"github.com/capling-app/capling/internal/engine"
	"github.com/capling-app/capling/internal/llm"
	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
	"github.com/capling-app/capling/internal/storage"
)

// initStorage opens the configured database and runs pending migrations.
func initStorage(ctx context.Context) (service.LedgerStore, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath(), config.EngineConfig().StartingBalance)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// errReasonerDisabled makes every classification fall back to the neutral
// verdict.
var errReasonerDisabled = errors.New("reasoner disabled")

// disabledReasoner stands in when no API key is configured or --no-llm is
// set. Every call fails, which routes processing through the deterministic
// fallback verdict.
type disabledReasoner struct{}

func (disabledReasoner) AnalyzeTransaction(_ context.Context, _ service.AnalyzeRequest) (model.Analysis, error) {
	return model.Analysis{}, errReasonerDisabled
}

func (disabledReasoner) EvaluateJustification(_ context.Context, _ service.JustificationRequest) (service.JustificationVerdict, error) {
	return service.JustificationVerdict{}, errReasonerDisabled
}

// initReasoner builds the configured LLM reasoner, or the disabled stand-in
// when no API key is present.
func initReasoner(logger *slog.Logger) (service.Reasoner, error) {
	cfg := config.LLMConfig()
	if cfg.APIKey == "" {
		logger.Warn("no LLM API key configured, classifications will use the fallback verdict")
		return disabledReasoner{}, nil
	}

	return llm.New(llm.Config{
		Provider:    cfg.Provider,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.Timeout,
	}, logger)
}

// initProcessor wires the full processing engine from configuration.
func initProcessor(ctx context.Context, logger *slog.Logger) (*engine.Processor, service.LedgerStore, error) {
	store, err := initStorage(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	reasoner, err := initReasoner(logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to initialize reasoner: %w", err)
	}

	engineCfg := config.EngineConfig()
	processor := engine.NewWithConfig(store, reasoner, logger, engine.Config{
		MinAmount: engineCfg.MinAmount,
		MaxAmount: engineCfg.MaxAmount,
	})

	return processor, store, nil
}
