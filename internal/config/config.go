// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/capling-app/capling/internal/insights"
)

// SetDefaults registers every configuration default with viper. Call once at
// startup, before any accessor.
func SetDefaults() {
	viper.SetDefault("database.path", "~/.local/share/capling/capling.db")

	viper.SetDefault("server.address", ":8080")

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.temperature", 0.1)
	viper.SetDefault("llm.max_tokens", 200)
	viper.SetDefault("llm.timeout", "10s")

	viper.SetDefault("engine.starting_balance", 1000.0)
	viper.SetDefault("engine.weekly_budget", 500.0)
	viper.SetDefault("engine.min_amount", 0.01)
	viper.SetDefault("engine.max_amount", 10000.0)
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}

// DatabasePath returns the resolved SQLite database path.
func DatabasePath() string {
	return ExpandPath(viper.GetString("database.path"))
}

// ServerAddress returns the listen address for the HTTP API.
func ServerAddress() string {
	return viper.GetString("server.address")
}

// LLM holds reasoner client settings.
type LLM struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// LLMConfig reads the reasoner settings. The API key comes from
// CAPLING_LLM_API_KEY or the config file.
func LLMConfig() LLM {
	timeout := viper.GetDuration("llm.timeout")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return LLM{
		Provider:    viper.GetString("llm.provider"),
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
		Timeout:     timeout,
	}
}

// Engine holds transaction-processing settings.
type Engine struct {
	StartingBalance float64
	WeeklyBudget    float64
	MinAmount       float64
	MaxAmount       float64
}

// EngineConfig reads the processor settings.
func EngineConfig() Engine {
	return Engine{
		StartingBalance: viper.GetFloat64("engine.starting_balance"),
		WeeklyBudget:    viper.GetFloat64("engine.weekly_budget"),
		MinAmount:       viper.GetFloat64("engine.min_amount"),
		MaxAmount:       viper.GetFloat64("engine.max_amount"),
	}
}

// ScoringConfig reads the mood-scoring tunables, falling back to the standard
// thresholds where the config file is silent.
func ScoringConfig() insights.ScoringConfig {
	cfg := insights.DefaultScoringConfig()

	if viper.IsSet("scoring.happy_threshold") {
		cfg.HappyThreshold = viper.GetInt("scoring.happy_threshold")
	}
	if viper.IsSet("scoring.neutral_threshold") {
		cfg.NeutralThreshold = viper.GetInt("scoring.neutral_threshold")
	}
	if viper.IsSet("scoring.worried_threshold") {
		cfg.WorriedThreshold = viper.GetInt("scoring.worried_threshold")
	}
	if viper.IsSet("scoring.large_transaction_amount") {
		cfg.LargeTransactionAmount = viper.GetFloat64("scoring.large_transaction_amount")
	}
	return cfg
}
