package insights

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/model"
	"github.com/capling-app/capling/internal/service"
)

// reportWindowLimit bounds how much history one report considers.
const reportWindowLimit = 500

// Report is the full behavioral snapshot returned to callers.
type Report struct {
	Mood           model.MoodResult `json:"mood"`
	Level          model.LevelInfo  `json:"level"`
	LevelTitle     string           `json:"levelTitle"`
	Badges         []model.Badge    `json:"badges"`
	Balance        float64          `json:"balance"`
	WeeklySpending float64          `json:"weeklySpending"`
	WeeklyBudget   float64          `json:"weeklyBudget"`
}

// Service assembles behavioral reports from ledger history.
type Service struct {
	store        service.LedgerStore
	scorer       *MoodScorer
	logger       *slog.Logger
	cfg          ScoringConfig
	weeklyBudget float64
}

// NewService creates an insights service.
func NewService(store service.LedgerStore, cfg ScoringConfig, weeklyBudget float64, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:        store,
		scorer:       NewMoodScorer(cfg),
		logger:       logger,
		cfg:          cfg,
		weeklyBudget: weeklyBudget,
	}
}

// Report computes the mood, badge, and level snapshot for a user from their
// recent ledger history.
func (s *Service) Report(ctx context.Context, userID string) (*Report, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, common.NewAuthenticationError("valid user ID is required")
	}

	account, err := s.store.GetOrCreateAccount(ctx, userID, "")
	if err != nil {
		return nil, common.NewDatabaseError("failed to resolve account", err)
	}

	transactions, err := s.store.ListTransactions(ctx, userID, reportWindowLimit)
	if err != nil {
		return nil, common.NewDatabaseError("failed to fetch transactions", err)
	}

	stats := BuildStats(transactions, account.Balance, s.weeklyBudget, time.Now().UTC(), s.cfg)
	mood := s.scorer.Score(stats)

	// XP is derived from history rather than stored: each responsible
	// purchase grants its standard reward.
	totalXP := stats.ResponsibleCount * XPForEvent(model.XPResponsiblePurchase)
	level := LevelFromXP(totalXP)

	s.logger.Debug("insights report computed",
		"user_id", userID,
		"mood", mood.Mood,
		"score", mood.Score,
		"level", level.Level)

	return &Report{
		Mood:           mood,
		Badges:         EvaluateBadges(stats),
		Level:          level,
		LevelTitle:     LevelTitle(level.Level),
		Balance:        account.Balance,
		WeeklySpending: stats.WeeklySpending,
		WeeklyBudget:   s.weeklyBudget,
	}, nil
}
