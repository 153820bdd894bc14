package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/capling-app/capling/internal/cli"
	"github.com/capling-app/capling/internal/config"
	"github.com/capling-app/capling/internal/insights"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show mood, badges, and level progression",
		RunE:  runInsights,
	}

	cmd.Flags().String("user", "local", "user ID to report on")

	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	svc := insights.NewService(store, config.ScoringConfig(), config.EngineConfig().WeeklyBudget, slog.Default())
	report, err := svc.Report(ctx, userID)
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  Mood: %s (score %d)\n",
		cli.MoodEmoji(report.Mood.Mood), report.Mood.Mood, report.Mood.Score)
	fmt.Fprintf(&b, "Balance: $%.2f\n", report.Balance)
	fmt.Fprintf(&b, "Weekly spending: $%.2f of $%.2f\n", report.WeeklySpending, report.WeeklyBudget)
	fmt.Fprintf(&b, "Level %d - %s (%d/%d XP)\n",
		report.Level.Level, report.LevelTitle, report.Level.XP, report.Level.XPForNextLevel)

	b.WriteString("\nBadges:\n")
	for _, badge := range report.Badges {
		marker := cli.SubtleStyle.Render("○")
		title := cli.SubtleStyle.Render(badge.Title)
		if badge.Earned {
			marker = cli.SuccessStyle.Render("●")
			title = badge.Emoji + " " + badge.Title
		}
		fmt.Fprintf(&b, "  %s %s - %s\n", marker, title, badge.Description)
	}

	fmt.Println(cli.RenderBox("Capling insights", strings.TrimRight(b.String(), "\n")))
	return nil
}
