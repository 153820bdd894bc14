package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/capling-app/capling/internal/cli"
	"github.com/capling-app/capling/internal/common"
	"github.com/capling-app/capling/internal/config"
	"github.com/capling-app/capling/internal/engine"
	"github.com/capling-app/capling/internal/ofx"
	"github.com/capling-app/capling/internal/service"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx <file>",
		Short: "Import transactions from an OFX/QFX bank export",
		Long: `Parse an OFX/QFX statement file and run every line through the
processing engine: deposits credit the account, spends are classified and
debited.`,
		Args: cobra.ExactArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("user", "local", "user ID to import for")
	cmd.Flags().String("account", "", "account ID (default account if empty)")
	cmd.Flags().Bool("dry-run", false, "parse and report without writing anything")
	cmd.Flags().Bool("no-llm", false, "skip classification, every spend gets the fallback verdict")

	return cmd
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	userID, _ := cmd.Flags().GetString("user")
	accountID, _ := cmd.Flags().GetString("account")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noLLM, _ := cmd.Flags().GetBool("no-llm")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open OFX file: %w", err)
	}
	defer func() { _ = file.Close() }()

	entries, err := ofx.NewParser().Parse(file)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(cli.FormatWarning("No transactions found in file"))
		return nil
	}

	if dryRun {
		fmt.Println(cli.FormatTitle(fmt.Sprintf("Dry run: %d transactions parsed", len(entries))))
		for _, entry := range entries {
			txnType := "spend"
			if entry.Amount < 0 {
				txnType = "deposit"
			}
			fmt.Printf("  %s  %-30s $%9.2f  %s (%s)\n",
				entry.Timestamp.Format("2006-01-02"), entry.Merchant, entry.Amount, txnType, entry.Category)
		}
		return nil
	}

	ctx := cmd.Context()
	logger := slog.Default()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reasoner, err := initReasoner(logger)
	if err != nil {
		return err
	}
	if noLLM {
		reasoner = disabledReasoner{}
	}

	engineCfg := config.EngineConfig()
	processor := engine.NewWithConfig(store, reasoner, logger, engine.Config{
		MinAmount: engineCfg.MinAmount,
		MaxAmount: engineCfg.MaxAmount,
	})

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Importing transactions...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)

	retryOpts := service.RetryOptions{MaxAttempts: 3, Delay: 500 * time.Millisecond}

	var imported, skipped int
	for _, entry := range entries {
		req := engine.Request{
			UserID:      userID,
			AccountID:   accountID,
			Merchant:    entry.Merchant,
			Amount:      entry.Amount,
			Category:    entry.Category,
			Description: entry.Memo,
			Timestamp:   entry.Timestamp,
		}
		procErr := common.WithRetry(ctx, func() error {
			_, err := processor.Process(ctx, req)
			return err
		}, retryOpts)
		if procErr != nil {
			skipped++
			logger.Warn("skipped transaction",
				"merchant", entry.Merchant,
				"amount", entry.Amount,
				"error", procErr)
		} else {
			imported++
		}
		_ = bar.Add(1)
	}

	summary := fmt.Sprintf("Imported: %d\nSkipped: %d", imported, skipped)
	fmt.Println(cli.RenderBox("Import complete", summary))

	return nil
}
