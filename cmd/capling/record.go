package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/capling-app/capling/internal/cli"
	"github.com/capling-app/capling/internal/engine"
	"github.com/capling-app/capling/internal/model"
)

func recordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <merchant> <amount>",
		Short: "Record a transaction",
		Long: `Record a single transaction and print its verdict.

A positive amount is a spend, a negative amount a deposit:

  capling record "Corner Grocery" 23.50 --category food
  capling record "Paycheck" -- -500 --category income`,
		Args: cobra.ExactArgs(2),
		RunE: runRecord,
	}

	cmd.Flags().String("user", "local", "user ID to record against")
	cmd.Flags().String("account", "", "account ID (default account if empty)")
	cmd.Flags().String("category", "shopping", "transaction category")
	cmd.Flags().String("description", "", "optional description")

	return cmd
}

func runRecord(cmd *cobra.Command, args []string) error {
	merchant := args[0]
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[1], err)
	}

	userID, _ := cmd.Flags().GetString("user")
	accountID, _ := cmd.Flags().GetString("account")
	category, _ := cmd.Flags().GetString("category")
	description, _ := cmd.Flags().GetString("description")

	ctx := cmd.Context()
	processor, store, err := initProcessor(ctx, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	resp, err := processor.Process(ctx, engine.Request{
		UserID:      userID,
		AccountID:   accountID,
		Merchant:    merchant,
		Amount:      amount,
		Category:    model.Category(category),
		Description: description,
	})
	if err != nil {
		return err
	}

	txn := resp.Transaction
	fmt.Println(cli.FormatTitle("Transaction recorded"))
	fmt.Printf("  %s  %s  %s\n",
		txn.Merchant,
		cli.FormatAmount(txn.Amount, txn.Type),
		cli.FormatClassification(resp.Analysis.Classification))
	fmt.Printf("  %s\n", cli.SubtleStyle.Render(resp.Analysis.Reflection))
	fmt.Printf("  New balance: %s\n", cli.BoldStyle.Render(fmt.Sprintf("$%.2f", resp.NewBalance)))

	if txn.JustificationStatus == model.JustificationPending {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("This purchase needs a justification (transaction %s)", txn.ID)))
	}
	if resp.ShouldShowGoalAllocation {
		fmt.Println(cli.FormatWarning("Consider redirecting part of this amount to a savings goal"))
	}

	return nil
}
