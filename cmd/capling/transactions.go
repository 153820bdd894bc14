package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/capling-app/capling/internal/cli"
	"github.com/capling-app/capling/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "List recent transactions",
		RunE:  runTransactions,
	}

	cmd.Flags().String("user", "local", "user ID to list for")
	cmd.Flags().Int("limit", 10, "maximum number of transactions")

	cmd.AddCommand(justifyCmd())

	return cmd
}

func runTransactions(cmd *cobra.Command, _ []string) error {
	userID, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")

	ctx := cmd.Context()
	processor, store, err := initProcessor(ctx, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	transactions, err := processor.List(ctx, userID, limit)
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No transactions recorded yet."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Recent transactions"))
	for i := range transactions {
		txn := &transactions[i]
		line := fmt.Sprintf("  %s  %-30s %10s  %s",
			txn.Timestamp.Format("2006-01-02"),
			txn.Merchant,
			cli.FormatAmount(txn.Amount, txn.Type),
			cli.FormatClassification(txn.FinalClassification))
		if txn.JustificationStatus == model.JustificationPending {
			line += "  " + cli.WarningStyle.Render("(pending justification)")
		}
		fmt.Println(line)
	}

	return nil
}

func justifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "justify <transaction-id> <justification>",
		Short: "Justify a flagged transaction",
		Long: `Explain why a flagged purchase was reasonable. An accepted
justification upgrades the purchase to responsible.`,
		Args: cobra.ExactArgs(2),
		RunE: runJustify,
	}

	return cmd
}

func runJustify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	processor, store, err := initProcessor(ctx, slog.Default())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := processor.Justify(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	if result.Accepted {
		fmt.Println(cli.FormatSuccess("Justification accepted"))
	} else {
		fmt.Println(cli.FormatError("Justification rejected"))
	}
	fmt.Printf("  %s\n", cli.SubtleStyle.Render(result.Reasoning))
	fmt.Printf("  Final classification: %s\n", cli.FormatClassification(result.Transaction.FinalClassification))

	return nil
}
