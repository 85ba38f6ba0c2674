package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vzahorui/my-finance-explorer/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history [account-id]",
	Short: "Show the transaction log",
	Long: `Show the append-only transaction log, oldest first. With an
account id, only that account's entries are shown — including entries for
accounts that were since liquidated.

Examples:
  finance history
  finance history 1`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	var recs []ledger.Transaction
	if len(args) == 1 {
		accountID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("parse account id %q: %w", args[0], err)
		}
		recs, err = s.ListTransactions(accountID)
		if err != nil {
			return fmt.Errorf("query transactions: %w", err)
		}
	} else {
		recs, err = s.ListAllTransactions()
		if err != nil {
			return fmt.Errorf("query transactions: %w", err)
		}
	}

	if len(recs) == 0 {
		fmt.Println("No transactions recorded.")
		return nil
	}

	fmt.Printf("%-12s %-10s %12s  %s\n", "Date", "Account", "Amount", "Description")
	for _, rec := range recs {
		fmt.Printf("%-12s %-10d %12.2f  %s\n",
			rec.Date.Format(ledger.DateFormat), rec.AccountID, rec.Amount, rec.Description)
	}
	return nil
}
