package cmd

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Audit balances against the transaction log",
	Long: `Recompute each account's net transaction amount and compare it to
the stored balance. Accounts that only exist in the log (liquidated rows)
must net to zero.

Example:
  finance check`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// balanceTolerance absorbs float rounding accumulated over REAL columns.
const balanceTolerance = 1e-6

func runCheck(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	accounts, err := s.ReadAccounts()
	if err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}

	live := make(map[int64]bool, len(accounts))
	mismatches := 0

	for _, a := range accounts {
		live[a.AccountID] = true
		sum, err := s.SumTransactions(a.AccountID)
		if err != nil {
			return fmt.Errorf("sum transactions of account %d: %w", a.AccountID, err)
		}
		if math.Abs(sum-a.Balance) > balanceTolerance {
			fmt.Printf("✗ account %d (%s): balance %.2f but transactions sum to %.2f\n",
				a.AccountID, a.Name, a.Balance, sum)
			mismatches++
		} else {
			fmt.Printf("✓ account %d (%s): %.2f\n", a.AccountID, a.Name, a.Balance)
		}
	}

	// Liquidated accounts only appear in the log.
	recs, err := s.ListAllTransactions()
	if err != nil {
		return fmt.Errorf("query transactions: %w", err)
	}
	gone := map[int64]float64{}
	for _, rec := range recs {
		if !live[rec.AccountID] {
			gone[rec.AccountID] += rec.Amount
		}
	}
	for accountID, sum := range gone {
		if math.Abs(sum) > balanceTolerance {
			fmt.Printf("✗ liquidated account %d: transactions net to %.2f, want 0\n", accountID, sum)
			mismatches++
		} else {
			fmt.Printf("✓ liquidated account %d nets to zero\n", accountID)
		}
	}

	if mismatches > 0 {
		return fmt.Errorf("%d account(s) out of balance", mismatches)
	}
	return nil
}
