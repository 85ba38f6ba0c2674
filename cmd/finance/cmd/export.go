package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export both tables as CSV",
	Long: `Write the accounts and transactions tables to CSV files.

Example:
  finance export --accounts accounts.csv --transactions transactions.csv`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var (
	exportAccountsPath     string
	exportTransactionsPath string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportAccountsPath, "accounts", "accounts.csv", "output path for the accounts table")
	exportCmd.Flags().StringVar(&exportTransactionsPath, "transactions", "transactions.csv", "output path for the transactions table")
}

func runExport(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.ExportCSV(exportAccountsPath, exportTransactionsPath); err != nil {
		return fmt.Errorf("export: %w", err)
	}

	fmt.Printf("✓ Wrote %s and %s\n", exportAccountsPath, exportTransactionsPath)
	return nil
}
