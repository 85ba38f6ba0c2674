package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vzahorui/my-finance-explorer/ledger"
	"github.com/vzahorui/my-finance-explorer/recon"
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post a batch of transactions from a YAML file",
	Long: `Post manually entered transactions against existing accounts.

The file holds a YAML list of rows:

  - account_id: 1
    date: 2024-01-01
    amount: -30
    description: Groceries

Rows referencing an unknown account are skipped with a warning; the rest of
the batch still applies.

Example:
  finance post --file entries.yaml`,
	Args: cobra.NoArgs,
	RunE: runPost,
}

var postFile string

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVarP(&postFile, "file", "f", "", "YAML file with transaction rows (required)")
	postCmd.MarkFlagRequired("file")
}

// postRow is the YAML shape of one entered transaction.
type postRow struct {
	AccountID   int64   `yaml:"account_id"`
	Date        string  `yaml:"date"`
	Amount      float64 `yaml:"amount"`
	Description string  `yaml:"description"`
}

func runPost(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(postFile)
	if err != nil {
		return fmt.Errorf("read batch file: %w", err)
	}

	var fileRows []postRow
	if err := yaml.Unmarshal(data, &fileRows); err != nil {
		return fmt.Errorf("parse batch file: %w", err)
	}

	rows := make([]recon.EntryRow, 0, len(fileRows))
	for i, r := range fileRows {
		d, err := time.Parse(ledger.DateFormat, r.Date)
		if err != nil {
			return fmt.Errorf("row %d: parse date %q: %w", i, r.Date, err)
		}
		rows = append(rows, recon.EntryRow{
			AccountID:   r.AccountID,
			Date:        d,
			Amount:      r.Amount,
			Description: r.Description,
		})
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	snapshot, err := s.ReadAccounts()
	if err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}

	engine := recon.New(s, newLogger(cfg))
	res, err := engine.ApplyTransactions(rows, snapshot)
	if err != nil {
		return fmt.Errorf("post transactions: %w", err)
	}

	fmt.Printf("✓ Posted %d of %d transactions\n", res.Posted, len(rows))
	for _, w := range res.Skipped {
		fmt.Printf("  ! skipped: %s\n", w.Message)
	}
	return nil
}
