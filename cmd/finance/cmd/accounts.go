package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vzahorui/my-finance-explorer/ledger"
	"github.com/vzahorui/my-finance-explorer/recon"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List and change ledger accounts",
	Long: `List accounts, or change them through the reconciliation engine so
every balance change leaves a compensating entry in the transaction log.

Subcommands:
  add  - Add a new account (writes an "Initializing" transaction)
  edit - Edit fields of an account row (balance edits write an "Adjustment")
  rm   - Remove an account row (writes an "Account liquidation")

Examples:
  finance accounts
  finance accounts add --id 1 --name "Savings" --balance 100
  finance accounts edit --row 0 --set balance=150
  finance accounts rm --row 0`,
	Args: cobra.NoArgs,
	RunE: runAccountsList,
}

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new account",
	Args:  cobra.NoArgs,
	RunE:  runAccountsAdd,
}

var accountsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit fields of an account row",
	Long: `Apply a partial update to the account at the given row position of
the current listing. Values are given as column=value pairs; columns must be
one of name, currency, type, balance, yield_percent, yield_period,
is_taxable, expiration_date.

Example:
  finance accounts edit --row 0 --set balance=150 --set name="Main savings"`,
	Args: cobra.NoArgs,
	RunE: runAccountsEdit,
}

var accountsRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove an account row",
	Args:  cobra.NoArgs,
	RunE:  runAccountsRm,
}

var (
	addID           int64
	addName         string
	addCurrency     string
	addType         string
	addBalance      float64
	addYieldPercent float64
	addYieldPeriod  string
	addTaxable      bool
	addExpires      string

	editRow  int
	editSets []string

	rmRow int
)

func init() {
	rootCmd.AddCommand(accountsCmd)
	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsEditCmd)
	accountsCmd.AddCommand(accountsRmCmd)

	accountsAddCmd.Flags().Int64Var(&addID, "id", 0, "account id (required)")
	accountsAddCmd.Flags().StringVar(&addName, "name", "", "account name (required)")
	accountsAddCmd.Flags().StringVar(&addCurrency, "currency", "", "currency (defaults to config)")
	accountsAddCmd.Flags().StringVar(&addType, "type", "", `classification, e.g. "deposit", "obligation", "current account"`)
	accountsAddCmd.Flags().Float64Var(&addBalance, "balance", 0, "starting balance")
	accountsAddCmd.Flags().Float64Var(&addYieldPercent, "yield-percent", 0, "yield percent")
	accountsAddCmd.Flags().StringVar(&addYieldPeriod, "yield-period", "", "period in which the yield capitalizes")
	accountsAddCmd.Flags().BoolVar(&addTaxable, "taxable", false, "whether the yield is taxable")
	accountsAddCmd.Flags().StringVar(&addExpires, "expires", "", "expiration date (YYYY-MM-DD)")
	accountsAddCmd.MarkFlagRequired("id")
	accountsAddCmd.MarkFlagRequired("name")

	accountsEditCmd.Flags().IntVar(&editRow, "row", -1, "row position in the account listing (required)")
	accountsEditCmd.Flags().StringArrayVar(&editSets, "set", nil, "column=value pair, repeatable (required)")
	accountsEditCmd.MarkFlagRequired("row")
	accountsEditCmd.MarkFlagRequired("set")

	accountsRmCmd.Flags().IntVar(&rmRow, "row", -1, "row position in the account listing (required)")
	accountsRmCmd.MarkFlagRequired("row")
}

func runAccountsList(cmd *cobra.Command, args []string) error {
	s, _, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	accounts, err := s.ReadAccounts()
	if err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Println("No accounts yet. Add one with: finance accounts add")
		return nil
	}

	fmt.Printf("%-4s %-10s %-24s %-8s %-16s %12s\n", "Row", "Id", "Name", "Curr", "Type", "Balance")
	for i, a := range accounts {
		fmt.Printf("%-4d %-10d %-24s %-8s %-16s %12.2f\n",
			i, a.AccountID, a.Name, a.Currency, a.Type, a.Balance)
	}
	return nil
}

func runAccountsAdd(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	currency := addCurrency
	if currency == "" {
		currency = cfg.Ledger.DefaultCurrency
	}

	account := ledger.Account{
		AccountID:    addID,
		Name:         addName,
		Currency:     currency,
		Type:         addType,
		Balance:      addBalance,
		YieldPercent: addYieldPercent,
		YieldPeriod:  addYieldPeriod,
		IsTaxable:    addTaxable,
	}
	if addExpires != "" {
		d, err := time.Parse(ledger.DateFormat, addExpires)
		if err != nil {
			return fmt.Errorf("parse --expires: %w", err)
		}
		account.ExpirationDate = &d
	}

	snapshot, err := s.ReadAccounts()
	if err != nil {
		return fmt.Errorf("read accounts: %w", err)
	}

	engine := recon.New(s, newLogger(cfg))
	diff := recon.AccountDiff{Added: []ledger.Account{account}}
	if _, err := engine.ApplyAccountDiff(diff, snapshot); err != nil {
		return fmt.Errorf("add account: %w", err)
	}

	fmt.Printf("✓ Added account %d (%s) with balance %.2f %s\n",
		account.AccountID, account.Name, account.Balance, account.Currency)
	return nil
}

func runAccountsEdit(cmd *cobra.Command, args []string) error {
	changes := ledger.FieldChanges{}
	for _, pair := range editSets {
		col, raw, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("--set %q: expected column=value", pair)
		}
		changes[col] = coerce(raw)
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
	diff := recon.AccountDiff{Edited: map[int]ledger.FieldChanges{editRow: changes}}
	if _, err := engine.ApplyAccountDiff(diff, snapshot); err != nil {
		return fmt.Errorf("edit account: %w", err)
	}

	fmt.Printf("✓ Updated row %d (%d columns)\n", editRow, len(changes))
	return nil
}

func runAccountsRm(cmd *cobra.Command, args []string) error {
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
	diff := recon.AccountDiff{Deleted: []int{rmRow}}
	if _, err := engine.ApplyAccountDiff(diff, snapshot); err != nil {
		return fmt.Errorf("remove account: %w", err)
	}

	fmt.Printf("✓ Removed row %d and recorded its liquidation\n", rmRow)
	return nil
}

// coerce interprets a flag value as bool, number or string, in that order,
// matching the column types the update allow-list accepts.
func coerce(raw string) any {
	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}
