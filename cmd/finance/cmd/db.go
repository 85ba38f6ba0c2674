package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the ledger database",
	Long: `Manage the SQLite ledger database.

Subcommands:
  init  - Create the schema if it does not exist yet
  reset - Drop and recreate both tables (erases all data)

Examples:
  finance db init
  finance db reset --force`,
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the ledger schema",
	Long: `Create the accounts and transactions tables if they are absent.
Safe to run repeatedly; existing data is never touched.`,
	Args: cobra.NoArgs,
	RunE: runDBInit,
}

var dbResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the ledger schema",
	Long: `Drop both tables and recreate them empty.

This erases every account and transaction and cannot be undone, so it
refuses to run without --force.`,
	Args: cobra.NoArgs,
	RunE: runDBReset,
}

var dbResetForce bool

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbResetCmd)

	dbResetCmd.Flags().BoolVar(&dbResetForce, "force", false, "confirm erasing all ledger data")
}

func runDBInit(cmd *cobra.Command, args []string) error {
	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	fmt.Printf("✓ Ledger ready: %s\n", cfg.Database.Path)
	return nil
}

func runDBReset(cmd *cobra.Command, args []string) error {
	if !dbResetForce {
		return fmt.Errorf("refusing to erase all ledger data without --force")
	}

	s, cfg, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Reset(); err != nil {
		return fmt.Errorf("reset db: %w", err)
	}

	fmt.Printf("✓ Ledger reset: %s\n", cfg.Database.Path)
	return nil
}
