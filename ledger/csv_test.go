package ledger

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExportCSV(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	exp := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	mustInsertAccount(t, s, Account{
		AccountID: 1, Name: "Savings", Currency: "EUR", Type: "deposit",
		Balance: 100.5, YieldPercent: 2.1, YieldPeriod: "yearly",
		IsTaxable: true, ExpirationDate: &exp,
	})
	mustInsertTransaction(t, s, Transaction{
		TransactionID: "T1", AccountID: 1,
		Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Amount: 100.5,
		Description: DescInitializing,
	})

	dir := t.TempDir()
	accountsPath := filepath.Join(dir, "accounts.csv")
	transactionsPath := filepath.Join(dir, "transactions.csv")

	require.NoError(t, s.ExportCSV(accountsPath, transactionsPath))

	accounts := readCSV(t, accountsPath)
	require.Len(t, accounts, 2)
	assert.Equal(t, []string{"account_id", "name", "currency", "type", "balance", "yield_percent", "yield_period", "is_taxable", "expiration_date"}, accounts[0])
	assert.Equal(t, []string{"1", "Savings", "EUR", "deposit", "100.50", "2.10", "yearly", "true", "2027-06-30"}, accounts[1])

	transactions := readCSV(t, transactionsPath)
	require.Len(t, transactions, 2)
	assert.Equal(t, []string{"transaction_id", "account_id", "date", "amount", "description"}, transactions[0])
	assert.Equal(t, []string{"T1", "1", "2024-01-02", "100.50", "Initializing"}, transactions[1])
}

func TestExportCSVEmptyStore(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	dir := t.TempDir()
	accountsPath := filepath.Join(dir, "accounts.csv")
	transactionsPath := filepath.Join(dir, "transactions.csv")

	require.NoError(t, s.ExportCSV(accountsPath, transactionsPath))

	assert.Len(t, readCSV(t, accountsPath), 1)
	assert.Len(t, readCSV(t, transactionsPath), 1)
}
