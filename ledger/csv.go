// ledger/csv.go
package ledger

import (
	"encoding/csv"
	"os"
	"strconv"
)

// ExportCSV dumps both tables to CSV files, one per table. Intended for
// backups and for loading the ledger into a spreadsheet.
func (s *Store) ExportCSV(accountsPath, transactionsPath string) error {
	accounts, err := s.ReadAccounts()
	if err != nil {
		return err
	}
	transactions, err := s.ListAllTransactions()
	if err != nil {
		return err
	}

	if err := writeAccountsCSV(accountsPath, accounts); err != nil {
		return err
	}
	return writeTransactionsCSV(transactionsPath, transactions)
}

func writeAccountsCSV(path string, accounts []Account) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"account_id", "name", "currency", "type", "balance", "yield_percent", "yield_period", "is_taxable", "expiration_date"}); err != nil {
		return err
	}

	for _, a := range accounts {
		exp := ""
		if a.ExpirationDate != nil {
			exp = a.ExpirationDate.Format(DateFormat)
		}
		w.Write([]string{
			strconv.FormatInt(a.AccountID, 10),
			a.Name,
			a.Currency,
			a.Type,
			f2(a.Balance),
			f2(a.YieldPercent),
			a.YieldPeriod,
			strconv.FormatBool(a.IsTaxable),
			exp,
		})
	}

	w.Flush()
	return w.Error()
}

func writeTransactionsCSV(path string, transactions []Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"transaction_id", "account_id", "date", "amount", "description"}); err != nil {
		return err
	}

	for _, tr := range transactions {
		w.Write([]string{
			tr.TransactionID,
			strconv.FormatInt(tr.AccountID, 10),
			tr.Date.Format(DateFormat),
			f2(tr.Amount),
			tr.Description,
		})
	}

	w.Flush()
	return w.Error()
}

func f2(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
