package ledger

import (
	"database/sql"
	"fmt"
	"time"
)

// ReadAccounts returns every account row in id order. account_id aliases the
// SQLite rowid, so this matches insertion order for monotonically assigned
// ids. The slice is the snapshot the reconciliation engine resolves row
// positions against, so the ordering must stay stable between calls.
func (s *Store) ReadAccounts() ([]Account, error) {
	rows, err := s.db.Query(`
		SELECT account_id, name, currency, type, balance, yield_percent, yield_period, is_taxable, expiration_date
		FROM accounts
		ORDER BY account_id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetAccount returns a single account row by id.
func (s *Store) GetAccount(accountID int64) (Account, error) {
	row := s.db.QueryRow(`
		SELECT account_id, name, currency, type, balance, yield_percent, yield_period, is_taxable, expiration_date
		FROM accounts
		WHERE account_id = ?`, accountID)

	a, err := scanAccount(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return Account{}, fmt.Errorf("account %d not found", accountID)
		}
		return Account{}, err
	}
	return a, nil
}

// ListTransactions returns the log entries for one account, oldest first.
func (s *Store) ListTransactions(accountID int64) ([]Transaction, error) {
	return s.queryTransactions(`
		SELECT transaction_id, account_id, date, amount, description
		FROM transactions
		WHERE account_id = ?
		ORDER BY date ASC, transaction_id ASC`, accountID)
}

// ListAllTransactions returns the whole log, oldest first.
func (s *Store) ListAllTransactions() ([]Transaction, error) {
	return s.queryTransactions(`
		SELECT transaction_id, account_id, date, amount, description
		FROM transactions
		ORDER BY date ASC, transaction_id ASC`)
}

// SumTransactions returns the net amount posted against an account over the
// whole log. For a live account this equals its balance; for a liquidated
// one it nets to zero.
func (s *Store) SumTransactions(accountID int64) (float64, error) {
	var sum float64
	err := s.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = ?`, accountID).Scan(&sum)
	return sum, err
}

func (s *Store) queryTransactions(query string, args ...any) ([]Transaction, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		var (
			rec  Transaction
			date string
			desc sql.NullString
		)
		if err := rows.Scan(
			&rec.TransactionID,
			&rec.AccountID,
			&date,
			&rec.Amount,
			&desc,
		); err != nil {
			return nil, err
		}
		rec.Date, err = time.Parse(DateFormat, date)
		if err != nil {
			return nil, fmt.Errorf("parse transaction date %q: %w", date, err)
		}
		rec.Description = desc.String
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanAccount(scan func(dest ...any) error) (Account, error) {
	var (
		a                          Account
		currency, typ, yieldPeriod sql.NullString
		yieldPercent               sql.NullFloat64
		isTaxable                  sql.NullBool
		exp                        sql.NullString
	)
	err := scan(
		&a.AccountID,
		&a.Name,
		&currency,
		&typ,
		&a.Balance,
		&yieldPercent,
		&yieldPeriod,
		&isTaxable,
		&exp,
	)
	if err != nil {
		return Account{}, err
	}

	a.Currency = currency.String
	a.Type = typ.String
	a.YieldPercent = yieldPercent.Float64
	a.YieldPeriod = yieldPeriod.String
	a.IsTaxable = isTaxable.Bool

	if exp.Valid && exp.String != "" {
		d, err := time.Parse(DateFormat, exp.String)
		if err != nil {
			return Account{}, fmt.Errorf("parse expiration_date %q: %w", exp.String, err)
		}
		a.ExpirationDate = &d
	}
	return a, nil
}
