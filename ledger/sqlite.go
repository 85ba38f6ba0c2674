package ledger

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite-backed ledger store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Existing tables and their data are left untouched.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Reset drops both tables and recreates them empty. All account and
// transaction data is lost.
func (s *Store) Reset() error {
	if _, err := s.db.Exec(dropSchema); err != nil {
		return err
	}
	_, err := s.db.Exec(Schema)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Begin starts a store transaction. Every reconciliation call runs inside
// exactly one of these, so a failed call leaves no partial writes behind.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

// Tx wraps a database transaction with the store's mutation set.
type Tx struct {
	tx *sql.Tx
}

func (t *Tx) Commit() error {
	return t.tx.Commit()
}

func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

func (t *Tx) InsertAccount(a Account) error {
	var exp any
	if a.ExpirationDate != nil {
		exp = a.ExpirationDate.Format(DateFormat)
	}
	_, err := t.tx.Exec(`
		INSERT INTO accounts
		(account_id, name, currency, type, balance, yield_percent, yield_period, is_taxable, expiration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AccountID, a.Name, a.Currency, a.Type, a.Balance,
		a.YieldPercent, a.YieldPeriod, a.IsTaxable, exp,
	)
	return err
}

// FieldChanges maps column names to new values for a partial account update.
type FieldChanges map[string]any

// updatableColumns is the fixed allow-list for partial updates, in the order
// SET clauses are composed. account_id is deliberately absent.
var updatableColumns = []string{
	"name", "currency", "type", "balance",
	"yield_percent", "yield_period", "is_taxable", "expiration_date",
}

func updatable(col string) bool {
	for _, c := range updatableColumns {
		if c == col {
			return true
		}
	}
	return false
}

// UpdateAccountFields applies a partial update to one account row. Only
// columns from the allow-list may appear in changes; anything else fails the
// whole update before any SQL is composed.
func (t *Tx) UpdateAccountFields(accountID int64, changes FieldChanges) error {
	if len(changes) == 0 {
		return nil
	}
	for col := range changes {
		if !updatable(col) {
			return fmt.Errorf("column %q is not updatable", col)
		}
	}

	var (
		set  []string
		args []any
	)
	for _, col := range updatableColumns {
		v, ok := changes[col]
		if !ok {
			continue
		}
		set = append(set, col+" = ?")
		args = append(args, v)
	}
	args = append(args, accountID)

	query := "UPDATE accounts SET " + strings.Join(set, ", ") + " WHERE account_id = ?"
	_, err := t.tx.Exec(query, args...)
	return err
}

func (t *Tx) UpdateAccountBalance(accountID int64, balance float64) error {
	_, err := t.tx.Exec(`
		UPDATE accounts SET balance = ? WHERE account_id = ?`,
		balance, accountID,
	)
	return err
}

func (t *Tx) DeleteAccount(accountID int64) error {
	_, err := t.tx.Exec(`
		DELETE FROM accounts WHERE account_id = ?`,
		accountID,
	)
	return err
}

func (t *Tx) InsertTransaction(tr Transaction) error {
	_, err := t.tx.Exec(`
		INSERT INTO transactions
		(transaction_id, account_id, date, amount, description)
		VALUES (?, ?, ?, ?, ?)`,
		tr.TransactionID, tr.AccountID, tr.Date.Format(DateFormat),
		tr.Amount, tr.Description,
	)
	return err
}
