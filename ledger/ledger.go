// ledger/ledger.go
package ledger

import "time"

// DateFormat is how dates are stored in the accounts and transactions tables.
const DateFormat = "2006-01-02"

// Account is one row of the accounts table. AccountID is chosen by the caller
// when the row is added and stays stable for the life of the row.
type Account struct {
	AccountID      int64
	Name           string
	Currency       string
	Type           string
	Balance        float64
	YieldPercent   float64
	YieldPeriod    string
	IsTaxable      bool
	ExpirationDate *time.Time
}

// Transaction is one entry of the append-only log. Entries are never updated
// or deleted once written; balance corrections go in as new entries.
type Transaction struct {
	TransactionID string
	AccountID     int64
	Date          time.Time
	Amount        float64
	Description   string
}

// Descriptions written by the reconciliation engine.
const (
	DescInitializing = "Initializing"
	DescAdjustment   = "Adjustment"
	DescLiquidation  = "Account liquidation"
	DescAbsent       = "Absent"
)
