// Package recon reconciles account-grid edits and manually entered
// transactions into ledger store mutations plus compensating log entries.
package recon

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vzahorui/my-finance-explorer/ledger"
	"github.com/vzahorui/my-finance-explorer/pkg/id"
)

// AccountDiff describes the changes a user made to the account grid since the
// snapshot was loaded. Edited and Deleted identify rows by their position in
// that snapshot, not by account id; the snapshot passed alongside the diff is
// what resolves positions back to ids. A diff applied against a different
// snapshot than the one it was produced from will target the wrong rows.
type AccountDiff struct {
	Added   []ledger.Account
	Edited  map[int]ledger.FieldChanges
	Deleted []int
}

// Empty reports whether the diff contains no changes.
func (d AccountDiff) Empty() bool {
	return len(d.Added) == 0 && len(d.Edited) == 0 && len(d.Deleted) == 0
}

// EntryRow is one manually entered transaction.
type EntryRow struct {
	AccountID   int64
	Date        time.Time
	Amount      float64
	Description string
}

// Warning records a row that was skipped without aborting its batch.
type Warning struct {
	AccountID int64
	Message   string
}

// Result summarizes what one reconciliation call wrote.
type Result struct {
	Added   int
	Edited  int
	Deleted int
	Posted  int
	Skipped []Warning
}

// Engine applies diffs and entry batches to the store. It holds no state
// between calls; the caller hands it a fresh snapshot each time.
type Engine struct {
	store *ledger.Store
	log   zerolog.Logger
	now   func() time.Time
}

func New(store *ledger.Store, log zerolog.Logger) *Engine {
	return &Engine{store: store, log: log, now: time.Now}
}

// ApplyAccountDiff writes the account row changes in diff plus their
// compensating transactions. All writes for one call commit together or not
// at all. An empty diff returns immediately without touching the store.
//
// Added rows get a seed transaction for their starting balance. Edits that
// change the balance get an adjustment transaction for the delta, computed
// against the snapshot value. Deleted rows get a final transaction for the
// negated balance, so the account's net contribution to the log is zero.
func (e *Engine) ApplyAccountDiff(diff AccountDiff, snapshot []ledger.Account) (Result, error) {
	var res Result
	if diff.Empty() {
		return res, nil
	}

	tx, err := e.store.Begin()
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()

	today := e.now()

	for _, a := range diff.Added {
		if err := tx.InsertAccount(a); err != nil {
			return Result{}, fmt.Errorf("insert account %d: %w", a.AccountID, err)
		}
		seed := ledger.Transaction{
			TransactionID: id.New(),
			AccountID:     a.AccountID,
			Date:          today,
			Amount:        a.Balance,
			Description:   ledger.DescInitializing,
		}
		if err := tx.InsertTransaction(seed); err != nil {
			return Result{}, fmt.Errorf("seed transaction for account %d: %w", a.AccountID, err)
		}
		res.Added++
	}

	for pos, changes := range diff.Edited {
		old, err := accountAt(snapshot, pos)
		if err != nil {
			return Result{}, err
		}
		if err := tx.UpdateAccountFields(old.AccountID, changes); err != nil {
			return Result{}, fmt.Errorf("update account %d: %w", old.AccountID, err)
		}
		if v, ok := changes["balance"]; ok {
			newBalance, err := toFloat(v)
			if err != nil {
				return Result{}, fmt.Errorf("account %d balance: %w", old.AccountID, err)
			}
			adj := ledger.Transaction{
				TransactionID: id.New(),
				AccountID:     old.AccountID,
				Date:          today,
				Amount:        newBalance - old.Balance,
				Description:   ledger.DescAdjustment,
			}
			if err := tx.InsertTransaction(adj); err != nil {
				return Result{}, fmt.Errorf("adjustment for account %d: %w", old.AccountID, err)
			}
		}
		res.Edited++
	}

	for _, pos := range diff.Deleted {
		old, err := accountAt(snapshot, pos)
		if err != nil {
			return Result{}, err
		}
		if err := tx.DeleteAccount(old.AccountID); err != nil {
			return Result{}, fmt.Errorf("delete account %d: %w", old.AccountID, err)
		}
		liq := ledger.Transaction{
			TransactionID: id.New(),
			AccountID:     old.AccountID,
			Date:          today,
			Amount:        -old.Balance,
			Description:   ledger.DescLiquidation,
		}
		if err := tx.InsertTransaction(liq); err != nil {
			return Result{}, fmt.Errorf("liquidation for account %d: %w", old.AccountID, err)
		}
		res.Deleted++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// ApplyTransactions posts a batch of manually entered rows. Rows referencing
// an unknown account are skipped with a warning; the rest of the batch still
// applies. All applied rows commit together.
//
// Balances are computed from the snapshot, not from earlier rows of the same
// batch: two rows against one account each start from the same pre-batch
// balance, and the later write wins. Compounding within a batch is an open
// product question, so the snapshot semantics are kept as-is.
func (e *Engine) ApplyTransactions(rows []EntryRow, snapshot []ledger.Account) (Result, error) {
	var res Result
	if len(rows) == 0 {
		return res, nil
	}

	byID := make(map[int64]ledger.Account, len(snapshot))
	for _, a := range snapshot {
		byID[a.AccountID] = a
	}

	tx, err := e.store.Begin()
	if err != nil {
		return Result{}, err
	}
	defer tx.Rollback()

	for _, row := range rows {
		acct, ok := byID[row.AccountID]
		if !ok {
			e.log.Warn().
				Int64("account_id", row.AccountID).
				Msg("account does not exist, skipping entry")
			res.Skipped = append(res.Skipped, Warning{
				AccountID: row.AccountID,
				Message:   fmt.Sprintf("account %d does not exist", row.AccountID),
			})
			continue
		}

		newBalance := acct.Balance + row.Amount
		if err := tx.UpdateAccountBalance(acct.AccountID, newBalance); err != nil {
			return Result{}, fmt.Errorf("update balance of account %d: %w", acct.AccountID, err)
		}

		desc := row.Description
		if desc == "" {
			desc = ledger.DescAbsent
		}
		rec := ledger.Transaction{
			TransactionID: id.New(),
			AccountID:     row.AccountID,
			Date:          row.Date,
			Amount:        row.Amount,
			Description:   desc,
		}
		if err := tx.InsertTransaction(rec); err != nil {
			return Result{}, fmt.Errorf("insert transaction for account %d: %w", row.AccountID, err)
		}
		res.Posted++
	}

	if err := tx.Commit(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func accountAt(snapshot []ledger.Account, pos int) (ledger.Account, error) {
	if pos < 0 || pos >= len(snapshot) {
		return ledger.Account{}, fmt.Errorf("row %d is not in the account snapshot", pos)
	}
	return snapshot[pos], nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("value %v (%T) is not numeric", v, v)
	}
}
