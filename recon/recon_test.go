package recon

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vzahorui/my-finance-explorer/ledger"
)

var testToday = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T) (*Engine, *ledger.Store) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := ledger.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	e := New(s, zerolog.Nop())
	e.now = func() time.Time { return testToday }
	return e, s
}

// seedAccount creates an account through the engine so the seed transaction
// is present, then returns the fresh snapshot.
func seedAccount(t *testing.T, e *Engine, s *ledger.Store, a ledger.Account) []ledger.Account {
	t.Helper()

	snapshot, err := s.ReadAccounts()
	require.NoError(t, err)

	_, err = e.ApplyAccountDiff(AccountDiff{Added: []ledger.Account{a}}, snapshot)
	require.NoError(t, err)

	snapshot, err = s.ReadAccounts()
	require.NoError(t, err)
	return snapshot
}

func TestEmptyDiffIsNoOp(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	res, err := e.ApplyAccountDiff(AccountDiff{}, snapshot)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	accounts, err := s.ReadAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.InDelta(t, 100.0, accounts[0].Balance, 1e-9)

	recs, err := s.ListAllTransactions()
	require.NoError(t, err)
	assert.Len(t, recs, 1) // just the seed from setup
}

func TestAddedAccountSeedsTransaction(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)

	added := ledger.Account{
		AccountID: 3, Name: "Savings", Currency: "EUR", Type: "deposit", Balance: 250.75,
	}
	res, err := e.ApplyAccountDiff(AccountDiff{Added: []ledger.Account{added}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Added)

	got, err := s.GetAccount(3)
	require.NoError(t, err)
	assert.InDelta(t, 250.75, got.Balance, 1e-9)

	recs, err := s.ListTransactions(3)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.InDelta(t, 250.75, recs[0].Amount, 1e-9)
	assert.Equal(t, ledger.DescInitializing, recs[0].Description)
	assert.True(t, recs[0].Date.Equal(testToday))
}

func TestAddedAccountsBalanceMatchesSum(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)

	diff := AccountDiff{Added: []ledger.Account{
		{AccountID: 1, Name: "Cash", Balance: 100},
		{AccountID: 2, Name: "Savings", Balance: 2500.5},
		{AccountID: 3, Name: "Loan", Balance: -400},
	}}
	res, err := e.ApplyAccountDiff(diff, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Added)

	accounts, err := s.ReadAccounts()
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	for _, a := range accounts {
		sum, err := s.SumTransactions(a.AccountID)
		require.NoError(t, err)
		assert.InDelta(t, a.Balance, sum, 1e-9, "account %d", a.AccountID)
	}
}

func TestBalanceEditInsertsAdjustment(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	diff := AccountDiff{Edited: map[int]ledger.FieldChanges{
		0: {"balance": 150.0},
	}}
	res, err := e.ApplyAccountDiff(diff, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Edited)

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.InDelta(t, 150.0, got.Balance, 1e-9)

	recs, err := s.ListTransactions(1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	adj := recs[1]
	assert.InDelta(t, 50.0, adj.Amount, 1e-9)
	assert.Equal(t, ledger.DescAdjustment, adj.Description)

	sum, err := s.SumTransactions(1)
	require.NoError(t, err)
	assert.InDelta(t, got.Balance, sum, 1e-9)
}

func TestNegativeAdjustmentDelta(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 200})

	diff := AccountDiff{Edited: map[int]ledger.FieldChanges{
		0: {"balance": 80.5},
	}}
	_, err := e.ApplyAccountDiff(diff, snapshot)
	require.NoError(t, err)

	recs, err := s.ListTransactions(1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.InDelta(t, -119.5, recs[1].Amount, 1e-9)
}

func TestNonBalanceEditAddsNoTransaction(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	diff := AccountDiff{Edited: map[int]ledger.FieldChanges{
		0: {"name": "Wallet", "type": "current account"},
	}}
	_, err := e.ApplyAccountDiff(diff, snapshot)
	require.NoError(t, err)

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, "Wallet", got.Name)
	assert.Equal(t, "current account", got.Type)
	assert.InDelta(t, 100.0, got.Balance, 1e-9)

	recs, err := s.ListTransactions(1)
	require.NoError(t, err)
	assert.Len(t, recs, 1) // only the seed
}

func TestDeleteInsertsLiquidation(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	res, err := e.ApplyAccountDiff(AccountDiff{Deleted: []int{0}}, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Deleted)

	_, err = s.GetAccount(1)
	require.Error(t, err)

	// The log keeps the deleted account's entries and they net to zero.
	recs, err := s.ListTransactions(1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	last := recs[1]
	assert.InDelta(t, -100.0, last.Amount, 1e-9)
	assert.Equal(t, ledger.DescLiquidation, last.Description)

	sum, err := s.SumTransactions(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, sum, 1e-9)
}

func TestEditPositionOutOfRangeFailsWhole(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	diff := AccountDiff{
		Added:  []ledger.Account{{AccountID: 2, Name: "Savings", Balance: 500}},
		Edited: map[int]ledger.FieldChanges{5: {"balance": 1.0}},
	}
	_, err := e.ApplyAccountDiff(diff, snapshot)
	require.Error(t, err)

	// The added account rolled back with the rest of the call.
	_, err = s.GetAccount(2)
	assert.Error(t, err)

	recs, err := s.ListAllTransactions()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestEditUnknownColumnFailsWhole(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	diff := AccountDiff{Edited: map[int]ledger.FieldChanges{
		0: {"rowid": 99},
	}}
	_, err := e.ApplyAccountDiff(diff, snapshot)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not updatable")

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.Balance, 1e-9)
}

func TestAddDuplicateAccountFailsWhole(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	diff := AccountDiff{Added: []ledger.Account{
		{AccountID: 2, Name: "Savings", Balance: 500},
		{AccountID: 1, Name: "Duplicate", Balance: 9},
	}}
	_, err := e.ApplyAccountDiff(diff, snapshot)
	require.Error(t, err)

	// The first added account rolled back along with the failing one.
	_, err = s.GetAccount(2)
	assert.Error(t, err)

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, "Cash", got.Name)
}

func TestApplyTransactionsPostsRow(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 150})

	rows := []EntryRow{{
		AccountID:   1,
		Date:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Amount:      -30,
		Description: "Groceries",
	}}
	res, err := e.ApplyTransactions(rows, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Posted)
	assert.Empty(t, res.Skipped)

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, got.Balance, 1e-9)

	recs, err := s.ListTransactions(1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	posted := recs[0] // dated before the seed
	assert.InDelta(t, -30.0, posted.Amount, 1e-9)
	assert.Equal(t, "Groceries", posted.Description)
	assert.True(t, posted.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestApplyTransactionsDefaultsDescription(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	rows := []EntryRow{{AccountID: 1, Date: testToday, Amount: 5}}
	_, err := e.ApplyTransactions(rows, snapshot)
	require.NoError(t, err)

	recs, err := s.ListTransactions(1)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, ledger.DescAbsent, recs[1].Description)
}

func TestApplyTransactionsUnknownAccountSkips(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	rows := []EntryRow{
		{AccountID: 99, Date: testToday, Amount: 1000, Description: "Lost"},
		{AccountID: 1, Date: testToday, Amount: 10, Description: "Found"},
	}
	res, err := e.ApplyTransactions(rows, snapshot)
	require.NoError(t, err)

	// The bad row is reported and skipped, the good row still applies.
	assert.Equal(t, 1, res.Posted)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, int64(99), res.Skipped[0].AccountID)
	assert.Contains(t, res.Skipped[0].Message, "99")

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.InDelta(t, 110.0, got.Balance, 1e-9)

	orphans, err := s.ListTransactions(99)
	require.NoError(t, err)
	assert.Empty(t, orphans)
}

func TestApplyTransactionsOnlyUnknownAccounts(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	rows := []EntryRow{{AccountID: 42, Date: testToday, Amount: 7}}
	res, err := e.ApplyTransactions(rows, snapshot)
	require.NoError(t, err)
	assert.Zero(t, res.Posted)
	assert.Len(t, res.Skipped, 1)

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, got.Balance, 1e-9)
}

// Two rows against one account both start from the snapshot balance: the
// second row does not see the first row's effect, so the final balance is
// snapshot + last amount, not the compounded total. The log still carries
// both entries, which is why "finance check" flags such batches.
func TestApplyTransactionsSameAccountReadsSnapshot(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	rows := []EntryRow{
		{AccountID: 1, Date: testToday, Amount: 10, Description: "First"},
		{AccountID: 1, Date: testToday, Amount: 20, Description: "Second"},
	}
	res, err := e.ApplyTransactions(rows, snapshot)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Posted)

	got, err := s.GetAccount(1)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, got.Balance, 1e-9)

	sum, err := s.SumTransactions(1)
	require.NoError(t, err)
	assert.InDelta(t, 130.0, sum, 1e-9)
}

func TestApplyTransactionsEmptyBatch(t *testing.T) {
	t.Parallel()

	e, s := newTestEngine(t)
	snapshot := seedAccount(t, e, s, ledger.Account{AccountID: 1, Name: "Cash", Balance: 100})

	res, err := e.ApplyTransactions(nil, snapshot)
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)

	recs, err := s.ListAllTransactions()
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
