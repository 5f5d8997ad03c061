package client

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfi/lendclient/internal/accounts"
	"github.com/lendfi/lendclient/internal/config"
	"github.com/lendfi/lendclient/internal/store"
	"github.com/lendfi/lendclient/internal/testutil"
)

func newTestClient(t *testing.T) (*LendingClient, *testutil.Clock) {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "store.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewClock(1700000000)
	lc := New(config.DefaultConfig(), st,
		WithClock(clock),
		WithIDGenerator(testutil.NewIDGenerator("acct")),
	)
	return lc, clock
}

func TestCreateAccount(t *testing.T) {
	lc, _ := newTestClient(t)
	ctx := context.Background()

	component := accounts.Component{Slots: []accounts.Word{{1, 0, 0, 0}, {2, 0, 0, 0}}}
	id, err := lc.CreateAccount(ctx, KindPool, StoragePublic, component)
	require.NoError(t, err)
	assert.Equal(t, "acct-0001", id)

	rec, err := lc.Account(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, KindPool, rec.Kind)
	assert.Equal(t, StoragePublic, rec.StorageMode)
	assert.Equal(t, int64(1700000000), rec.CreatedAt)
}

func TestCreateAccount_InvalidStorageMode(t *testing.T) {
	lc, _ := newTestClient(t)

	_, err := lc.CreateAccount(context.Background(), KindUser, "hybrid", accounts.Component{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage mode")
}

func TestExecuteTransaction(t *testing.T) {
	lc, clock := newTestClient(t)
	ctx := context.Background()

	id, err := lc.CreateAccount(ctx, KindUser, StoragePrivate, accounts.Component{})
	require.NoError(t, err)

	clock.Advance(60)
	rec, err := lc.ExecuteTransaction(ctx, id, ScriptDeposit)
	require.NoError(t, err)

	assert.Equal(t, "acct-0002", rec.ID)
	assert.Equal(t, id, rec.AccountID)
	assert.Equal(t, ScriptDeposit, rec.Script)
	assert.Equal(t, "pending", rec.Status)
	assert.Equal(t, int64(1700000060), rec.CreatedAt)
}

func TestExecuteTransaction_UnknownAccount(t *testing.T) {
	lc, _ := newTestClient(t)

	_, err := lc.ExecuteTransaction(context.Background(), "ghost", ScriptDeposit)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSync_CommitsPending(t *testing.T) {
	lc, _ := newTestClient(t)
	ctx := context.Background()

	id, err := lc.CreateAccount(ctx, KindUser, StoragePrivate, accounts.Component{})
	require.NoError(t, err)
	tx, err := lc.ExecuteTransaction(ctx, id, ScriptBorrow)
	require.NoError(t, err)

	require.NoError(t, lc.Sync(ctx))

	txs, err := lc.store.ListTransactions(ctx, id)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx.ID, txs[0].ID)
	assert.Equal(t, "committed", txs[0].Status)

	// A second sync with nothing pending is a no-op.
	require.NoError(t, lc.Sync(ctx))
}

func TestTransactionBuilder_ValidatesInputs(t *testing.T) {
	lc, _ := newTestClient(t)
	ctx := context.Background()

	id, err := lc.CreateAccount(ctx, KindUser, StoragePrivate, accounts.Component{})
	require.NoError(t, err)

	b := NewTransactionBuilder(lc)

	_, err = b.Deposit(ctx, id, 0, 100)
	require.Error(t, err, "asset id 0 is invalid")

	_, err = b.Deposit(ctx, id, 42, 100)
	require.Error(t, err, "unknown asset id is invalid")

	_, err = b.Borrow(ctx, id, 1, 0)
	require.Error(t, err, "zero amount is invalid")
}

func TestTransactionBuilder_RecordsScripts(t *testing.T) {
	lc, _ := newTestClient(t)
	ctx := context.Background()

	id, err := lc.CreateAccount(ctx, KindUser, StoragePrivate, accounts.Component{})
	require.NoError(t, err)

	b := NewTransactionBuilder(lc)

	calls := []struct {
		run    func() (store.TransactionRecord, error)
		script string
	}{
		{func() (store.TransactionRecord, error) { return b.Deposit(ctx, id, 1, 100) }, ScriptDeposit},
		{func() (store.TransactionRecord, error) { return b.Withdraw(ctx, id, 1, 50) }, ScriptWithdraw},
		{func() (store.TransactionRecord, error) { return b.SupplyCollateral(ctx, id, 3, 10) }, ScriptSupplyCollateral},
		{func() (store.TransactionRecord, error) { return b.Borrow(ctx, id, 2, 25) }, ScriptBorrow},
		{func() (store.TransactionRecord, error) { return b.Repay(ctx, id, 2, 25) }, ScriptRepay},
		{func() (store.TransactionRecord, error) { return b.UpdatePrice(ctx, id, 1, 99000000) }, ScriptUpdatePrice},
	}

	for _, call := range calls {
		rec, err := call.run()
		require.NoError(t, err, call.script)
		assert.Equal(t, call.script, rec.Script)
	}

	txs, err := lc.store.ListTransactions(ctx, id)
	require.NoError(t, err)
	assert.Len(t, txs, len(calls))
}
