package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfi/lendclient/internal/accounts"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "store.sqlite3"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.sqlite3")

	s1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s2.Close())
}

func TestWriteAccount_GetAccount(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := AccountRecord{ID: "acct-1", Kind: "user", StorageMode: "private", CreatedAt: 1700000000}
	require.NoError(t, s.WriteAccount(ctx, rec))

	got, err := s.GetAccount(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWriteAccount_DuplicateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	rec := AccountRecord{ID: "acct-1", Kind: "user", StorageMode: "private", CreatedAt: 100}
	require.NoError(t, s.WriteAccount(ctx, rec))

	dup := rec
	dup.CreatedAt = 999
	require.NoError(t, s.WriteAccount(ctx, dup))

	got, err := s.GetAccount(ctx, "acct-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.CreatedAt, "the first write wins")
}

func TestGetAccount_NotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetAccount(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListAccounts_FilterByKind(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "u1", Kind: "user", StorageMode: "private", CreatedAt: 1}))
	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "p1", Kind: "pool", StorageMode: "public", CreatedAt: 2}))
	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "u2", Kind: "user", StorageMode: "private", CreatedAt: 3}))

	users, err := s.ListAccounts(ctx, "user")
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "u1", users[0].ID)
	assert.Equal(t, "u2", users[1].ID)

	all, err := s.ListAccounts(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestWriteSlots_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "p1", Kind: "pool", StorageMode: "public", CreatedAt: 1}))

	slots := []accounts.Word{
		{1, 2, 3, 4},
		{0, 0, 0, 0},
		{18446744073709551615, 7, 8, 9},
	}
	require.NoError(t, s.WriteSlots(ctx, "p1", slots))

	got, err := s.GetSlots(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, slots, got)
}

func TestWriteSlots_ReplacesPrevious(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "p1", Kind: "pool", StorageMode: "public", CreatedAt: 1}))
	require.NoError(t, s.WriteSlots(ctx, "p1", []accounts.Word{{1, 1, 1, 1}, {2, 2, 2, 2}}))
	require.NoError(t, s.WriteSlots(ctx, "p1", []accounts.Word{{9, 9, 9, 9}}))

	got, err := s.GetSlots(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, accounts.Word{9, 9, 9, 9}, got[0])
}

func TestTransactions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "u1", Kind: "user", StorageMode: "private", CreatedAt: 1}))

	tx := TransactionRecord{ID: "tx-1", AccountID: "u1", Script: "deposit", Status: "pending", CreatedAt: 10}
	require.NoError(t, s.WriteTransaction(ctx, tx))

	txs, err := s.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, tx, txs[0])

	require.NoError(t, s.MarkCommitted(ctx, "tx-1"))

	txs, err = s.ListTransactions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "committed", txs[0].Status)
}

func TestMarkCommitted_NoPendingTransaction(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.MarkCommitted(ctx, "missing")
	require.Error(t, err)

	// Committing twice is also an error: the second call finds no
	// pending row.
	require.NoError(t, s.WriteAccount(ctx, AccountRecord{ID: "u1", Kind: "user", StorageMode: "private", CreatedAt: 1}))
	require.NoError(t, s.WriteTransaction(ctx, TransactionRecord{ID: "tx-1", AccountID: "u1", Script: "deposit", Status: "pending", CreatedAt: 1}))
	require.NoError(t, s.MarkCommitted(ctx, "tx-1"))
	require.Error(t, s.MarkCommitted(ctx, "tx-1"))
}
