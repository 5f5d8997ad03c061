package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lendfi/lendclient/internal/accounts"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// GetAccount returns one account by ID.
func (s *Store) GetAccount(ctx context.Context, id string) (AccountRecord, error) {
	var rec AccountRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT id, kind, storage_mode, created_at FROM accounts WHERE id = ?
	`, id).Scan(&rec.ID, &rec.Kind, &rec.StorageMode, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AccountRecord{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return AccountRecord{}, fmt.Errorf("get account: %w", err)
	}
	return rec, nil
}

// ListAccounts returns accounts of the given kind, or all accounts when
// kind is empty, ordered by creation time.
func (s *Store) ListAccounts(ctx context.Context, kind string) ([]AccountRecord, error) {
	query := `SELECT id, kind, storage_mode, created_at FROM accounts ORDER BY created_at, id`
	args := []any{}
	if kind != "" {
		query = `SELECT id, kind, storage_mode, created_at FROM accounts WHERE kind = ? ORDER BY created_at, id`
		args = append(args, kind)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var recs []AccountRecord
	for rows.Next() {
		var rec AccountRecord
		if err := rows.Scan(&rec.ID, &rec.Kind, &rec.StorageMode, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("list accounts: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// GetSlots returns the stored storage slots of an account in slot
// order.
func (s *Store) GetSlots(ctx context.Context, accountID string) ([]accounts.Word, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT w0, w1, w2, w3 FROM account_slots WHERE account_id = ? ORDER BY slot
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("get slots: %w", err)
	}
	defer rows.Close()

	var slots []accounts.Word
	for rows.Next() {
		var w0, w1, w2, w3 int64
		if err := rows.Scan(&w0, &w1, &w2, &w3); err != nil {
			return nil, fmt.Errorf("get slots: %w", err)
		}
		slots = append(slots, accounts.Word{uint64(w0), uint64(w1), uint64(w2), uint64(w3)})
	}
	return slots, rows.Err()
}

// ListTransactions returns the transactions submitted for an account,
// oldest first.
func (s *Store) ListTransactions(ctx context.Context, accountID string) ([]TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, script, status, created_at
		FROM transactions WHERE account_id = ? ORDER BY created_at, id
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var recs []TransactionRecord
	for rows.Next() {
		var rec TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.AccountID, &rec.Script, &rec.Status, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
