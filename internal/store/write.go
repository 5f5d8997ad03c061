package store

import (
	"context"
	"fmt"

	"github.com/lendfi/lendclient/internal/accounts"
)

// AccountRecord is one tracked account.
type AccountRecord struct {
	ID          string // hex account ID
	Kind        string // "user", "pool" or "oracle"
	StorageMode string // "public" or "private"
	CreatedAt   int64  // unix seconds
}

// TransactionRecord is one submitted transaction.
type TransactionRecord struct {
	ID        string
	AccountID string
	Script    string // note script name the transaction executed
	Status    string // "pending" or "committed"
	CreatedAt int64
}

// WriteAccount inserts an account record. Duplicate IDs are silently
// ignored so re-tracking an account is idempotent.
func (s *Store) WriteAccount(ctx context.Context, rec AccountRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, kind, storage_mode, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, rec.ID, rec.Kind, rec.StorageMode, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("write account: %w", err)
	}
	return nil
}

// WriteSlots replaces the stored storage slots of an account.
func (s *Store) WriteSlots(ctx context.Context, accountID string, slots []accounts.Word) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write slots: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM account_slots WHERE account_id = ?`, accountID); err != nil {
		return fmt.Errorf("write slots: %w", err)
	}

	for i, w := range slots {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO account_slots (account_id, slot, w0, w1, w2, w3)
			VALUES (?, ?, ?, ?, ?, ?)
		`, accountID, i, int64(w[0]), int64(w[1]), int64(w[2]), int64(w[3]))
		if err != nil {
			return fmt.Errorf("write slot %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write slots: %w", err)
	}
	return nil
}

// WriteTransaction inserts a transaction record.
func (s *Store) WriteTransaction(ctx context.Context, rec TransactionRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, account_id, script, status, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.ID, rec.AccountID, rec.Script, rec.Status, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("write transaction: %w", err)
	}
	return nil
}

// MarkCommitted transitions a pending transaction to committed.
func (s *Store) MarkCommitted(ctx context.Context, txID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET status = 'committed' WHERE id = ? AND status = 'pending'
	`, txID)
	if err != nil {
		return fmt.Errorf("mark committed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark committed: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("mark committed: no pending transaction %s", txID)
	}
	return nil
}
