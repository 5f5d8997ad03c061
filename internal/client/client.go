// Package client is the stub network client for the lending protocol.
// It mirrors the shape of the production node client (sync, account
// creation, transaction execution) while keeping all state in the local
// store, so the CLI and tests can run without a node.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendfi/lendclient/internal/accounts"
	"github.com/lendfi/lendclient/internal/config"
	"github.com/lendfi/lendclient/internal/store"
)

// Account kinds tracked by the client.
const (
	KindUser   = "user"
	KindPool   = "pool"
	KindOracle = "oracle"
)

// Storage modes for created accounts.
const (
	StoragePublic  = "public"
	StoragePrivate = "private"
)

// Clock supplies timestamps for created records. Injected so tests get
// deterministic times.
type Clock interface {
	Now() int64 // unix seconds
}

// IDGenerator supplies account and transaction IDs.
type IDGenerator interface {
	NewID() string
}

type systemClock struct{}

func (systemClock) Now() int64 { return time.Now().Unix() }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// LendingClient wraps protocol operations over the local store. It is
// a stub: Sync does not reach a network and ExecuteTransaction records
// the transaction without proving it.
type LendingClient struct {
	cfg   config.Config
	store *store.Store
	clock Clock
	ids   IDGenerator
}

// Option customizes a LendingClient.
type Option func(*LendingClient)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(lc *LendingClient) { lc.clock = c }
}

// WithIDGenerator replaces the UUID-based ID generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(lc *LendingClient) { lc.ids = g }
}

// New creates a client over an open store.
func New(cfg config.Config, st *store.Store, opts ...Option) *LendingClient {
	lc := &LendingClient{
		cfg:   cfg,
		store: st,
		clock: systemClock{},
		ids:   uuidGenerator{},
	}
	for _, opt := range opts {
		opt(lc)
	}
	return lc
}

// Sync reconciles local state with the network. The stub has no
// network; it marks every pending transaction committed so repeated
// CLI runs behave like a node that eventually includes everything.
func (lc *LendingClient) Sync(ctx context.Context) error {
	recs, err := lc.store.ListAccounts(ctx, "")
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	for _, rec := range recs {
		txs, err := lc.store.ListTransactions(ctx, rec.ID)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}
		for _, tx := range txs {
			if tx.Status != "pending" {
				continue
			}
			if err := lc.store.MarkCommitted(ctx, tx.ID); err != nil {
				return fmt.Errorf("sync: %w", err)
			}
		}
	}
	return nil
}

// CreateAccount creates a new account of the given kind with the
// component's initial storage and tracks it in the store. Returns the
// new account ID.
func (lc *LendingClient) CreateAccount(ctx context.Context, kind, storageMode string, component accounts.Component) (string, error) {
	if storageMode != StoragePublic && storageMode != StoragePrivate {
		return "", fmt.Errorf("create account: invalid storage mode %q", storageMode)
	}

	id := lc.ids.NewID()
	rec := store.AccountRecord{
		ID:          id,
		Kind:        kind,
		StorageMode: storageMode,
		CreatedAt:   lc.clock.Now(),
	}
	if err := lc.store.WriteAccount(ctx, rec); err != nil {
		return "", err
	}
	if err := lc.store.WriteSlots(ctx, id, component.Slots); err != nil {
		return "", err
	}
	return id, nil
}

// ExecuteTransaction records a transaction executing the named note
// script against an account. The stub performs no proving; the
// transaction starts pending and is committed by the next Sync.
func (lc *LendingClient) ExecuteTransaction(ctx context.Context, accountID, script string) (store.TransactionRecord, error) {
	if _, err := lc.store.GetAccount(ctx, accountID); err != nil {
		return store.TransactionRecord{}, fmt.Errorf("execute transaction: %w", err)
	}

	rec := store.TransactionRecord{
		ID:        lc.ids.NewID(),
		AccountID: accountID,
		Script:    script,
		Status:    "pending",
		CreatedAt: lc.clock.Now(),
	}
	if err := lc.store.WriteTransaction(ctx, rec); err != nil {
		return store.TransactionRecord{}, err
	}
	return rec, nil
}

// Account returns a tracked account.
func (lc *LendingClient) Account(ctx context.Context, id string) (store.AccountRecord, error) {
	return lc.store.GetAccount(ctx, id)
}
