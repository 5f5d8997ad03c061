package client

import (
	"context"
	"fmt"

	"github.com/lendfi/lendclient/internal/store"
)

// Note script names produced by the build pipeline. Each protocol
// operation executes the matching .masb artifact.
const (
	ScriptDeposit          = "deposit"
	ScriptWithdraw         = "withdraw"
	ScriptSupplyCollateral = "supply_collateral"
	ScriptBorrow           = "borrow"
	ScriptRepay            = "repay"
	ScriptUpdatePrice      = "update_price"
)

// TransactionBuilder maps protocol operations to note-script
// transactions against the user (or oracle) account.
type TransactionBuilder struct {
	client *LendingClient
}

// NewTransactionBuilder returns a builder over the given client.
func NewTransactionBuilder(lc *LendingClient) *TransactionBuilder {
	return &TransactionBuilder{client: lc}
}

// Deposit supplies liquidity to the pool.
func (b *TransactionBuilder) Deposit(ctx context.Context, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
	return b.execute(ctx, accountID, ScriptDeposit, assetID, amount)
}

// Withdraw removes supplied liquidity from the pool.
func (b *TransactionBuilder) Withdraw(ctx context.Context, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
	return b.execute(ctx, accountID, ScriptWithdraw, assetID, amount)
}

// SupplyCollateral locks collateral on the user account.
func (b *TransactionBuilder) SupplyCollateral(ctx context.Context, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
	return b.execute(ctx, accountID, ScriptSupplyCollateral, assetID, amount)
}

// Borrow draws debt against supplied collateral. The health factor
// check itself lives in the MASM contract, not here.
func (b *TransactionBuilder) Borrow(ctx context.Context, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
	return b.execute(ctx, accountID, ScriptBorrow, assetID, amount)
}

// Repay pays down outstanding debt.
func (b *TransactionBuilder) Repay(ctx context.Context, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
	return b.execute(ctx, accountID, ScriptRepay, assetID, amount)
}

// UpdatePrice pushes a new asset price to the oracle account.
func (b *TransactionBuilder) UpdatePrice(ctx context.Context, oracleAccountID string, assetID uint32, price uint64) (store.TransactionRecord, error) {
	return b.execute(ctx, oracleAccountID, ScriptUpdatePrice, assetID, price)
}

func (b *TransactionBuilder) execute(ctx context.Context, accountID, script string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
	if assetID == 0 || AssetName(assetID) == "UNKNOWN" {
		return store.TransactionRecord{}, fmt.Errorf("%s: unknown asset id %d", script, assetID)
	}
	if amount == 0 {
		return store.TransactionRecord{}, fmt.Errorf("%s: amount must be positive", script)
	}
	return b.client.ExecuteTransaction(ctx, accountID, script)
}
