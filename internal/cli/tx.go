package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lendfi/lendclient/internal/client"
	"github.com/lendfi/lendclient/internal/config"
	"github.com/lendfi/lendclient/internal/store"
)

// txFunc executes one protocol operation through the transaction
// builder once the client and flags are resolved.
type txFunc func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error)

// txSpec describes one transaction command: which configured account it
// runs against, how the amount flag is named, and the builder call.
type txSpec struct {
	use        string
	short      string
	amountFlag string
	amountHelp string
	account    func(config.Config) (string, error)
	run        txFunc
}

// userAccount selects the configured user lending account.
func userAccount(cfg config.Config) (string, error) {
	if cfg.UserAccountID == "" {
		return "", fmt.Errorf("no user account configured (run 'lendclient create-account' first)")
	}
	return cfg.UserAccountID, nil
}

// oracleAccount selects the configured price oracle account.
func oracleAccount(cfg config.Config) (string, error) {
	if cfg.PriceOracleAccountID == "" {
		return "", fmt.Errorf("no price oracle configured (run 'lendclient deploy-oracle' first)")
	}
	return cfg.PriceOracleAccountID, nil
}

// NewDepositCommand creates the deposit command.
func NewDepositCommand(rootOpts *RootOptions) *cobra.Command {
	return newTxCommand(rootOpts, txSpec{
		use:        "deposit",
		short:      "Deposit an asset into the lending pool",
		amountFlag: "amount",
		amountHelp: "amount to deposit in base units",
		account:    userAccount,
		run: func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
			return b.Deposit(ctx, accountID, assetID, amount)
		},
	})
}

// NewWithdrawCommand creates the withdraw command.
func NewWithdrawCommand(rootOpts *RootOptions) *cobra.Command {
	return newTxCommand(rootOpts, txSpec{
		use:        "withdraw",
		short:      "Withdraw a deposited asset from the lending pool",
		amountFlag: "amount",
		amountHelp: "amount to withdraw in base units",
		account:    userAccount,
		run: func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
			return b.Withdraw(ctx, accountID, assetID, amount)
		},
	})
}

// NewSupplyCollateralCommand creates the supply-collateral command.
func NewSupplyCollateralCommand(rootOpts *RootOptions) *cobra.Command {
	return newTxCommand(rootOpts, txSpec{
		use:        "supply-collateral",
		short:      "Lock an asset as borrowing collateral",
		amountFlag: "amount",
		amountHelp: "amount to lock in base units",
		account:    userAccount,
		run: func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
			return b.SupplyCollateral(ctx, accountID, assetID, amount)
		},
	})
}

// NewBorrowCommand creates the borrow command.
func NewBorrowCommand(rootOpts *RootOptions) *cobra.Command {
	return newTxCommand(rootOpts, txSpec{
		use:        "borrow",
		short:      "Borrow an asset against supplied collateral",
		amountFlag: "amount",
		amountHelp: "amount to borrow in base units",
		account:    userAccount,
		run: func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
			return b.Borrow(ctx, accountID, assetID, amount)
		},
	})
}

// NewRepayCommand creates the repay command.
func NewRepayCommand(rootOpts *RootOptions) *cobra.Command {
	return newTxCommand(rootOpts, txSpec{
		use:        "repay",
		short:      "Repay outstanding debt",
		amountFlag: "amount",
		amountHelp: "amount to repay in base units",
		account:    userAccount,
		run: func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, amount uint64) (store.TransactionRecord, error) {
			return b.Repay(ctx, accountID, assetID, amount)
		},
	})
}

// NewUpdatePriceCommand creates the update-price command.
func NewUpdatePriceCommand(rootOpts *RootOptions) *cobra.Command {
	return newTxCommand(rootOpts, txSpec{
		use:        "update-price",
		short:      "Push a new asset price to the oracle",
		amountFlag: "price",
		amountHelp: "price with 8 decimal places of precision",
		account:    oracleAccount,
		run: func(ctx context.Context, b *client.TransactionBuilder, accountID string, assetID uint32, price uint64) (store.TransactionRecord, error) {
			return b.UpdatePrice(ctx, accountID, assetID, price)
		},
	})
}

func newTxCommand(rootOpts *RootOptions, spec txSpec) *cobra.Command {
	var (
		assetID uint32
		amount  uint64
	)

	cmd := &cobra.Command{
		Use:           spec.use,
		Short:         spec.short,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
				return WrapExitError(ExitCommandError, err.Error(), err)
			}

			accountID, err := spec.account(cfg)
			if err != nil {
				_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
				return WrapExitError(ExitCommandError, err.Error(), err)
			}

			st, err := openStore(cfg)
			if err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, err.Error(), err)
			}
			defer st.Close()

			builder := client.NewTransactionBuilder(client.New(cfg, st))
			rec, err := spec.run(cmd.Context(), builder, accountID, assetID, amount)
			if err != nil {
				_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
				return WrapExitError(ExitFailure, err.Error(), err)
			}

			if formatter.Format == "json" {
				return formatter.Success(rec)
			}
			fmt.Fprintf(formatter.Writer, "✓ Submitted %s transaction %s (%s %d, asset %s)\n",
				spec.use, rec.ID, spec.amountFlag, amount, client.AssetName(assetID))
			return nil
		},
	}

	cmd.Flags().Uint32Var(&assetID, "asset-id", 0, "asset identifier (1=USDC, 2=DAI, 3=WETH)")
	cmd.Flags().Uint64Var(&amount, spec.amountFlag, 0, spec.amountHelp)
	_ = cmd.MarkFlagRequired("asset-id")
	_ = cmd.MarkFlagRequired(spec.amountFlag)

	return cmd
}
