package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lendfi/lendclient/internal/accounts"
	"github.com/lendfi/lendclient/internal/assembler"
	"github.com/lendfi/lendclient/internal/build"
	"github.com/lendfi/lendclient/internal/client"
	"github.com/lendfi/lendclient/internal/config"
	"github.com/lendfi/lendclient/internal/store"
)

// Component library names the deploy commands load from the assets
// directory.
const (
	libLendingPool = "lending_pool"
	libPriceOracle = "price_oracle"
	libUserLending = "user_lending"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	var rpc string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the lending protocol client",
		Long: `Write the client configuration and initialize the local store.
Safe to re-run; an existing configuration is overwritten with the new
RPC endpoint but account IDs are preserved.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			cfg, err := config.Load(rootOpts.Config)
			if err != nil {
				cfg = config.DefaultConfig()
			}
			cfg.RPCEndpoint = rpc

			if err := cfg.Save(rootOpts.Config); err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, err.Error(), err)
			}

			st, err := openStore(cfg)
			if err != nil {
				_ = formatter.Error(ErrCodeIO, err.Error(), nil)
				return WrapExitError(ExitCommandError, err.Error(), err)
			}
			st.Close()

			if formatter.Format == "json" {
				return formatter.Success(cfg)
			}
			fmt.Fprintf(formatter.Writer, "✓ Initialized client (rpc: %s, storage: %s)\n", cfg.RPCEndpoint, cfg.StoragePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&rpc, "rpc", config.DefaultConfig().RPCEndpoint, "RPC endpoint of the node")

	return cmd
}

// NewCreateAccountCommand creates the create-account command.
func NewCreateAccountCommand(rootOpts *RootOptions) *cobra.Command {
	var storageMode string

	cmd := &cobra.Command{
		Use:           "create-account",
		Short:         "Create a new user lending account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(rootOpts, cmd, deploySpec{
				library: libUserLending,
				kind:    client.KindUser,
				mode:    storageMode,
				component: func(cfg config.Config, lib assembler.Library) accounts.Component {
					pool := accounts.IDWord(cfg.LendingPoolAccountID)
					return accounts.NewUserLending(pool).Component(lib)
				},
				record: func(cfg *config.Config, id string) { cfg.UserAccountID = id },
				label:  "user account",
			})
		},
	}

	cmd.Flags().StringVarP(&storageMode, "storage-mode", "s", client.StoragePrivate, "account storage mode (public|private)")

	return cmd
}

// NewDeployPoolCommand creates the deploy-pool command.
func NewDeployPoolCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "deploy-pool",
		Short:         "Deploy the lending pool account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(rootOpts, cmd, deploySpec{
				library: libLendingPool,
				kind:    client.KindPool,
				mode:    client.StoragePublic,
				component: func(cfg config.Config, lib assembler.Library) accounts.Component {
					return accounts.NewLendingPool().Component(lib)
				},
				record: func(cfg *config.Config, id string) { cfg.LendingPoolAccountID = id },
				label:  "lending pool",
			})
		},
	}
}

// NewDeployOracleCommand creates the deploy-oracle command.
func NewDeployOracleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "deploy-oracle",
		Short:         "Deploy the price oracle account",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(rootOpts, cmd, deploySpec{
				library: libPriceOracle,
				kind:    client.KindOracle,
				mode:    client.StoragePublic,
				component: func(cfg config.Config, lib assembler.Library) accounts.Component {
					return accounts.NewPriceOracle().Component(lib)
				},
				record: func(cfg *config.Config, id string) { cfg.PriceOracleAccountID = id },
				label:  "price oracle",
			})
		},
	}
}

// deploySpec describes one account-deployment command.
type deploySpec struct {
	library   string
	kind      string
	mode      string
	component func(config.Config, assembler.Library) accounts.Component
	record    func(*config.Config, string)
	label     string
}

func runDeploy(rootOpts *RootOptions, cmd *cobra.Command, spec deploySpec) error {
	formatter := newFormatter(rootOpts, cmd)

	cfg, err := config.Load(rootOpts.Config)
	if err != nil {
		_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), err)
	}

	lib, err := accounts.LoadComponentLibrary(filepath.Join("assets", build.ContractsDir), spec.library)
	if err != nil {
		msg := fmt.Sprintf("loading %s library (run 'lendclient build' first): %v", spec.library, err)
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return WrapExitError(ExitCommandError, msg, err)
	}

	st, err := openStore(cfg)
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), err)
	}
	defer st.Close()

	lc := client.New(cfg, st)
	component := spec.component(cfg, lib)

	id, err := lc.CreateAccount(cmd.Context(), spec.kind, spec.mode, component)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, err.Error(), err)
	}

	spec.record(&cfg, id)
	if err := cfg.Save(rootOpts.Config); err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), err)
	}

	if formatter.Format == "json" {
		return formatter.Success(map[string]string{"account_id": id, "kind": spec.kind})
	}
	fmt.Fprintf(formatter.Writer, "✓ Created %s account: %s\n", spec.label, id)
	return nil
}

func newFormatter(rootOpts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}

func openStore(cfg config.Config) (*store.Store, error) {
	if err := os.MkdirAll(cfg.StoragePath, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", cfg.StoragePath, err)
	}
	return store.Open(cfg.StoreFile())
}
