package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"

	corestore "cosmossdk.io/core/store"
	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/sharevault/assetledger"
	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/simulation"
	"github.com/provlabs/sharevault/types"
)

// NewRootCmd creates the vaultsim command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vaultsim",
		Short: "Run randomized deposits, mints, withdrawals and redemptions against an in-memory vault",
		Long: `vaultsim funds a set of random accounts with the vault asset and runs weighted random
vault operations against an in-memory store, checking the vault invariants after every
operation. The final report is printed as JSON.

Every flag can also be set through a VAULTSIM_ prefixed environment variable, e.g.
VAULTSIM_AUTO_RECONCILE=false.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runSimulation(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	addFlags(cmd)
	return cmd
}

func runSimulation(cfg Config, out, logOut io.Writer) error {
	filter, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", FlagLogLevel, err)
	}
	logger := log.NewLogger(logOut, log.FilterOption(filter), log.ColorOption(false))

	ctx, storeService, err := newContext(logger)
	if err != nil {
		return err
	}

	bank := assetledger.NewMemoryBank()
	ledger, err := assetledger.NewBankLedger(bank, types.VaultAddress(), cfg.Denom)
	if err != nil {
		return err
	}
	k := keeper.NewKeeper(storeService, addresscodec.NewBech32Codec(sdk.GetConfig().GetBech32AccountAddrPrefix()), ledger)

	params := types.Params{AutoReconcile: cfg.AutoReconcile, DepositCap: cfg.DepositCap}
	if err := k.SetParams(ctx, params); err != nil {
		return err
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	accs := simtypes.RandomAccounts(r, cfg.Accounts)
	if err := simulation.FundAccounts(bank, accs, cfg.Denom, cfg.Funds); err != nil {
		return err
	}

	logger.Info("starting vault simulation", "seed", cfg.Seed, "accounts", cfg.Accounts, "ops", cfg.Ops, "auto_reconcile", cfg.AutoReconcile)
	ops := simulation.WeightedOperations(make(simtypes.AppParams), r, k)
	report, err := simulation.Run(r, k, ctx, accs, ops, cfg.Ops)
	if err != nil {
		return err
	}

	bz, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(bz))
	return err
}

// newContext creates a context over a fresh in-memory store holding the vault module.
func newContext(logger log.Logger) (sdk.Context, corestore.KVStoreService, error) {
	key := storetypes.NewKVStoreKey(types.StoreKey)

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	if err := cms.LoadLatestVersion(); err != nil {
		return sdk.Context{}, nil, fmt.Errorf("loading store: %w", err)
	}

	ctx := sdk.NewContext(cms, cmtproto.Header{}, false, logger)
	return ctx, runtime.NewKVStoreService(key), nil
}
