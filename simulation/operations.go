package simulation

import (
	"fmt"
	"math/rand"

	"github.com/cosmos/cosmos-sdk/baseapp"
	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
	"github.com/cosmos/cosmos-sdk/x/simulation"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

const (
	OpWeightDeposit   = "op_weight_deposit"
	OpWeightMint      = "op_weight_mint"
	OpWeightWithdraw  = "op_weight_withdraw"
	OpWeightRedeem    = "op_weight_redeem"
	OpWeightDonate    = "op_weight_donate"
	OpWeightReconcile = "op_weight_reconcile"
)

const (
	DefaultWeightDeposit   = 35
	DefaultWeightMint      = 15
	DefaultWeightWithdraw  = 15
	DefaultWeightRedeem    = 25
	DefaultWeightDonate    = 5
	DefaultWeightReconcile = 5
)

const (
	OpDeposit   = "deposit"
	OpMint      = "mint"
	OpWithdraw  = "withdraw"
	OpRedeem    = "redeem"
	OpDonate    = "donate"
	OpReconcile = "reconcile"
)

// DonationFraction bounds a donation to 1/X of the donor's balance.
const DonationFraction = 10

// WeightedOperations returns all the vault operations with their respective weights.
func WeightedOperations(appParams simtypes.AppParams, r *rand.Rand, k *keeper.Keeper) simulation.WeightedOperations {
	var (
		wDeposit   int
		wMint      int
		wWithdraw  int
		wRedeem    int
		wDonate    int
		wReconcile int
	)

	appParams.GetOrGenerate(OpWeightDeposit, &wDeposit, r, func(r *rand.Rand) { wDeposit = DefaultWeightDeposit })
	appParams.GetOrGenerate(OpWeightMint, &wMint, r, func(r *rand.Rand) { wMint = DefaultWeightMint })
	appParams.GetOrGenerate(OpWeightWithdraw, &wWithdraw, r, func(r *rand.Rand) { wWithdraw = DefaultWeightWithdraw })
	appParams.GetOrGenerate(OpWeightRedeem, &wRedeem, r, func(r *rand.Rand) { wRedeem = DefaultWeightRedeem })
	appParams.GetOrGenerate(OpWeightDonate, &wDonate, r, func(r *rand.Rand) { wDonate = DefaultWeightDonate })
	appParams.GetOrGenerate(OpWeightReconcile, &wReconcile, r, func(r *rand.Rand) { wReconcile = DefaultWeightReconcile })

	return simulation.WeightedOperations{
		simulation.NewWeightedOperation(wDeposit, SimulateDeposit(k)),
		simulation.NewWeightedOperation(wMint, SimulateMint(k)),
		simulation.NewWeightedOperation(wWithdraw, SimulateWithdraw(k)),
		simulation.NewWeightedOperation(wRedeem, SimulateRedeem(k)),
		simulation.NewWeightedOperation(wDonate, SimulateDonate(k)),
		simulation.NewWeightedOperation(wReconcile, SimulateReconcile(k)),
	}
}

// SimulateDeposit deposits a random part of a random funded account's assets.
func SimulateDeposit(k *keeper.Keeper) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context, accs []simtypes.Account, _ string) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		acc, balance, err := getRandomFundedAccount(r, k, ctx, accs)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, OpDeposit, err.Error()), nil, nil
		}

		assets := randomPositiveAmount(r, balance)
		shares, err := k.Deposit(ctx, acc.Address, assets)
		return result(OpDeposit, err, "%s assets for %s shares", assets, shares)
	}
}

// SimulateMint mints a random number of shares for a random funded account, bounded by
// what its balance can buy.
func SimulateMint(k *keeper.Keeper) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context, accs []simtypes.Account, _ string) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		acc, balance, err := getRandomFundedAccount(r, k, ctx, accs)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, OpMint, err.Error()), nil, nil
		}

		affordable, err := k.ConvertToShares(ctx, balance)
		if err != nil {
			return result(OpMint, err, "")
		}
		if !affordable.IsPositive() {
			return simtypes.NoOpMsg(types.ModuleName, OpMint, "balance cannot buy a share"), nil, nil
		}

		shares := randomPositiveAmount(r, affordable)
		assets, err := k.Mint(ctx, acc.Address, shares)
		return result(OpMint, err, "%s shares for %s assets", shares, assets)
	}
}

// SimulateWithdraw withdraws a random part of a random holder's claim.
func SimulateWithdraw(k *keeper.Keeper) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context, accs []simtypes.Account, _ string) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		acc, _, err := getRandomHolder(r, k, ctx, accs)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, OpWithdraw, err.Error()), nil, nil
		}

		claim, err := k.MaxWithdraw(ctx, acc.Address)
		if err != nil {
			return result(OpWithdraw, err, "")
		}
		if !claim.IsPositive() {
			return simtypes.NoOpMsg(types.ModuleName, OpWithdraw, "shares are worth nothing"), nil, nil
		}

		assets := randomPositiveAmount(r, claim)
		shares, err := k.Withdraw(ctx, acc.Address, assets)
		return result(OpWithdraw, err, "%s assets for %s shares", assets, shares)
	}
}

// SimulateRedeem redeems a random part of a random holder's shares.
func SimulateRedeem(k *keeper.Keeper) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context, accs []simtypes.Account, _ string) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		acc, balance, err := getRandomHolder(r, k, ctx, accs)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, OpRedeem, err.Error()), nil, nil
		}

		shares := randomPositiveAmount(r, balance)
		assets, err := k.Redeem(ctx, acc.Address, shares)
		return result(OpRedeem, err, "%s shares for %s assets", shares, assets)
	}
}

// SimulateDonate moves assets from a random funded account straight into custody,
// which the vault treats as yield.
func SimulateDonate(k *keeper.Keeper) simtypes.Operation {
	return func(r *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context, accs []simtypes.Account, _ string) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		acc, balance, err := getRandomFundedAccount(r, k, ctx, accs)
		if err != nil {
			return simtypes.NoOpMsg(types.ModuleName, OpDonate, err.Error()), nil, nil
		}

		amount := randomPositiveAmount(r, balance.QuoRaw(DonationFraction))
		if amount.IsZero() {
			return simtypes.NoOpMsg(types.ModuleName, OpDonate, "balance too small to donate"), nil, nil
		}
		if err := k.AssetLedger().PullFrom(ctx, acc.Address, amount); err != nil {
			return simtypes.OperationMsg{}, nil, err
		}
		return success(OpDonate, "%s assets", amount)
	}
}

// SimulateReconcile reconciles the tracked assets with custody.
func SimulateReconcile(k *keeper.Keeper) simtypes.Operation {
	return func(_ *rand.Rand, _ *baseapp.BaseApp, ctx sdk.Context, _ []simtypes.Account, _ string) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
		delta, err := k.Reconcile(ctx)
		return result(OpReconcile, err, "delta %s", delta)
	}
}

// result turns the outcome of a keeper call into an operation message. Expected
// rejections become no-ops, anything else aborts the simulation.
func result(name string, err error, format string, args ...any) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
	if err == nil {
		return success(name, format, args...)
	}
	if reason, ok := failureReason(err); ok {
		return simtypes.NoOpMsg(types.ModuleName, name, reason), nil, nil
	}
	return simtypes.OperationMsg{}, nil, err
}

func success(name, format string, args ...any) (simtypes.OperationMsg, []simtypes.FutureOperation, error) {
	return simtypes.OperationMsg{
		Route:   types.ModuleName,
		Name:    name,
		Comment: fmt.Sprintf(format, args...),
		OK:      true,
	}, nil, nil
}

