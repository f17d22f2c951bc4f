package simulation

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

// expectedFailures are rejections a random operation may legitimately run into.
var expectedFailures = []error{
	types.ErrZeroShares,
	types.ErrZeroAssets,
	types.ErrInsufficientShares,
	types.ErrInsufficientAssets,
	types.ErrDepositCapExceeded,
	types.ErrAssetTransferFailed,
}

// randomInt63 generates a random int64 between 0 and maxVal.
func randomInt63(r *rand.Rand, maxVal int64) (result int64) {
	if maxVal == 0 {
		return 0
	}
	return r.Int63n(maxVal)
}

// randomPositiveAmount returns a random amount in [1, maxVal], or zero when maxVal is not positive.
func randomPositiveAmount(r *rand.Rand, maxVal sdkmath.Int) sdkmath.Int {
	if maxVal.IsNil() || !maxVal.IsPositive() {
		return sdkmath.ZeroInt()
	}
	return simtypes.RandomAmount(r, maxVal.SubRaw(1)).AddRaw(1)
}

// getRandomFundedAccount selects a random account holding some of the vault asset.
func getRandomFundedAccount(r *rand.Rand, k *keeper.Keeper, ctx sdk.Context, accs []simtypes.Account) (simtypes.Account, sdkmath.Int, error) {
	ledger := k.AssetLedger()
	funded := slices.Collect(utils.Filter(accs, func(acc simtypes.Account) bool {
		return ledger.BalanceOf(ctx, acc.Address).IsPositive()
	}))
	if len(funded) == 0 {
		return simtypes.Account{}, sdkmath.Int{}, fmt.Errorf("no account holds %s", ledger.Denom())
	}
	acc, _ := simtypes.RandomAcc(r, funded)
	return acc, ledger.BalanceOf(ctx, acc.Address), nil
}

// getRandomHolder selects a random account holding vault shares.
func getRandomHolder(r *rand.Rand, k *keeper.Keeper, ctx sdk.Context, accs []simtypes.Account) (simtypes.Account, sdkmath.Int, error) {
	var holders []simtypes.Account
	for _, acc := range accs {
		shares, err := k.BalanceOf(ctx, acc.Address)
		if err != nil {
			return simtypes.Account{}, sdkmath.Int{}, err
		}
		if shares.IsPositive() {
			holders = append(holders, acc)
		}
	}
	if len(holders) == 0 {
		return simtypes.Account{}, sdkmath.Int{}, fmt.Errorf("no account holds shares")
	}
	acc, _ := simtypes.RandomAcc(r, holders)
	shares, err := k.BalanceOf(ctx, acc.Address)
	return acc, shares, err
}

// failureReason returns the registered error err matches, if it is an expected failure.
func failureReason(err error) (string, bool) {
	for _, expected := range expectedFailures {
		if errors.Is(err, expected) {
			return expected.Error(), true
		}
	}
	return "", false
}
