package keeper

import (
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// RegisterInvariants registers the vault invariants with the registry.
func RegisterInvariants(ir sdk.InvariantRegistry, k *Keeper) {
	ir.RegisterRoute(types.ModuleName, "total-shares", TotalSharesInvariant(k))
	ir.RegisterRoute(types.ModuleName, "custody", CustodyInvariant(k))
}

// AllInvariants runs every vault invariant, stopping at the first broken one.
func AllInvariants(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		if msg, broken := TotalSharesInvariant(k)(ctx); broken {
			return msg, broken
		}
		return CustodyInvariant(k)(ctx)
	}
}

// TotalSharesInvariant checks that the share supply equals the sum of all share balances
// and that no balance is zero or negative.
func TotalSharesInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		k.mu.Lock()
		defer k.mu.Unlock()

		ledger, err := k.getLedger(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "total-shares", fmt.Sprintf("failed to read ledger: %s", err)), true
		}

		sum := sdkmath.ZeroInt()
		var bad []string
		err = k.Balances.Walk(ctx, nil, func(addr sdk.AccAddress, shares sdkmath.Int) (stop bool, err error) {
			if !shares.IsPositive() {
				bad = append(bad, fmt.Sprintf("%s holds %s shares", addr, shares))
			}
			sum = sum.Add(shares)
			return false, nil
		})
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "total-shares", fmt.Sprintf("failed to walk balances: %s", err)), true
		}

		broken := len(bad) > 0 || !sum.Equal(ledger.TotalShares)
		msg := fmt.Sprintf("\tsum of balances: %s\n\ttotal shares: %s\n", sum, ledger.TotalShares)
		for _, b := range bad {
			msg += "\t" + b + "\n"
		}
		return sdk.FormatInvariant(types.ModuleName, "total-shares", msg), broken
	}
}

// CustodyInvariant checks that the vault's custody holds at least the stored total assets.
// The stored value is checked regardless of auto reconcile. A loss taken outside the vault
// breaks this until the next reconcile.
func CustodyInvariant(k *Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		k.mu.Lock()
		defer k.mu.Unlock()

		ledger, err := k.getLedger(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "custody", fmt.Sprintf("failed to read ledger: %s", err)), true
		}
		custody := k.assets.BalanceOf(ctx, k.VaultAddress())

		broken := custody.LT(ledger.TotalAssets)
		msg := fmt.Sprintf("\tcustody balance: %s%s\n\ttracked assets: %s\n", custody, k.assets.Denom(), ledger.TotalAssets)
		return sdk.FormatInvariant(types.ModuleName, "custody", msg), broken
	}
}
