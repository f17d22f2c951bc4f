package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// Reconcile sets the tracked total assets to the vault's custody balance on the asset
// ledger and returns the difference. A positive delta is yield or a donation that arrived
// without passing through Deposit or Mint, a negative delta is a loss.
//
// Existing share holders absorb the delta pro rata since the share supply is unchanged.
func (k *Keeper) Reconcile(ctx sdk.Context) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	var delta sdkmath.Int
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		ledger, err := k.getLedger(ctx)
		if err != nil {
			return err
		}
		_, delta, err = k.reconcile(ctx, ledger)
		return err
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return delta, nil
}

// reconcile persists the custody balance as total assets when it differs from the
// ledger, emitting an EventTypeReconcile event.
func (k *Keeper) reconcile(ctx sdk.Context, ledger types.Ledger) (types.Ledger, sdkmath.Int, error) {
	custody := k.assets.BalanceOf(ctx, k.VaultAddress())
	delta := custody.Sub(ledger.TotalAssets)
	if delta.IsZero() {
		return ledger, delta, nil
	}

	before := ledger.TotalAssets
	ledger.TotalAssets = custody
	if err := k.setLedger(ctx, ledger); err != nil {
		return types.Ledger{}, sdkmath.Int{}, err
	}

	k.getLogger(ctx).Info("reconciled vault assets", "before", before, "after", custody, "delta", delta)
	ctx.EventManager().EmitEvent(types.NewEventReconcile(before, custody))
	return ledger, delta, nil
}

// prepareLedger loads the ledger for a mutating operation, reconciling it first when
// auto reconcile is enabled.
func (k *Keeper) prepareLedger(ctx sdk.Context) (types.Ledger, types.Params, error) {
	params, err := k.getParams(ctx)
	if err != nil {
		return types.Ledger{}, types.Params{}, err
	}
	ledger, err := k.getLedger(ctx)
	if err != nil {
		return types.Ledger{}, types.Params{}, err
	}
	if params.AutoReconcile {
		ledger, _, err = k.reconcile(ctx, ledger)
		if err != nil {
			return types.Ledger{}, types.Params{}, err
		}
	}
	return ledger, params, nil
}

// viewLedger returns the ledger a mutating operation would see, without persisting anything.
func (k *Keeper) viewLedger(ctx context.Context) (types.Ledger, types.Params, error) {
	params, err := k.getParams(ctx)
	if err != nil {
		return types.Ledger{}, types.Params{}, err
	}
	ledger, err := k.getLedger(ctx)
	if err != nil {
		return types.Ledger{}, types.Params{}, err
	}
	if params.AutoReconcile {
		ledger.TotalAssets = k.assets.BalanceOf(ctx, k.VaultAddress())
	}
	return ledger, params, nil
}
