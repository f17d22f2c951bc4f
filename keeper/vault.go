package keeper

import (
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

// Deposit moves assets from actor into vault custody and credits actor with newly issued
// shares, returning the number of shares issued.
//
// It performs the following steps:
//  1. Validates that assets is positive.
//  2. Reconciles the tracked assets with custody (if auto reconcile is enabled).
//  3. Computes the shares against the rate as it stood before the deposit, rounding down.
//     An empty vault issues shares 1:1 regardless of any leftover assets.
//  4. Rejects the deposit if it would issue zero shares or exceed the deposit cap.
//  5. Credits the ledger and actor's balance, then pulls the assets from actor.
//
// If any step fails no state is changed.
func (k *Keeper) Deposit(ctx sdk.Context, actor sdk.AccAddress, assets sdkmath.Int) (sdkmath.Int, error) {
	if err := validateAmount(assets, "deposit assets"); err != nil {
		return sdkmath.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var shares sdkmath.Int
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		ledger, params, err := k.prepareLedger(ctx)
		if err != nil {
			return err
		}

		shares, err = ledger.ToShares(assets, utils.Floor)
		if err != nil {
			return err
		}
		if shares.IsZero() {
			return errorsmod.Wrapf(types.ErrZeroShares, "deposit of %s against %s", assets, ledger)
		}

		next, err := k.credit(ctx, ledger, params, actor, assets, shares)
		if err != nil {
			return err
		}
		if err := k.assets.PullFrom(ctx, actor, assets); err != nil {
			return k.transferFailed(ctx, "pull", actor, assets, err)
		}

		ctx.EventManager().EmitEvent(types.NewEventDeposit(k.addressString(actor), assets, shares, next))
		k.getLogger(ctx).Debug("deposit", "actor", k.addressString(actor), "assets", assets, "shares", shares, "ledger", next)
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return shares, nil
}

// Mint issues exactly shares to actor and pulls the assets they cost, returning the
// assets collected. The cost is rounded up so the vault never under-collects.
func (k *Keeper) Mint(ctx sdk.Context, actor sdk.AccAddress, shares sdkmath.Int) (sdkmath.Int, error) {
	if err := validateAmount(shares, "mint shares"); err != nil {
		return sdkmath.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var assets sdkmath.Int
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		ledger, params, err := k.prepareLedger(ctx)
		if err != nil {
			return err
		}

		if ledger.IsInsolvent() {
			return errorsmod.Wrapf(types.ErrInsufficientAssets, "vault has shares outstanding and no assets: %s", ledger)
		}
		assets, err = ledger.ToAssets(shares, utils.Ceil)
		if err != nil {
			return err
		}

		next, err := k.credit(ctx, ledger, params, actor, assets, shares)
		if err != nil {
			return err
		}
		if err := k.assets.PullFrom(ctx, actor, assets); err != nil {
			return k.transferFailed(ctx, "pull", actor, assets, err)
		}

		ctx.EventManager().EmitEvent(types.NewEventMint(k.addressString(actor), assets, shares, next))
		k.getLogger(ctx).Debug("mint", "actor", k.addressString(actor), "assets", assets, "shares", shares, "ledger", next)
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return assets, nil
}

// Withdraw pays exactly assets out of custody to actor and burns the shares they are
// worth, returning the shares burned. The burn is rounded up so the vault never pays out
// more value than the shares carry.
func (k *Keeper) Withdraw(ctx sdk.Context, actor sdk.AccAddress, assets sdkmath.Int) (sdkmath.Int, error) {
	if err := validateAmount(assets, "withdraw assets"); err != nil {
		return sdkmath.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var shares sdkmath.Int
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		ledger, _, err := k.prepareLedger(ctx)
		if err != nil {
			return err
		}

		balance, err := k.getBalance(ctx, actor)
		if err != nil {
			return err
		}
		maxAssets, err := ledger.ToAssets(balance, utils.Floor)
		if err != nil {
			return err
		}
		if assets.GT(maxAssets) {
			return errorsmod.Wrapf(types.ErrInsufficientShares, "%s can withdraw at most %s, requested %s", actor, maxAssets, assets)
		}

		shares, err = ledger.ToShares(assets, utils.Ceil)
		if err != nil {
			return err
		}
		if shares.GT(balance) {
			return errorsmod.Wrapf(types.ErrInsufficientShares, "withdrawing %s burns %s shares, %s holds %s", assets, shares, actor, balance)
		}

		next, err := k.debit(ctx, ledger, actor, assets, shares)
		if err != nil {
			return err
		}
		if err := k.assets.PushTo(ctx, actor, assets); err != nil {
			return k.transferFailed(ctx, "push", actor, assets, err)
		}

		ctx.EventManager().EmitEvent(types.NewEventWithdraw(k.addressString(actor), assets, shares, next))
		k.getLogger(ctx).Debug("withdraw", "actor", k.addressString(actor), "assets", assets, "shares", shares, "ledger", next)
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return shares, nil
}

// Redeem burns shares from actor and pays out the assets they are worth, returning the
// assets paid. The payout is rounded down.
func (k *Keeper) Redeem(ctx sdk.Context, actor sdk.AccAddress, shares sdkmath.Int) (sdkmath.Int, error) {
	if err := validateAmount(shares, "redeem shares"); err != nil {
		return sdkmath.Int{}, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	var assets sdkmath.Int
	err := k.atomically(ctx, func(ctx sdk.Context) error {
		ledger, _, err := k.prepareLedger(ctx)
		if err != nil {
			return err
		}

		balance, err := k.getBalance(ctx, actor)
		if err != nil {
			return err
		}
		if shares.GT(balance) {
			return errorsmod.Wrapf(types.ErrInsufficientShares, "%s holds %s shares, requested %s", actor, balance, shares)
		}

		assets, err = ledger.ToAssets(shares, utils.Floor)
		if err != nil {
			return err
		}
		if assets.IsZero() {
			return errorsmod.Wrapf(types.ErrZeroAssets, "redeem amount of %s shares is too small against %s", shares, ledger)
		}

		next, err := k.debit(ctx, ledger, actor, assets, shares)
		if err != nil {
			return err
		}
		if err := k.assets.PushTo(ctx, actor, assets); err != nil {
			return k.transferFailed(ctx, "push", actor, assets, err)
		}

		ctx.EventManager().EmitEvent(types.NewEventRedeem(k.addressString(actor), assets, shares, next))
		k.getLogger(ctx).Debug("redeem", "actor", k.addressString(actor), "assets", assets, "shares", shares, "ledger", next)
		return nil
	})
	if err != nil {
		return sdkmath.Int{}, err
	}
	return assets, nil
}

// atomically runs fn against a cached context and commits it only when fn succeeds.
// Events emitted by a failed fn are dropped along with its writes.
func (k *Keeper) atomically(ctx sdk.Context, fn func(ctx sdk.Context) error) error {
	cacheCtx, write := ctx.CacheContext()
	if err := fn(cacheCtx); err != nil {
		return err
	}
	write()
	return nil
}

// credit adds assets and shares to the ledger and shares to actor's balance.
func (k *Keeper) credit(ctx sdk.Context, ledger types.Ledger, params types.Params, actor sdk.AccAddress, assets, shares sdkmath.Int) (types.Ledger, error) {
	next, err := ledger.AddAssets(assets)
	if err != nil {
		return types.Ledger{}, err
	}
	if params.HasDepositCap() && next.TotalAssets.GT(params.DepositCap) {
		return types.Ledger{}, errorsmod.Wrapf(types.ErrDepositCapExceeded, "total assets would be %s, cap is %s", next.TotalAssets, params.DepositCap)
	}
	if next, err = next.AddShares(shares); err != nil {
		return types.Ledger{}, err
	}
	if err := k.setLedger(ctx, next); err != nil {
		return types.Ledger{}, err
	}
	if err := k.addBalance(ctx, actor, shares); err != nil {
		return types.Ledger{}, err
	}
	return next, nil
}

// debit removes assets and shares from the ledger and shares from actor's balance.
func (k *Keeper) debit(ctx sdk.Context, ledger types.Ledger, actor sdk.AccAddress, assets, shares sdkmath.Int) (types.Ledger, error) {
	next, err := ledger.SubAssets(assets)
	if err != nil {
		return types.Ledger{}, err
	}
	if next, err = next.SubShares(shares); err != nil {
		return types.Ledger{}, err
	}
	if err := k.setLedger(ctx, next); err != nil {
		return types.Ledger{}, err
	}
	if err := k.subBalance(ctx, actor, shares); err != nil {
		return types.Ledger{}, err
	}
	return next, nil
}

func (k *Keeper) transferFailed(ctx sdk.Context, direction string, actor sdk.AccAddress, amount sdkmath.Int, cause error) error {
	k.getLogger(ctx).Error("asset transfer rejected", "direction", direction, "actor", k.addressString(actor), "amount", amount, "error", cause)
	return errorsmod.Wrapf(types.ErrAssetTransferFailed, "%s %s%s for %s: %s", direction, amount, k.assets.Denom(), actor, cause)
}

func validateAmount(amount sdkmath.Int, what string) error {
	if amount.IsNil() || !amount.IsPositive() {
		return errorsmod.Wrapf(types.ErrInvalidAmount, "%s must be positive, got %v", what, amount)
	}
	return nil
}
