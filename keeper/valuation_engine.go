package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils"
)

// The read operations below evaluate against the ledger a mutating operation would see
// at this moment: when auto reconcile is enabled the custody balance stands in for the
// tracked total assets. Nothing is persisted.

// TotalAssets returns the vault's total assets.
func (k *Keeper) TotalAssets(ctx context.Context) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ledger, _, err := k.viewLedger(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return ledger.TotalAssets, nil
}

// TotalSupply returns the number of shares outstanding.
func (k *Keeper) TotalSupply(ctx context.Context) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return getIntOrZero(ctx, k.TotalShares)
}

// BalanceOf returns the shares held by addr.
func (k *Keeper) BalanceOf(ctx context.Context, addr sdk.AccAddress) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getBalance(ctx, addr)
}

// ConvertToShares returns the shares assets are worth, rounded down.
func (k *Keeper) ConvertToShares(ctx context.Context, assets sdkmath.Int) (sdkmath.Int, error) {
	return k.convert(ctx, func(l types.Ledger) (sdkmath.Int, error) { return l.ToShares(assets, utils.Floor) })
}

// ConvertToAssets returns the assets shares are worth, rounded down.
func (k *Keeper) ConvertToAssets(ctx context.Context, shares sdkmath.Int) (sdkmath.Int, error) {
	return k.convert(ctx, func(l types.Ledger) (sdkmath.Int, error) { return l.ToAssets(shares, utils.Floor) })
}

// PreviewDeposit returns the shares Deposit would issue for assets.
// A zero result means the deposit would be rejected with ErrZeroShares.
func (k *Keeper) PreviewDeposit(ctx context.Context, assets sdkmath.Int) (sdkmath.Int, error) {
	return k.ConvertToShares(ctx, assets)
}

// PreviewMint returns the assets Mint would collect for shares, rounded up.
func (k *Keeper) PreviewMint(ctx context.Context, shares sdkmath.Int) (sdkmath.Int, error) {
	return k.convert(ctx, func(l types.Ledger) (sdkmath.Int, error) { return l.ToAssets(shares, utils.Ceil) })
}

// PreviewWithdraw returns the shares Withdraw would burn for assets, rounded up.
func (k *Keeper) PreviewWithdraw(ctx context.Context, assets sdkmath.Int) (sdkmath.Int, error) {
	return k.convert(ctx, func(l types.Ledger) (sdkmath.Int, error) { return l.ToShares(assets, utils.Ceil) })
}

// PreviewRedeem returns the assets Redeem would pay for shares, rounded down.
func (k *Keeper) PreviewRedeem(ctx context.Context, shares sdkmath.Int) (sdkmath.Int, error) {
	return k.ConvertToAssets(ctx, shares)
}

// MaxDeposit returns the largest asset amount the vault accepts before hitting its
// deposit cap, or types.MaxAmount when no cap is configured. An insolvent vault accepts
// nothing.
func (k *Keeper) MaxDeposit(ctx context.Context) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ledger, params, err := k.viewLedger(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return maxDeposit(ledger, params), nil
}

// MaxMint returns the largest share amount Mint accepts before hitting the deposit cap,
// or types.MaxAmount when no cap is configured. An insolvent vault accepts nothing.
func (k *Keeper) MaxMint(ctx context.Context) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ledger, params, err := k.viewLedger(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	if ledger.IsInsolvent() {
		return sdkmath.ZeroInt(), nil
	}
	if !params.HasDepositCap() {
		return types.MaxAmount, nil
	}
	return ledger.ToShares(maxDeposit(ledger, params), utils.Floor)
}

// MaxWithdraw returns the assets addr can withdraw with its whole balance.
func (k *Keeper) MaxWithdraw(ctx context.Context, addr sdk.AccAddress) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ledger, _, err := k.viewLedger(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	balance, err := k.getBalance(ctx, addr)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return ledger.ToAssets(balance, utils.Floor)
}

// MaxRedeem returns the shares addr can redeem.
func (k *Keeper) MaxRedeem(ctx context.Context, addr sdk.AccAddress) (sdkmath.Int, error) {
	return k.BalanceOf(ctx, addr)
}

func (k *Keeper) convert(ctx context.Context, fn func(types.Ledger) (sdkmath.Int, error)) (sdkmath.Int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	ledger, _, err := k.viewLedger(ctx)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return fn(ledger)
}

func maxDeposit(ledger types.Ledger, params types.Params) sdkmath.Int {
	if ledger.IsInsolvent() {
		return sdkmath.ZeroInt()
	}
	if !params.HasDepositCap() {
		return types.MaxAmount
	}
	if ledger.TotalAssets.GTE(params.DepositCap) {
		return sdkmath.ZeroInt()
	}
	return params.DepositCap.Sub(ledger.TotalAssets)
}
