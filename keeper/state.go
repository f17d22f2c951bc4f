package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// GetParams returns the vault params, falling back to the defaults when none are stored.
func (k *Keeper) GetParams(ctx context.Context) (types.Params, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getParams(ctx)
}

// SetParams validates and stores the vault params.
func (k *Keeper) SetParams(ctx context.Context, params types.Params) error {
	if err := params.Validate(); err != nil {
		return err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.Params.Set(ctx, params)
}

// GetLedger returns the stored ledger without reconciling it against custody.
func (k *Keeper) GetLedger(ctx context.Context) (types.Ledger, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.getLedger(ctx)
}

// GetBalances returns every non-zero share balance in address order.
func (k *Keeper) GetBalances(ctx context.Context) ([]types.ShareBalance, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	balances := []types.ShareBalance{}
	err := k.Balances.Walk(ctx, nil, func(addr sdk.AccAddress, shares sdkmath.Int) (stop bool, err error) {
		bech32, err := k.addressCodec.BytesToString(addr)
		if err != nil {
			return true, err
		}
		balances = append(balances, types.ShareBalance{Address: bech32, Shares: shares})
		return false, nil
	})
	return balances, err
}

func (k *Keeper) getParams(ctx context.Context) (types.Params, error) {
	params, err := k.Params.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.DefaultParams(), nil
	}
	return params, err
}

func (k *Keeper) getLedger(ctx context.Context) (types.Ledger, error) {
	totalShares, err := getIntOrZero(ctx, k.TotalShares)
	if err != nil {
		return types.Ledger{}, err
	}
	totalAssets, err := getIntOrZero(ctx, k.TrackedAssets)
	if err != nil {
		return types.Ledger{}, err
	}
	return types.NewLedger(totalShares, totalAssets), nil
}

func (k *Keeper) setLedger(ctx context.Context, ledger types.Ledger) error {
	if err := ledger.Validate(); err != nil {
		return err
	}
	if err := k.TotalShares.Set(ctx, ledger.TotalShares); err != nil {
		return err
	}
	return k.TrackedAssets.Set(ctx, ledger.TotalAssets)
}

func (k *Keeper) getBalance(ctx context.Context, addr sdk.AccAddress) (sdkmath.Int, error) {
	balance, err := k.Balances.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt(), nil
	}
	return balance, err
}

// addBalance credits delta shares to addr.
func (k *Keeper) addBalance(ctx context.Context, addr sdk.AccAddress, delta sdkmath.Int) error {
	balance, err := k.getBalance(ctx, addr)
	if err != nil {
		return err
	}
	balance, err = balance.SafeAdd(delta)
	if err != nil {
		return errorsmod.Wrapf(types.ErrArithmeticOverflow, "share balance of %s: %s", addr, err)
	}
	return k.Balances.Set(ctx, addr, balance)
}

// subBalance debits delta shares from addr, removing the entry once it reaches zero.
func (k *Keeper) subBalance(ctx context.Context, addr sdk.AccAddress, delta sdkmath.Int) error {
	balance, err := k.getBalance(ctx, addr)
	if err != nil {
		return err
	}
	if balance.LT(delta) {
		return errorsmod.Wrapf(types.ErrInsufficientShares, "%s holds %s shares, needs %s", addr, balance, delta)
	}
	balance = balance.Sub(delta)
	if balance.IsZero() {
		return k.Balances.Remove(ctx, addr)
	}
	return k.Balances.Set(ctx, addr, balance)
}

func getIntOrZero(ctx context.Context, item collections.Item[sdkmath.Int]) (sdkmath.Int, error) {
	value, err := item.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return sdkmath.ZeroInt(), nil
	}
	return value, err
}
