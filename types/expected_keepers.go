package types

import (
	"context"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// AssetLedger moves the vault's underlying asset between accounts and the vault's custody.
// Every call may fail; a failure aborts the enclosing vault operation.
type AssetLedger interface {
	// PullFrom moves amount of the underlying asset from actor into vault custody.
	PullFrom(ctx context.Context, actor sdk.AccAddress, amount sdkmath.Int) error
	// PushTo moves amount of the underlying asset from vault custody to actor.
	PushTo(ctx context.Context, actor sdk.AccAddress, amount sdkmath.Int) error
	// BalanceOf returns the underlying asset balance held by addr.
	BalanceOf(ctx context.Context, addr sdk.AccAddress) sdkmath.Int
	// Denom returns the denomination of the underlying asset.
	Denom() string
	// Custody returns the address that holds the vault's assets.
	Custody() sdk.AccAddress
}

// BankKeeper defines the bank functionality needed to back an AssetLedger.
type BankKeeper interface {
	SendCoins(context context.Context, fromAddr sdk.AccAddress, toAddr sdk.AccAddress, amt sdk.Coins) error
	GetBalance(context context.Context, addr sdk.AccAddress, denom string) sdk.Coin
}
