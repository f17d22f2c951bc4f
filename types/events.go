package types

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	EventTypeDeposit   = "vault_deposit"
	EventTypeMint      = "vault_mint"
	EventTypeWithdraw  = "vault_withdraw"
	EventTypeRedeem    = "vault_redeem"
	EventTypeReconcile = "vault_reconcile"

	AttributeKeyActor        = "actor"
	AttributeKeyAssets       = "assets"
	AttributeKeyShares       = "shares"
	AttributeKeyTotalAssets  = "total_assets"
	AttributeKeyTotalShares  = "total_shares"
	AttributeKeyAssetsBefore = "assets_before"
	AttributeKeyAssetsAfter  = "assets_after"
	AttributeKeyDelta        = "delta"
)

// NewEventDeposit creates an event for assets deposited in exchange for newly issued shares.
func NewEventDeposit(actor string, assets, shares sdkmath.Int, ledger Ledger) sdk.Event {
	return newOperationEvent(EventTypeDeposit, actor, assets, shares, ledger)
}

// NewEventMint creates an event for shares minted in exchange for collected assets.
func NewEventMint(actor string, assets, shares sdkmath.Int, ledger Ledger) sdk.Event {
	return newOperationEvent(EventTypeMint, actor, assets, shares, ledger)
}

// NewEventWithdraw creates an event for assets withdrawn by burning shares.
func NewEventWithdraw(actor string, assets, shares sdkmath.Int, ledger Ledger) sdk.Event {
	return newOperationEvent(EventTypeWithdraw, actor, assets, shares, ledger)
}

// NewEventRedeem creates an event for shares redeemed for assets.
func NewEventRedeem(actor string, assets, shares sdkmath.Int, ledger Ledger) sdk.Event {
	return newOperationEvent(EventTypeRedeem, actor, assets, shares, ledger)
}

// NewEventReconcile creates an event for a change in tracked assets that did not pass
// through a deposit or withdrawal. A positive delta is yield or a donation, a negative
// delta is a loss.
// Note: delta is rendered with String so negative values are kept.
func NewEventReconcile(before, after sdkmath.Int) sdk.Event {
	return sdk.NewEvent(
		EventTypeReconcile,
		sdk.NewAttribute(AttributeKeyAssetsBefore, before.String()),
		sdk.NewAttribute(AttributeKeyAssetsAfter, after.String()),
		sdk.NewAttribute(AttributeKeyDelta, after.Sub(before).String()),
	)
}

func newOperationEvent(eventType, actor string, assets, shares sdkmath.Int, ledger Ledger) sdk.Event {
	return sdk.NewEvent(
		eventType,
		sdk.NewAttribute(AttributeKeyActor, actor),
		sdk.NewAttribute(AttributeKeyAssets, assets.String()),
		sdk.NewAttribute(AttributeKeyShares, shares.String()),
		sdk.NewAttribute(AttributeKeyTotalAssets, ledger.TotalAssets.String()),
		sdk.NewAttribute(AttributeKeyTotalShares, ledger.TotalShares.String()),
	)
}
