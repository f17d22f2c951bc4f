package assetledger

import (
	"context"
	"fmt"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

var _ types.AssetLedger = BankLedger{}

// BankLedger adapts a bank keeper to the AssetLedger used by the vault keeper. All
// movements are denominated in a single denom and settle against a custody address.
type BankLedger struct {
	bank    types.BankKeeper
	custody sdk.AccAddress
	denom   string
}

// NewBankLedger creates a BankLedger for denom with custody held at the given address.
func NewBankLedger(bank types.BankKeeper, custody sdk.AccAddress, denom string) (BankLedger, error) {
	if bank == nil {
		return BankLedger{}, fmt.Errorf("bank keeper cannot be nil")
	}
	if custody.Empty() {
		return BankLedger{}, fmt.Errorf("custody address cannot be empty")
	}
	if err := sdk.ValidateDenom(denom); err != nil {
		return BankLedger{}, fmt.Errorf("invalid asset denom: %w", err)
	}
	return BankLedger{bank: bank, custody: custody, denom: denom}, nil
}

// PullFrom moves amount from actor into custody.
func (l BankLedger) PullFrom(ctx context.Context, actor sdk.AccAddress, amount sdkmath.Int) error {
	return l.bank.SendCoins(ctx, actor, l.custody, sdk.NewCoins(sdk.NewCoin(l.denom, amount)))
}

// PushTo moves amount from custody to actor.
func (l BankLedger) PushTo(ctx context.Context, actor sdk.AccAddress, amount sdkmath.Int) error {
	return l.bank.SendCoins(ctx, l.custody, actor, sdk.NewCoins(sdk.NewCoin(l.denom, amount)))
}

// BalanceOf returns the balance of addr in the ledger's denom.
func (l BankLedger) BalanceOf(ctx context.Context, addr sdk.AccAddress) sdkmath.Int {
	return l.bank.GetBalance(ctx, addr, l.denom).Amount
}

// Denom returns the denom moved by this ledger.
func (l BankLedger) Denom() string {
	return l.denom
}

// Custody returns the address holding the vault's assets.
func (l BankLedger) Custody() sdk.AccAddress {
	return l.custody
}
