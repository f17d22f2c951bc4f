package assetledger

import (
	"context"
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/provlabs/sharevault/types"
)

var _ types.BankKeeper = (*MemoryBank)(nil)

// SendHook is consulted before every transfer. Returning an error rejects the transfer.
type SendHook func(from, to sdk.AccAddress, amt sdk.Coins) error

// MemoryBank is an in-memory fungible token ledger keyed by address and denom.
// It is safe for concurrent use.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[string]sdk.Coins
	sendHook SendHook
}

// NewMemoryBank creates an empty MemoryBank.
func NewMemoryBank() *MemoryBank {
	return &MemoryBank{balances: make(map[string]sdk.Coins)}
}

// Mint credits coins to addr out of thin air.
func (b *MemoryBank) Mint(addr sdk.AccAddress, coins ...sdk.Coin) error {
	amt := sdk.NewCoins(coins...)
	if !amt.IsValid() {
		return fmt.Errorf("invalid mint amount %s", amt)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[addr.String()] = b.balances[addr.String()].Add(amt...)
	return nil
}

// SetSendHook installs a hook consulted before every transfer. A nil hook removes it.
func (b *MemoryBank) SetSendHook(hook SendHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sendHook = hook
}

// SendCoins moves amt from fromAddr to toAddr, failing if fromAddr cannot cover it.
func (b *MemoryBank) SendCoins(_ context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return sdkerrors.ErrInvalidCoins.Wrap(amt.String())
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.sendHook != nil {
		if err := b.sendHook(fromAddr, toAddr, amt); err != nil {
			return err
		}
	}

	from := b.balances[fromAddr.String()]
	remaining, hasNeg := from.SafeSub(amt...)
	if hasNeg {
		return sdkerrors.ErrInsufficientFunds.Wrapf("spendable balance %s is smaller than %s", from, amt)
	}
	b.balances[fromAddr.String()] = remaining
	b.balances[toAddr.String()] = b.balances[toAddr.String()].Add(amt...)
	return nil
}

// GetBalance returns the balance of addr in denom.
func (b *MemoryBank) GetBalance(_ context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sdk.NewCoin(denom, b.balances[addr.String()].AmountOf(denom))
}

// Supply returns the sum of all balances in denom.
func (b *MemoryBank) Supply(denom string) sdkmath.Int {
	b.mu.Lock()
	defer b.mu.Unlock()

	total := sdkmath.ZeroInt()
	for _, coins := range b.balances {
		total = total.Add(coins.AmountOf(denom))
	}
	return total
}
