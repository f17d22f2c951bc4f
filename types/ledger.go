package types

import (
	"errors"
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/provlabs/sharevault/utils"
)

// Ledger is a snapshot of the vault's share supply and tracked asset balance.
// The exchange rate is TotalAssets / TotalShares and is never stored.
type Ledger struct {
	TotalShares sdkmath.Int `json:"total_shares"`
	TotalAssets sdkmath.Int `json:"total_assets"`
}

// NewLedger creates a ledger snapshot from the given totals.
func NewLedger(totalShares, totalAssets sdkmath.Int) Ledger {
	return Ledger{TotalShares: totalShares, TotalAssets: totalAssets}
}

// EmptyLedger returns the genesis ledger with no shares and no assets.
func EmptyLedger() Ledger {
	return NewLedger(sdkmath.ZeroInt(), sdkmath.ZeroInt())
}

// Validate checks that both totals are set and non-negative.
func (l Ledger) Validate() error {
	if l.TotalShares.IsNil() || l.TotalShares.IsNegative() {
		return fmt.Errorf("total shares must be non-negative: %v", l.TotalShares)
	}
	if l.TotalAssets.IsNil() || l.TotalAssets.IsNegative() {
		return fmt.Errorf("total assets must be non-negative: %v", l.TotalAssets)
	}
	return nil
}

// IsBootstrap reports whether the next deposit sets a fresh 1:1 rate.
func (l Ledger) IsBootstrap() bool {
	return l.TotalShares.IsZero()
}

// IsInsolvent reports whether shares are outstanding with nothing backing them.
func (l Ledger) IsInsolvent() bool {
	return l.TotalShares.IsPositive() && l.TotalAssets.IsZero()
}

// ToShares converts an asset amount into shares at the ledger's rate.
func (l Ledger) ToShares(assets sdkmath.Int, rounding utils.Rounding) (sdkmath.Int, error) {
	shares, err := utils.CalculateSharesFromAssets(assets, l.TotalAssets, l.TotalShares, rounding)
	if err != nil {
		return sdkmath.Int{}, conversionError(err, "assets %v to shares", assets)
	}
	return shares, nil
}

// ToAssets converts a share amount into assets at the ledger's rate.
func (l Ledger) ToAssets(shares sdkmath.Int, rounding utils.Rounding) (sdkmath.Int, error) {
	assets, err := utils.CalculateAssetsFromShares(shares, l.TotalShares, l.TotalAssets, rounding)
	if err != nil {
		return sdkmath.Int{}, conversionError(err, "shares %v to assets", shares)
	}
	return assets, nil
}

// AddAssets returns the ledger with delta added to the tracked assets.
func (l Ledger) AddAssets(delta sdkmath.Int) (Ledger, error) {
	total, err := l.TotalAssets.SafeAdd(delta)
	if err != nil {
		return l, errorsmod.Wrapf(ErrArithmeticOverflow, "total assets %s + %s", l.TotalAssets, delta)
	}
	l.TotalAssets = total
	return l, nil
}

// AddShares returns the ledger with delta added to the share supply.
func (l Ledger) AddShares(delta sdkmath.Int) (Ledger, error) {
	total, err := l.TotalShares.SafeAdd(delta)
	if err != nil {
		return l, errorsmod.Wrapf(ErrArithmeticOverflow, "total shares %s + %s", l.TotalShares, delta)
	}
	l.TotalShares = total
	return l, nil
}

// SubAssets returns the ledger with delta removed from the tracked assets.
func (l Ledger) SubAssets(delta sdkmath.Int) (Ledger, error) {
	if l.TotalAssets.LT(delta) {
		return l, errorsmod.Wrapf(ErrInsufficientAssets, "vault tracks %s, cannot release %s", l.TotalAssets, delta)
	}
	l.TotalAssets = l.TotalAssets.Sub(delta)
	return l, nil
}

// SubShares returns the ledger with delta removed from the share supply.
func (l Ledger) SubShares(delta sdkmath.Int) (Ledger, error) {
	if l.TotalShares.LT(delta) {
		return l, errorsmod.Wrapf(ErrInsufficientShares, "supply is %s, cannot burn %s", l.TotalShares, delta)
	}
	l.TotalShares = l.TotalShares.Sub(delta)
	return l, nil
}

// String implements fmt.Stringer.
func (l Ledger) String() string {
	return fmt.Sprintf("shares=%s assets=%s", l.TotalShares, l.TotalAssets)
}

func conversionError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, utils.ErrNegativeInput):
		return errorsmod.Wrapf(ErrInvalidAmount, format, args...)
	case errors.Is(err, utils.ErrDivisionByZero):
		return errorsmod.Wrapf(ErrInsufficientAssets, "vault has shares outstanding and no assets: "+format, args...)
	default:
		return errorsmod.Wrapf(ErrArithmeticOverflow, "%s: "+format, append([]any{err.Error()}, args...)...)
	}
}
