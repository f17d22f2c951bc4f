package types

import (
	"fmt"
	"math/big"

	sdkmath "cosmossdk.io/math"
)

// MaxAmount is the largest amount representable in state. It stands for "unbounded" in
// limits such as MaxDeposit.
var MaxAmount = sdkmath.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), sdkmath.MaxBitLen), big.NewInt(1)))

// Params holds the tunable behaviour of the vault.
type Params struct {
	// AutoReconcile syncs the tracked total assets with the custody balance before every
	// operation, so donations and losses are reflected in the exchange rate immediately.
	AutoReconcile bool `json:"auto_reconcile"`
	// DepositCap is the upper bound on total assets after a deposit or mint. Zero disables the cap.
	DepositCap sdkmath.Int `json:"deposit_cap"`
}

// DefaultParams returns the default vault parameters.
func DefaultParams() Params {
	return Params{
		AutoReconcile: true,
		DepositCap:    sdkmath.ZeroInt(),
	}
}

// Validate checks that the params are usable.
func (p Params) Validate() error {
	if p.DepositCap.IsNil() {
		return nil
	}
	if p.DepositCap.IsNegative() {
		return fmt.Errorf("deposit cap cannot be negative: %s", p.DepositCap)
	}
	return nil
}

// HasDepositCap reports whether a deposit cap is configured.
func (p Params) HasDepositCap() bool {
	return !p.DepositCap.IsNil() && p.DepositCap.IsPositive()
}
