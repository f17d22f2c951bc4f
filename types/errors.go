package types

import "cosmossdk.io/errors"

var (
	// ErrInvalidAmount is returned when an amount is zero, negative or unset where a positive quantity is required.
	ErrInvalidAmount = errors.Register(ModuleName, 2, "invalid amount")
	// ErrZeroShares is returned when a deposit or mint would issue no shares.
	ErrZeroShares = errors.Register(ModuleName, 3, "operation would issue zero shares")
	// ErrInsufficientShares is returned when an account does not hold enough shares for a withdrawal or redemption.
	ErrInsufficientShares = errors.Register(ModuleName, 4, "insufficient shares")
	// ErrInsufficientAssets is returned when the vault does not hold enough assets to back a conversion or payout.
	ErrInsufficientAssets = errors.Register(ModuleName, 5, "insufficient assets")
	// ErrAssetTransferFailed is returned when the asset ledger rejects a pull or push.
	ErrAssetTransferFailed = errors.Register(ModuleName, 6, "asset transfer failed")
	// ErrArithmeticOverflow is returned when an intermediate value exceeds the supported integer range.
	ErrArithmeticOverflow = errors.Register(ModuleName, 7, "arithmetic overflow")
	// ErrZeroAssets is returned when a redemption would pay out nothing.
	ErrZeroAssets = errors.Register(ModuleName, 8, "operation would return zero assets")
	// ErrDepositCapExceeded is returned when a deposit or mint would take total assets beyond the configured cap.
	ErrDepositCapExceeded = errors.Register(ModuleName, 9, "deposit cap exceeded")
	// ErrInvalidGenesis is returned when a genesis state fails validation.
	ErrInvalidGenesis = errors.Register(ModuleName, 10, "invalid genesis state")
)
