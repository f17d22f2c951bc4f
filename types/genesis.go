package types

import (
	"fmt"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/bech32"
)

// ShareBalance is the share holding of a single account.
type ShareBalance struct {
	Address string      `json:"address"`
	Shares  sdkmath.Int `json:"shares"`
}

// GenesisState is the vault module state at genesis and export.
type GenesisState struct {
	Params      Params         `json:"params"`
	TotalShares sdkmath.Int    `json:"total_shares"`
	TotalAssets sdkmath.Int    `json:"total_assets"`
	Balances    []ShareBalance `json:"balances"`
}

// DefaultGenesisState returns the default genesis state
func DefaultGenesisState() *GenesisState {
	return &GenesisState{
		Params:      DefaultParams(),
		TotalShares: sdkmath.ZeroInt(),
		TotalAssets: sdkmath.ZeroInt(),
		Balances:    []ShareBalance{},
	}
}

// Ledger returns the ledger described by the genesis totals. Unset totals are zero.
func (gs GenesisState) Ledger() Ledger {
	return NewLedger(orZero(gs.TotalShares), orZero(gs.TotalAssets))
}

// Validate performs basic genesis state validation returning an error upon any
// failure. Balance addresses must be well formed bech32 but may carry any prefix;
// the keeper's address codec decides the prefix at InitGenesis.
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return errorsmod.Wrapf(ErrInvalidGenesis, "invalid params: %s", err)
	}

	ledger := gs.Ledger()
	if err := ledger.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidGenesis, err.Error())
	}

	seen := make(map[string]struct{}, len(gs.Balances))
	sum := sdkmath.ZeroInt()
	for i, bal := range gs.Balances {
		addr, err := decodeAddress(bal.Address)
		if err != nil {
			return errorsmod.Wrapf(ErrInvalidGenesis, "invalid address at index %d: %s", i, err)
		}
		if _, dup := seen[string(addr)]; dup {
			return errorsmod.Wrapf(ErrInvalidGenesis, "duplicate balance for %s", bal.Address)
		}
		seen[string(addr)] = struct{}{}

		if bal.Shares.IsNil() || !bal.Shares.IsPositive() {
			return errorsmod.Wrapf(ErrInvalidGenesis, "balance for %s must be positive", bal.Address)
		}
		if sum, err = sum.SafeAdd(bal.Shares); err != nil {
			return errorsmod.Wrapf(ErrArithmeticOverflow, "summing genesis balances: %s", err)
		}
	}

	if !sum.Equal(ledger.TotalShares) {
		return errorsmod.Wrap(ErrInvalidGenesis, fmt.Sprintf("balances sum to %s but total shares is %s", sum, ledger.TotalShares))
	}
	return nil
}

func decodeAddress(address string) (sdk.AccAddress, error) {
	_, bz, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return nil, err
	}
	if err := sdk.VerifyAddressFormat(bz); err != nil {
		return nil, err
	}
	return bz, nil
}

func orZero(i sdkmath.Int) sdkmath.Int {
	if i.IsNil() {
		return sdkmath.ZeroInt()
	}
	return i
}
