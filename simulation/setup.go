package simulation

import (
	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"
)

// Minter credits coins to an account out of thin air.
type Minter interface {
	Mint(addr sdk.AccAddress, coins ...sdk.Coin) error
}

// FundAccounts credits every account with amount of denom.
func FundAccounts(m Minter, accs []simtypes.Account, denom string, amount sdkmath.Int) error {
	for _, acc := range accs {
		if err := m.Mint(acc.Address, sdk.NewCoin(denom, amount)); err != nil {
			return err
		}
	}
	return nil
}
