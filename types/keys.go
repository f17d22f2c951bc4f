package types

import (
	"cosmossdk.io/collections"

	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
)

const (
	// ModuleName defines the module name
	ModuleName = "vault"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName
)

var (
	// ParamsKeyPrefix is the prefix to retrieve the module Params.
	ParamsKeyPrefix = collections.NewPrefix(0)
	// ParamsName is a human-readable name for the params collection.
	ParamsName = "params"
	// TotalSharesKeyPrefix is the prefix of the outstanding share supply.
	TotalSharesKeyPrefix = collections.NewPrefix(1)
	// TotalSharesName is a human-readable name for the share supply item.
	TotalSharesName = "total_shares"
	// TotalAssetsKeyPrefix is the prefix of the tracked underlying balance.
	TotalAssetsKeyPrefix = collections.NewPrefix(2)
	// TotalAssetsName is a human-readable name for the tracked asset item.
	TotalAssetsName = "total_assets"
	// BalancesKeyPrefix is the prefix to retrieve per-account share balances.
	BalancesKeyPrefix = collections.NewPrefix(3)
	// BalancesName is a human-readable name for the share balances collection.
	BalancesName = "balances"
)

// VaultAddress returns the address that holds the vault's underlying assets in custody.
func VaultAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(ModuleName)
}
