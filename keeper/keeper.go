package keeper

import (
	"fmt"
	"sync"

	"cosmossdk.io/collections"
	"cosmossdk.io/core/address"
	"cosmossdk.io/core/store"
	"cosmossdk.io/log"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// Keeper owns the vault ledger: the share supply, the tracked asset balance and the
// per-account share balances. Every read and every mutation is serialized by mu.
type Keeper struct {
	schema       collections.Schema
	addressCodec address.Codec
	assets       types.AssetLedger

	mu sync.Mutex

	Params        collections.Item[types.Params]
	TotalShares   collections.Item[sdkmath.Int]
	TrackedAssets collections.Item[sdkmath.Int]
	Balances      collections.Map[sdk.AccAddress, sdkmath.Int]
}

// NewKeeper creates a new vault Keeper.
func NewKeeper(
	storeService store.KVStoreService,
	addressCodec address.Codec,
	assets types.AssetLedger,
) *Keeper {
	if assets == nil {
		panic("asset ledger cannot be nil")
	}
	if _, err := addressCodec.BytesToString(assets.Custody()); err != nil {
		panic(fmt.Sprintf("invalid custody address %s: %s", assets.Custody(), err))
	}

	builder := collections.NewSchemaBuilder(storeService)

	keeper := &Keeper{
		addressCodec:  addressCodec,
		assets:        assets,
		Params:        collections.NewItem(builder, types.ParamsKeyPrefix, types.ParamsName, types.ParamsValueCodec),
		TotalShares:   collections.NewItem(builder, types.TotalSharesKeyPrefix, types.TotalSharesName, sdk.IntValue),
		TrackedAssets: collections.NewItem(builder, types.TotalAssetsKeyPrefix, types.TotalAssetsName, sdk.IntValue),
		Balances:      collections.NewMap(builder, types.BalancesKeyPrefix, types.BalancesName, sdk.AccAddressKey, sdk.IntValue),
	}

	schema, err := builder.Build()
	if err != nil {
		panic(err)
	}

	keeper.schema = schema
	return keeper
}

// AssetLedger returns the collaborator that moves the underlying asset.
func (k *Keeper) AssetLedger() types.AssetLedger {
	return k.assets
}

// VaultAddress returns the address holding the vault's assets in custody.
func (k *Keeper) VaultAddress() sdk.AccAddress {
	return k.assets.Custody()
}

// getLogger returns a logger with vault module context.
func (k *Keeper) getLogger(ctx sdk.Context) log.Logger {
	return ctx.Logger().With("module", "x/"+types.ModuleName)
}

// addressString renders addr with the keeper's address codec.
func (k *Keeper) addressString(addr sdk.AccAddress) string {
	s, err := k.addressCodec.BytesToString(addr)
	if err != nil {
		return addr.String()
	}
	return s
}
