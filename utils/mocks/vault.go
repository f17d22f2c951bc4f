package mocks

import (
	"fmt"
	"testing"
	"time"

	"cosmossdk.io/core/header"
	storetypes "cosmossdk.io/store/types"

	addresscodec "github.com/cosmos/cosmos-sdk/codec/address"
	"github.com/cosmos/cosmos-sdk/runtime"
	"github.com/cosmos/cosmos-sdk/testutil"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/assetledger"
	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// AssetDenom is the underlying asset denom used by NewVaultKeeper.
const AssetDenom = "uusd"

// Bech32Prefix is the account prefix used by NewVaultKeeper.
const Bech32Prefix = "cosmos"

// NewVaultKeeper returns an instance of the Keeper backed by an in-memory store and an
// in-memory bank holding the underlying asset.
func NewVaultKeeper(
	t testing.TB,
) (sdk.Context, *keeper.Keeper, *assetledger.MemoryBank) {
	return NewVaultKeeperWithPrefix(t, Bech32Prefix)
}

// NewVaultKeeperWithPrefix is NewVaultKeeper with an address codec for bech32Prefix.
func NewVaultKeeperWithPrefix(
	t testing.TB,
	bech32Prefix string,
) (sdk.Context, *keeper.Keeper, *assetledger.MemoryBank) {
	key := storetypes.NewKVStoreKey(types.ModuleName)
	tkey := storetypes.NewTransientStoreKey(fmt.Sprintf("transient_%s", types.ModuleName))
	wrapper := testutil.DefaultContextWithDB(t, key, tkey)

	bank := assetledger.NewMemoryBank()
	ledger, err := assetledger.NewBankLedger(bank, types.VaultAddress(), AssetDenom)
	if err != nil {
		t.Fatalf("creating bank ledger: %v", err)
	}

	k := keeper.NewKeeper(
		runtime.NewKVStoreService(key),
		addresscodec.NewBech32Codec(bech32Prefix),
		ledger,
	)

	ctx := wrapper.Ctx.WithHeaderInfo(header.Info{Time: time.Now().UTC()})
	return ctx, k, bank
}
