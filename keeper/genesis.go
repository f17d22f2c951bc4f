package keeper

import (
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
)

// InitGenesis initializes the vault module state from genesis.
func (k *Keeper) InitGenesis(ctx sdk.Context, genState *types.GenesisState) {
	if genState == nil {
		return
	}

	if err := genState.Validate(); err != nil {
		panic(fmt.Errorf("invalid vault genesis state: %w", err))
	}

	addrs := make([]sdk.AccAddress, len(genState.Balances))
	for i, bal := range genState.Balances {
		addr, err := k.addressCodec.StringToBytes(bal.Address)
		if err != nil {
			panic(fmt.Errorf("invalid balance address at index %d: %w", i, err))
		}
		addrs[i] = addr
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if err := k.Params.Set(ctx, genState.Params); err != nil {
		panic(err)
	}

	if err := k.setLedger(ctx, genState.Ledger()); err != nil {
		panic(fmt.Errorf("failed to store vault ledger: %w", err))
	}

	for i, bal := range genState.Balances {
		if err := k.Balances.Set(ctx, addrs[i], bal.Shares); err != nil {
			panic(fmt.Errorf("failed to store balance for %s: %w", bal.Address, err))
		}
	}
}

// ExportGenesis exports the current state of the vault module.
func (k *Keeper) ExportGenesis(ctx sdk.Context) *types.GenesisState {
	params, err := k.GetParams(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get vault module params: %w", err))
	}

	ledger, err := k.GetLedger(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get vault ledger: %w", err))
	}

	balances, err := k.GetBalances(ctx)
	if err != nil {
		panic(fmt.Errorf("failed to get vault balances: %w", err))
	}

	return &types.GenesisState{
		Params:      params,
		TotalShares: ledger.TotalShares,
		TotalAssets: ledger.TotalAssets,
		Balances:    balances,
	}
}
