package simulation

import (
	"encoding/json"
	"fmt"
	"math/rand"

	sdkmath "cosmossdk.io/math"

	"github.com/cosmos/cosmos-sdk/types/module"

	"github.com/provlabs/sharevault/types"
)

const (
	ChanceOfAutoReconcileOff = 3 // 1 in X
	ChanceOfDepositCap       = 2 // 1 in X
	MinDepositCap            = 10_000
	MaxDepositCap            = 100_000_000
)

// RandomizedGenState generates a random GenesisState for the vault module. The ledger
// starts empty since custody is funded by the bank genesis, not the vault's.
func RandomizedGenState(simState *module.SimulationState) {
	vaultGenesis := types.DefaultGenesisState()
	vaultGenesis.Params = RandomizedParams(simState.Rand)

	bz, err := json.MarshalIndent(vaultGenesis, "", " ")
	if err != nil {
		panic(err)
	}
	fmt.Printf("Selected randomly generated vault parameters: %s\n", bz)

	simState.GenState[types.ModuleName] = bz
}

// RandomizedParams returns random vault params.
func RandomizedParams(r *rand.Rand) types.Params {
	params := types.DefaultParams()
	if r.Intn(ChanceOfAutoReconcileOff) == 0 {
		params.AutoReconcile = false
	}
	if r.Intn(ChanceOfDepositCap) == 0 {
		params.DepositCap = sdkmath.NewInt(randomInt63(r, MaxDepositCap-MinDepositCap) + MinDepositCap)
	}
	return params
}
