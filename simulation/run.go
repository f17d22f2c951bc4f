package simulation

import (
	"fmt"
	"math/rand"

	sdkmath "cosmossdk.io/math"

	sdk "github.com/cosmos/cosmos-sdk/types"
	simtypes "github.com/cosmos/cosmos-sdk/types/simulation"

	"github.com/provlabs/sharevault/keeper"
	"github.com/provlabs/sharevault/types"
)

// OpStats counts the outcomes of one kind of operation.
type OpStats struct {
	Succeeded int            `json:"succeeded"`
	Skipped   int            `json:"skipped"`
	Reasons   map[string]int `json:"reasons,omitempty"`
}

// Report summarizes a simulation run.
type Report struct {
	Operations map[string]*OpStats `json:"operations"`
	Ledger     types.Ledger        `json:"ledger"`
	Custody    sdkmath.Int         `json:"custody"`
	Holders    int                 `json:"holders"`
}

func (r *Report) record(msg simtypes.OperationMsg) {
	stats, ok := r.Operations[msg.Name]
	if !ok {
		stats = &OpStats{Reasons: map[string]int{}}
		r.Operations[msg.Name] = stats
	}
	if msg.OK {
		stats.Succeeded++
		return
	}
	stats.Skipped++
	stats.Reasons[msg.Comment]++
}

// Run executes n operations picked at random by weight against the vault. After every
// operation it checks the vault invariants and that no asset was created or destroyed
// across accs and custody. It stops at the first operation that fails unexpectedly or
// breaks an invariant.
func Run(r *rand.Rand, k *keeper.Keeper, ctx sdk.Context, accs []simtypes.Account, ops []simtypes.WeightedOperation, n int) (Report, error) {
	report := Report{Operations: map[string]*OpStats{}}
	if len(ops) == 0 {
		return report, fmt.Errorf("no operations to run")
	}

	totalWeight := 0
	for _, op := range ops {
		totalWeight += op.Weight()
	}
	if totalWeight <= 0 {
		return report, fmt.Errorf("operation weights must sum to a positive value")
	}

	supply := assetSupply(k, ctx, accs)
	for i := 0; i < n; i++ {
		op := selectOp(r, ops, totalWeight)
		msg, _, err := op(r, nil, ctx, accs, "")
		if err != nil {
			return report, fmt.Errorf("operation %d (%s) failed: %w", i, msg.Name, err)
		}
		report.record(msg)

		if desc, broken := keeper.AllInvariants(k)(ctx); broken {
			return report, fmt.Errorf("invariant broken after operation %d (%s):\n%s", i, msg.Name, desc)
		}
		if now := assetSupply(k, ctx, accs); !now.Equal(supply) {
			return report, fmt.Errorf("asset supply changed from %s to %s after operation %d (%s)", supply, now, i, msg.Name)
		}
	}

	ledger, err := k.GetLedger(ctx)
	if err != nil {
		return report, err
	}
	balances, err := k.GetBalances(ctx)
	if err != nil {
		return report, err
	}
	report.Ledger = ledger
	report.Custody = k.AssetLedger().BalanceOf(ctx, k.VaultAddress())
	report.Holders = len(balances)
	return report, nil
}

func selectOp(r *rand.Rand, ops []simtypes.WeightedOperation, totalWeight int) simtypes.Operation {
	x := r.Intn(totalWeight)
	for _, op := range ops {
		if x < op.Weight() {
			return op.Op()
		}
		x -= op.Weight()
	}
	return ops[len(ops)-1].Op()
}

// assetSupply sums the vault asset held by accs and custody.
func assetSupply(k *keeper.Keeper, ctx sdk.Context, accs []simtypes.Account) sdkmath.Int {
	ledger := k.AssetLedger()
	total := ledger.BalanceOf(ctx, k.VaultAddress())
	for _, acc := range accs {
		total = total.Add(ledger.BalanceOf(ctx, acc.Address))
	}
	return total
}
