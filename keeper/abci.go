package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
)

// BeginBlocker is a hook that is called at the beginning of every block. With auto
// reconcile enabled it folds yield and losses that arrived in custody since the last
// block into the tracked total assets.
func (k *Keeper) BeginBlocker(ctx context.Context) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	if !params.AutoReconcile {
		return nil
	}

	_, err = k.Reconcile(sdk.UnwrapSDKContext(ctx))
	return err
}
