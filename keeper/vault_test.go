package keeper_test

import (
	"fmt"
	"math/rand"
	"sync"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/provlabs/sharevault/types"
	"github.com/provlabs/sharevault/utils/mocks"
)

func (s *TestSuite) TestDeposit_Bootstrap() {
	s.fund(s.alice, 1000)
	s.freshEvents()

	shares, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	s.Assert().Equal("1000", shares.String(), "shares issued on an empty vault are 1:1")

	s.requireLedger(1000, 1000)
	s.requireShares(s.alice, 1000)
	s.assertBalance(s.alice, 0)
	s.assertBalance(types.VaultAddress(), 1000)

	expected := sdk.Events{types.NewEventDeposit(s.alice.String(), sdkmath.NewInt(1000), sdkmath.NewInt(1000), types.NewLedger(sdkmath.NewInt(1000), sdkmath.NewInt(1000)))}
	s.Assert().Equal(expected, s.ctx.EventManager().Events(), "events")
	s.requireInvariants()
}

func (s *TestSuite) TestDeposit_BootstrapIgnoresLeftoverAssets() {
	s.disableAutoReconcile()
	s.Require().NoError(s.k.TestAccessor_setLedger(s.T(), s.ctx, types.NewLedger(sdkmath.ZeroInt(), sdkmath.NewInt(7))))
	s.fund(s.alice, 100)

	shares, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(100))
	s.Require().NoError(err, "Deposit")
	s.Assert().Equal("100", shares.String(), "an empty share supply always bootstraps 1:1")
	s.requireLedger(100, 107)
}

func (s *TestSuite) TestDeposit_InvalidAmount() {
	s.fund(s.alice, 1000)

	for _, amount := range []sdkmath.Int{sdkmath.ZeroInt(), sdkmath.NewInt(-5), {}} {
		s.Run(fmt.Sprintf("amount %v", amount), func() {
			_, err := s.k.Deposit(s.ctx, s.alice, amount)
			s.Require().ErrorIs(err, types.ErrInvalidAmount)
			_, err = s.k.Mint(s.ctx, s.alice, amount)
			s.Require().ErrorIs(err, types.ErrInvalidAmount)
			_, err = s.k.Withdraw(s.ctx, s.alice, amount)
			s.Require().ErrorIs(err, types.ErrInvalidAmount)
			_, err = s.k.Redeem(s.ctx, s.alice, amount)
			s.Require().ErrorIs(err, types.ErrInvalidAmount)
		})
	}
	s.requireLedger(0, 0)
	s.assertBalance(s.alice, 1000)
}

func (s *TestSuite) TestDeposit_ProportionalYield() {
	s.fund(s.alice, 1000)
	s.fund(s.bob, 1000)

	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")

	s.donate(s.bob, 1000)

	assets, err := s.k.Redeem(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Redeem")
	s.Assert().Equal("2000", assets.String(), "the sole holder receives the donation")
	s.requireLedger(0, 0)
	s.assertBalance(s.alice, 2000)
	s.requireShares(s.alice, 0)
	s.requireInvariants()
}

func (s *TestSuite) TestDeposit_DilutionGuard() {
	s.fund(s.alice, 1)
	s.fund(s.bob, 2000)

	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.OneInt())
	s.Require().NoError(err, "Deposit")
	s.donate(s.bob, 1000)
	s.freshEvents()

	_, err = s.k.Deposit(s.ctx, s.bob, sdkmath.NewInt(1000))
	s.Require().ErrorIs(err, types.ErrZeroShares)

	s.assertBalance(s.bob, 1000)
	s.requireShares(s.bob, 0)
	s.requireLedger(1, 1)
	s.Assert().Empty(s.ctx.EventManager().Events(), "a rejected deposit emits nothing, including its reconcile")
}

func (s *TestSuite) TestDeposit_DepositCap() {
	params := types.DefaultParams()
	params.DepositCap = sdkmath.NewInt(1000)
	s.Require().NoError(s.k.SetParams(s.ctx, params))
	s.fund(s.alice, 2000)

	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(600))
	s.Require().NoError(err, "Deposit under the cap")

	_, err = s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(500))
	s.Require().ErrorIs(err, types.ErrDepositCapExceeded)
	_, err = s.k.Mint(s.ctx, s.alice, sdkmath.NewInt(401))
	s.Require().ErrorIs(err, types.ErrDepositCapExceeded)

	_, err = s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(400))
	s.Require().NoError(err, "Deposit up to the cap")
	s.requireLedger(1000, 1000)
	s.assertBalance(s.alice, 1000)
}

func (s *TestSuite) TestDeposit_InsolventVault() {
	s.fund(s.alice, 1000)
	s.fund(s.bob, 1000)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")

	// total loss of custody
	s.Require().NoError(s.bank.SendCoins(s.ctx, types.VaultAddress(), s.carol, sdk.NewCoins(sdk.NewInt64Coin(mocks.AssetDenom, 1000))))

	_, err = s.k.Deposit(s.ctx, s.bob, sdkmath.NewInt(100))
	s.Require().ErrorIs(err, types.ErrInsufficientAssets)
	_, err = s.k.Mint(s.ctx, s.bob, sdkmath.NewInt(100))
	s.Require().ErrorIs(err, types.ErrInsufficientAssets)
	s.assertBalance(s.bob, 1000)
}

func (s *TestSuite) TestDeposit_Overflow() {
	s.Require().NoError(s.bank.Mint(s.alice, sdk.NewCoin(mocks.AssetDenom, types.MaxAmount)))
	s.fund(s.bob, 1)

	shares, err := s.k.Deposit(s.ctx, s.alice, types.MaxAmount)
	s.Require().NoError(err, "Deposit of the largest representable amount")
	s.Assert().Equal(types.MaxAmount.String(), shares.String())

	_, err = s.k.Deposit(s.ctx, s.bob, sdkmath.OneInt())
	s.Require().ErrorIs(err, types.ErrArithmeticOverflow)
	s.assertBalance(s.bob, 1)
	s.requireShares(s.bob, 0)
}

func (s *TestSuite) TestDeposit_TransferFailure() {
	s.fund(s.alice, 1000)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(500))
	s.Require().NoError(err, "Deposit")

	tests := []struct {
		name      string
		actor     sdk.AccAddress
		expShares int64
		setup     func()
	}{
		{
			name:  "unfunded actor",
			actor: s.carol,
		},
		{
			name:      "ledger rejects transfer",
			actor:     s.alice,
			expShares: 500,
			setup: func() {
				s.bank.SetSendHook(func(_, _ sdk.AccAddress, _ sdk.Coins) error {
					return fmt.Errorf("account frozen")
				})
			},
		},
	}

	for _, tc := range tests {
		s.Run(tc.name, func() {
			if tc.setup != nil {
				tc.setup()
			}
			defer s.bank.SetSendHook(nil)
			s.freshEvents()

			_, err := s.k.Deposit(s.ctx, tc.actor, sdkmath.NewInt(100))
			s.Require().ErrorIs(err, types.ErrAssetTransferFailed)

			s.requireLedger(500, 500)
			s.requireShares(tc.actor, tc.expShares)
			s.Assert().Empty(s.ctx.EventManager().Events(), "events from a failed deposit are discarded")
		})
	}
}

func (s *TestSuite) TestMint() {
	s.fund(s.alice, 1000)
	s.fund(s.bob, 1000)

	assets, err := s.k.Mint(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "bootstrap Mint")
	s.Assert().Equal("1000", assets.String(), "bootstrap mint is 1:1")

	s.donate(s.bob, 500)
	s.freshEvents()

	// 3 * 1500 / 1000 = 4.5, rounded up
	assets, err = s.k.Mint(s.ctx, s.bob, sdkmath.NewInt(3))
	s.Require().NoError(err, "Mint")
	s.Assert().Equal("5", assets.String(), "mint cost rounds up")

	s.requireLedger(1003, 1505)
	s.requireShares(s.bob, 3)
	s.assertBalance(s.bob, 495)

	events := s.ctx.EventManager().Events()
	s.Require().Len(events, 2, "reconcile then mint")
	s.Assert().Equal(types.NewEventReconcile(sdkmath.NewInt(1000), sdkmath.NewInt(1500)), events[0])
	s.Assert().Equal(types.NewEventMint(s.bob.String(), sdkmath.NewInt(5), sdkmath.NewInt(3), types.NewLedger(sdkmath.NewInt(1003), sdkmath.NewInt(1505))), events[1])
	s.requireInvariants()
}

func (s *TestSuite) TestWithdraw() {
	s.fund(s.alice, 1000)
	s.fund(s.bob, 500)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	s.donate(s.bob, 500)

	// 5 * 1000 / 1500 = 3.33, rounded up
	shares, err := s.k.Withdraw(s.ctx, s.alice, sdkmath.NewInt(5))
	s.Require().NoError(err, "Withdraw")
	s.Assert().Equal("4", shares.String(), "withdraw burn rounds up")
	s.requireShares(s.alice, 996)
	s.requireLedger(996, 1495)
	s.assertBalance(s.alice, 5)

	_, err = s.k.Withdraw(s.ctx, s.alice, sdkmath.NewInt(1496))
	s.Require().ErrorIs(err, types.ErrInsufficientShares)
	s.requireLedger(996, 1495)

	shares, err = s.k.Withdraw(s.ctx, s.alice, sdkmath.NewInt(1495))
	s.Require().NoError(err, "Withdraw everything")
	s.Assert().Equal("996", shares.String())
	s.requireLedger(0, 0)
	s.assertBalance(s.alice, 1500)
	s.requireInvariants()
}

func (s *TestSuite) TestWithdraw_NoShares() {
	s.fund(s.alice, 1000)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")

	_, err = s.k.Withdraw(s.ctx, s.bob, sdkmath.OneInt())
	s.Require().ErrorIs(err, types.ErrInsufficientShares)
}

func (s *TestSuite) TestWithdraw_CustodyShortfall() {
	s.disableAutoReconcile()
	s.fund(s.alice, 1000)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")

	// an unreconciled loss leaves tracked assets above custody
	s.Require().NoError(s.bank.SendCoins(s.ctx, types.VaultAddress(), s.carol, sdk.NewCoins(sdk.NewInt64Coin(mocks.AssetDenom, 500))))

	_, err = s.k.Withdraw(s.ctx, s.alice, sdkmath.NewInt(800))
	s.Require().ErrorIs(err, types.ErrAssetTransferFailed)
	s.Assert().ErrorContains(err, "push 800uusd")
	s.requireShares(s.alice, 1000)
	s.requireLedger(1000, 1000)
	s.assertBalance(s.alice, 0)
}

func (s *TestSuite) TestRedeem() {
	s.fund(s.alice, 1000)
	s.fund(s.bob, 500)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	s.donate(s.bob, 500)
	s.freshEvents()

	// 3 * 1500 / 1000 = 4.5, rounded down
	assets, err := s.k.Redeem(s.ctx, s.alice, sdkmath.NewInt(3))
	s.Require().NoError(err, "Redeem")
	s.Assert().Equal("4", assets.String(), "redeem payout rounds down")
	s.requireShares(s.alice, 997)
	s.requireLedger(997, 1496)
	s.assertBalance(s.alice, 4)

	events := s.ctx.EventManager().Events()
	s.Require().Len(events, 2, "reconcile then redeem")
	s.Assert().Equal(types.EventTypeRedeem, events[1].Type)
	s.requireInvariants()
}

func (s *TestSuite) TestRedeem_InsufficientShares() {
	s.fund(s.alice, 100)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(100))
	s.Require().NoError(err, "Deposit")
	s.freshEvents()

	_, err = s.k.Redeem(s.ctx, s.alice, sdkmath.NewInt(101))
	s.Require().ErrorIs(err, types.ErrInsufficientShares)
	s.Assert().ErrorContains(err, "holds 100 shares, requested 101")

	_, err = s.k.Withdraw(s.ctx, s.alice, sdkmath.NewInt(101))
	s.Require().ErrorIs(err, types.ErrInsufficientShares)

	s.requireLedger(100, 100)
	s.requireShares(s.alice, 100)
	s.assertBalance(s.alice, 0)
	s.Assert().Empty(s.ctx.EventManager().Events())
}

func (s *TestSuite) TestRedeem_ZeroAssets() {
	s.fund(s.alice, 1000)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")
	s.Require().NoError(s.bank.SendCoins(s.ctx, types.VaultAddress(), s.carol, sdk.NewCoins(sdk.NewInt64Coin(mocks.AssetDenom, 900))))

	// 5 * 100 / 1000 = 0.5, rounded down
	_, err = s.k.Redeem(s.ctx, s.alice, sdkmath.NewInt(5))
	s.Require().ErrorIs(err, types.ErrZeroAssets)
	s.requireShares(s.alice, 1000)
}

func (s *TestSuite) TestRedeem_TransferFailure() {
	s.fund(s.alice, 1000)
	_, err := s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(1000))
	s.Require().NoError(err, "Deposit")

	s.bank.SetSendHook(func(from, _ sdk.AccAddress, _ sdk.Coins) error {
		if from.Equals(types.VaultAddress()) {
			return fmt.Errorf("custody locked")
		}
		return nil
	})
	defer s.bank.SetSendHook(nil)

	_, err = s.k.Redeem(s.ctx, s.alice, sdkmath.NewInt(400))
	s.Require().ErrorIs(err, types.ErrAssetTransferFailed)
	s.Assert().ErrorContains(err, "custody locked")
	s.requireShares(s.alice, 1000)
	s.requireLedger(1000, 1000)
	s.assertBalance(s.alice, 0)
}

func (s *TestSuite) TestNoFreeShares() {
	r := rand.New(rand.NewSource(7))
	s.fund(s.bob, 1_000_000)
	_, err := s.k.Deposit(s.ctx, s.bob, sdkmath.NewInt(333_333))
	s.Require().NoError(err, "seed Deposit")
	s.donate(s.bob, 12_345)

	for i := 0; i < 50; i++ {
		actor := s.CreateAndFundAccount(1_000_000)
		deposit := sdkmath.NewInt(r.Int63n(100_000) + 1)

		shares, err := s.k.Deposit(s.ctx, actor, deposit)
		if errorsmod.IsOf(err, types.ErrZeroShares) {
			continue
		}
		s.Require().NoError(err, "Deposit %d", i)

		assets, err := s.k.Redeem(s.ctx, actor, shares)
		if errorsmod.IsOf(err, types.ErrZeroAssets) {
			continue
		}
		s.Require().NoError(err, "Redeem %d", i)
		s.Assert().True(assets.LTE(deposit), "round trip %d returned %s for %s", i, assets, deposit)
	}
	s.requireInvariants()
}

func (s *TestSuite) TestConservation() {
	r := rand.New(rand.NewSource(42))
	actors := []sdk.AccAddress{s.alice, s.bob, s.carol}
	for _, a := range actors {
		s.fund(a, 100_000)
	}
	const total = 300_000

	for i := 0; i < 200; i++ {
		actor := actors[r.Intn(len(actors))]
		amount := sdkmath.NewInt(r.Int63n(5_000) + 1)
		switch r.Intn(5) {
		case 0:
			_, _ = s.k.Deposit(s.ctx, actor, amount)
		case 1:
			_, _ = s.k.Mint(s.ctx, actor, amount)
		case 2:
			_, _ = s.k.Withdraw(s.ctx, actor, amount)
		case 3:
			_, _ = s.k.Redeem(s.ctx, actor, amount)
		case 4:
			if s.bank.GetBalance(s.ctx, actor, mocks.AssetDenom).Amount.GTE(amount) {
				s.donate(actor, amount.Int64())
			}
		}

		s.requireInvariants()
		s.Require().Equal(sdkmath.NewInt(total).String(), s.bank.Supply(mocks.AssetDenom).String(), "asset supply after step %d", i)
	}

	_, err := s.k.Reconcile(s.ctx)
	s.Require().NoError(err, "Reconcile")
	ledger, err := s.k.GetLedger(s.ctx)
	s.Require().NoError(err, "GetLedger")
	s.Assert().Equal(s.bank.GetBalance(s.ctx, types.VaultAddress(), mocks.AssetDenom).Amount.String(), ledger.TotalAssets.String(), "tracked assets match custody")
}

func (s *TestSuite) TestConcurrentDeposits() {
	const workers = 16
	actors := make([]sdk.AccAddress, workers)
	for i := range actors {
		actors[i] = s.CreateAndFundAccount(100)
	}

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for _, actor := range actors {
		wg.Add(1)
		go func(actor sdk.AccAddress) {
			defer wg.Done()
			if _, err := s.k.Deposit(s.ctx, actor, sdkmath.NewInt(100)); err != nil {
				errs <- err
			}
		}(actor)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		s.Require().NoError(err, "concurrent Deposit")
	}
	s.requireLedger(workers*100, workers*100)
	for _, actor := range actors {
		s.requireShares(actor, 100)
	}
	s.requireInvariants()
}


func (s *TestSuite) TestDeposit_UsesKeeperAddressCodec() {
	s.ctx, s.k, s.bank = mocks.NewVaultKeeperWithPrefix(s.T(), "pb")
	alice, err := sdk.Bech32ifyAddressBytes("pb", s.alice)
	s.Require().NoError(err, "Bech32ifyAddressBytes")

	s.fund(s.alice, 100)
	s.freshEvents()
	_, err = s.k.Deposit(s.ctx, s.alice, sdkmath.NewInt(100))
	s.Require().NoError(err, "Deposit")

	events := s.ctx.EventManager().Events()
	s.Require().Len(events, 1, "events")
	var actor string
	for _, attr := range events[0].Attributes {
		if attr.Key == types.AttributeKeyActor {
			actor = attr.Value
		}
	}
	s.Assert().Equal(alice, actor, "actor rendered with the keeper's prefix")

	exported := s.k.ExportGenesis(s.ctx)
	s.Require().Len(exported.Balances, 1)
	s.Assert().Equal(alice, exported.Balances[0].Address, "exported balance address")

	s.ctx, s.k, s.bank = mocks.NewVaultKeeperWithPrefix(s.T(), "pb")
	s.Require().NotPanics(func() { s.k.InitGenesis(s.ctx, exported) }, "genesis round trips under the keeper's prefix")
	s.requireShares(s.alice, 100)
}
