package utils

import (
	"errors"
	"fmt"

	"cosmossdk.io/math"
)

// Rounding selects how MulDiv resolves a non-zero remainder.
type Rounding int

const (
	// Floor rounds toward zero. Used whenever the caller is the one receiving value.
	Floor Rounding = iota
	// Ceil rounds away from zero. Used whenever the caller is the one paying value.
	Ceil
)

// String returns the rounding mode name.
func (r Rounding) String() string {
	switch r {
	case Floor:
		return "floor"
	case Ceil:
		return "ceil"
	default:
		return fmt.Sprintf("rounding(%d)", int(r))
	}
}

var (
	// ErrNegativeInput is returned when any operand is negative or unset.
	ErrNegativeInput = errors.New("invalid input: negative values not allowed")
	// ErrDivisionByZero is returned when the denominator of a conversion is zero.
	ErrDivisionByZero = errors.New("division by zero")
)

// MulDiv returns x * y / denominator using integer arithmetic and the given rounding mode.
//
// The product is computed with overflow detection: if it exceeds the 256-bit range of
// math.Int the returned error wraps math.ErrIntOverflow.
func MulDiv(x, y, denominator math.Int, rounding Rounding) (math.Int, error) {
	if x.IsNil() || y.IsNil() || denominator.IsNil() {
		return math.Int{}, ErrNegativeInput
	}
	if x.IsNegative() || y.IsNegative() || denominator.IsNegative() {
		return math.Int{}, ErrNegativeInput
	}
	if denominator.IsZero() {
		return math.Int{}, ErrDivisionByZero
	}

	product, err := x.SafeMul(y)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s * %s: %w", x, y, err)
	}
	quotient, err := product.SafeQuo(denominator)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s / %s: %w", product, denominator, err)
	}
	if rounding == Floor {
		return quotient, nil
	}

	remainder, err := product.SafeMod(denominator)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s %% %s: %w", product, denominator, err)
	}
	if remainder.IsZero() {
		return quotient, nil
	}
	quotient, err = quotient.SafeAdd(math.OneInt())
	if err != nil {
		return math.Int{}, fmt.Errorf("rounding up %s: %w", quotient, err)
	}
	return quotient, nil
}

// CalculateSharesFromAssets returns the number of shares that correspond to an amount of
// assets at the exchange rate implied by totalAssets and totalShares.
//
// Formula (integer):
//
//	if totalShares == 0:
//	    shares = assets                                   (bootstrap, 1:1)
//	else:
//	    shares = round(assets * totalShares / totalAssets)
//
// A vault with outstanding shares but no assets has no exchange rate; ErrDivisionByZero is
// returned in that case.
func CalculateSharesFromAssets(assets, totalAssets, totalShares math.Int, rounding Rounding) (math.Int, error) {
	if assets.IsNil() || totalAssets.IsNil() || totalShares.IsNil() {
		return math.Int{}, ErrNegativeInput
	}
	if assets.IsNegative() || totalAssets.IsNegative() || totalShares.IsNegative() {
		return math.Int{}, ErrNegativeInput
	}
	if totalShares.IsZero() {
		return assets, nil
	}
	if assets.IsZero() {
		return math.ZeroInt(), nil
	}
	return MulDiv(assets, totalShares, totalAssets, rounding)
}

// CalculateAssetsFromShares returns the amount of assets that correspond to a number of
// shares at the exchange rate implied by totalShares and totalAssets.
//
// Formula (integer):
//
//	if totalShares == 0:
//	    assets = shares                                   (bootstrap, 1:1)
//	else:
//	    assets = round(shares * totalAssets / totalShares)
func CalculateAssetsFromShares(shares, totalShares, totalAssets math.Int, rounding Rounding) (math.Int, error) {
	if shares.IsNil() || totalShares.IsNil() || totalAssets.IsNil() {
		return math.Int{}, ErrNegativeInput
	}
	if shares.IsNegative() || totalShares.IsNegative() || totalAssets.IsNegative() {
		return math.Int{}, ErrNegativeInput
	}
	if totalShares.IsZero() {
		return shares, nil
	}
	if shares.IsZero() {
		return math.ZeroInt(), nil
	}
	return MulDiv(shares, totalAssets, totalShares, rounding)
}
