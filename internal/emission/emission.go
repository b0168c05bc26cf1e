// Package emission implements the linear release schedule: how much of a
// locked deposit may have left the vault at a given moment.
package emission

import (
	"github.com/dmitrijs2005/gophlocker/internal/common"
	"github.com/holiman/uint256"
)

// MulDiv returns floor(a*b/denominator). The product is formed in 256 bits so
// it cannot wrap; a quotient that does not fit in 64 bits is reported as
// common.ErrMulDivOverflow instead of being truncated.
func MulDiv(a, b, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, common.ErrInvalidPeriod
	}

	product, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(a), uint256.NewInt(b))
	if overflow {
		return 0, common.ErrMulDivOverflow
	}

	quotient := new(uint256.Int).Div(product, uint256.NewInt(denominator))
	if !quotient.IsUint64() {
		return 0, common.ErrMulDivOverflow
	}
	return quotient.Uint64(), nil
}

// Clamp bounds now to [start, end].
func Clamp(now, start, end int64) int64 {
	if now < start {
		return start
	}
	if now > end {
		return end
	}
	return now
}

// ReleasableCap is the cumulative amount of deposited that has vested at now
// on a straight line from start to unlock. It is recomputed from the deposit
// on every call, so earlier withdrawals never shift the curve.
func ReleasableCap(deposited uint64, start, unlock, now int64) (uint64, error) {
	if unlock <= start {
		return 0, common.ErrInvalidPeriod
	}
	elapsed := Clamp(now, start, unlock) - start
	period := unlock - start
	return MulDiv(deposited, uint64(elapsed), uint64(period))
}

// Unreleased returns how much more may leave a linear vault at now. Value
// already withdrawn is deposited minus what the vault still holds; it is
// charged against the cap so repeated withdrawals follow the same curve.
// Value credited to the vault beyond the deposit is not treated as withdrawn.
func Unreleased(deposited, vault uint64, start, unlock, now int64) (uint64, error) {
	vested, err := ReleasableCap(deposited, start, unlock, now)
	if err != nil {
		return 0, err
	}
	var withdrawn uint64
	if vault < deposited {
		withdrawn = deposited - vault
	}
	if vested <= withdrawn {
		return 0, nil
	}
	return min(vested-withdrawn, vault), nil
}
