// Package fee contains the pure calculations for platform fees and
// storage deposits. Nothing in this package touches the store, the
// engine is responsible for moving the resulting amounts.
package fee

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
)

// DustThreshold is the smallest surplus worth returning to the caller.
// Anything at or below this stays with the contract.
const DustThreshold coin.Amount = 1

// Calculate returns the platform cut of an amount, rounded down.
func Calculate(amount coin.Amount, frac fractal.Fraction) (coin.Amount, error) {
	return frac.Apply(amount)
}

// Split divides an amount into the platform cut and the remainder going
// to the counterparty. The two always sum to the original amount.
func Split(amount coin.Amount, frac fractal.Fraction) (cut, rest coin.Amount, err error) {
	cut, err = frac.Apply(amount)
	if err != nil {
		return 0, 0, err
	}
	rest, err = coin.Sub(amount, cut)
	if err != nil {
		return 0, 0, err
	}
	return cut, rest, nil
}

// RequiredDeposit prices the storage growth caused by an operation. The
// delta is in bytes as reported by the store, a shrinking store still
// charges the flat fee.
func RequiredDeposit(delta int64, bytePrice, flatFee coin.Amount) (coin.Amount, error) {
	if delta <= 0 {
		return flatFee, nil
	}
	storage, err := coin.Mul(uint64(delta), bytePrice)
	if err != nil {
		return 0, errors.Wrap(err, "storage deposit")
	}
	return coin.Add(storage, flatFee)
}

// Reconcile checks the attached payment against the required deposit and
// returns the surplus owed back to the caller. Surpluses at or below
// DustThreshold are kept, returning them would cost more than they are
// worth.
func Reconcile(attached, required coin.Amount) (coin.Amount, error) {
	if attached < required {
		return 0, errors.Wrapf(errors.ErrDeposit, "attached %d, requires %d", attached, required)
	}
	surplus := attached - required
	if surplus <= DustThreshold {
		return 0, nil
	}
	return surplus, nil
}
