// Package coin provides checked arithmetic for ledger amounts.
//
// All balances, supplies and payments on the ledger are represented as
// unsigned 64 bit integers of the smallest indivisible unit. Arithmetic
// never wraps silently: any operation that would leave the uint64 domain
// fails loudly with an overflow error.
package coin

import (
	"strconv"

	"github.com/neon-tetra/fractal/errors"
)

// Amount is a quantity of the smallest indivisible unit of an asset or of
// the native currency.
type Amount = uint64

// Add returns a+b, failing on overflow.
func Add(a, b Amount) (Amount, error) {
	sum := a + b
	if sum < a {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

// Sub returns a-b, failing when the result would be negative. Balances are
// unsigned so underflow is reported as an insufficient amount.
func Sub(a, b Amount) (Amount, error) {
	if b > a {
		return 0, errors.Wrapf(errors.ErrInsufficientAmount, "%d < %d", a, b)
	}
	return a - b, nil
}

// Mul returns a*b, failing on overflow.
func Mul(a, b Amount) (Amount, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	product := a * b
	if product/a != b {
		return 0, errors.Wrapf(errors.ErrOverflow, "%d * %d", a, b)
	}
	return product, nil
}

// Parse interprets a decimal string as an amount.
func Parse(raw string) (Amount, error) {
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "amount %q", raw)
	}
	return v, nil
}

// Format renders the amount as a decimal string.
func Format(a Amount) string {
	return strconv.FormatUint(a, 10)
}
