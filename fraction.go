package fractal

import (
	"encoding/json"
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/neon-tetra/fractal/errors"
)

// FeeDenominator is the platform wide denominator used for all fee
// fractions. A fee numerator of 100_000_000 therefore means a 10% fee.
const FeeDenominator uint64 = 1_000_000_000

// Fraction is a ratio of two integers, used for fee computation. Unless
// constructed otherwise the denominator defaults to FeeDenominator.
type Fraction struct {
	Numerator   uint64 `json:"numerator"`
	Denominator uint64 `json:"denominator"`
}

// NewFeeFraction returns a fraction of the platform wide fee denominator.
func NewFeeFraction(numerator uint64) Fraction {
	return Fraction{Numerator: numerator, Denominator: FeeDenominator}
}

// Validate returns an error if this fraction represents an invalid value.
// A fee fraction must never be greater than one.
func (f Fraction) Validate() error {
	if f.Denominator == 0 {
		return errors.Wrap(errors.ErrState, "zero division")
	}
	if f.Numerator > f.Denominator {
		return errors.Wrap(errors.ErrState, "fraction greater than one")
	}
	return nil
}

// Apply multiplies the given amount by this fraction, rounding down. The
// intermediate product is computed in the 128 bit domain so that applying a
// fraction to any 64 bit amount can never overflow mid-computation. The
// result itself must fit 64 bits or an overflow error is returned.
func (f Fraction) Apply(amount uint64) (uint64, error) {
	if f.Denominator == 0 {
		return 0, errors.Wrap(errors.ErrState, "zero division")
	}
	hi, lo := bits.Mul64(amount, f.Numerator)
	if hi >= f.Denominator {
		return 0, errors.Wrap(errors.ErrOverflow, "fraction apply")
	}
	quo, _ := bits.Div64(hi, lo, f.Denominator)
	return quo, nil
}

// Normalize returns a new fraction instance that has its numerator and
// denominator reduced to the smallest possible representation.
func (f Fraction) Normalize() Fraction {
	div := uintGcd(f.Numerator, f.Denominator)
	if div == 0 {
		return f
	}
	return Fraction{
		Numerator:   f.Numerator / div,
		Denominator: f.Denominator / div,
	}
}

// String returns a human readable fraction representation.
func (f *Fraction) String() string {
	if f == nil {
		return "nil"
	}
	if f.Numerator == 0 {
		return "0"
	}
	if f.Denominator == 1 {
		return fmt.Sprint(f.Numerator)
	}
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

func (f *Fraction) UnmarshalJSON(raw []byte) error {
	// Prioritize human readable format.
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		frac, err := ParseFractionString(human)
		if err != nil {
			return errors.Wrap(err, "fraction string")
		}
		*f = *frac
		return nil
	}

	var frac struct {
		Numerator   uint64
		Denominator uint64
	}
	if err := json.Unmarshal(raw, &frac); err != nil {
		return err
	}
	f.Numerator = frac.Numerator
	f.Denominator = frac.Denominator
	return nil
}

// ParseFractionString returns a fraction value that is represented by given
// string. This function fails if given string does not represent a fraction
// value.
// This function does not fail if representation format is correct but the
// value is invalid (i.e. value of "2/0").
func ParseFractionString(raw string) (*Fraction, error) {
	chunks := strings.SplitN(raw, "/", 2)
	n, err := strconv.ParseUint(chunks[0], 10, 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "numerator")
	}
	if len(chunks) == 1 {
		return &Fraction{Numerator: n, Denominator: 1}, nil
	}
	d, err := strconv.ParseUint(chunks[1], 10, 64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "denominator")
	}
	return &Fraction{Numerator: n, Denominator: d}, nil
}

func uintGcd(a, b uint64) uint64 {
	for b != 0 {
		t := b
		b = a % b
		a = t
	}
	return a
}
