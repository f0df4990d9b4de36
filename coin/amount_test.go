package coin

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/neon-tetra/fractal/errors"
)

func TestCheckedArithmetic(t *testing.T) {
	Convey("Given checked amount arithmetic", t, func() {
		Convey("addition combines amounts", func() {
			sum, err := Add(1000, 234)
			So(err, ShouldBeNil)
			So(sum, ShouldEqual, 1234)
		})
		Convey("addition fails loudly on overflow", func() {
			_, err := Add(math.MaxUint64, 1)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})
		Convey("subtraction within balance succeeds", func() {
			diff, err := Sub(1000, 234)
			So(err, ShouldBeNil)
			So(diff, ShouldEqual, 766)
		})
		Convey("subtraction below zero is an insufficient amount", func() {
			_, err := Sub(1, 2)
			So(errors.ErrInsufficientAmount.Is(err), ShouldBeTrue)
		})
		Convey("multiplication computes sale costs", func() {
			cost, err := Mul(10, 100)
			So(err, ShouldBeNil)
			So(cost, ShouldEqual, 1000)
		})
		Convey("multiplication by zero is zero", func() {
			cost, err := Mul(0, math.MaxUint64)
			So(err, ShouldBeNil)
			So(cost, ShouldEqual, 0)
		})
		Convey("multiplication fails loudly on overflow", func() {
			_, err := Mul(math.MaxUint64, 2)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})
	})
}

func TestParseFormat(t *testing.T) {
	Convey("Amounts render and parse as decimal strings", t, func() {
		So(Format(1_000_000), ShouldEqual, "1000000")

		v, err := Parse("1000000000000000")
		So(err, ShouldBeNil)
		So(v, ShouldEqual, uint64(1_000_000_000_000_000))

		_, err = Parse("-5")
		So(errors.ErrInput.Is(err), ShouldBeTrue)

		_, err = Parse("18446744073709551616") // 2^64
		So(errors.ErrInput.Is(err), ShouldBeTrue)
	})
}
