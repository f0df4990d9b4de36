// Package sale implements fixed price listings for fungible tokens. A
// listing offers a fixed amount at a fixed unit price and is filled in
// one or more purchases until sold out.
package sale

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
)

// BucketName is where we store the listings
const BucketName = "sale"

// Listing is one fixed price offer. It is keyed by the token id being
// sold, so there is at most one listing per token.
type Listing struct {
	// Owner receives the proceeds, minus the platform fee.
	Owner fractal.Address
	// AmountToSell is the total offered amount.
	AmountToSell coin.Amount
	// PricePerUnit is the native price of one token unit.
	PricePerUnit coin.Amount
	// Sold is how much of AmountToSell was already bought.
	Sold coin.Amount
}

var _ orm.CloneableData = (*Listing)(nil)

func (l *Listing) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(l)
}

func (l *Listing) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, l)
}

func (l *Listing) Validate() error {
	if err := l.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if l.AmountToSell == 0 {
		return errors.Wrap(errors.ErrAmount, "nothing to sell")
	}
	if l.PricePerUnit == 0 {
		return errors.Wrap(errors.ErrAmount, "free listing")
	}
	if l.Sold > l.AmountToSell {
		return errors.Wrap(errors.ErrState, "oversold listing")
	}
	return nil
}

func (l *Listing) Copy() orm.CloneableData {
	return &Listing{
		Owner:        l.Owner.Clone(),
		AmountToSell: l.AmountToSell,
		PricePerUnit: l.PricePerUnit,
		Sold:         l.Sold,
	}
}

// Remaining returns how much of the listing is still for sale.
func (l *Listing) Remaining() coin.Amount {
	return l.AmountToSell - l.Sold
}

// SoldOut returns true once every offered unit was bought.
func (l *Listing) SoldOut() bool {
	return l.Sold == l.AmountToSell
}

// NewBucket initializes a listing bucket with the default name
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Listing{}))
}
