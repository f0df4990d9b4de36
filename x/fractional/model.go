// Package fractional turns custody held NFTs into fungible shares. A deed
// records which NFTs back a share token, shares circulate on the ledger
// like any other fungible token, and the sole holder of the full supply
// can unwrap the deed to get the NFTs back.
package fractional

import (
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/asset"
)

// BucketName is where we store the deeds
const BucketName = "fract"

// Deed records the NFTs locked behind one share token. It is keyed by
// the share token id.
type Deed struct {
	// NFTs are the locked non-fungible assets backing the shares.
	NFTs []asset.ID
	// Unwrapped is set once the NFTs were released, the deed then stays
	// as an inert record.
	Unwrapped bool
}

var _ orm.ModelData = (*Deed)(nil)

func (d *Deed) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(d)
}

func (d *Deed) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, d)
}

func (d *Deed) Validate() error {
	if len(d.NFTs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "deed without assets")
	}
	for _, id := range d.NFTs {
		if err := id.Validate(); err != nil {
			return err
		}
		if id.Kind != asset.NonFungible {
			return errors.Wrapf(errors.ErrType, "%s is not an NFT", id)
		}
	}
	return nil
}

// NewBucket initializes a deed bucket with the default name
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Deed{}))
}
