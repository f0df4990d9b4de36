package engine

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/gconf"
)

// configPkg is the gconf namespace the configuration singleton lives under.
const configPkg = "engine"

// Configuration is the contract wide configuration singleton. It is
// written on initialization and updated only through owner gated calls.
type Configuration struct {
	// Owner may update the configuration and clear foreign listings.
	Owner fractal.Address
	// Treasury receives mint fees and the platform cut of every sale.
	Treasury fractal.Address
	// MintFee is the flat native fee charged per fractionalization.
	MintFee coin.Amount
	// SaleFee is the platform fraction taken from every sale payment.
	SaleFee fractal.Fraction
	// StorageBytePrice is the native cost of one byte of stored state.
	StorageBytePrice coin.Amount
}

var _ gconf.ValidMarshaler = (*Configuration)(nil)

func (c *Configuration) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Configuration) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, c)
}

func (c *Configuration) Validate() error {
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	if err := c.Treasury.Validate(); err != nil {
		return errors.Wrap(err, "treasury")
	}
	if err := c.SaleFee.Validate(); err != nil {
		return errors.Wrap(err, "sale fee")
	}
	return nil
}

func loadConfig(db fractal.ReadOnlyKVStore) (*Configuration, error) {
	var cfg Configuration
	if err := gconf.Load(db, configPkg, &cfg); err != nil {
		return nil, errors.Wrap(err, "configuration")
	}
	return &cfg, nil
}

func saveConfig(db fractal.KVStore, cfg *Configuration) error {
	return gconf.Save(db, configPkg, cfg)
}
