// Package multitoken implements a ledger that tracks any number of token
// types in one store. Every token is identified by an asset.ID and declared
// as fungible or non-fungible before the first mint. Fungible tokens carry
// arbitrary amounts, non-fungible tokens exist exactly once.
package multitoken

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/asset"
)

// KindInfo records the declared kind of a token id.
type KindInfo struct {
	Kind asset.Kind
}

var _ orm.ModelData = (*KindInfo)(nil)

func (k *KindInfo) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(k)
}

func (k *KindInfo) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, k)
}

func (k *KindInfo) Validate() error {
	return k.Kind.Validate()
}

// Metadata describes a token for display. It is written on the first mint
// and immutable afterwards.
type Metadata struct {
	Title       string
	Description string
	Reference   string
	Decimals    uint8
}

var _ orm.ModelData = (*Metadata)(nil)

func (m *Metadata) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(m)
}

func (m *Metadata) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, m)
}

func (m *Metadata) Validate() error {
	if m.Title == "" {
		return errors.Wrap(errors.ErrInput, "metadata requires a title")
	}
	return nil
}

// BalanceInfo is the amount of one token held by one account.
type BalanceInfo struct {
	Amount coin.Amount
}

var _ orm.ModelData = (*BalanceInfo)(nil)

func (b *BalanceInfo) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *BalanceInfo) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, b)
}

func (b *BalanceInfo) Validate() error {
	return nil
}

// SupplyInfo is the total minted minus burned amount of one token.
type SupplyInfo struct {
	Total coin.Amount
}

var _ orm.ModelData = (*SupplyInfo)(nil)

func (s *SupplyInfo) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(s)
}

func (s *SupplyInfo) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, s)
}

func (s *SupplyInfo) Validate() error {
	return nil
}

// RegisteredInfo marks an address as a known holder within this ledger.
// Transfers may only target registered holders.
type RegisteredInfo struct {
	Registered bool
}

var _ orm.ModelData = (*RegisteredInfo)(nil)

func (r *RegisteredInfo) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(r)
}

func (r *RegisteredInfo) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, r)
}

func (r *RegisteredInfo) Validate() error {
	return nil
}

func newKindBucket() orm.Bucket {
	return orm.NewBucket("tkind", orm.NewSimpleObj(nil, &KindInfo{}))
}

func newMetadataBucket() orm.Bucket {
	return orm.NewBucket("tmeta", orm.NewSimpleObj(nil, &Metadata{}))
}

func newBalanceBucket() orm.Bucket {
	return orm.NewBucket("tbal", orm.NewSimpleObj(nil, &BalanceInfo{}))
}

func newSupplyBucket() orm.Bucket {
	return orm.NewBucket("tsup", orm.NewSimpleObj(nil, &SupplyInfo{}))
}

func newHolderBucket() orm.Bucket {
	return orm.NewBucket("tholder", orm.NewSimpleObj(nil, &RegisteredInfo{}))
}

// balanceKey joins a token id with a holder address. The address suffix is
// of fixed length, which keeps the concatenation unambiguous.
func balanceKey(id asset.ID, addr fractal.Address) []byte {
	return append(id.Key(), addr...)
}
