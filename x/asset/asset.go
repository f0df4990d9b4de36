// Package asset identifies externally issued tokens held in custody.
//
// The ledger keeps internal balances for assets that live on other ledgers.
// Such an asset is identified by the ledger it originates from, the token
// identifier on that ledger, and its kind. The kind travels with the
// identifier so that custody code can tell fungible from non-fungible
// holdings without consulting the origin ledger.
package asset

import (
	"fmt"

	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/errors"
)

// Kind tells how the units of an asset relate to each other.
type Kind uint8

const (
	// Fungible assets are interchangeable quantities.
	Fungible Kind = 1
	// NonFungible assets are unique items, held in quantity zero or one.
	NonFungible Kind = 2
	// Multi assets are claims on a multi-token ledger.
	Multi Kind = 3
)

// Validate returns an error for unknown kinds.
func (k Kind) Validate() error {
	switch k {
	case Fungible, NonFungible, Multi:
		return nil
	default:
		return errors.Wrapf(errors.ErrType, "asset kind %d", k)
	}
}

func (k Kind) String() string {
	switch k {
	case Fungible:
		return "fungible"
	case NonFungible:
		return "non-fungible"
	case Multi:
		return "multi"
	default:
		return fmt.Sprintf("invalid(%d)", uint8(k))
	}
}

// ID identifies one externally issued asset.
type ID struct {
	// Kind of the asset as declared when it was deposited.
	Kind Kind
	// Origin is the address of the ledger the asset lives on.
	Origin fractal.Address
	// Token is the identifier of the asset on the origin ledger. Empty
	// for fungible assets that are the origin ledger's only token.
	Token string
}

// NewNonFungible returns the id of a unique item on the origin ledger.
func NewNonFungible(origin fractal.Address, token string) ID {
	return ID{Kind: NonFungible, Origin: origin, Token: token}
}

// NewFungible returns the id of a fungible token on the origin ledger.
func NewFungible(origin fractal.Address, token string) ID {
	return ID{Kind: Fungible, Origin: origin, Token: token}
}

// NewMulti returns the id of a claim on a multi-token origin ledger.
func NewMulti(origin fractal.Address, token string) ID {
	return ID{Kind: Multi, Origin: origin, Token: token}
}

// Validate returns an error if the id does not fully identify an asset.
func (id ID) Validate() error {
	if err := id.Kind.Validate(); err != nil {
		return err
	}
	if err := id.Origin.Validate(); err != nil {
		return errors.Wrap(err, "origin")
	}
	return nil
}

// Key returns a stable byte representation, usable as part of a store key.
// The origin address is of fixed length so the encoding is unambiguous.
func (id ID) Key() []byte {
	out := make([]byte, 0, 1+len(id.Origin)+len(id.Token))
	out = append(out, byte(id.Kind))
	out = append(out, id.Origin...)
	out = append(out, id.Token...)
	return out
}

// ParseKey is the inverse of Key.
func ParseKey(key []byte) (ID, error) {
	if len(key) < 1+fractal.AddressLength {
		return ID{}, errors.Wrap(errors.ErrInput, "asset key too short")
	}
	id := ID{
		Kind:   Kind(key[0]),
		Origin: fractal.Address(key[1 : 1+fractal.AddressLength]).Clone(),
		Token:  string(key[1+fractal.AddressLength:]),
	}
	if err := id.Validate(); err != nil {
		return ID{}, err
	}
	return id, nil
}

// Equals checks if two ids refer to the same asset.
func (id ID) Equals(other ID) bool {
	return id.Kind == other.Kind &&
		id.Origin.Equals(other.Origin) &&
		id.Token == other.Token
}

func (id ID) String() string {
	if id.Token == "" {
		return fmt.Sprintf("%s:%s", id.Kind, id.Origin)
	}
	return fmt.Sprintf("%s:%s/%s", id.Kind, id.Origin, id.Token)
}
