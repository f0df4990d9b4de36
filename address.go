package fractal

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/neon-tetra/fractal/errors"
)

// AddressLength is the length of all addresses. It must not change during
// the lifetime of a kvstore.
const AddressLength = 20

// Address represents a collision-free, one-way digest of an identity
// (usually a public key, supplied by the host) that is used to identify
// accounts on the ledger.
//
// It will be of size AddressLength.
type Address []byte

// NewAddress hashes and truncates into the proper size
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	h := sha256.Sum256(data)
	return h[:AddressLength]
}

// Equals checks if two addresses are the same
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not the valid size
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.Wrapf(errors.ErrInput, "address length %d", len(a))
	}
	return nil
}

// Clone returns a copy that shares no memory with the original.
func (a Address) Clone() Address {
	if a == nil {
		return nil
	}
	return append(Address{}, a...)
}

// String returns a human readable hex string.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// MarshalJSON provides a hex representation for JSON,
// to override the standard base64 []byte encoding
func (a Address) MarshalJSON() ([]byte, error) {
	return marshalHex(a)
}

// UnmarshalJSON parses JSON in hex representation,
// to override the standard base64 []byte encoding
func (a *Address) UnmarshalJSON(src []byte) error {
	dst := (*[]byte)(a)
	return unmarshalHex(dst, src)
}

// Bech32 returns a bech32 encoded representation with given human readable
// prefix.
func (a Address) Bech32(hrp string) (string, error) {
	payload, err := bech32.ConvertBits(a, 8, 5, true)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	enc, err := bech32.Encode(hrp, payload)
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return enc, nil
}

// ParseBech32Address decodes a bech32 encoded address, returning the human
// readable prefix and the raw address.
func ParseBech32Address(raw string) (string, Address, error) {
	hrp, payload, err := bech32.Decode(raw)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	data, err := bech32.ConvertBits(payload, 5, 8, false)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	addr := Address(data)
	if err := addr.Validate(); err != nil {
		return "", nil, err
	}
	return hrp, addr, nil
}

// ParseAddress accepts an address in a hex format and returns its binary
// representation.
func ParseAddress(enc string) (Address, error) {
	val, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "hex decode")
	}
	addr := Address(val)
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}

func unmarshalHex(dst *[]byte, src []byte) (err error) {
	var s string
	err = json.Unmarshal(src, &s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "parse string")
	}
	// and interpret that string as hex
	*dst, err = hex.DecodeString(s)
	if err != nil {
		return errors.Wrap(errors.ErrInput, "hex decode")
	}
	return nil
}

func marshalHex(data []byte) ([]byte, error) {
	s := strings.ToUpper(hex.EncodeToString(data))
	return json.Marshal(s)
}
