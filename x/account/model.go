// Package account implements the account store: the native currency balance
// of every registered account, and the internal balances this ledger holds
// in custody on behalf of accounts for externally issued assets.
package account

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/asset"
)

// BucketName is where we store the accounts
const BucketName = "acct"

// balanceBucketName is where we store per (account, asset) custody balances
const balanceBucketName = "intbal"

// Account is the record kept for every registered identity.
type Account struct {
	// Registered is always true. A zero Account must not serialize to
	// zero bytes, some backing stores cannot tell an empty value from a
	// missing key.
	Registered bool
	// Native is the native currency balance held for this account,
	// accumulated from fee payouts and sale proceeds.
	Native coin.Amount
}

var _ orm.ModelData = (*Account)(nil)

func (a *Account) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(a)
}

func (a *Account) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, a)
}

func (a *Account) Validate() error {
	return nil
}

// Balance is the custody amount of one asset held for one account.
type Balance struct {
	Amount coin.Amount
}

var _ orm.ModelData = (*Balance)(nil)

func (b *Balance) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(b)
}

func (b *Balance) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, b)
}

func (b *Balance) Validate() error {
	return nil
}

// NewBucket initializes an account bucket with the default name
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, orm.NewSimpleObj(nil, &Account{}))
}

// NewBalanceBucket initializes the custody balance bucket
func NewBalanceBucket() orm.Bucket {
	return orm.NewBucket(balanceBucketName, orm.NewSimpleObj(nil, &Balance{}))
}

// balanceKey joins an account address with an asset id. The address is of
// fixed length, which keeps the concatenation unambiguous.
func balanceKey(addr fractal.Address, id asset.ID) ([]byte, error) {
	if err := addr.Validate(); err != nil {
		return nil, errors.Wrap(err, "account")
	}
	if err := id.Validate(); err != nil {
		return nil, errors.Wrap(err, "asset")
	}
	return append(addr.Clone(), id.Key()...), nil
}
