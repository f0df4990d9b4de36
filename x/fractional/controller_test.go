package fractional

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/store"
	"github.com/neon-tetra/fractal/x/account"
	"github.com/neon-tetra/fractal/x/asset"
	"github.com/neon-tetra/fractal/x/multitoken"
	"github.com/neon-tetra/fractal/x/sale"
)

type fixture struct {
	db       fractal.CacheableKVStore
	ledger   multitoken.BaseController
	accounts account.BaseController
	sales    sale.BaseController
	ctrl     BaseController

	alice   fractal.Address
	bob     fractal.Address
	custody fractal.Address
	nfts    []asset.ID
	shares  asset.ID
}

// newFixture gives alice two custody NFTs to fractionalize.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		db:       store.MemStore(),
		ledger:   multitoken.NewController(),
		accounts: account.NewController(),
		alice:    fractal.NewAddress([]byte("alice")),
		bob:      fractal.NewAddress([]byte("bob")),
		custody:  fractal.NewAddress([]byte("custody")),
	}
	f.sales = sale.NewController(f.ledger, f.accounts)
	f.ctrl = NewController(f.ledger, f.accounts, f.sales)

	origin := fractal.NewAddress([]byte("nft-ledger"))
	f.nfts = []asset.ID{
		asset.NewNonFungible(origin, "deed-1"),
		asset.NewNonFungible(origin, "deed-2"),
	}
	f.shares = asset.NewFungible(fractal.NewAddress([]byte("self")), "shares-1")

	require.NoError(t, f.accounts.Register(f.db, f.alice))
	require.NoError(t, f.accounts.Register(f.db, f.bob))
	for _, id := range f.nfts {
		require.NoError(t, f.accounts.CreditInternal(f.db, f.alice, id, 1))
	}
	return f
}

func (f *fixture) terms(supply uint64) Terms {
	return Terms{
		ShareID:  f.shares,
		NFTs:     f.nfts,
		Supply:   supply,
		Metadata: &multitoken.Metadata{Title: "Shares"},
	}
}

func TestFractionalize(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.ctrl.Fractionalize(f.db, f.alice, f.custody, f.terms(1_000_000_000_000_000)))

	// the full supply lands with the caller
	bal, err := f.ledger.BalanceOf(f.db, f.shares, f.alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000_000), bal)

	// the NFTs left the caller's custody balance
	for _, id := range f.nfts {
		held, err := f.accounts.InternalBalance(f.db, f.alice, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(0), held)
	}

	deed, err := f.ctrl.Underlying(f.db, f.shares)
	require.NoError(t, err)
	assert.Equal(t, f.nfts, deed.NFTs)
	assert.False(t, deed.Unwrapped)
}

func TestFractionalizeToOtherOwner(t *testing.T) {
	f := newFixture(t)
	terms := f.terms(500)
	terms.Owner = f.bob

	require.NoError(t, f.ctrl.Fractionalize(f.db, f.alice, f.custody, terms))

	// alice paid with her NFTs, bob got the shares
	bobBal, err := f.ledger.BalanceOf(f.db, f.shares, f.bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), bobBal)
	aliceBal, err := f.ledger.BalanceOf(f.db, f.shares, f.alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), aliceBal)
}

func TestFractionalizeRequiresCustody(t *testing.T) {
	f := newFixture(t)

	// bob holds none of the NFTs
	err := f.ctrl.Fractionalize(f.db, f.bob, f.custody, f.terms(100))
	require.Error(t, err)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
}

func TestFractionalizeRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Fractionalize(f.db, f.alice, f.custody, f.terms(100)))

	err := f.ctrl.Fractionalize(f.db, f.alice, f.custody, f.terms(100))
	require.Error(t, err)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestFractionalizeRejectsFungibleBacking(t *testing.T) {
	f := newFixture(t)
	terms := f.terms(100)
	terms.NFTs = []asset.ID{asset.NewFungible(fractal.NewAddress([]byte("x")), "gold")}

	err := f.ctrl.Fractionalize(f.db, f.alice, f.custody, terms)
	require.Error(t, err)
	assert.True(t, errors.ErrType.Is(err))
}

func TestFractionalizeWithSale(t *testing.T) {
	f := newFixture(t)
	terms := f.terms(1000)
	terms.Sale = &SaleTerms{Amount: 400, PricePerUnit: 3}

	require.NoError(t, f.ctrl.Fractionalize(f.db, f.alice, f.custody, terms))

	aliceBal, err := f.ledger.BalanceOf(f.db, f.shares, f.alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), aliceBal)
	custodyBal, err := f.ledger.BalanceOf(f.db, f.shares, f.custody)
	require.NoError(t, err)
	assert.Equal(t, uint64(400), custodyBal)

	listing, err := f.sales.Info(f.db, f.shares)
	require.NoError(t, err)
	assert.Equal(t, f.alice, listing.Owner)
	assert.Equal(t, uint64(400), listing.AmountToSell)
	assert.Equal(t, uint64(3), listing.PricePerUnit)
}

func TestFractionalizeSaleCannotExceedSupply(t *testing.T) {
	f := newFixture(t)
	terms := f.terms(1000)
	terms.Sale = &SaleTerms{Amount: 1001, PricePerUnit: 1}

	err := f.ctrl.Fractionalize(f.db, f.alice, f.custody, terms)
	require.Error(t, err)
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestUnwrapRoundTrip(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Fractionalize(f.db, f.alice, f.custody, f.terms(1000)))

	require.NoError(t, f.ctrl.Unwrap(f.db, f.alice, f.alice, f.shares))

	// the NFTs are back in alice's custody balance
	for _, id := range f.nfts {
		held, err := f.accounts.InternalBalance(f.db, f.alice, id)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), held)
	}
	// the shares are gone
	supply, err := f.ledger.TotalSupply(f.db, f.shares)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), supply)

	deed, err := f.ctrl.Underlying(f.db, f.shares)
	require.NoError(t, err)
	assert.True(t, deed.Unwrapped)

	// a second unwrap finds the deed spent
	err = f.ctrl.Unwrap(f.db, f.alice, f.alice, f.shares)
	require.Error(t, err)
	assert.True(t, errors.ErrState.Is(err))
}

func TestUnwrapRequiresSoleHolder(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.ctrl.Fractionalize(f.db, f.alice, f.custody, f.terms(1000)))

	// alice gives away a single share
	require.NoError(t, f.ledger.RegisterHolder(f.db, f.bob))
	require.NoError(t, f.ledger.Transfer(f.db, f.shares, f.alice, f.bob, 1))

	err := f.ctrl.Unwrap(f.db, f.alice, f.alice, f.shares)
	require.Error(t, err)
	assert.True(t, errors.ErrState.Is(err))

	// with the share back, unwrap works
	require.NoError(t, f.ledger.Transfer(f.db, f.shares, f.bob, f.alice, 1))
	require.NoError(t, f.ctrl.Unwrap(f.db, f.alice, f.alice, f.shares))
}

func TestUnderlyingUnknown(t *testing.T) {
	f := newFixture(t)
	_, err := f.ctrl.Underlying(f.db, f.shares)
	require.Error(t, err)
	assert.True(t, errors.ErrNotFound.Is(err))
}
