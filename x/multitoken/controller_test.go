package multitoken

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/store"
	"github.com/neon-tetra/fractal/x/asset"
)

var (
	alice  = fractal.NewAddress([]byte("alice"))
	bob    = fractal.NewAddress([]byte("bob"))
	origin = fractal.NewAddress([]byte("origin"))
)

func demoMeta() *Metadata {
	return &Metadata{Title: "Demo", Decimals: 0}
}

func TestRegisterKind(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ft := asset.NewFungible(origin, "gold")

	_, err := ctrl.Kind(db, ft)
	require.Error(t, err)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, ctrl.RegisterKind(db, ft))
	kind, err := ctrl.Kind(db, ft)
	require.NoError(t, err)
	assert.Equal(t, asset.Fungible, kind)

	// repeated registration with the same kind is fine
	require.NoError(t, ctrl.RegisterKind(db, ft))

	// contradicting the declared kind is not
	conflict := asset.NewNonFungible(origin, "gold")
	err = ctrl.RegisterKind(db, conflict)
	require.Error(t, err)
	assert.True(t, errors.ErrType.Is(err))
}

func TestMintFungible(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ft := asset.NewFungible(origin, "gold")
	require.NoError(t, ctrl.RegisterKind(db, ft))

	err := ctrl.Mint(db, ft, alice, 0, demoMeta())
	require.Error(t, err)
	assert.True(t, errors.ErrAmount.Is(err))

	require.NoError(t, ctrl.Mint(db, ft, alice, 1000, demoMeta()))
	require.NoError(t, ctrl.Mint(db, ft, alice, 500, nil))

	bal, err := ctrl.BalanceOf(db, ft, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), bal)
	supply, err := ctrl.TotalSupply(db, ft)
	require.NoError(t, err)
	assert.Equal(t, uint64(1500), supply)

	// supply overflow is rejected before state changes
	err = ctrl.Mint(db, ft, alice, math.MaxUint64, nil)
	require.Error(t, err)
	assert.True(t, errors.ErrOverflow.Is(err))
}

func TestMintNonFungibleOnce(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	nft := asset.NewNonFungible(origin, "deed-1")
	require.NoError(t, ctrl.RegisterKind(db, nft))

	err := ctrl.Mint(db, nft, alice, 2, demoMeta())
	require.Error(t, err)
	assert.True(t, errors.ErrAmount.Is(err))

	require.NoError(t, ctrl.Mint(db, nft, alice, 1, demoMeta()))

	err = ctrl.Mint(db, nft, alice, 1, demoMeta())
	require.Error(t, err)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestMintNonFungibleNeverAfterBurn(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	nft := asset.NewNonFungible(origin, "deed-1")
	require.NoError(t, ctrl.RegisterKind(db, nft))
	require.NoError(t, ctrl.Mint(db, nft, alice, 1, demoMeta()))

	// burning the token returns its supply to zero
	require.NoError(t, ctrl.Burn(db, nft, alice, 1))
	supply, err := ctrl.TotalSupply(db, nft)
	require.NoError(t, err)
	require.Equal(t, uint64(0), supply)

	// a burned non-fungible id stays spent forever
	err = ctrl.Mint(db, nft, alice, 1, demoMeta())
	require.Error(t, err)
	assert.True(t, errors.ErrDuplicate.Is(err))
}

func TestFirstMintStoresMetadata(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ft := asset.NewFungible(origin, "gold")
	require.NoError(t, ctrl.RegisterKind(db, ft))

	// the first mint requires metadata
	err := ctrl.Mint(db, ft, alice, 10, nil)
	require.Error(t, err)
	assert.True(t, errors.ErrInput.Is(err))

	require.NoError(t, ctrl.Mint(db, ft, alice, 10, &Metadata{Title: "Gold", Decimals: 4}))

	// later mints cannot rewrite it
	require.NoError(t, ctrl.Mint(db, ft, alice, 10, &Metadata{Title: "Lead"}))
	meta, err := ctrl.Metadata(db, ft)
	require.NoError(t, err)
	assert.Equal(t, "Gold", meta.Title)
	assert.Equal(t, uint8(4), meta.Decimals)
}

func TestTransfer(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ft := asset.NewFungible(origin, "gold")
	require.NoError(t, ctrl.RegisterKind(db, ft))
	require.NoError(t, ctrl.Mint(db, ft, alice, 1000, demoMeta()))

	// unregistered recipients are rejected
	err := ctrl.Transfer(db, ft, alice, bob, 100)
	require.Error(t, err)
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, ctrl.RegisterHolder(db, bob))
	require.NoError(t, ctrl.Transfer(db, ft, alice, bob, 100))

	aBal, err := ctrl.BalanceOf(db, ft, alice)
	require.NoError(t, err)
	bBal, err := ctrl.BalanceOf(db, ft, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(900), aBal)
	assert.Equal(t, uint64(100), bBal)

	// a zero transfer is a successful no-op either way
	require.NoError(t, ctrl.Transfer(db, ft, alice, bob, 0))

	// overdraw fails and leaves balances intact
	err = ctrl.Transfer(db, ft, bob, alice, 101)
	require.Error(t, err)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
	bBal, err = ctrl.BalanceOf(db, ft, bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), bBal)

	// supply is conserved across transfers
	supply, err := ctrl.TotalSupply(db, ft)
	require.NoError(t, err)
	assert.Equal(t, aBal+bBal, supply)
}

func TestBurn(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	ft := asset.NewFungible(origin, "gold")
	require.NoError(t, ctrl.RegisterKind(db, ft))
	require.NoError(t, ctrl.Mint(db, ft, alice, 1000, demoMeta()))

	require.NoError(t, ctrl.Burn(db, ft, alice, 400))
	bal, err := ctrl.BalanceOf(db, ft, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), bal)
	supply, err := ctrl.TotalSupply(db, ft)
	require.NoError(t, err)
	assert.Equal(t, uint64(600), supply)

	err = ctrl.Burn(db, ft, alice, 601)
	require.Error(t, err)
	assert.True(t, errors.ErrInsufficientAmount.Is(err))
}

func TestBalancesAreIndependentPerToken(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	gold := asset.NewFungible(origin, "gold")
	iron := asset.NewFungible(origin, "iron")
	require.NoError(t, ctrl.RegisterKind(db, gold))
	require.NoError(t, ctrl.RegisterKind(db, iron))

	require.NoError(t, ctrl.Mint(db, gold, alice, 10, demoMeta()))
	require.NoError(t, ctrl.Mint(db, iron, alice, 20, demoMeta()))

	gBal, err := ctrl.BalanceOf(db, gold, alice)
	require.NoError(t, err)
	iBal, err := ctrl.BalanceOf(db, iron, alice)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), gBal)
	assert.Equal(t, uint64(20), iBal)
}
