package fractional

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/account"
	"github.com/neon-tetra/fractal/x/asset"
	"github.com/neon-tetra/fractal/x/multitoken"
	"github.com/neon-tetra/fractal/x/sale"
)

// Terms describes one fractionalization request.
type Terms struct {
	// ShareID is the fungible token id the shares will circulate under.
	ShareID asset.ID
	// NFTs are the custody held assets to lock, all owned by the caller.
	NFTs []asset.ID
	// Supply is the total amount of shares to mint.
	Supply coin.Amount
	// Owner receives the minted shares and owns any seeded listing.
	// Nil means the caller.
	Owner fractal.Address
	// Metadata describes the share token.
	Metadata *multitoken.Metadata
	// Sale optionally lists part of the freshly minted supply.
	Sale *SaleTerms
}

// SaleTerms lists part of the minted supply right away.
type SaleTerms struct {
	Amount       coin.Amount
	PricePerUnit coin.Amount
}

// Controller exposes the fractionalization operations used by the engine.
type Controller interface {
	Fractionalize(db fractal.KVStore, caller, custody fractal.Address, terms Terms) error
	Unwrap(db fractal.KVStore, caller, releaseTo fractal.Address, shareID asset.ID) error
	Underlying(db fractal.ReadOnlyKVStore, shareID asset.ID) (*Deed, error)
}

// BaseController is a simple implementation of controller
type BaseController struct {
	deeds    orm.Bucket
	ledger   multitoken.Controller
	accounts account.Controller
	sales    sale.Controller
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation
func NewController(ledger multitoken.Controller, accounts account.Controller, sales sale.Controller) BaseController {
	return BaseController{
		deeds:    NewBucket(),
		ledger:   ledger,
		accounts: accounts,
		sales:    sales,
	}
}

// Fractionalize locks the caller's custody NFTs behind a deed and mints
// the share supply to the owner, the caller itself by default. With sale
// terms, part of the supply moves to the custody address and is listed at
// the given price.
func (c BaseController) Fractionalize(db fractal.KVStore, caller, custody fractal.Address, terms Terms) error {
	if terms.ShareID.Kind != asset.Fungible {
		return errors.Wrapf(errors.ErrType, "shares must be fungible, got %s", terms.ShareID.Kind)
	}
	if terms.Supply == 0 {
		return errors.Wrap(errors.ErrAmount, "zero share supply")
	}
	owner := terms.Owner
	if owner == nil {
		owner = caller
	}
	obj, err := c.deeds.Get(db, terms.ShareID.Key())
	if err != nil {
		return err
	}
	if obj != nil {
		return errors.Wrapf(errors.ErrDuplicate, "deed for %s", terms.ShareID)
	}

	deed := &Deed{NFTs: terms.NFTs}
	if err := deed.Validate(); err != nil {
		return err
	}
	for _, id := range terms.NFTs {
		if err := c.accounts.DebitInternal(db, caller, id, 1); err != nil {
			return err
		}
	}

	if err := c.ledger.RegisterKind(db, terms.ShareID); err != nil {
		return err
	}
	if err := c.ledger.RegisterHolder(db, owner); err != nil {
		return err
	}
	if err := c.ledger.Mint(db, terms.ShareID, owner, terms.Supply, terms.Metadata); err != nil {
		return err
	}
	if err := c.deeds.Save(db, orm.NewSimpleObj(terms.ShareID.Key(), deed)); err != nil {
		return err
	}

	if terms.Sale == nil {
		return nil
	}
	if terms.Sale.Amount > terms.Supply {
		return errors.Wrapf(errors.ErrAmount, "cannot list %d of %d shares", terms.Sale.Amount, terms.Supply)
	}
	if err := c.accounts.Register(db, custody); err != nil {
		return err
	}
	if err := c.ledger.RegisterHolder(db, custody); err != nil {
		return err
	}
	if err := c.ledger.Transfer(db, terms.ShareID, owner, custody, terms.Sale.Amount); err != nil {
		return err
	}
	return c.sales.Create(db, terms.ShareID, &sale.Listing{
		Owner:        owner,
		AmountToSell: terms.Sale.Amount,
		PricePerUnit: terms.Sale.PricePerUnit,
	})
}

// Unwrap releases the NFTs behind a share token. The caller must hold
// the complete share supply, which is burned. The NFTs are credited to
// the releaseTo custody balance.
func (c BaseController) Unwrap(db fractal.KVStore, caller, releaseTo fractal.Address, shareID asset.ID) error {
	deed, err := c.Underlying(db, shareID)
	if err != nil {
		return err
	}
	if deed.Unwrapped {
		return errors.Wrapf(errors.ErrState, "deed for %s already unwrapped", shareID)
	}

	supply, err := c.ledger.TotalSupply(db, shareID)
	if err != nil {
		return err
	}
	held, err := c.ledger.BalanceOf(db, shareID, caller)
	if err != nil {
		return err
	}
	if held != supply {
		return errors.Wrapf(errors.ErrState, "caller holds %d of %d shares", held, supply)
	}

	if err := c.ledger.Burn(db, shareID, caller, supply); err != nil {
		return err
	}
	for _, id := range deed.NFTs {
		if err := c.accounts.CreditInternal(db, releaseTo, id, 1); err != nil {
			return err
		}
	}
	deed.Unwrapped = true
	return c.deeds.Save(db, orm.NewSimpleObj(shareID.Key(), deed))
}

// Underlying loads the deed behind a share token, or ErrNotFound.
func (c BaseController) Underlying(db fractal.ReadOnlyKVStore, shareID asset.ID) (*Deed, error) {
	obj, err := c.deeds.Get(db, shareID.Key())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "deed for %s", shareID)
	}
	return obj.Value().(*Deed), nil
}
