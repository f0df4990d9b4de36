package sale

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/account"
	"github.com/neon-tetra/fractal/x/asset"
	"github.com/neon-tetra/fractal/x/fee"
	"github.com/neon-tetra/fractal/x/multitoken"
)

// Controller exposes the listing operations used by the engine.
type Controller interface {
	Create(db fractal.KVStore, id asset.ID, listing *Listing) error
	Buy(db fractal.KVStore, caller fractal.Address, terms BuyTerms) error
	Info(db fractal.ReadOnlyKVStore, id asset.ID) (*Listing, error)
	All(db fractal.ReadOnlyKVStore) (map[string]*Listing, error)
	Clear(db fractal.KVStore, caller, platformOwner fractal.Address, id asset.ID) error
}

// BuyTerms carries everything one purchase needs beyond the caller.
type BuyTerms struct {
	// ID is the token id of the listing being bought from.
	ID asset.ID
	// Amount is how many units to buy.
	Amount coin.Amount
	// Payment is the native amount the caller attached. It must match
	// the cost exactly.
	Payment coin.Amount
	// Custody is the address holding the listed tokens.
	Custody fractal.Address
	// Treasury receives the platform cut of the payment.
	Treasury fractal.Address
	// Fee is the platform fraction taken from the payment.
	Fee fractal.Fraction
}

// BaseController is a simple implementation of controller
type BaseController struct {
	listings orm.Bucket
	ledger   multitoken.Controller
	accounts account.Controller
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation
func NewController(ledger multitoken.Controller, accounts account.Controller) BaseController {
	return BaseController{
		listings: NewBucket(),
		ledger:   ledger,
		accounts: accounts,
	}
}

// Create stores a new listing under the token id. A second listing for
// the same token is rejected, even if the first one is sold out.
func (c BaseController) Create(db fractal.KVStore, id asset.ID, listing *Listing) error {
	if err := id.Validate(); err != nil {
		return err
	}
	if err := listing.Validate(); err != nil {
		return err
	}
	obj, err := c.listings.Get(db, id.Key())
	if err != nil {
		return err
	}
	if obj != nil {
		return errors.Wrapf(errors.ErrDuplicate, "listing for %s", id)
	}
	return c.listings.Save(db, orm.NewSimpleObj(id.Key(), listing))
}

// Buy fills part of a listing. The attached payment must equal the cost
// exactly, the platform cut goes to the treasury and the rest to the
// listing owner, both as native account credits. The bought tokens move
// from the custody account to the caller.
func (c BaseController) Buy(db fractal.KVStore, caller fractal.Address, terms BuyTerms) error {
	ok, err := c.accounts.Has(db, caller)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrState, "buyer %s not registered", caller)
	}
	if terms.Amount == 0 {
		return errors.Wrap(errors.ErrAmount, "buy of zero")
	}

	listing, err := c.Info(db, terms.ID)
	if err != nil {
		return err
	}
	if terms.Amount > listing.Remaining() {
		return errors.Wrapf(errors.ErrAmount, "only %d units remaining", listing.Remaining())
	}

	cost, err := coin.Mul(terms.Amount, listing.PricePerUnit)
	if err != nil {
		return errors.Wrap(err, "cost")
	}
	if terms.Payment != cost {
		return errors.Wrapf(errors.ErrDeposit, "attached %d, costs %d", terms.Payment, cost)
	}

	cut, proceeds, err := fee.Split(cost, terms.Fee)
	if err != nil {
		return err
	}
	if err := c.accounts.CreditNative(db, terms.Treasury, cut); err != nil {
		return errors.Wrap(err, "treasury")
	}
	if err := c.accounts.CreditNative(db, listing.Owner, proceeds); err != nil {
		return errors.Wrap(err, "seller")
	}

	if err := c.ledger.RegisterHolder(db, caller); err != nil {
		return err
	}
	if err := c.ledger.Transfer(db, terms.ID, terms.Custody, caller, terms.Amount); err != nil {
		return err
	}

	listing.Sold += terms.Amount
	return c.listings.Save(db, orm.NewSimpleObj(terms.ID.Key(), listing))
}

// Info loads a listing, or ErrNotFound.
func (c BaseController) Info(db fractal.ReadOnlyKVStore, id asset.ID) (*Listing, error) {
	obj, err := c.listings.Get(db, id.Key())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "listing for %s", id)
	}
	return obj.Value().(*Listing), nil
}

// All returns every stored listing keyed by the token id string.
func (c BaseController) All(db fractal.ReadOnlyKVStore) (map[string]*Listing, error) {
	out := make(map[string]*Listing)
	err := c.listings.Iterate(db, func(key []byte, obj orm.Object) error {
		id, err := asset.ParseKey(key)
		if err != nil {
			return err
		}
		out[id.String()] = obj.Value().(*Listing)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Clear removes a sold out listing, freeing its storage. Only the listing
// owner or the platform owner may do so, and only once every unit sold.
func (c BaseController) Clear(db fractal.KVStore, caller, platformOwner fractal.Address, id asset.ID) error {
	listing, err := c.Info(db, id)
	if err != nil {
		return err
	}
	if !caller.Equals(listing.Owner) && !caller.Equals(platformOwner) {
		return errors.Wrapf(errors.ErrUnauthorized, "caller %s", caller)
	}
	if !listing.SoldOut() {
		return errors.Wrapf(errors.ErrState, "%d units still listed", listing.Remaining())
	}
	return c.listings.Delete(db, id.Key())
}
