package multitoken

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/asset"
)

// Controller exposes the ledger operations used by the rest of the engine.
type Controller interface {
	RegisterKind(db fractal.KVStore, id asset.ID) error
	Kind(db fractal.ReadOnlyKVStore, id asset.ID) (asset.Kind, error)
	Metadata(db fractal.ReadOnlyKVStore, id asset.ID) (*Metadata, error)

	RegisterHolder(db fractal.KVStore, addr fractal.Address) error
	IsHolder(db fractal.ReadOnlyKVStore, addr fractal.Address) (bool, error)

	Mint(db fractal.KVStore, id asset.ID, to fractal.Address, amount coin.Amount, meta *Metadata) error
	Burn(db fractal.KVStore, id asset.ID, from fractal.Address, amount coin.Amount) error
	Transfer(db fractal.KVStore, id asset.ID, from, to fractal.Address, amount coin.Amount) error

	BalanceOf(db fractal.ReadOnlyKVStore, id asset.ID, addr fractal.Address) (coin.Amount, error)
	TotalSupply(db fractal.ReadOnlyKVStore, id asset.ID) (coin.Amount, error)
}

// BaseController is a simple implementation of controller
type BaseController struct {
	kinds    orm.Bucket
	meta     orm.Bucket
	balances orm.Bucket
	supplies orm.Bucket
	holders  orm.Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation
func NewController() BaseController {
	return BaseController{
		kinds:    newKindBucket(),
		meta:     newMetadataBucket(),
		balances: newBalanceBucket(),
		supplies: newSupplyBucket(),
		holders:  newHolderBucket(),
	}
}

// RegisterKind declares the token id with the kind embedded in the id
// itself. Registering the same id twice is a no-op, registering an id
// whose kind contradicts an earlier declaration fails.
func (c BaseController) RegisterKind(db fractal.KVStore, id asset.ID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	obj, err := c.kinds.Get(db, id.Key())
	if err != nil {
		return err
	}
	if obj != nil {
		if known := asKindInfo(obj).Kind; known != id.Kind {
			return errors.Wrapf(errors.ErrType, "token %s registered as %s", id, known)
		}
		return nil
	}
	return c.kinds.Save(db, orm.NewSimpleObj(id.Key(), &KindInfo{Kind: id.Kind}))
}

// Kind returns the declared kind of a token id, or ErrNotFound.
func (c BaseController) Kind(db fractal.ReadOnlyKVStore, id asset.ID) (asset.Kind, error) {
	obj, err := c.kinds.Get(db, id.Key())
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, errors.Wrapf(errors.ErrNotFound, "token %s", id)
	}
	return asKindInfo(obj).Kind, nil
}

// Metadata returns the metadata stored on first mint, or ErrNotFound.
func (c BaseController) Metadata(db fractal.ReadOnlyKVStore, id asset.ID) (*Metadata, error) {
	obj, err := c.meta.Get(db, id.Key())
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "metadata of %s", id)
	}
	return asMetadata(obj), nil
}

// RegisterHolder makes the address a valid transfer target. Idempotent.
func (c BaseController) RegisterHolder(db fractal.KVStore, addr fractal.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	return c.holders.Save(db, orm.NewSimpleObj(addr, &RegisteredInfo{Registered: true}))
}

// IsHolder returns true if the address was registered as a holder.
func (c BaseController) IsHolder(db fractal.ReadOnlyKVStore, addr fractal.Address) (bool, error) {
	if err := addr.Validate(); err != nil {
		return false, err
	}
	obj, err := c.holders.Get(db, addr)
	if err != nil {
		return false, err
	}
	return obj != nil, nil
}

// Mint creates new units of a registered token and credits them to the
// recipient. The first mint of an id stores its metadata, later mints may
// not change it. A non-fungible token can only ever be minted once, with
// amount 1, and never again, not even after a burn returned its supply
// to zero.
func (c BaseController) Mint(db fractal.KVStore, id asset.ID, to fractal.Address, amount coin.Amount, meta *Metadata) error {
	kind, err := c.Kind(db, id)
	if err != nil {
		return err
	}

	// the metadata row is written on the first mint and never removed,
	// its presence is the durable mark that the id was minted before
	stored, err := c.meta.Get(db, id.Key())
	if err != nil {
		return err
	}
	switch kind {
	case asset.NonFungible:
		if amount != 1 {
			return errors.Wrapf(errors.ErrAmount, "non-fungible mint of %d", amount)
		}
		if stored != nil {
			return errors.Wrapf(errors.ErrDuplicate, "token %s already minted", id)
		}
	default:
		if amount == 0 {
			return errors.Wrap(errors.ErrAmount, "mint of zero")
		}
	}

	supply, err := c.TotalSupply(db, id)
	if err != nil {
		return err
	}
	if stored == nil {
		if meta == nil {
			return errors.Wrapf(errors.ErrInput, "first mint of %s requires metadata", id)
		}
		if err := meta.Validate(); err != nil {
			return err
		}
		if err := c.meta.Save(db, orm.NewSimpleObj(id.Key(), meta)); err != nil {
			return err
		}
	}

	total, err := coin.Add(supply, amount)
	if err != nil {
		return errors.Wrapf(err, "supply of %s", id)
	}
	if err := c.supplies.Save(db, orm.NewSimpleObj(id.Key(), &SupplyInfo{Total: total})); err != nil {
		return err
	}
	return c.credit(db, id, to, amount)
}

// Burn destroys units held by from, reducing the total supply.
func (c BaseController) Burn(db fractal.KVStore, id asset.ID, from fractal.Address, amount coin.Amount) error {
	if _, err := c.Kind(db, id); err != nil {
		return err
	}
	if err := c.debit(db, id, from, amount); err != nil {
		return err
	}
	supply, err := c.TotalSupply(db, id)
	if err != nil {
		return err
	}
	rest, err := coin.Sub(supply, amount)
	if err != nil {
		return errors.Wrapf(err, "supply of %s", id)
	}
	return c.supplies.Save(db, orm.NewSimpleObj(id.Key(), &SupplyInfo{Total: rest}))
}

// Transfer moves units between two holders. A zero transfer succeeds
// without touching the store. The recipient must be a registered holder.
func (c BaseController) Transfer(db fractal.KVStore, id asset.ID, from, to fractal.Address, amount coin.Amount) error {
	if amount == 0 {
		return nil
	}
	if _, err := c.Kind(db, id); err != nil {
		return err
	}
	ok, err := c.IsHolder(db, to)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "recipient %s", to)
	}
	if err := c.debit(db, id, from, amount); err != nil {
		return err
	}
	return c.credit(db, id, to, amount)
}

// BalanceOf returns the amount of one token held by the address. Unknown
// combinations read as zero.
func (c BaseController) BalanceOf(db fractal.ReadOnlyKVStore, id asset.ID, addr fractal.Address) (coin.Amount, error) {
	if err := addr.Validate(); err != nil {
		return 0, err
	}
	obj, err := c.balances.Get(db, balanceKey(id, addr))
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return asBalanceInfo(obj).Amount, nil
}

// TotalSupply returns the outstanding supply of a token. Unknown tokens
// read as zero.
func (c BaseController) TotalSupply(db fractal.ReadOnlyKVStore, id asset.ID) (coin.Amount, error) {
	obj, err := c.supplies.Get(db, id.Key())
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return asSupplyInfo(obj).Total, nil
}

func (c BaseController) credit(db fractal.KVStore, id asset.ID, addr fractal.Address, amount coin.Amount) error {
	cur, err := c.BalanceOf(db, id, addr)
	if err != nil {
		return err
	}
	total, err := coin.Add(cur, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", addr)
	}
	return c.balances.Save(db, orm.NewSimpleObj(balanceKey(id, addr), &BalanceInfo{Amount: total}))
}

func (c BaseController) debit(db fractal.KVStore, id asset.ID, addr fractal.Address, amount coin.Amount) error {
	cur, err := c.BalanceOf(db, id, addr)
	if err != nil {
		return err
	}
	rest, err := coin.Sub(cur, amount)
	if err != nil {
		return errors.Wrapf(err, "balance of %s", addr)
	}
	if rest == 0 {
		return c.balances.Delete(db, balanceKey(id, addr))
	}
	return c.balances.Save(db, orm.NewSimpleObj(balanceKey(id, addr), &BalanceInfo{Amount: rest}))
}

func asKindInfo(obj orm.Object) *KindInfo {
	return obj.Value().(*KindInfo)
}

func asMetadata(obj orm.Object) *Metadata {
	return obj.Value().(*Metadata)
}

func asBalanceInfo(obj orm.Object) *BalanceInfo {
	return obj.Value().(*BalanceInfo)
}

func asSupplyInfo(obj orm.Object) *SupplyInfo {
	return obj.Value().(*SupplyInfo)
}
