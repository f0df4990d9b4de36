package account

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/orm"
	"github.com/neon-tetra/fractal/x/asset"
)

// Controller is the functionality needed by the rest of the engine to
// query and update account state. All other packages refer to this
// interface, never to the buckets directly.
type Controller interface {
	Register(db fractal.KVStore, addr fractal.Address) error
	Has(db fractal.ReadOnlyKVStore, addr fractal.Address) (bool, error)

	NativeBalance(db fractal.ReadOnlyKVStore, addr fractal.Address) (coin.Amount, error)
	CreditNative(db fractal.KVStore, addr fractal.Address, amount coin.Amount) error

	InternalBalance(db fractal.ReadOnlyKVStore, addr fractal.Address, id asset.ID) (coin.Amount, error)
	CreditInternal(db fractal.KVStore, addr fractal.Address, id asset.ID, amount coin.Amount) error
	DebitInternal(db fractal.KVStore, addr fractal.Address, id asset.ID, amount coin.Amount) error
}

// BaseController is a simple implementation of controller
type BaseController struct {
	accounts orm.Bucket
	balances orm.Bucket
}

var _ Controller = BaseController{}

// NewController returns a base controller implementation
func NewController() BaseController {
	return BaseController{
		accounts: NewBucket(),
		balances: NewBalanceBucket(),
	}
}

// Register creates an empty account record for the address. Registering
// an already known address is a no-op, so callers need not check first.
func (c BaseController) Register(db fractal.KVStore, addr fractal.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}
	obj, err := c.accounts.Get(db, addr)
	if err != nil {
		return err
	}
	if obj != nil {
		return nil
	}
	return c.accounts.Save(db, orm.NewSimpleObj(addr, &Account{Registered: true}))
}

// Has returns true if the address was registered.
func (c BaseController) Has(db fractal.ReadOnlyKVStore, addr fractal.Address) (bool, error) {
	if err := addr.Validate(); err != nil {
		return false, err
	}
	obj, err := c.accounts.Get(db, addr)
	if err != nil {
		return false, err
	}
	return obj != nil, nil
}

// NativeBalance returns the native currency held for a registered account.
func (c BaseController) NativeBalance(db fractal.ReadOnlyKVStore, addr fractal.Address) (coin.Amount, error) {
	acct, err := c.getAccount(db, addr)
	if err != nil {
		return 0, err
	}
	return acct.Native, nil
}

// CreditNative adds native currency to a registered account. Crediting an
// unknown address is an error, the caller must register recipients first.
func (c BaseController) CreditNative(db fractal.KVStore, addr fractal.Address, amount coin.Amount) error {
	acct, err := c.getAccount(db, addr)
	if err != nil {
		return err
	}
	total, err := coin.Add(acct.Native, amount)
	if err != nil {
		return err
	}
	acct.Native = total
	return c.accounts.Save(db, orm.NewSimpleObj(addr, acct))
}

// InternalBalance returns how much of one asset we hold in custody for
// the account. Missing records read as zero.
func (c BaseController) InternalBalance(db fractal.ReadOnlyKVStore, addr fractal.Address, id asset.ID) (coin.Amount, error) {
	key, err := balanceKey(addr, id)
	if err != nil {
		return 0, err
	}
	obj, err := c.balances.Get(db, key)
	if err != nil {
		return 0, err
	}
	if obj == nil {
		return 0, nil
	}
	return asBalance(obj).Amount, nil
}

// CreditInternal increases the custody balance of (addr, id). The account
// must be registered, assets cannot be held for unknown addresses. A zero
// credit is a no-op so that balance rows always hold a positive amount.
func (c BaseController) CreditInternal(db fractal.KVStore, addr fractal.Address, id asset.ID, amount coin.Amount) error {
	if err := c.mustExist(db, addr); err != nil {
		return err
	}
	if amount == 0 {
		return nil
	}
	key, err := balanceKey(addr, id)
	if err != nil {
		return err
	}
	cur, err := c.InternalBalance(db, addr, id)
	if err != nil {
		return err
	}
	total, err := coin.Add(cur, amount)
	if err != nil {
		return err
	}
	return c.balances.Save(db, orm.NewSimpleObj(key, &Balance{Amount: total}))
}

// DebitInternal decreases the custody balance of (addr, id), deleting the
// record when it reaches zero.
func (c BaseController) DebitInternal(db fractal.KVStore, addr fractal.Address, id asset.ID, amount coin.Amount) error {
	key, err := balanceKey(addr, id)
	if err != nil {
		return err
	}
	cur, err := c.InternalBalance(db, addr, id)
	if err != nil {
		return err
	}
	rest, err := coin.Sub(cur, amount)
	if err != nil {
		return errors.Wrapf(err, "custody of %s", id)
	}
	if rest == 0 {
		return c.balances.Delete(db, key)
	}
	return c.balances.Save(db, orm.NewSimpleObj(key, &Balance{Amount: rest}))
}

func (c BaseController) getAccount(db fractal.ReadOnlyKVStore, addr fractal.Address) (*Account, error) {
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	obj, err := c.accounts.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "account %s", addr)
	}
	return asAccount(obj), nil
}

func (c BaseController) mustExist(db fractal.ReadOnlyKVStore, addr fractal.Address) error {
	_, err := c.getAccount(db, addr)
	return err
}

func asAccount(obj orm.Object) *Account {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Account)
}

func asBalance(obj orm.Object) *Balance {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Balance)
}
