// Package engine ties the extension packages together into one contract
// instance. Every mutating call runs on a cache wrapped store that is
// written back only on success, so a failing call can never leave partial
// state behind. Calls return pending Effects instead of performing
// outbound transfers themselves.
package engine

import (
	"github.com/tendermint/tendermint/libs/log"

	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/coin"
	"github.com/neon-tetra/fractal/errors"
	"github.com/neon-tetra/fractal/store"
	"github.com/neon-tetra/fractal/x/account"
	"github.com/neon-tetra/fractal/x/asset"
	"github.com/neon-tetra/fractal/x/fee"
	"github.com/neon-tetra/fractal/x/fractional"
	"github.com/neon-tetra/fractal/x/multitoken"
	"github.com/neon-tetra/fractal/x/sale"
)

// custodySeed derives the address the contract holds listed tokens under.
var custodySeed = []byte("fractal/engine/custody")

// Contract is one initialized contract instance bound to a store.
//
// The caller address of every operation is supplied by the host, which is
// trusted to have authenticated it. Payments are the native amounts the
// host observed attached to the call.
type Contract struct {
	db      fractal.CacheableKVStore
	logger  log.Logger
	custody fractal.Address

	accounts  account.Controller
	ledger    multitoken.Controller
	sales     sale.Controller
	fractions fractional.Controller
}

// NewContract initializes the store with the given configuration and
// returns the contract bound to it. The owner and treasury accounts are
// registered right away so fees can be credited from the first call on.
func NewContract(db fractal.CacheableKVStore, cfg Configuration, logger log.Logger) (*Contract, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	accounts := account.NewController()
	ledger := multitoken.NewController()
	sales := sale.NewController(ledger, accounts)

	c := &Contract{
		db:        db,
		logger:    logger.With("module", "engine"),
		custody:   fractal.NewAddress(custodySeed),
		accounts:  accounts,
		ledger:    ledger,
		sales:     sales,
		fractions: fractional.NewController(ledger, accounts, sales),
	}

	_, err := c.run("init", func(db fractal.KVStore) ([]Effect, error) {
		if err := saveConfig(db, &cfg); err != nil {
			return nil, err
		}
		for _, addr := range []fractal.Address{cfg.Owner, cfg.Treasury, c.custody} {
			if err := accounts.Register(db, addr); err != nil {
				return nil, err
			}
		}
		return nil, ledger.RegisterHolder(db, c.custody)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// LoadContract binds to a store that was already initialized.
func LoadContract(db fractal.CacheableKVStore, logger log.Logger) (*Contract, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if _, err := loadConfig(db); err != nil {
		return nil, err
	}
	accounts := account.NewController()
	ledger := multitoken.NewController()
	sales := sale.NewController(ledger, accounts)
	return &Contract{
		db:        db,
		logger:    logger.With("module", "engine"),
		custody:   fractal.NewAddress(custodySeed),
		accounts:  accounts,
		ledger:    ledger,
		sales:     sales,
		fractions: fractional.NewController(ledger, accounts, sales),
	}, nil
}

// run executes one mutating call on a cache wrap, writing on success and
// discarding on error.
func (c *Contract) run(op string, fn func(db fractal.KVStore) ([]Effect, error)) ([]Effect, error) {
	cache := c.db.CacheWrap()
	effects, err := fn(cache)
	if err != nil {
		cache.Discard()
		c.logger.Error("call failed", "op", op, "err", err)
		return nil, err
	}
	cache.Write()
	c.logger.Info("call applied", "op", op, "effects", len(effects))
	return effects, nil
}

// Fractionalize locks the caller's custody NFTs and mints the share
// supply per the terms. The payment must cover the storage the call
// allocates plus the flat mint fee, any surplus above dust is returned
// as a refund effect. The mint fee is credited to the treasury.
func (c *Contract) Fractionalize(caller fractal.Address, payment coin.Amount, terms fractional.Terms) ([]Effect, error) {
	return c.run("fractionalize", func(db fractal.KVStore) ([]Effect, error) {
		cfg, err := loadConfig(db)
		if err != nil {
			return nil, err
		}
		rec := store.NewSizeRecorder(db)
		if err := c.fractions.Fractionalize(rec, caller, c.custody, terms); err != nil {
			return nil, err
		}
		required, err := fee.RequiredDeposit(rec.Delta(), cfg.StorageBytePrice, cfg.MintFee)
		if err != nil {
			return nil, err
		}
		surplus, err := fee.Reconcile(payment, required)
		if err != nil {
			return nil, err
		}
		if err := c.accounts.CreditNative(rec, cfg.Treasury, cfg.MintFee); err != nil {
			return nil, err
		}
		if surplus == 0 {
			return nil, nil
		}
		return []Effect{refund(caller, surplus)}, nil
	})
}

// Unwrap burns the complete share supply held by the caller and credits
// the locked NFTs back to releaseTo, the caller itself when nil. The
// payment must be exactly one unit.
func (c *Contract) Unwrap(caller fractal.Address, payment coin.Amount, shareID asset.ID, releaseTo fractal.Address) ([]Effect, error) {
	return c.run("unwrap", func(db fractal.KVStore) ([]Effect, error) {
		if err := exactlyOne(payment); err != nil {
			return nil, err
		}
		if releaseTo == nil {
			releaseTo = caller
		}
		return nil, c.fractions.Unwrap(db, caller, releaseTo, shareID)
	})
}

// Buy purchases amount units from the listing of the given token. The
// payment must equal amount times the listed unit price exactly.
func (c *Contract) Buy(caller fractal.Address, payment coin.Amount, id asset.ID, amount coin.Amount) ([]Effect, error) {
	return c.run("buy", func(db fractal.KVStore) ([]Effect, error) {
		cfg, err := loadConfig(db)
		if err != nil {
			return nil, err
		}
		return nil, c.sales.Buy(db, caller, sale.BuyTerms{
			ID:       id,
			Amount:   amount,
			Payment:  payment,
			Custody:  c.custody,
			Treasury: cfg.Treasury,
			Fee:      cfg.SaleFee,
		})
	})
}

// Deposit credits an incoming asset transfer the host observed to the
// caller's internal balance. The caller must be registered.
func (c *Contract) Deposit(caller fractal.Address, id asset.ID, amount coin.Amount) error {
	_, err := c.run("deposit", func(db fractal.KVStore) ([]Effect, error) {
		return nil, c.accounts.CreditInternal(db, caller, id, amount)
	})
	return err
}

// Withdraw debits the caller's internal balance and returns the pending
// cross ledger transfer to the recipient, the caller itself when nil.
// The payment must be exactly one unit.
func (c *Contract) Withdraw(caller fractal.Address, payment coin.Amount, id asset.ID, amount coin.Amount, recipient fractal.Address) ([]Effect, error) {
	return c.run("withdraw", func(db fractal.KVStore) ([]Effect, error) {
		if err := exactlyOne(payment); err != nil {
			return nil, err
		}
		if recipient == nil {
			recipient = caller
		}
		if err := c.accounts.DebitInternal(db, caller, id, amount); err != nil {
			return nil, err
		}
		out := id
		return []Effect{{To: recipient, Amount: amount, Asset: &out}}, nil
	})
}

// RegisterAccount creates an account for the caller. The payment must
// cover the storage the registration allocates, surplus above dust is
// refunded.
func (c *Contract) RegisterAccount(caller fractal.Address, payment coin.Amount) ([]Effect, error) {
	return c.run("register_account", func(db fractal.KVStore) ([]Effect, error) {
		cfg, err := loadConfig(db)
		if err != nil {
			return nil, err
		}
		rec := store.NewSizeRecorder(db)
		if err := c.accounts.Register(rec, caller); err != nil {
			return nil, err
		}
		required, err := fee.RequiredDeposit(rec.Delta(), cfg.StorageBytePrice, 0)
		if err != nil {
			return nil, err
		}
		surplus, err := fee.Reconcile(payment, required)
		if err != nil {
			return nil, err
		}
		if surplus == 0 {
			return nil, nil
		}
		return []Effect{refund(caller, surplus)}, nil
	})
}

// ClearListing removes a sold out listing. Allowed for the listing owner
// and the contract owner.
func (c *Contract) ClearListing(caller fractal.Address, id asset.ID) error {
	_, err := c.run("clear_listing", func(db fractal.KVStore) ([]Effect, error) {
		cfg, err := loadConfig(db)
		if err != nil {
			return nil, err
		}
		return nil, c.sales.Clear(db, caller, cfg.Owner, id)
	})
	return err
}

// UpdateMintFee changes the flat mint fee. Owner only.
func (c *Contract) UpdateMintFee(caller fractal.Address, mintFee coin.Amount) error {
	_, err := c.run("update_mint_fee", func(db fractal.KVStore) ([]Effect, error) {
		cfg, err := loadConfig(db)
		if err != nil {
			return nil, err
		}
		if !caller.Equals(cfg.Owner) {
			return nil, errors.Wrapf(errors.ErrUnauthorized, "caller %s", caller)
		}
		cfg.MintFee = mintFee
		return nil, saveConfig(db, cfg)
	})
	return err
}

// GetUnderlying returns the deed behind a share token.
func (c *Contract) GetUnderlying(shareID asset.ID) (*fractional.Deed, error) {
	return c.fractions.Underlying(c.db, shareID)
}

// GetMintFee returns the current flat mint fee.
func (c *Contract) GetMintFee() (coin.Amount, error) {
	cfg, err := loadConfig(c.db)
	if err != nil {
		return 0, err
	}
	return cfg.MintFee, nil
}

// GetSaleInfo returns the listing of a token.
func (c *Contract) GetSaleInfo(id asset.ID) (*sale.Listing, error) {
	return c.sales.Info(c.db, id)
}

// GetAllSales returns every listing keyed by token id string.
func (c *Contract) GetAllSales() (map[string]*sale.Listing, error) {
	return c.sales.All(c.db)
}

// NativeBalance returns the fees and proceeds accumulated for an account.
func (c *Contract) NativeBalance(addr fractal.Address) (coin.Amount, error) {
	return c.accounts.NativeBalance(c.db, addr)
}

// InternalBalance returns the custody balance of one asset for an account.
func (c *Contract) InternalBalance(addr fractal.Address, id asset.ID) (coin.Amount, error) {
	return c.accounts.InternalBalance(c.db, addr, id)
}

// BalanceOf returns the ledger balance of one token for an account.
func (c *Contract) BalanceOf(id asset.ID, addr fractal.Address) (coin.Amount, error) {
	return c.ledger.BalanceOf(c.db, id, addr)
}

// TotalSupply returns the outstanding supply of one token.
func (c *Contract) TotalSupply(id asset.ID) (coin.Amount, error) {
	return c.ledger.TotalSupply(c.db, id)
}

// Custody returns the address the contract holds listed tokens under.
func (c *Contract) Custody() fractal.Address {
	return c.custody
}

// exactlyOne guards state changing calls that carry no price of their
// own. Requiring one attached unit keeps unauthorized hosts from calling
// them for free while never charging a meaningful amount.
func exactlyOne(payment coin.Amount) error {
	if payment != 1 {
		return errors.Wrapf(errors.ErrDeposit, "attached %d, requires exactly 1", payment)
	}
	return nil
}
