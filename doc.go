/*
Package fractal defines the common interfaces that tie the ledger engine
together: the key-value store contracts, addresses, binary persistence, and
fixed-point fractions used for fee math.

The actual functionality lives in subpackages. Infrastructure is provided by
store (btree cache-wrapped stores and an iavl commit store), orm (prefixed
buckets of typed objects), gconf (configuration singletons) and errors.
Domain logic lives under x: x/account (native and custody balances),
x/multitoken (the fungible and non-fungible token ledger), x/fee (fee and
storage-deposit accounting), x/fractional (locking non-fungible assets
against a fungible claim) and x/sale (fee-bearing claim sales). The engine
package wires everything into a single contract instance with transactional,
all-or-nothing call semantics.
*/
package fractal
