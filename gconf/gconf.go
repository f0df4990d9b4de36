// Package gconf provides access to per-extension configuration singletons.
//
// Each extension keeps its runtime configuration as a single entry in the
// key-value store, written under a well known key derived from the package
// name. Configuration is validated before every write.
package gconf

import (
	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/errors"
)

// ValidMarshaler is implemented by objects that can serialize themselves to
// a binary representation and validate their own state.
type ValidMarshaler interface {
	fractal.Marshaller
	Validate() error
}

// Save will Validate the object, before writing it to a special
// "configuration" singleton for that package name.
func Save(db fractal.KVStore, pkg string, src ValidMarshaler) error {
	key := []byte("_c:" + pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", key)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", key)
	}
	db.Set(key, raw)
	return nil
}

// Load reads the configuration singleton of given package into dst.
func Load(db fractal.ReadOnlyKVStore, pkg string, dst fractal.Persistent) error {
	key := []byte("_c:" + pkg)
	raw := db.Get(key)
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "key %q", key)
	}
	if err := dst.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "unmarshal: key %q", key)
	}
	return nil
}
