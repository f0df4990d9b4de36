package orm

import (
	"github.com/neon-tetra/fractal"
)

// Validater is implemented by anything that can check its own state.
type Validater interface {
	Validate() error
}

// Object is what is stored in the bucket
// Key is joined with the prefix to set the full key
// Value is the data stored
//
// this can be a light wrapper around a codec-defined type
type Object interface {
	Keyed
	Cloneable
	// Validate returns error if the object is not in a valid
	// state to save to the db (eg. field missing, out of range, ...)
	Validater
	Value() fractal.Persistent
}

// Keyed is anything that can identify itself
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into
type Cloneable interface {
	Clone() Object
}

// CloneableData is an intelligent Value that can be embedded
// in a simple object to handle much of the details.
type CloneableData interface {
	Validater
	fractal.Persistent
	Copy() CloneableData
}

// Model is a type-agnostic alias so bucket users do not need to import the
// root package for iteration results.
type Model = fractal.Model
