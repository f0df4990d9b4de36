/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (which may be composite).
* Easy queries for one and iteration.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/neon-tetra/fractal"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Bucket is a generic holder that stores data in a prefixed subspace of
// the DB.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
// proto defines the default Model, all elements of this type
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

// NewBucket creates a bucket to store data
func NewBucket(name string, proto Cloneable) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  proto,
	}
}

// Name returns the name of the bucket
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element
func (b Bucket) Get(db fractal.ReadOnlyKVStore, key []byte) (Object, error) {
	dbkey := b.DBKey(key)
	bz := db.Get(dbkey)
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// Parse takes a key and value data and reconstructs the data this Bucket
// would return.
//
// Used internally as part of Get.
// It is exposed mainly as a test helper, but can work for
// any code that wants to parse
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := obj.Value().Unmarshal(value); err != nil {
		return nil, err
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto
func (b Bucket) Save(db fractal.KVStore, model Object) error {
	err := model.Validate()
	if err != nil {
		return err
	}

	bz, err := model.Value().Marshal()
	if err != nil {
		return err
	}

	db.Set(b.DBKey(model.Key()), bz)
	return nil
}

// Delete will remove the value at a key
func (b Bucket) Delete(db fractal.KVStore, key []byte) error {
	db.Delete(b.DBKey(key))
	return nil
}

// Iterate walks all objects stored in the bucket in ascending key order,
// invoking fn for each. Returning an error from fn aborts the walk.
func (b Bucket) Iterate(db fractal.ReadOnlyKVStore, fn func(key []byte, obj Object) error) error {
	it := db.Iterator(b.prefix, prefixEnd(b.prefix))
	defer it.Close()
	for ; it.Valid(); it.Next() {
		key := it.Key()[len(b.prefix):]
		obj, err := b.Parse(key, it.Value())
		if err != nil {
			return err
		}
		if err := fn(key, obj); err != nil {
			return err
		}
	}
	return nil
}

// prefixEnd returns the lowest key strictly greater than every key that
// starts with the given prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	// the whole prefix is 0xff bytes, scan to the end of the keyspace
	return nil
}
