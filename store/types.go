package store

import "github.com/neon-tetra/fractal"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = fractal.ReadOnlyKVStore
type KVStore = fractal.KVStore
type Iterator = fractal.Iterator
type CacheableKVStore = fractal.CacheableKVStore
type KVCacheWrap = fractal.KVCacheWrap
type CommitKVStore = fractal.CommitKVStore
type CommitID = fractal.CommitID
type Model = fractal.Model

// SetDeleter is the write-side of a KVStore
type SetDeleter interface {
	Set(key, value []byte)
	Delete(key []byte)
}
