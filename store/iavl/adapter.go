// Package iavl wraps a merkelized iavl tree as a commit store, giving the
// ledger a disk backed state store with versioned, hash-addressed commits.
package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/neon-tetra/fractal/store"
)

const cacheSize = 10000

// CommitStore manages an iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing under the given
// directory. The name selects the database file within it.
func NewCommitStore(dir, name string) CommitStore {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	return CommitStore{tree: iavl.NewMutableTree(db, cacheSize)}
}

// MemCommitStore creates a commit store backed by memory only, for tests.
func MemCommitStore() CommitStore {
	return CommitStore{tree: iavl.NewMutableTree(dbm.NewMemDB(), cacheSize)}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) []byte {
	_, value := s.tree.Get(key)
	return value
}

// CacheWrap gives us a savepoint to perform actions on, the writes land in
// the working tree and become durable on the next Commit.
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(treeStore{tree: s.tree}, nil)
}

// Commit saves the next version to disk, and returns info
func (s CommitStore) Commit() store.CommitID {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		panic(err)
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return err
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// treeStore exposes the mutable working tree through the KVStore interface
// so that it can sit below a btree cache-wrap.
type treeStore struct {
	tree *iavl.MutableTree
}

var _ store.KVStore = treeStore{}

func (t treeStore) Get(key []byte) []byte {
	_, value := t.tree.Get(key)
	return value
}

func (t treeStore) Has(key []byte) bool {
	return t.tree.Has(key)
}

func (t treeStore) Set(key, value []byte) {
	t.tree.Set(key, value)
}

func (t treeStore) Delete(key []byte) {
	t.tree.Remove(key)
}

func (t treeStore) Iterator(start, end []byte) store.Iterator {
	var models []store.Model
	t.tree.IterateRange(start, end, true, func(key, value []byte) bool {
		models = append(models, store.Model{Key: key, Value: value})
		return false
	})
	return store.NewSliceIterator(models)
}
