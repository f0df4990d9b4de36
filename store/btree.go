package store

import (
	"bytes"

	"github.com/google/btree"
)

// DefaultFreeListSize is the size we hold for free node in btree
const DefaultFreeListSize = btree.DefaultFreeListSize

// BTreeCacheable adds a simple btree-based CacheWrap
// strategy to a KVStore
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, nil)
}

// MemStore returns a simple in-memory implementation, commonly used as the
// backing store in tests. There is no persistence here.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, nil)
}

///////////////////////////////////////////////
// Actual CacheWrap implementation

// BTreeCacheWrap places a btree cache over a KVStore. All writes go to the
// btree until Write copies them down to the backing store. Discard drops
// them. Reads consult the btree first, backing store second.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back KVStore
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTree to cache around this kv store.
//
// free may be nil, but set to an existing list to reuse it
// for memory savings
func NewBTreeCacheWrap(kv KVStore, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: kv,
	}
}

// CacheWrap layers another BTree on top of this one.
// Don't change horses in mid-stream....
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.free)
}

// Write pushes all cached operations down to the underlying store,
// and then cleans up.
func (b BTreeCacheWrap) Write() {
	b.bt.Ascend(func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			b.back.Set(t.key, t.value)
		case deletedItem:
			b.back.Delete(t.key)
		}
		return true
	})
	b.Discard()
}

// Discard invalidates this CacheWrap and releases all data
func (b BTreeCacheWrap) Discard() {
	// clean up the btree -> freelist
	for stop := false; !stop; {
		rem := b.bt.DeleteMin()
		stop = (rem == nil)
	}
}

// Set writes to the BTree
func (b BTreeCacheWrap) Set(key, value []byte) {
	assertKey(key)
	b.bt.ReplaceOrInsert(newSetItem(key, value))
}

// Delete marks a deletion in the BTree
func (b BTreeCacheWrap) Delete(key []byte) {
	assertKey(key)
	b.bt.ReplaceOrInsert(newDeletedItem(key))
}

// Get reads from btree if there, else backing store
func (b BTreeCacheWrap) Get(key []byte) []byte {
	assertKey(key)
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch t := res.(type) {
		case setItem:
			return t.value
		case deletedItem:
			return nil
		}
	}
	return b.back.Get(key)
}

// Has reads from btree if there, else backing store
func (b BTreeCacheWrap) Has(key []byte) bool {
	assertKey(key)
	res := b.bt.Get(bkey{key})
	if res != nil {
		switch res.(type) {
		case setItem:
			return true
		case deletedItem:
			return false
		}
	}
	return b.back.Has(key)
}

// Iterator over a domain of keys in ascending order.
// Combines results from btree and backing store
func (b BTreeCacheWrap) Iterator(start, end []byte) Iterator {
	return ascendBtree(b.bt, start, end).wrap(b.back.Iterator(start, end))
}

func assertKey(key []byte) {
	if key == nil {
		panic("nil key not allowed")
	}
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all data in our btree implements keyer so we
// can compare nicely
type keyer interface {
	Key() []byte
}

// bkey implements keyer and btree.Item
// and may be used for queries or embedded in data to store
type bkey struct {
	key []byte
}

var _ keyer = bkey{}
var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less returns true iff second argument is greater than first
//
// panics if the item to compare doesn't implement keyer.
func (k bkey) Less(item btree.Item) bool {
	cmp := item.(keyer).Key()
	return bytes.Compare(k.key, cmp) < 0
}

type deletedItem struct {
	bkey
}

func newDeletedItem(key []byte) deletedItem {
	return deletedItem{bkey{key}}
}

type setItem struct {
	bkey
	value []byte
}

func newSetItem(key, value []byte) setItem {
	return setItem{bkey{key}, value}
}
