package store

import (
	"bytes"

	"github.com/google/btree"
)

///////////////////////////////////////////////////////
// From btree items to Iterator

// btreeIter walks the cached operations of one cache-wrap layer within a
// key range. Items are collected up front; one layer holds only the writes
// of the current call, which keeps this cheap.
type btreeIter struct {
	items []btree.Item
	idx   int
}

func ascendBtree(bt *btree.BTree, start, end []byte) *btreeIter {
	iter := &btreeIter{}
	insert := func(item btree.Item) bool {
		iter.items = append(iter.items, item)
		return true
	}

	switch {
	case start == nil && end == nil:
		bt.Ascend(insert)
	case start == nil:
		bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return iter
}

func (b *btreeIter) wrap(parent Iterator) *itemIter {
	iter := &itemIter{
		wrap:   b,
		parent: parent,
	}
	iter.skipAllDeleted()
	return iter
}

func (b *btreeIter) next() {
	b.idx++
}

// get requires this is valid, gets what we are pointing at
func (b *btreeIter) get() keyer {
	return b.items[b.idx].(keyer)
}

func (b *btreeIter) valid() bool {
	return b.idx < len(b.items)
}

// source marks where the current item comes from
type source int32

const (
	us source = iota
	parent
	both
	none
)

// itemIter combines the uncommitted writes of a cache-wrap layer with the
// iterator of the backing store, respecting overwrites and deletes.
type itemIter struct {
	wrap   *btreeIter
	parent Iterator
}

var _ Iterator = (*itemIter)(nil)

// Valid implements Iterator and returns true iff it can be read
func (i *itemIter) Valid() bool {
	return i.wrap.valid() || i.parentValid()
}

// Next moves the iterator to the next sequential key in the database, as
// defined by order of iteration.
//
// If Valid returns false, this method will panic.
func (i *itemIter) Next() {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.wrap.next()
	case both:
		i.wrap.next()
		fallthrough
	case parent:
		i.parent.Next()
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *itemIter) Key() (key []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *itemIter) Value() (value []byte) {
	switch i.firstKey() {
	case us, both:
		return i.wrap.get().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *itemIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.wrap.idx = len(i.wrap.items)
}

// skipAllDeleted loops and skips any number of deleted items
func (i *itemIter) skipAllDeleted() {
	for i.skipDeleted() {
	}
}

// skipDeleted jumps over all elements we can safely fast forward
// return true if skipped, so we can skip again
func (i *itemIter) skipDeleted() bool {
	src := i.firstKey()
	if src == us || src == both {
		// if our next is deleted, advance...
		if _, ok := i.wrap.get().(deletedItem); ok {
			i.wrap.next()
			// if parent had the same key, advance parent as well
			if src == both {
				i.parent.Next()
			}
			return true
		}
	}
	return false
}

// firstKey selects the iterator with the lowest key, if any
func (i *itemIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.wrap.valid() {
			return none
		}
		return us
	} else if !i.wrap.valid() {
		return parent
	}

	// both are valid... compare keys....
	parKey := i.parent.Key()
	usKey := i.wrap.get().Key()

	cmp := bytes.Compare(parKey, usKey)
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

// makes sure the parent is non-nil before checking if it is valid
func (i *itemIter) parentValid() bool {
	return (i.parent != nil) && i.parent.Valid()
}
