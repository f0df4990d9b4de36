package store

// SizeRecorder wraps a KVStore and measures the net number of bytes of
// persistent state the wrapped operations create or free. It is used to
// charge callers for the storage their call allocates.
//
// The size of an entry is counted as len(key)+len(value). Overwrites are
// charged only for the difference, deletes count negative.
type SizeRecorder struct {
	KVStore
	// before holds the entry size at first touch, keyed by the raw key.
	before map[string]int64
	// current holds the entry size after the last write to the key.
	current map[string]int64
}

var _ KVStore = (*SizeRecorder)(nil)

// NewSizeRecorder wraps the given store with storage-size accounting.
func NewSizeRecorder(db KVStore) *SizeRecorder {
	return &SizeRecorder{
		KVStore: db,
		before:  make(map[string]int64),
		current: make(map[string]int64),
	}
}

// Delta returns the net storage size change in bytes observed so far. It is
// negative when more state was freed than created.
func (r *SizeRecorder) Delta() int64 {
	var delta int64
	for key, size := range r.current {
		delta += size - r.before[key]
	}
	return delta
}

// Set records the size change while performing
func (r *SizeRecorder) Set(key, value []byte) {
	r.touch(key)
	r.current[string(key)] = entrySize(key, value)
	r.KVStore.Set(key, value)
}

// Delete records the size change while performing
func (r *SizeRecorder) Delete(key []byte) {
	r.touch(key)
	r.current[string(key)] = 0
	r.KVStore.Delete(key)
}

// touch captures the pre-call size of an entry the first time it is written.
func (r *SizeRecorder) touch(key []byte) {
	k := string(key)
	if _, ok := r.before[k]; ok {
		return
	}
	var size int64
	if value := r.KVStore.Get(key); value != nil {
		size = entrySize(key, value)
	}
	r.before[k] = size
}

func entrySize(key, value []byte) int64 {
	return int64(len(key) + len(value))
}
