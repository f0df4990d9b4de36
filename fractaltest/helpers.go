/*
Package fractaltest provides helpers for unit tests, to make tests in
other packages shorter. Addresses are derived from real ed25519 keys so
they are indistinguishable from host supplied identities.
*/
package fractaltest

import (
	"crypto/rand"
	"encoding/binary"
	"io/ioutil"
	"testing"

	"golang.org/x/crypto/ed25519"

	"github.com/neon-tetra/fractal"
	"github.com/neon-tetra/fractal/store/iavl"
)

// RandAddress returns an address derived from a fresh ed25519 key.
func RandAddress() fractal.Address {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return fractal.NewAddress(pub)
}

// SequenceAddress returns a deterministic address for an index, so tests
// can refer to the same identity across runs.
func SequenceAddress(i uint64) fractal.Address {
	seed := make([]byte, 8)
	binary.BigEndian.PutUint64(seed, i)
	return fractal.NewAddress(seed)
}

// CommitKVStore returns a disk backed commit store in a fresh temporary
// directory.
func CommitKVStore(t *testing.T) fractal.CommitKVStore {
	t.Helper()
	dir, err := ioutil.TempDir("", "fractal-test")
	if err != nil {
		t.Fatalf("cannot create temporary directory: %+v", err)
	}
	db := iavl.NewCommitStore(dir, "state")
	if err := db.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load commit store: %+v", err)
	}
	return db
}
