// Package crypto provides the Keccak-256 primitives shared by the Merkle
// tree, the account registry and the transaction codec. Hash states are
// pooled, and Keccak256Hash squeezes straight into the result.
package crypto

import (
	"hash"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// KeccakState is a Keccak-256 sponge that can be read from directly.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var statePool = sync.Pool{
	New: func() any { return sha3.NewLegacyKeccak256().(KeccakState) },
}

func acquire() KeccakState {
	d := statePool.Get().(KeccakState)
	d.Reset()
	return d
}

// Keccak256 returns the Keccak-256 digest of the concatenated inputs.
func Keccak256(data ...[]byte) []byte {
	h := Keccak256Hash(data...)
	return h[:]
}

// Keccak256Hash is Keccak256 returning a common.Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := acquire()
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	statePool.Put(d)
	return h
}
