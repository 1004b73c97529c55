package verifier

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snaketh4x0r/RedditHubble/crypto"
)

const maxModelDepth = 32

var zeroHashes [maxModelDepth + 1]common.Hash

func init() {
	for i := 1; i <= maxModelDepth; i++ {
		zeroHashes[i] = crypto.Keccak256Hash(zeroHashes[i-1][:], zeroHashes[i-1][:])
	}
}

// MerkleRoot hashes leaves layer by layer into the root of a depth-level
// tree, padding with empty subtrees.
func (e *EVM) MerkleRoot(leaves []common.Hash, depth int) (common.Hash, error) {
	if depth < 0 || depth > maxModelDepth {
		return common.Hash{}, fmt.Errorf("%w: depth %d", ErrRevert, depth)
	}
	if uint64(len(leaves)) > uint64(1)<<depth {
		return common.Hash{}, fmt.Errorf("%w: %d leaves exceed depth %d", ErrRevert, len(leaves), depth)
	}
	if len(leaves) == 0 {
		return zeroHashes[depth], nil
	}
	layer := append([]common.Hash(nil), leaves...)
	for level := 0; level < depth; level++ {
		if len(layer)%2 == 1 {
			layer = append(layer, zeroHashes[level])
		}
		next := make([]common.Hash, len(layer)/2)
		for i := range next {
			next[i] = crypto.Keccak256Hash(layer[2*i][:], layer[2*i+1][:])
		}
		layer = next
	}
	return layer[0], nil
}

// CheckInclusion folds leaf up witness using the bits of index and
// compares against root.
func (e *EVM) CheckInclusion(root, leaf common.Hash, index uint64, witness []common.Hash) bool {
	h := leaf
	path := index
	for _, sibling := range witness {
		if path&1 == 1 {
			h = crypto.Keccak256Hash(sibling[:], h[:])
		} else {
			h = crypto.Keccak256Hash(h[:], sibling[:])
		}
		path >>= 1
	}
	return path == 0 && h == root
}
