// Package merkle implements the fixed-depth binary Merkle tree behind the
// account registry. Nodes hash as keccak256(left || right), the empty leaf
// is 32 zero bytes, and untouched subtrees resolve to a shared cache of
// zero-subtree roots, so a tree costs O(depth) to create and O(depth) per
// single-leaf update.
package merkle

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snaketh4x0r/RedditHubble/crypto"
)

// MaxDepth is the deepest tree the zero-subtree cache covers.
const MaxDepth = 32

var (
	ErrInvalidDepth    = errors.New("merkle: invalid depth")
	ErrIndexOutOfRange = errors.New("merkle: index out of range")
)

// zeros[i] is the root of an empty subtree of height i (0 = leaf).
var zeros [MaxDepth + 1]common.Hash

func init() {
	for i := 1; i <= MaxDepth; i++ {
		zeros[i] = HashPair(zeros[i-1], zeros[i-1])
	}
}

// HashPair is the two-to-one compression used for every inner node.
func HashPair(left, right common.Hash) common.Hash {
	return crypto.Keccak256Hash(left[:], right[:])
}

// Zeros returns the root of an empty subtree of the given height.
func Zeros(level int) (common.Hash, error) {
	if level < 0 || level > MaxDepth {
		return common.Hash{}, fmt.Errorf("%w: %d", ErrInvalidDepth, level)
	}
	return zeros[level], nil
}

// Tree is a sparse Merkle tree of fixed depth. Only written leaves and
// their ancestors are stored. A Tree is safe for concurrent use; writers
// are serialized.
type Tree struct {
	mu    sync.RWMutex
	depth int
	nodes []map[uint64]common.Hash // nodes[0] are leaves, nodes[depth] the root
}

// New returns an empty tree of the given depth, 1 <= depth <= MaxDepth.
func New(depth int) (*Tree, error) {
	if depth < 1 || depth > MaxDepth {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDepth, depth)
	}
	t := &Tree{depth: depth, nodes: make([]map[uint64]common.Hash, depth+1)}
	for i := range t.nodes {
		t.nodes[i] = make(map[uint64]common.Hash)
	}
	return t, nil
}

func (t *Tree) Depth() int { return t.depth }

// Capacity returns the number of leaves, 2^depth.
func (t *Tree) Capacity() uint64 { return uint64(1) << t.depth }

func (t *Tree) node(level int, index uint64) common.Hash {
	if h, ok := t.nodes[level][index]; ok {
		return h
	}
	return zeros[level]
}

func (t *Tree) Root() common.Hash {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.node(t.depth, 0)
}

// Leaf returns the leaf stored at index, or the zero leaf if it was never
// written.
func (t *Tree) Leaf(index uint64) (common.Hash, error) {
	if index >= t.Capacity() {
		return common.Hash{}, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, t.Capacity())
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.node(0, index), nil
}

// UpdateSingle writes leaf at index and rehashes the path to the root.
// Writing the same index twice keeps the last value.
func (t *Tree) UpdateSingle(index uint64, leaf common.Hash) error {
	if index >= t.Capacity() {
		return fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, t.Capacity())
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	t.nodes[0][index] = leaf
	for level := 0; level < t.depth; level++ {
		index >>= 1
		t.nodes[level+1][index] = HashPair(t.node(level, 2*index), t.node(level, 2*index+1))
	}
	return nil
}

// UpdateBatch writes leaves at offset, offset+1, ... and rehashes every
// touched ancestor once.
func (t *Tree) UpdateBatch(offset uint64, leaves []common.Hash) error {
	if len(leaves) == 0 {
		return nil
	}
	capacity := t.Capacity()
	if offset >= capacity || uint64(len(leaves)) > capacity-offset {
		return fmt.Errorf("%w: [%d, %d) exceeds %d", ErrIndexOutOfRange, offset, offset+uint64(len(leaves)), capacity)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, leaf := range leaves {
		t.nodes[0][offset+uint64(i)] = leaf
	}
	lo, hi := offset, offset+uint64(len(leaves))-1
	for level := 0; level < t.depth; level++ {
		lo, hi = lo>>1, hi>>1
		for p := lo; p <= hi; p++ {
			t.nodes[level+1][p] = HashPair(t.node(level, 2*p), t.node(level, 2*p+1))
		}
	}
	return nil
}

// Witness returns the sibling path for index, leaf level first.
func (t *Tree) Witness(index uint64) (Witness, error) {
	if index >= t.Capacity() {
		return nil, fmt.Errorf("%w: %d >= %d", ErrIndexOutOfRange, index, t.Capacity())
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	w := make(Witness, t.depth)
	for level := 0; level < t.depth; level++ {
		w[level] = t.node(level, index^1)
		index >>= 1
	}
	return w, nil
}
