package merkle

import "github.com/ethereum/go-ethereum/common"

// Witness is a Merkle inclusion path ordered from the leaf's sibling up to
// the child of the root.
type Witness []common.Hash

// Root folds leaf up the path. Bit i of index selects whether the running
// hash is the right (1) or left (0) child at level i.
func (w Witness) Root(leaf common.Hash, index uint64) common.Hash {
	h := leaf
	for i, sibling := range w {
		if (index>>uint(i))&1 == 0 {
			h = HashPair(h, sibling)
		} else {
			h = HashPair(sibling, h)
		}
	}
	return h
}

// Verify reports whether leaf sits at index under root. An index that does
// not fit in len(w) bits never verifies.
func Verify(root, leaf common.Hash, index uint64, w Witness) bool {
	if len(w) < 64 && index>>uint(len(w)) != 0 {
		return false
	}
	return w.Root(leaf, index) == root
}
