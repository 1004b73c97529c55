package merkle

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"github.com/snaketh4x0r/RedditHubble/crypto"
)

// naiveRoot hashes a full leaf layer up to the root.
func naiveRoot(leaves []common.Hash) common.Hash {
	layer := append([]common.Hash(nil), leaves...)
	for len(layer) > 1 {
		next := make([]common.Hash, len(layer)/2)
		for i := range next {
			next[i] = HashPair(layer[2*i], layer[2*i+1])
		}
		layer = next
	}
	return layer[0]
}

func leafOf(i int) common.Hash {
	return crypto.Keccak256Hash([]byte{byte(i), byte(i >> 8)})
}

// ---------------------------------------------------------------------------
// Zero-subtree cache
// ---------------------------------------------------------------------------

func TestZeros(t *testing.T) {
	z0, err := Zeros(0)
	require.NoError(t, err)
	require.Equal(t, common.Hash{}, z0)

	z1, err := Zeros(1)
	require.NoError(t, err)
	require.Equal(t, common.HexToHash("0xad3228b676f7d3cd4284a5443f17f1962b36e491b30a40b2405849e597ba5fb5"), z1)

	for level := 1; level <= MaxDepth; level++ {
		prev, _ := Zeros(level - 1)
		cur, _ := Zeros(level)
		require.Equal(t, HashPair(prev, prev), cur, "level %d", level)
	}

	_, err = Zeros(MaxDepth + 1)
	require.ErrorIs(t, err, ErrInvalidDepth)
	_, err = Zeros(-1)
	require.ErrorIs(t, err, ErrInvalidDepth)
}

func TestNew_EmptyRoot(t *testing.T) {
	for _, depth := range []int{1, 4, 20, MaxDepth} {
		tr, err := New(depth)
		require.NoError(t, err)
		want, _ := Zeros(depth)
		require.Equal(t, want, tr.Root(), "depth %d", depth)
	}
	for _, depth := range []int{0, -1, MaxDepth + 1} {
		_, err := New(depth)
		require.ErrorIs(t, err, ErrInvalidDepth)
	}
}

// ---------------------------------------------------------------------------
// Updates
// ---------------------------------------------------------------------------

func TestUpdateSingle_MatchesNaive(t *testing.T) {
	const depth = 4
	tr, err := New(depth)
	require.NoError(t, err)
	leaves := make([]common.Hash, 1<<depth)

	for _, i := range []int{0, 5, 15, 7, 5} {
		leaves[i] = leafOf(i * 3)
		require.NoError(t, tr.UpdateSingle(uint64(i), leaves[i]))
		require.Equal(t, naiveRoot(leaves), tr.Root(), "after writing %d", i)
	}
}

func TestUpdateSingle_LastWriteWins(t *testing.T) {
	tr, err := New(3)
	require.NoError(t, err)
	require.NoError(t, tr.UpdateSingle(2, leafOf(1)))
	require.NoError(t, tr.UpdateSingle(2, leafOf(2)))

	leaf, err := tr.Leaf(2)
	require.NoError(t, err)
	require.Equal(t, leafOf(2), leaf)

	other, err := New(3)
	require.NoError(t, err)
	require.NoError(t, other.UpdateSingle(2, leafOf(2)))
	require.Equal(t, other.Root(), tr.Root())
}

func TestUpdateBatch_MatchesSingles(t *testing.T) {
	const depth = 5
	tests := []struct {
		offset uint64
		n      int
	}{
		{0, 1}, {0, 32}, {3, 7}, {8, 8}, {31, 1}, {16, 16},
	}
	for _, tt := range tests {
		batch, err := New(depth)
		require.NoError(t, err)
		single, err := New(depth)
		require.NoError(t, err)

		leaves := make([]common.Hash, tt.n)
		for i := range leaves {
			leaves[i] = leafOf(int(tt.offset) + i)
			require.NoError(t, single.UpdateSingle(tt.offset+uint64(i), leaves[i]))
		}
		require.NoError(t, batch.UpdateBatch(tt.offset, leaves))
		require.Equal(t, single.Root(), batch.Root(), "offset %d n %d", tt.offset, tt.n)
	}
}

func TestUpdate_OutOfRange(t *testing.T) {
	tr, err := New(3)
	require.NoError(t, err)

	require.ErrorIs(t, tr.UpdateSingle(8, leafOf(1)), ErrIndexOutOfRange)
	require.ErrorIs(t, tr.UpdateBatch(6, make([]common.Hash, 3)), ErrIndexOutOfRange)
	require.ErrorIs(t, tr.UpdateBatch(8, make([]common.Hash, 1)), ErrIndexOutOfRange)
	require.NoError(t, tr.UpdateBatch(8, nil))

	_, err = tr.Witness(8)
	require.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = tr.Leaf(1 << 40)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	empty, _ := Zeros(3)
	require.Equal(t, empty, tr.Root())
}

// ---------------------------------------------------------------------------
// Witnesses
// ---------------------------------------------------------------------------

func TestWitness_AllIndices(t *testing.T) {
	const depth = 4
	tr, err := New(depth)
	require.NoError(t, err)
	for i := 0; i < 11; i++ {
		require.NoError(t, tr.UpdateSingle(uint64(i), leafOf(i)))
	}
	root := tr.Root()

	for i := uint64(0); i < tr.Capacity(); i++ {
		w, err := tr.Witness(i)
		require.NoError(t, err)
		require.Len(t, w, depth)
		leaf, err := tr.Leaf(i)
		require.NoError(t, err)
		require.True(t, Verify(root, leaf, i, w), "index %d", i)
		require.False(t, Verify(root, leafOf(1000), i, w), "index %d", i)
	}
}

func TestWitness_UnwrittenIndexIsZeroPath(t *testing.T) {
	tr, err := New(6)
	require.NoError(t, err)
	w, err := tr.Witness(17)
	require.NoError(t, err)
	for level, h := range w {
		z, _ := Zeros(level)
		require.Equal(t, z, h, "level %d", level)
	}
}

func TestVerify_IndexTooWide(t *testing.T) {
	tr, err := New(2)
	require.NoError(t, err)
	require.NoError(t, tr.UpdateSingle(1, leafOf(1)))
	w, err := tr.Witness(1)
	require.NoError(t, err)

	require.True(t, Verify(tr.Root(), leafOf(1), 1, w))
	// 5 = 0b101 folds like index 1 but does not fit two levels.
	require.False(t, Verify(tr.Root(), leafOf(1), 5, w))
}
