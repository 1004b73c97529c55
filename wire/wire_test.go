package wire

import (
	"bytes"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestWord_Padding(t *testing.T) {
	w := WordFromUint64(0x0102)
	require.Equal(t, byte(0x01), w[30])
	require.Equal(t, byte(0x02), w[31])
	require.True(t, bytes.Equal(w[:30], make([]byte, 30)))
}

func TestParseWord(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"0x00", 0, true},
		{"0x2a", 42, true},
		{"0x" + strings.Repeat("00", 31) + "ff", 255, true},
		{"2a", 0, false},
		{"0x2", 0, false},
		{"0x" + strings.Repeat("ab", 33), 0, false},
	}
	for _, tt := range tests {
		w, err := ParseWord(tt.in)
		if !tt.ok {
			require.ErrorIs(t, err, ErrInvalidWord, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, w.Uint64(), tt.in)
	}
}

func TestG1_BytesRoundTrip(t *testing.T) {
	var p G1
	p[0].SetUint64(1)
	p[1].SetUint64(2)

	enc := p.Bytes()
	require.Len(t, enc, G1Size)
	require.Equal(t, byte(1), enc[31])
	require.Equal(t, byte(2), enc[63])

	got, err := G1FromBytes(enc)
	require.NoError(t, err)
	require.Equal(t, p, got)

	_, err = G1FromBytes(enc[:63])
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestG1_HexRoundTrip(t *testing.T) {
	var p G1
	p[0].SetUint64(7)
	p[1].SetAllOne()

	words := p.Hex()
	require.Len(t, words, 2)
	require.Len(t, words[0], 66)

	got, err := ParseG1Hex(words)
	require.NoError(t, err)
	require.Equal(t, p, got)

	_, err = ParseG1Hex(words[:1])
	require.ErrorIs(t, err, ErrInvalidLength)
}

func TestG2_PrecompileOrder(t *testing.T) {
	var p G2
	for i := range p {
		p[i].SetUint64(uint64(i + 1))
	}
	enc := p.PrecompileBytes()
	require.Len(t, enc, G2Size)

	order := []uint64{2, 1, 4, 3}
	for i, want := range order {
		var w uint256.Int
		w.SetBytes32(enc[i*WordSize : (i+1)*WordSize])
		require.Equal(t, want, w.Uint64(), "limb %d", i)
	}

	got, err := G2FromBytes(p.Bytes())
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestG2_IsZero(t *testing.T) {
	var p G2
	require.True(t, p.IsZero())
	p[3].SetOne()
	require.False(t, p.IsZero())
}

func TestSplit(t *testing.T) {
	b := make([]byte, 3*WordSize)
	b[WordSize] = 7
	words, err := Split(b)
	require.NoError(t, err)
	require.Len(t, words, 3)
	require.Equal(t, byte(7), words[1][0])

	_, err = Split(b[:WordSize+1])
	require.ErrorIs(t, err, ErrInvalidLength)
}
