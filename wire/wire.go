// Package wire defines the canonical fixed-width encoding shared by every
// component of the rollup core. Field elements are 32-byte big-endian words,
// a G1 point is two words (x, y) and a G2 point is four words
// (x.real, x.imag, y.real, y.imag), which is the order the on-chain verifier
// receives them in its uint256[2] and uint256[4] arguments.
package wire

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

const (
	// WordSize is the width of one encoded field element.
	WordSize = 32
	// G1Size is the encoded width of a G1 point.
	G1Size = 2 * WordSize
	// G2Size is the encoded width of a G2 point.
	G2Size = 4 * WordSize
)

var (
	ErrInvalidLength = errors.New("wire: invalid length")
	ErrInvalidWord   = errors.New("wire: invalid word")
)

// Word encodes u as a 32-byte big-endian word.
func Word(u *uint256.Int) [WordSize]byte {
	return u.Bytes32()
}

// WordFromUint64 returns v as a 32-byte big-endian word.
func WordFromUint64(v uint64) [WordSize]byte {
	return uint256.NewInt(v).Bytes32()
}

// ParseWord decodes a 0x-prefixed hex string of at most 32 bytes.
func ParseWord(s string) (uint256.Int, error) {
	var w uint256.Int
	b, err := hexutil.Decode(s)
	if err != nil {
		return w, fmt.Errorf("%w: %q: %v", ErrInvalidWord, s, err)
	}
	if len(b) > WordSize {
		return w, fmt.Errorf("%w: %q longer than %d bytes", ErrInvalidWord, s, WordSize)
	}
	w.SetBytes(b)
	return w, nil
}

// HexWord renders u as a 0x-prefixed, zero-padded 32-byte hex string.
func HexWord(u *uint256.Int) string {
	b := u.Bytes32()
	return hexutil.Encode(b[:])
}

func readWords(dst []uint256.Int, b []byte) {
	for i := range dst {
		dst[i].SetBytes32(b[i*WordSize : (i+1)*WordSize])
	}
}

func writeWords(src []uint256.Int) []byte {
	out := make([]byte, len(src)*WordSize)
	for i := range src {
		w := src[i].Bytes32()
		copy(out[i*WordSize:], w[:])
	}
	return out
}

func parseWords(dst []uint256.Int, words []string) error {
	if len(words) != len(dst) {
		return fmt.Errorf("%w: got %d words, want %d", ErrInvalidLength, len(words), len(dst))
	}
	for i, s := range words {
		w, err := ParseWord(s)
		if err != nil {
			return err
		}
		dst[i] = w
	}
	return nil
}

func hexWords(src []uint256.Int) []string {
	out := make([]string, len(src))
	for i := range src {
		out[i] = HexWord(&src[i])
	}
	return out
}

// Split cuts b into 32-byte words. It returns ErrInvalidLength when len(b)
// is not a multiple of WordSize.
func Split(b []byte) ([][]byte, error) {
	if len(b)%WordSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of words", ErrInvalidLength, len(b))
	}
	out := make([][]byte, 0, len(b)/WordSize)
	for i := 0; i < len(b); i += WordSize {
		out = append(out, b[i:i+WordSize])
	}
	return out, nil
}
