package wire

import (
	"fmt"

	"github.com/holiman/uint256"
)

// G1 is an encoded G1 point: [x, y]. The all-zero value encodes the point
// at infinity, as the EVM precompiles do.
type G1 [2]uint256.Int

// G2 is an encoded G2 point: [x.real, x.imag, y.real, y.imag].
type G2 [4]uint256.Int

// G1FromBytes decodes a 64-byte G1 encoding.
func G1FromBytes(b []byte) (G1, error) {
	var p G1
	if len(b) != G1Size {
		return p, fmt.Errorf("%w: g1 needs %d bytes, got %d", ErrInvalidLength, G1Size, len(b))
	}
	readWords(p[:], b)
	return p, nil
}

// Bytes returns the 64-byte encoding x || y.
func (p G1) Bytes() []byte { return writeWords(p[:]) }

// Hex returns the two coordinates as 0x-prefixed 32-byte hex words.
func (p G1) Hex() []string { return hexWords(p[:]) }

// IsZero reports whether p encodes the point at infinity.
func (p G1) IsZero() bool { return p[0].IsZero() && p[1].IsZero() }

// ParseG1Hex decodes two hex words into a G1 encoding.
func ParseG1Hex(words []string) (G1, error) {
	var p G1
	err := parseWords(p[:], words)
	return p, err
}

// G2FromBytes decodes a 128-byte G2 encoding in limb order
// x.real, x.imag, y.real, y.imag.
func G2FromBytes(b []byte) (G2, error) {
	var p G2
	if len(b) != G2Size {
		return p, fmt.Errorf("%w: g2 needs %d bytes, got %d", ErrInvalidLength, G2Size, len(b))
	}
	readWords(p[:], b)
	return p, nil
}

// Bytes returns the 128-byte encoding in limb order.
func (p G2) Bytes() []byte { return writeWords(p[:]) }

// PrecompileBytes returns the encoding expected by the ecPairing precompile,
// which puts the imaginary part of each coordinate first.
func (p G2) PrecompileBytes() []byte {
	return writeWords([]uint256.Int{p[1], p[0], p[3], p[2]})
}

// Hex returns the four limbs as 0x-prefixed 32-byte hex words.
func (p G2) Hex() []string { return hexWords(p[:]) }

// IsZero reports whether every limb is zero.
func (p G2) IsZero() bool {
	return p[0].IsZero() && p[1].IsZero() && p[2].IsZero() && p[3].IsZero()
}

// ParseG2Hex decodes four hex words into a G2 encoding.
func ParseG2Hex(words []string) (G2, error) {
	var p G2
	err := parseWords(p[:], words)
	return p, err
}
