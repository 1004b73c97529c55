package bls

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/consensys/gnark-crypto/field/hash"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

const (
	// DomainSize is the width of the domain separation tag.
	DomainSize = 32

	// fieldChunk is the number of expanded bytes reduced into one field
	// element: ceil((254 + 128) / 8).
	fieldChunk = 48
)

// Domain is the domain separation tag mixed into every message hash. It is
// supplied by configuration and must match the verifier's tag exactly.
type Domain [DomainSize]byte

// ParseDomain decodes a 0x-prefixed hex string of exactly 32 bytes.
func ParseDomain(s string) (Domain, error) {
	var d Domain
	b, err := hexutil.Decode(s)
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrInvalidDomain, err)
	}
	if len(b) != DomainSize {
		return d, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidDomain, len(b), DomainSize)
	}
	copy(d[:], b)
	return d, nil
}

// Hex returns the 0x-prefixed hex form of d.
func (d Domain) Hex() string { return hexutil.Encode(d[:]) }

// ExpandMessage implements expand_message_xmd with SHA-256. outLen must
// not exceed 255*32 bytes and dst must not exceed 255 bytes.
func ExpandMessage(dst, msg []byte, outLen int) ([]byte, error) {
	out, err := hash.ExpandMsgXmd(msg, dst, outLen)
	if err != nil {
		return nil, fmt.Errorf("bls: expand message: %w", err)
	}
	return out, nil
}

// HashToField expands msg into count base field elements, reducing each
// 48-byte chunk modulo p.
func HashToField(dst, msg []byte, count int) ([]fp.Element, error) {
	b, err := ExpandMessage(dst, msg, count*fieldChunk)
	if err != nil {
		return nil, err
	}
	out := make([]fp.Element, count)
	for i := range out {
		out[i].SetBytes(b[i*fieldChunk : (i+1)*fieldChunk])
	}
	return out, nil
}

// Constants of the Fouque-Tibouchi encoding for y^2 = x^3 + 3.
var (
	ftSqrtMinus3 fp.Element // sqrt(-3)
	ftZ1         fp.Element // (sqrt(-3) - 1) / 2
	curveB       fp.Element
	sqrtExponent *big.Int // (p + 1) / 4
)

func init() {
	setHex := func(z *fp.Element, s string) {
		v, ok := new(big.Int).SetString(s, 16)
		if !ok {
			panic("bls: bad constant " + s)
		}
		z.SetBigInt(v)
	}
	setHex(&ftSqrtMinus3, "b3c4d79d41a91759a9e4c7e359b6b89eaec68e62effffffd")
	setHex(&ftZ1, "59e26bcea0d48bacd4f263f1acdb5c4f5763473177fffffe")
	curveB.SetUint64(3)

	sqrtExponent = fp.Modulus()
	sqrtExponent.Add(sqrtExponent, big.NewInt(1))
	sqrtExponent.Rsh(sqrtExponent, 2)
}

// sqrt returns a^((p+1)/4) and whether it squares back to a. p = 3 mod 4,
// so this is the square root the verifier computes with modexp.
func sqrt(a *fp.Element) (fp.Element, bool) {
	var r, sq fp.Element
	r.Exp(*a, sqrtExponent)
	sq.Square(&r)
	return r, sq.Equal(a)
}

// curveY solves y^2 = x^3 + 3 for y.
func curveY(x *fp.Element) (fp.Element, bool) {
	var rhs fp.Element
	rhs.Square(x)
	rhs.Mul(&rhs, x)
	rhs.Add(&rhs, &curveB)
	return sqrt(&rhs)
}

// mapToG1 is the Fouque-Tibouchi encoding of t onto BN254 G1. It tries
// the candidates x1 = z1 - t^2*sqrt(-3)/(t^2+4), x2 = -1 - x1 and
// x3 = 1 - (t^2+4)^2/(3t^2) in turn, and gives y the sign of the
// quadratic character of t. An inverse of zero is taken as zero, so t = 0
// maps to (z1, 2).
func mapToG1(t fp.Element) bn254.G1Affine {
	_, square := sqrt(&t)

	var one, a0, a1, a2 fp.Element
	one.SetOne()
	a0.Square(&t)
	a0.Add(&a0, &curveB)
	a0.Add(&a0, &one)
	a1.Mul(&t, &ftSqrtMinus3)
	a2.Mul(&a1, &a0)
	a2.Inverse(&a2)
	a1.Square(&a1)
	a1.Mul(&a1, &a2)
	a1.Mul(&a1, &t)

	var x fp.Element
	x.Sub(&ftZ1, &a1)
	y, ok := curveY(&x)
	if !ok {
		x.Add(&x, &one)
		x.Neg(&x)
		y, ok = curveY(&x)
	}
	if !ok {
		x.Square(&a0)
		x.Square(&x)
		x.Mul(&x, &a2)
		x.Mul(&x, &a2)
		x.Add(&x, &one)
		// One of the three candidates is always on the curve.
		y, _ = curveY(&x)
	}
	if !square {
		y.Neg(&y)
	}
	return bn254.G1Affine{X: x, Y: y}
}

// MapToPoint maps one field element onto G1 with the Fouque-Tibouchi
// encoding used by the on-chain verifier. The result is always a valid
// curve point.
func MapToPoint(e fp.Element) wire.G1 {
	p := mapToG1(e)
	return g1ToWire(&p)
}

func hashToG1(dst, msg []byte) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	u, err := HashToField(dst, msg, 2)
	if err != nil {
		return p, err
	}
	q0 := mapToG1(u[0])
	q1 := mapToG1(u[1])
	// BN254 G1 has cofactor 1.
	p.Add(&q0, &q1)
	return p, nil
}
