package bls

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fp"
	"github.com/holiman/uint256"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

var (
	g2Gen    bn254.G2Affine
	negG2Gen bn254.G2Affine
)

func init() {
	_, _, _, g2Gen = bn254.Generators()
	negG2Gen.Neg(&g2Gen)
}

func g1ToWire(p *bn254.G1Affine) wire.G1 {
	var w wire.G1
	setWord(&w[0], &p.X)
	setWord(&w[1], &p.Y)
	return w
}

func g2ToWire(p *bn254.G2Affine) wire.G2 {
	var w wire.G2
	setWord(&w[0], &p.X.A0)
	setWord(&w[1], &p.X.A1)
	setWord(&w[2], &p.Y.A0)
	setWord(&w[3], &p.Y.A1)
	return w
}

func setWord(dst *uint256.Int, e *fp.Element) {
	b := e.Bytes()
	dst.SetBytes32(b[:])
}

func fpFromWord(dst *fp.Element, w *uint256.Int) error {
	b := w.Bytes32()
	if err := dst.SetBytesCanonical(b[:]); err != nil {
		return fmt.Errorf("%w: coordinate not below field modulus", ErrInvalidPoint)
	}
	return nil
}

// g1FromWire decodes w and checks curve and subgroup membership. The
// all-zero encoding decodes to the point at infinity.
func g1FromWire(w wire.G1) (bn254.G1Affine, error) {
	var p bn254.G1Affine
	if err := fpFromWord(&p.X, &w[0]); err != nil {
		return p, err
	}
	if err := fpFromWord(&p.Y, &w[1]); err != nil {
		return p, err
	}
	if p.IsInfinity() {
		return p, nil
	}
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return p, fmt.Errorf("%w: g1 point not on curve", ErrInvalidPoint)
	}
	return p, nil
}

// g2FromWire decodes w and checks twist and subgroup membership. The point
// at infinity is rejected: it is never a valid public key.
func g2FromWire(w wire.G2) (bn254.G2Affine, error) {
	var p bn254.G2Affine
	for i, dst := range []*fp.Element{&p.X.A0, &p.X.A1, &p.Y.A0, &p.Y.A1} {
		if err := fpFromWord(dst, &w[i]); err != nil {
			return p, err
		}
	}
	if p.IsInfinity() {
		return p, fmt.Errorf("%w: g2 point at infinity", ErrInvalidPoint)
	}
	if !p.IsOnCurve() || !p.IsInSubGroup() {
		return p, fmt.Errorf("%w: g2 point not on curve", ErrInvalidPoint)
	}
	return p, nil
}

func wordsToUint(dst []uint256.Int, words [][]byte) bool {
	if len(words) != len(dst) {
		return false
	}
	for i, b := range words {
		if len(b) != wire.WordSize {
			return false
		}
		dst[i].SetBytes32(b)
	}
	return true
}

// IsOnCurveG1 reports whether words is two 32-byte coordinates of a finite
// G1 point. It never panics; any malformed input yields false.
func IsOnCurveG1(words [][]byte) bool {
	var w wire.G1
	if !wordsToUint(w[:], words) {
		return false
	}
	p, err := g1FromWire(w)
	return err == nil && !p.IsInfinity()
}

// IsOnCurveG2 reports whether words is four 32-byte limbs
// (x.real, x.imag, y.real, y.imag) of a finite point in the G2 subgroup.
func IsOnCurveG2(words [][]byte) bool {
	var w wire.G2
	if !wordsToUint(w[:], words) {
		return false
	}
	_, err := g2FromWire(w)
	return err == nil
}
