package bls

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

// Aggregate sums signatures in G1. An empty slice yields the point at
// infinity, encoded as (0, 0).
func Aggregate(sigs []wire.G1) (wire.G1, error) {
	var acc bn254.G1Affine
	for i := range sigs {
		p, err := g1FromWire(sigs[i])
		if err != nil {
			return wire.G1{}, fmt.Errorf("signature %d: %w", i, err)
		}
		acc.Add(&acc, &p)
	}
	return g1ToWire(&acc), nil
}

// VerifySingle checks sig against pub and an already hashed message point.
// Points that fail to decode make the check fail rather than error.
func VerifySingle(sig wire.G1, pub wire.G2, msg wire.G1) (bool, error) {
	return VerifyMultiple(sig, []wire.G2{pub}, []wire.G1{msg})
}

// VerifyMultiple checks an aggregate signature over distinct messages.
// pubs[i] must have signed msgs[i]. The slices must be non-empty and of
// equal length; that is checked before any curve work.
func VerifyMultiple(agg wire.G1, pubs []wire.G2, msgs []wire.G1) (bool, error) {
	if len(pubs) != len(msgs) {
		return false, fmt.Errorf("%w: %d keys, %d messages", ErrShapeMismatch, len(pubs), len(msgs))
	}
	if len(pubs) == 0 {
		return false, ErrEmptySet
	}

	g1s := make([]bn254.G1Affine, len(pubs)+1)
	g2s := make([]bn254.G2Affine, len(pubs)+1)

	var err error
	if g1s[0], err = g1FromWire(agg); err != nil {
		return false, nil
	}
	g2s[0] = negG2Gen
	for i := range pubs {
		if g1s[i+1], err = g1FromWire(msgs[i]); err != nil {
			return false, nil
		}
		if g2s[i+1], err = g2FromWire(pubs[i]); err != nil {
			return false, nil
		}
	}
	ok, err := bn254.PairingCheck(g1s, g2s)
	if err != nil {
		return false, fmt.Errorf("bls: pairing: %w", err)
	}
	return ok, nil
}
