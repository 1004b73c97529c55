// Package bls implements BLS signatures over BN254 with signatures in G1 and
// public keys in G2, bit-compatible with an EVM verifier that uses the
// ecPairing precompile.
//
// Messages are hashed to G1 with expand_message_xmd (SHA-256), two 48-byte
// field elements, the Fouque-Tibouchi map and point addition. The
// domain separation tag is a 32-byte value supplied by configuration.
//
// Verification checks e(sig, -G2) * e(H(m), pk) == 1. Aggregate
// verification checks e(agg, -G2) * prod e(H(m_i), pk_i) == 1.
package bls

import "errors"

var (
	ErrInvalidDomain = errors.New("bls: invalid domain")
	ErrInvalidSecret = errors.New("bls: invalid secret key")
	ErrInvalidPoint  = errors.New("bls: invalid point")
	ErrShapeMismatch = errors.New("bls: public key and message counts differ")
	ErrEmptySet      = errors.New("bls: empty verification set")
)
