package bls

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

// SecretKeySize is the encoded width of a secret scalar.
const SecretKeySize = 32

// SecretKey is a scalar in [1, r).
type SecretKey struct {
	s fr.Element
}

// SecretKeyFromBytes decodes a 32-byte big-endian scalar. Zero and values
// not below the group order are rejected.
func SecretKeyFromBytes(b []byte) (SecretKey, error) {
	var sk SecretKey
	if len(b) != SecretKeySize {
		return sk, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSecret, len(b), SecretKeySize)
	}
	if err := sk.s.SetBytesCanonical(b); err != nil {
		return sk, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	if sk.s.IsZero() {
		return sk, fmt.Errorf("%w: zero scalar", ErrInvalidSecret)
	}
	return sk, nil
}

// ParseSecretKey decodes the 0x-prefixed hex form produced by Hex.
func ParseSecretKey(s string) (SecretKey, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return SecretKey{}, fmt.Errorf("%w: %v", ErrInvalidSecret, err)
	}
	return SecretKeyFromBytes(b)
}

func (sk SecretKey) Bytes() []byte {
	b := sk.s.Bytes()
	return b[:]
}

func (sk SecretKey) Hex() string { return hexutil.Encode(sk.Bytes()) }

func (sk SecretKey) bigInt() *big.Int { return sk.s.BigInt(new(big.Int)) }

// PublicKey returns secret * G2 in wire order.
func (sk SecretKey) PublicKey() wire.G2 {
	var pk bn254.G2Affine
	pk.ScalarMultiplication(&g2Gen, sk.bigInt())
	return g2ToWire(&pk)
}

// KeyPair is a secret scalar and its G2 public key.
type KeyPair struct {
	Secret SecretKey
	Public wire.G2
}

// GenerateKeyPair draws a uniform secret from the system entropy source.
func GenerateKeyPair() (KeyPair, error) {
	var sk SecretKey
	for sk.s.IsZero() {
		if _, err := sk.s.SetRandom(); err != nil {
			return KeyPair{}, fmt.Errorf("bls: read entropy: %w", err)
		}
	}
	return NewKeyPair(sk), nil
}

// NewKeyPair derives the public key for sk.
func NewKeyPair(sk SecretKey) KeyPair {
	return KeyPair{Secret: sk, Public: sk.PublicKey()}
}
