package tx

import (
	"errors"
	"fmt"
)

const (
	mantissaBits = 12
	mantissaMax  = 1<<mantissaBits - 1
	exponentMax  = 15
)

var ErrAmountNotRepresentable = errors.New("tx: amount not representable")

var pow10 [exponentMax + 1]uint64

func init() {
	pow10[0] = 1
	for i := 1; i <= exponentMax; i++ {
		pow10[i] = pow10[i-1] * 10
	}
}

// Amount is a 16-bit decimal float: the top 4 bits are an exponent e and
// the low 12 bits a mantissa m, worth m * 10^e.
type Amount uint16

// EncodeAmount returns the canonical encoding of v, the one with the
// smallest exponent.
func EncodeAmount(v uint64) (Amount, error) {
	for e := 0; e <= exponentMax; e++ {
		if v%pow10[e] != 0 {
			break
		}
		if m := v / pow10[e]; m <= mantissaMax {
			return Amount(uint16(e)<<mantissaBits | uint16(m)), nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrAmountNotRepresentable, v)
}

// MustAmount is EncodeAmount for constants known to be representable.
func MustAmount(v uint64) Amount {
	a, err := EncodeAmount(v)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Exponent() uint { return uint(a >> mantissaBits) }

func (a Amount) Mantissa() uint64 { return uint64(a & mantissaMax) }

// Uint64 decodes the amount. Every encoding fits: 4095 * 10^15 < 2^64.
func (a Amount) Uint64() uint64 { return a.Mantissa() * pow10[a.Exponent()] }
