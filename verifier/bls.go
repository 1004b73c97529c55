package verifier

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

var (
	fieldModulus = uint256.MustFromHex("0x30644e72e131a029b85045b68181585d97816a916871ca8d3c208c16d87cfd47")

	// Twist coefficient b' = 3 / (9 + i).
	twistB = fp2{
		*uint256.MustFromDecimal("19485874751759354771024239261021720505790618469301721065564631296452457478373"),
		*uint256.MustFromDecimal("266929791119991161246907387137283842545076965332900288569378510910307636690"),
	}

	// Negated G2 generator, wire order.
	negG2 = wire.G2{
		*uint256.MustFromDecimal("10857046999023057135944570762232829481370756359578518086990519993285655852781"),
		*uint256.MustFromDecimal("11559732032986387107991004021392285783925812861821192530917403151452391805634"),
		*uint256.MustFromDecimal("13392588948715843804641432497768002650278120570034223513918757245338268106653"),
		*uint256.MustFromDecimal("17805874995975841540914202342111839520379459829704422454583296818431106115052"),
	}
)

type fp2 [2]uint256.Int

func mulmod(a, b *uint256.Int) uint256.Int {
	var z uint256.Int
	z.MulMod(a, b, fieldModulus)
	return z
}

func addmod(a, b *uint256.Int) uint256.Int {
	var z uint256.Int
	z.AddMod(a, b, fieldModulus)
	return z
}

// submod computes a - b for b < p as a + (p - b).
func submod(a, b *uint256.Int) uint256.Int {
	var neg uint256.Int
	neg.Sub(fieldModulus, b)
	return addmod(a, &neg)
}

func (x *fp2) mul(y *fp2) fp2 {
	a0b0, a1b1 := mulmod(&x[0], &y[0]), mulmod(&x[1], &y[1])
	a0b1, a1b0 := mulmod(&x[0], &y[1]), mulmod(&x[1], &y[0])
	return fp2{submod(&a0b0, &a1b1), addmod(&a0b1, &a1b0)}
}

func inField(words ...uint256.Int) bool {
	for i := range words {
		if !words[i].Lt(fieldModulus) {
			return false
		}
	}
	return true
}

// IsOnCurveG1 checks y^2 == x^3 + 3 with mulmod/addmod.
func (e *EVM) IsOnCurveG1(p wire.G1) bool {
	if !inField(p[0], p[1]) {
		return false
	}
	lhs := mulmod(&p[1], &p[1])
	x2 := mulmod(&p[0], &p[0])
	rhs := mulmod(&x2, &p[0])
	three := uint256.NewInt(3)
	rhs = addmod(&rhs, three)
	return lhs.Eq(&rhs)
}

// IsOnCurveG2 checks y^2 - x^3 == b' over Fp2. Like the contract it does
// not test subgroup membership.
func (e *EVM) IsOnCurveG2(p wire.G2) bool {
	if !inField(p[0], p[1], p[2], p[3]) {
		return false
	}
	x := fp2{p[0], p[1]}
	y := fp2{p[2], p[3]}
	y2 := y.mul(&y)
	x2 := x.mul(&x)
	x3 := x2.mul(&x)
	d0 := submod(&y2[0], &x3[0])
	d1 := submod(&y2[1], &x3[1])
	return d0.Eq(&twistB[0]) && d1.Eq(&twistB[1])
}

func pairingInput(sig wire.G1, pubs []wire.G2, msgs []wire.G1) []byte {
	in := make([]byte, 0, (len(pubs)+1)*(wire.G1Size+wire.G2Size))
	in = append(in, sig.Bytes()...)
	in = append(in, negG2.PrecompileBytes()...)
	for i := range pubs {
		in = append(in, msgs[i].Bytes()...)
		in = append(in, pubs[i].PrecompileBytes()...)
	}
	return in
}

func (e *EVM) pairing(input []byte) (result, callSuccess bool) {
	out, ok := e.staticcall(addrECPairing, input)
	if !ok || len(out) != wire.WordSize {
		return false, false
	}
	var w uint256.Int
	w.SetBytes32(out)
	return w.Eq(uint256.NewInt(1)), true
}

// VerifySingle mirrors the library's verifySingle: it reports the pairing
// result and whether the precompile call succeeded. Invalid points make
// the call fail.
func (e *EVM) VerifySingle(sig wire.G1, pub wire.G2, msg wire.G1) (result, callSuccess bool) {
	return e.pairing(pairingInput(sig, []wire.G2{pub}, []wire.G1{msg}))
}

// VerifyMultiple mirrors verifyMultiple. Empty or mismatched inputs revert.
func (e *EVM) VerifyMultiple(sig wire.G1, pubs []wire.G2, msgs []wire.G1) (result, callSuccess bool, err error) {
	if len(pubs) == 0 {
		return false, false, fmt.Errorf("%w: number of public keys is zero", ErrRevert)
	}
	if len(pubs) != len(msgs) {
		return false, false, fmt.Errorf("%w: number of public keys and messages must be equal", ErrRevert)
	}
	result, callSuccess = e.pairing(pairingInput(sig, pubs, msgs))
	return result, callSuccess, nil
}

// Aggregate sums G1 points with the ecAdd precompile.
func (e *EVM) Aggregate(sigs []wire.G1) (wire.G1, error) {
	var acc wire.G1
	for i := range sigs {
		out, ok := e.staticcall(addrECAdd, append(acc.Bytes(), sigs[i].Bytes()...))
		if !ok {
			return wire.G1{}, fmt.Errorf("%w: ecAdd failed on point %d", ErrRevert, i)
		}
		p, err := wire.G1FromBytes(out)
		if err != nil {
			return wire.G1{}, err
		}
		acc = p
	}
	return acc, nil
}
