package verifier

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

var (
	addrSHA256 = common.BytesToAddress([]byte{0x02})
	addrModExp = common.BytesToAddress([]byte{0x05})
)

var (
	// sqrt(-3) and (sqrt(-3) - 1) / 2.
	ftZ0 = uint256.MustFromHex("0xb3c4d79d41a91759a9e4c7e359b6b89eaec68e62effffffd")
	ftZ1 = uint256.MustFromHex("0x59e26bcea0d48bacd4f263f1acdb5c4f5763473177fffffe")

	exponentSqrt    = uint256.MustFromHex("0xc19139cb84c680a6e14116da060561765e05aa45a1c72a34f082305b61f3f52")
	exponentInverse = uint256.MustFromHex("0x30644e72e131a029b85045b68181585d97816a916871ca8d3c208c16d87cfd45")

	two192 = new(uint256.Int).Lsh(uint256.NewInt(1), 192)
)

// expandMessageSize is the fixed output of the contract's expandMsg: two
// 48-byte chunks.
const expandMessageSize = 96

func (e *EVM) sha256(data []byte) ([]byte, error) {
	out, ok := e.staticcall(addrSHA256, data)
	if !ok || len(out) != 32 {
		return nil, fmt.Errorf("%w: sha256 call failed", ErrRevert)
	}
	return out, nil
}

// modexp computes base^exp mod p through precompile 0x05.
func (e *EVM) modexp(base, exp *uint256.Int) (uint256.Int, error) {
	in := make([]byte, 0, 6*wire.WordSize)
	size := wire.WordFromUint64(wire.WordSize)
	for i := 0; i < 3; i++ {
		in = append(in, size[:]...)
	}
	for _, w := range []*uint256.Int{base, exp, fieldModulus} {
		b := w.Bytes32()
		in = append(in, b[:]...)
	}
	var r uint256.Int
	out, ok := e.staticcall(addrModExp, in)
	if !ok || len(out) != wire.WordSize {
		return r, fmt.Errorf("%w: modexp call failed", ErrRevert)
	}
	r.SetBytes32(out)
	return r, nil
}

func (e *EVM) sqrt(a *uint256.Int) (uint256.Int, bool, error) {
	r, err := e.modexp(a, exponentSqrt)
	if err != nil {
		return r, false, err
	}
	sq := mulmod(&r, &r)
	return r, sq.Eq(a), nil
}

// ExpandMessage mirrors the contract's expandMsg: expand_message_xmd with
// SHA-256 and the 32-byte domain as tag, always 96 bytes.
func (e *EVM) ExpandMessage(domain [32]byte, msg []byte) ([]byte, error) {
	dst := append(domain[:], byte(len(domain)))

	in := make([]byte, 0, 64+len(msg)+3+len(dst))
	in = append(in, make([]byte, 64)...)
	in = append(in, msg...)
	in = append(in, 0, expandMessageSize, 0)
	in = append(in, dst...)
	b0, err := e.sha256(in)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, expandMessageSize)
	prev := make([]byte, 32)
	for i := 1; i <= expandMessageSize/32; i++ {
		in = in[:0]
		for j := range b0 {
			in = append(in, b0[j]^prev[j])
		}
		in = append(in, byte(i))
		in = append(in, dst...)
		bi, err := e.sha256(in)
		if err != nil {
			return nil, err
		}
		out = append(out, bi...)
		prev = bi
	}
	return out, nil
}

// HashToField reads each 48-byte chunk as two 24-byte halves and combines
// them as hi*2^192 + lo mod p.
func (e *EVM) HashToField(domain [32]byte, msg []byte) ([2]uint256.Int, error) {
	var u [2]uint256.Int
	b, err := e.ExpandMessage(domain, msg)
	if err != nil {
		return u, err
	}
	for i := range u {
		var hi, lo uint256.Int
		hi.SetBytes(b[i*48 : i*48+24])
		lo.SetBytes(b[i*48+24 : i*48+48])
		hi = mulmod(&hi, two192)
		u[i] = addmod(&hi, &lo)
	}
	return u, nil
}

func (e *EVM) curveY(x *uint256.Int) (uint256.Int, bool, error) {
	rhs := mulmod(x, x)
	rhs = mulmod(&rhs, x)
	rhs = addmod(&rhs, uint256.NewInt(3))
	return e.sqrt(&rhs)
}

// MapToPoint mirrors the contract's Fouque-Tibouchi mapToPoint. Inputs at
// or above p revert.
func (e *EVM) MapToPoint(t *uint256.Int) (wire.G1, error) {
	if !t.Lt(fieldModulus) {
		return wire.G1{}, fmt.Errorf("%w: invalid field element", ErrRevert)
	}
	_, decision, err := e.sqrt(t)
	if err != nil {
		return wire.G1{}, err
	}
	a0 := mulmod(t, t)
	a0 = addmod(&a0, uint256.NewInt(4))
	a1 := mulmod(t, ftZ0)
	a2 := mulmod(&a1, &a0)
	if a2, err = e.modexp(&a2, exponentInverse); err != nil {
		return wire.G1{}, err
	}
	a1 = mulmod(&a1, &a1)
	a1 = mulmod(&a1, &a2)
	a1 = mulmod(t, &a1)

	point := func(x, y uint256.Int) wire.G1 {
		if !decision {
			y.Sub(fieldModulus, &y)
		}
		return wire.G1{x, y}
	}

	x := submod(ftZ1, &a1)
	y, found, err := e.curveY(&x)
	if err != nil {
		return wire.G1{}, err
	}
	if found {
		return point(x, y), nil
	}

	x1 := addmod(&x, uint256.NewInt(1))
	x.Sub(fieldModulus, &x1)
	if y, found, err = e.curveY(&x); err != nil {
		return wire.G1{}, err
	}
	if found {
		return point(x, y), nil
	}

	x = mulmod(&a0, &a0)
	x = mulmod(&x, &x)
	x = mulmod(&x, &a2)
	x = mulmod(&x, &a2)
	x = addmod(&x, uint256.NewInt(1))
	if y, found, err = e.curveY(&x); err != nil {
		return wire.G1{}, err
	}
	if !found {
		return wire.G1{}, fmt.Errorf("%w: bad ft mapping implementation", ErrRevert)
	}
	return point(x, y), nil
}

// HashToPoint maps both field elements of msg and adds them with ecAdd.
func (e *EVM) HashToPoint(domain [32]byte, msg []byte) (wire.G1, error) {
	u, err := e.HashToField(domain, msg)
	if err != nil {
		return wire.G1{}, err
	}
	p0, err := e.MapToPoint(&u[0])
	if err != nil {
		return wire.G1{}, err
	}
	p1, err := e.MapToPoint(&u[1])
	if err != nil {
		return wire.G1{}, err
	}
	return e.Aggregate([]wire.G1{p0, p1})
}
