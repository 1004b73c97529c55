package verifier

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/snaketh4x0r/RedditHubble/crypto"
	"github.com/snaketh4x0r/RedditHubble/wire"
)

const transferRecord = 80

// mload reads the 32-byte word at offset, zero-filled past the end.
func mload(blob []byte, offset int) uint256.Int {
	var word [wire.WordSize]byte
	if offset < len(blob) {
		copy(word[:], blob[offset:])
	}
	var w uint256.Int
	w.SetBytes32(word[:])
	return w
}

func (e *EVM) loadField(blob []byte, index, offset, width int) (uint256.Int, error) {
	if index < 0 || index >= e.TransferSize(blob) {
		return uint256.Int{}, fmt.Errorf("%w: index %d out of bounds", ErrRevert, index)
	}
	w := mload(blob, index*transferRecord+offset)
	w.Rsh(&w, uint(256-8*width))
	return w, nil
}

// TransferSize is len(blob) / 80.
func (e *EVM) TransferSize(blob []byte) int { return len(blob) / transferRecord }

func (e *EVM) TransferHasExcessData(blob []byte) bool { return len(blob)%transferRecord != 0 }

func (e *EVM) TransferSenderOf(blob []byte, index int) (uint64, error) {
	w, err := e.loadField(blob, index, 0, 4)
	return w.Uint64(), err
}

func (e *EVM) TransferReceiverOf(blob []byte, index int) (uint64, error) {
	w, err := e.loadField(blob, index, 4, 4)
	return w.Uint64(), err
}

// TransferAmountOf decodes the 16-bit amount as mantissa * 10**exponent.
func (e *EVM) TransferAmountOf(blob []byte, index int) (*uint256.Int, error) {
	w, err := e.loadField(blob, index, 14, 2)
	if err != nil {
		return nil, err
	}
	var exponent, mantissa, scale uint256.Int
	exponent.Rsh(&w, 12)
	mantissa.And(&w, uint256.NewInt(0xfff))
	scale.Exp(uint256.NewInt(10), &exponent)
	return mantissa.Mul(&mantissa, &scale), nil
}

// TransferHashOf is keccak256 over the 80 bytes of record index.
func (e *EVM) TransferHashOf(blob []byte, index int) (common.Hash, error) {
	if index < 0 || index >= e.TransferSize(blob) {
		return common.Hash{}, fmt.Errorf("%w: index %d out of bounds", ErrRevert, index)
	}
	off := index * transferRecord
	return crypto.Keccak256Hash(blob[off : off+transferRecord]), nil
}
