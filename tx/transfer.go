// Package tx implements the packed transfer record shared with the on-chain
// verifier. A blob is a plain concatenation of 80-byte big-endian records
// with no header:
//
//	offset  width  field
//	     0      4  sender account ID
//	     4      4  receiver account ID
//	     8      2  token type
//	    10      4  nonce
//	    14      2  amount (decimal float, see Amount)
//	    16     64  signature (G1 x, y)
package tx

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snaketh4x0r/RedditHubble/crypto"
	"github.com/snaketh4x0r/RedditHubble/wire"
)

// RecordSize is the width of one serialized transfer.
const RecordSize = 80

// messageSize is the width of the signed part of a record.
const messageSize = RecordSize - wire.G1Size

var ErrFieldOverflow = errors.New("tx: field exceeds its width")

// Transfer moves Amount of TokenType from SenderID to ReceiverID.
type Transfer struct {
	SenderID   uint32
	ReceiverID uint32
	TokenType  uint16
	Nonce      uint32
	Amount     Amount
	Signature  wire.G1
}

// NewTransfer checks every field against its record width.
func NewTransfer(sender, receiver, token, nonce, amount uint64, sig wire.G1) (Transfer, error) {
	for _, f := range []struct {
		name  string
		value uint64
		max   uint64
	}{
		{"sender", sender, math.MaxUint32},
		{"receiver", receiver, math.MaxUint32},
		{"token", token, math.MaxUint16},
		{"nonce", nonce, math.MaxUint32},
	} {
		if f.value > f.max {
			return Transfer{}, fmt.Errorf("%w: %s %d", ErrFieldOverflow, f.name, f.value)
		}
	}
	a, err := EncodeAmount(amount)
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{
		SenderID:   uint32(sender),
		ReceiverID: uint32(receiver),
		TokenType:  uint16(token),
		Nonce:      uint32(nonce),
		Amount:     a,
		Signature:  sig,
	}, nil
}

func (t *Transfer) appendMessage(b []byte) []byte {
	b = binary.BigEndian.AppendUint32(b, t.SenderID)
	b = binary.BigEndian.AppendUint32(b, t.ReceiverID)
	b = binary.BigEndian.AppendUint16(b, t.TokenType)
	b = binary.BigEndian.AppendUint32(b, t.Nonce)
	return binary.BigEndian.AppendUint16(b, uint16(t.Amount))
}

// Message returns the bytes a sender signs: the record without its
// signature.
func (t *Transfer) Message() []byte {
	return t.appendMessage(make([]byte, 0, messageSize))
}

// Encode returns the 80-byte record.
func (t *Transfer) Encode() []byte {
	b := t.appendMessage(make([]byte, 0, RecordSize))
	return append(b, t.Signature.Bytes()...)
}

// Hash is keccak256 over the record's fields, computed without going
// through a blob. It equals HashOf on any blob holding t.
func (t *Transfer) Hash() common.Hash {
	var sender, receiver, nonce [4]byte
	var token, amount [2]byte
	binary.BigEndian.PutUint32(sender[:], t.SenderID)
	binary.BigEndian.PutUint32(receiver[:], t.ReceiverID)
	binary.BigEndian.PutUint16(token[:], t.TokenType)
	binary.BigEndian.PutUint32(nonce[:], t.Nonce)
	binary.BigEndian.PutUint16(amount[:], uint16(t.Amount))
	x, y := t.Signature[0].Bytes32(), t.Signature[1].Bytes32()
	return crypto.Keccak256Hash(sender[:], receiver[:], token[:], nonce[:], amount[:], x[:], y[:])
}

// Decode parses one 80-byte record.
func Decode(record []byte) (Transfer, error) {
	if len(record) != RecordSize {
		return Transfer{}, fmt.Errorf("%w: record is %d bytes", ErrExcessData, len(record))
	}
	sig, err := wire.G1FromBytes(record[messageSize:])
	if err != nil {
		return Transfer{}, err
	}
	return Transfer{
		SenderID:   binary.BigEndian.Uint32(record[0:4]),
		ReceiverID: binary.BigEndian.Uint32(record[4:8]),
		TokenType:  binary.BigEndian.Uint16(record[8:10]),
		Nonce:      binary.BigEndian.Uint32(record[10:14]),
		Amount:     Amount(binary.BigEndian.Uint16(record[14:16])),
		Signature:  sig,
	}, nil
}
