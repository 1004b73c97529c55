package tx

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snaketh4x0r/RedditHubble/crypto"
	"github.com/snaketh4x0r/RedditHubble/wire"
)

var (
	ErrExcessData      = errors.New("tx: blob is not a whole number of records")
	ErrIndexOutOfRange = errors.New("tx: record index out of range")
	ErrUnknownField    = errors.New("tx: unknown field")
)

// Field names a numeric column of the record.
type Field int

const (
	FieldSender Field = iota
	FieldReceiver
	FieldToken
	FieldNonce
	FieldAmount
)

var fieldNames = [...]string{"sender", "receiver", "token", "nonce", "amount"}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fieldNames[f]
}

var (
	fieldOffset = [...]int{0, 4, 8, 10, 14}
	fieldWidth  = [...]int{4, 4, 2, 4, 2}
)

const signatureOffset = 16

// Serialize concatenates the records of txs in order.
func Serialize(txs []Transfer) []byte {
	out := make([]byte, 0, len(txs)*RecordSize)
	for i := range txs {
		out = txs[i].appendMessage(out)
		out = append(out, txs[i].Signature.Bytes()...)
	}
	return out
}

// Deserialize splits a blob into transfers.
func Deserialize(blob []byte) ([]Transfer, error) {
	if HasExcessData(blob) {
		return nil, fmt.Errorf("%w: %d bytes", ErrExcessData, len(blob))
	}
	out := make([]Transfer, 0, Size(blob))
	for off := 0; off < len(blob); off += RecordSize {
		t, err := Decode(blob[off : off+RecordSize])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Size is the number of whole records in blob.
func Size(blob []byte) int { return len(blob) / RecordSize }

// HasExcessData reports a trailing partial record.
func HasExcessData(blob []byte) bool { return len(blob)%RecordSize != 0 }

func record(blob []byte, index int) ([]byte, error) {
	if index < 0 || index >= Size(blob) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, Size(blob))
	}
	return blob[index*RecordSize : (index+1)*RecordSize], nil
}

// FieldOf reads one numeric field of record index. Amounts are returned
// decoded.
func FieldOf(blob []byte, index int, f Field) (uint64, error) {
	if f < 0 || int(f) >= len(fieldOffset) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	rec, err := record(blob, index)
	if err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range rec[fieldOffset[f] : fieldOffset[f]+fieldWidth[f]] {
		v = v<<8 | uint64(b)
	}
	if f == FieldAmount {
		return Amount(v).Uint64(), nil
	}
	return v, nil
}

func SenderOf(blob []byte, index int) (uint32, error) {
	v, err := FieldOf(blob, index, FieldSender)
	return uint32(v), err
}

func ReceiverOf(blob []byte, index int) (uint32, error) {
	v, err := FieldOf(blob, index, FieldReceiver)
	return uint32(v), err
}

func TokenOf(blob []byte, index int) (uint16, error) {
	v, err := FieldOf(blob, index, FieldToken)
	return uint16(v), err
}

func NonceOf(blob []byte, index int) (uint32, error) {
	v, err := FieldOf(blob, index, FieldNonce)
	return uint32(v), err
}

func AmountOf(blob []byte, index int) (uint64, error) {
	return FieldOf(blob, index, FieldAmount)
}

func SignatureOf(blob []byte, index int) (wire.G1, error) {
	rec, err := record(blob, index)
	if err != nil {
		return wire.G1{}, err
	}
	return wire.G1FromBytes(rec[signatureOffset:])
}

// HashOf is keccak256 of exactly the bytes of record index.
func HashOf(blob []byte, index int) (common.Hash, error) {
	rec, err := record(blob, index)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(rec), nil
}
