package tx

import (
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/snaketh4x0r/RedditHubble/wire"
)

// randTransfer draws every field uniformly, with an amount that is always
// representable.
func randTransfer(rng *rand.Rand) Transfer {
	var sig wire.G1
	sig[0].SetUint64(rng.Uint64())
	sig[1].SetUint64(rng.Uint64())
	sig[0].Lsh(&sig[0], 190)
	exp := uint64(rng.Intn(exponentMax + 1))
	m := uint64(rng.Intn(mantissaMax + 1))
	t, err := NewTransfer(
		uint64(rng.Uint32()), uint64(rng.Uint32()), uint64(rng.Intn(1<<16)),
		uint64(rng.Uint32()), m*pow10[exp], sig)
	if err != nil {
		panic(err)
	}
	return t
}

func randTransfers(seed int64, n int) []Transfer {
	rng := rand.New(rand.NewSource(seed))
	out := make([]Transfer, n)
	for i := range out {
		out[i] = randTransfer(rng)
	}
	return out
}

func fixedTransfer(t *testing.T) Transfer {
	t.Helper()
	tr, err := NewTransfer(1, 2, 3, 4, 5000, wire.G1{*uint256.NewInt(5), *uint256.NewInt(6)})
	require.NoError(t, err)
	return tr
}

// ---------------------------------------------------------------------------
// Amount encoding
// ---------------------------------------------------------------------------

func TestEncodeAmount(t *testing.T) {
	cases := []struct {
		value uint64
		want  Amount
		ok    bool
	}{
		{0, 0x0000, true},
		{1, 0x0001, true},
		{4095, 0x0fff, true},
		{4096, 0, false},
		{4100, 0x1000 | 410, true},
		{5000, 0x11f4, true},
		{1000, 0x03e8, true},
		{4095 * pow10[15], 0xffff, true},
		{4096 * pow10[15], 0, false},
		{12345, 0, false},
	}
	for _, c := range cases {
		got, err := EncodeAmount(c.value)
		if !c.ok {
			require.ErrorIs(t, err, ErrAmountNotRepresentable, "value %d", c.value)
			continue
		}
		require.NoError(t, err, "value %d", c.value)
		require.Equal(t, c.want, got, "value %d", c.value)
		require.Equal(t, c.value, got.Uint64())
	}
}

func TestAmount_RoundTripAll(t *testing.T) {
	for e := uint64(0); e <= exponentMax; e++ {
		for _, m := range []uint64{1, 7, 99, 4095} {
			v := m * pow10[e]
			a, err := EncodeAmount(v)
			require.NoError(t, err)
			require.Equal(t, v, a.Uint64())
			// No smaller exponent can hold the value.
			if e := a.Exponent(); e > 0 {
				require.Greater(t, v/pow10[e-1], uint64(mantissaMax))
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Construction
// ---------------------------------------------------------------------------

func TestNewTransfer_Overflow(t *testing.T) {
	var sig wire.G1
	_, err := NewTransfer(1<<32, 0, 0, 0, 0, sig)
	require.ErrorIs(t, err, ErrFieldOverflow)
	_, err = NewTransfer(0, 1<<32, 0, 0, 0, sig)
	require.ErrorIs(t, err, ErrFieldOverflow)
	_, err = NewTransfer(0, 0, 1<<16, 0, 0, sig)
	require.ErrorIs(t, err, ErrFieldOverflow)
	_, err = NewTransfer(0, 0, 0, 1<<32, 0, sig)
	require.ErrorIs(t, err, ErrFieldOverflow)
	_, err = NewTransfer(0, 0, 0, 0, 12345, sig)
	require.ErrorIs(t, err, ErrAmountNotRepresentable)
}

// ---------------------------------------------------------------------------
// Records
// ---------------------------------------------------------------------------

func TestTransfer_Vector(t *testing.T) {
	tr := fixedTransfer(t)
	require.Equal(t, "0x000000010000000200030000000411f4", hexutil.Encode(tr.Message()))
	require.Len(t, tr.Encode(), RecordSize)

	want := common.HexToHash("0xe69607294f4f0df7bcd5c7ff74c63e4e8868f2c003fad8fa974957b5ad0175ec")
	require.Equal(t, want, tr.Hash())

	blob := Serialize([]Transfer{tr})
	h, err := HashOf(blob, 0)
	require.NoError(t, err)
	require.Equal(t, want, h)
}

func TestSerialize_ThirtyTwoRecords(t *testing.T) {
	txs := randTransfers(1, 32)
	blob := Serialize(txs)

	require.Len(t, blob, 32*RecordSize)
	require.Equal(t, 32, Size(blob))
	require.False(t, HasExcessData(blob))

	for i, want := range txs {
		sender, err := SenderOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.SenderID, sender)

		receiver, err := ReceiverOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.ReceiverID, receiver)

		token, err := TokenOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.TokenType, token)

		nonce, err := NonceOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.Nonce, nonce)

		amount, err := AmountOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.Amount.Uint64(), amount)

		sig, err := SignatureOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.Signature, sig)

		h, err := HashOf(blob, i)
		require.NoError(t, err)
		require.Equal(t, want.Hash(), h, "record %d", i)
	}
}

func TestHasExcessData_Truncated(t *testing.T) {
	blob := Serialize(randTransfers(2, 4))
	require.False(t, HasExcessData(blob))
	require.True(t, HasExcessData(blob[:len(blob)-1]))
	require.Equal(t, 3, Size(blob[:len(blob)-1]))

	_, err := Deserialize(blob[:len(blob)-1])
	require.ErrorIs(t, err, ErrExcessData)

	require.False(t, HasExcessData(nil))
	require.Zero(t, Size(nil))
}

func TestRoundTrip(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64} {
		blob := Serialize(randTransfers(int64(n), n))
		txs, err := Deserialize(blob)
		require.NoError(t, err)
		require.Len(t, txs, n)
		require.Equal(t, blob, Serialize(txs), "n=%d", n)
	}
}

func TestFieldOf_Errors(t *testing.T) {
	blob := Serialize(randTransfers(3, 2))

	_, err := FieldOf(blob, 2, FieldSender)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = FieldOf(blob, -1, FieldSender)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = FieldOf(blob, 0, Field(9))
	require.ErrorIs(t, err, ErrUnknownField)
	_, err = HashOf(blob, 2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = SignatureOf(blob[:RecordSize+10], 1)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	require.Equal(t, "amount", FieldAmount.String())
	require.Equal(t, "field(9)", Field(9).String())
}

func TestDecode_WrongLength(t *testing.T) {
	_, err := Decode(make([]byte, RecordSize-1))
	require.ErrorIs(t, err, ErrExcessData)
}
