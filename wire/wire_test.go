package wire

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVarUInt(t *testing.T) {
	tests := []struct {
		value uint64
		want  []byte
	}{
		{value: 0, want: []byte{0x00}},
		{value: 10, want: []byte{0x0A}},
		{value: 127, want: []byte{0x7F}},
		{value: 128, want: []byte{0x80, 0x01}},
		{value: 300, want: []byte{0xAC, 0x02}},
		{value: 1<<64 - 1, want: []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}},
	}
	for _, tt := range tests {
		got := AppendVarUInt(nil, tt.value)
		assert.Equal(t, tt.want, got)

		decoded, err := ReadVarUInt(bytes.NewReader(got))
		require.NoError(t, err)
		assert.Equal(t, tt.value, decoded)
	}
}

func TestVarIntZigZag(t *testing.T) {
	assert.Equal(t, []byte{0x01}, AppendVarInt(nil, -1))
	assert.Equal(t, []byte{0x02}, AppendVarInt(nil, 1))

	for _, v := range []int64{0, -1, 1, -64, 64, -1 << 63, 1<<63 - 1} {
		got, err := ReadVarInt(bytes.NewReader(AppendVarInt(nil, v)))
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestTruncatedReads(t *testing.T) {
	_, err := ReadVarUInt(bytes.NewReader(nil))
	assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))

	_, err = ReadVarUInt(bytes.NewReader([]byte{0x80}))
	assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))

	_, err = ReadString(bytes.NewReader([]byte{0x05, 'a', 'b'}))
	assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))

	_, err = ReadUint16(bytes.NewReader([]byte{0x01}))
	assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))
}

func TestHugeStringLengthDoesNotAllocateUpFront(t *testing.T) {
	data := AppendVarUInt(nil, 1<<40)
	data = append(data, "short"...)
	_, err := ReadString(bytes.NewReader(data))
	assert.True(t, errors.Is(err, ErrUnexpectedEndOfData))
}

func TestVarUIntOverflow(t *testing.T) {
	data := bytes.Repeat([]byte{0xFF}, 11)
	_, err := ReadVarUInt(bytes.NewReader(data))
	assert.True(t, errors.Is(err, ErrVarUIntOverflow))
}

func TestStringRoundTrip(t *testing.T) {
	for _, s := range []string{"", "UTC", string(bytes.Repeat([]byte("x"), 5000))} {
		got, err := ReadString(bytes.NewReader(AppendString(nil, s)))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
}

func TestBigInt(t *testing.T) {
	minusOne, err := AppendBigInt(nil, big.NewInt(-1), 16, true)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 16), minusOne)

	one, err := AppendBigInt(nil, big.NewInt(1), 4, false)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0}, one)

	_, err = AppendBigInt(nil, big.NewInt(-1), 16, false)
	assert.True(t, errors.Is(err, ErrValueOutOfRange))

	_, err = AppendBigInt(nil, big.NewInt(128), 1, true)
	assert.True(t, errors.Is(err, ErrValueOutOfRange))

	maxUInt128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	minInt256 := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 255))
	tests := []struct {
		value  *big.Int
		size   int
		signed bool
	}{
		{value: maxUInt128, size: 16, signed: false},
		{value: minInt256, size: 32, signed: true},
		{value: big.NewInt(-12345), size: 4, signed: true},
		{value: big.NewInt(0), size: 8, signed: true},
	}
	for _, tt := range tests {
		data, err := AppendBigInt(nil, tt.value, tt.size, tt.signed)
		require.NoError(t, err)
		require.Len(t, data, tt.size)
		got, err := ReadBigInt(bytes.NewReader(data), tt.size, tt.signed)
		require.NoError(t, err)
		assert.Equal(t, 0, tt.value.Cmp(got), "got %s, want %s", got, tt.value)
	}
}
