package field

import (
	"bytes"
	"math"
	"math/big"
	"net/netip"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/typewire/wire"
)

func TestAppend(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  []byte
	}{
		{name: "null", field: NewNull(), want: []byte{0x00}},
		{name: "uint64", field: NewUInt64(300), want: []byte{0x01, 0xAC, 0x02}},
		{name: "int64 negative", field: NewInt64(-1), want: []byte{0x02, 0x01}},
		{name: "int128", field: NewInt128(big.NewInt(-2)), want: append([]byte{0x04, 0xFE}, bytes.Repeat([]byte{0xFF}, 15)...)},
		{name: "float64", field: NewFloat64(1), want: []byte{0x07, 0, 0, 0, 0, 0, 0, 0xF0, 0x3F}},
		{name: "decimal32", field: NewDecimal(KindDecimal32, big.NewInt(1234), 2), want: []byte{0x08, 0x02, 0xD2, 0x04, 0, 0}},
		{name: "string", field: NewString("ab"), want: []byte{0x0C, 0x02, 'a', 'b'}},
		{name: "array", field: NewArray(NewUInt64(1), NewNull()), want: []byte{0x0D, 0x02, 0x01, 0x01, 0x00}},
		{name: "ipv4", field: NewIPv4(netip.MustParseAddr("1.2.3.4")), want: []byte{0x10, 4, 3, 2, 1}},
		{name: "bool", field: NewBool(true), want: []byte{0x13, 0x01}},
		{name: "negative infinity", field: NewNegativeInfinity(), want: []byte{0xFE}},
		{name: "positive infinity", field: NewPositiveInfinity(), want: []byte{0xFF}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Append(nil, tt.field)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	maxUInt128 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	fields := []Field{
		NewNull(),
		NewUInt64(math.MaxUint64),
		NewInt64(math.MinInt64),
		NewUInt128(maxUInt128),
		NewInt128(big.NewInt(-42)),
		{Kind: KindUInt128Alt, Big: big.NewInt(7)},
		{Kind: KindInt128Alt, Big: big.NewInt(-7)},
		NewFloat64(math.Pi),
		NewFloat64(math.Inf(-1)),
		NewDecimal(KindDecimal64, big.NewInt(-99999), 3),
		NewDecimal(KindDecimal128, new(big.Int).Lsh(big.NewInt(1), 100), 10),
		NewDecimal(KindDecimal256, new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 200)), 40),
		NewString(""),
		NewString("quantile"),
		NewArray(),
		NewTuple(NewUInt64(1), NewString("x"), NewArray(NewFloat64(0.5))),
		NewMap(MapEntry{Key: NewString("k"), Value: NewInt64(-3)}),
		NewIPv4(netip.MustParseAddr("192.168.0.1")),
		NewIPv6(netip.MustParseAddr("2001:db8::1")),
		NewUUID(uuid.MustParse("61f0c404-5cb3-11e7-907b-a6006ad3dba0")),
		NewBool(false),
		NewObject(ObjectEntry{Key: "a", Value: NewObject(ObjectEntry{Key: "b", Value: NewNull()})}),
		NewAggregateFunctionState("sum", []byte{1, 2, 3}),
		NewNegativeInfinity(),
		NewPositiveInfinity(),
	}
	for _, f := range fields {
		t.Run(f.String(), func(t *testing.T) {
			data, err := Append(nil, f)
			require.NoError(t, err)

			r := bytes.NewReader(data)
			got, err := Read(r, 0)
			require.NoError(t, err)
			assert.Equal(t, 0, r.Len(), "field must consume exactly its own bytes")
			assert.True(t, f.Equal(got), "got %s, want %s", got, f)

			again, err := Append(nil, got)
			require.NoError(t, err)
			assert.Equal(t, data, again)
		})
	}
}

func TestAlternativeTagsArePreserved(t *testing.T) {
	data := append([]byte{0x05, 0x07}, make([]byte, 15)...)
	got, err := Read(bytes.NewReader(data), 0)
	require.NoError(t, err)
	assert.Equal(t, KindUInt128Alt, got.Kind)
	assert.Equal(t, "UInt128", got.Kind.String())

	again, err := Append(nil, got)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{name: "empty", data: nil, want: wire.ErrUnexpectedEndOfData},
		{name: "unknown tag", data: []byte{0x16}, want: ErrUnknownFieldTag},
		{name: "truncated uint128", data: []byte{0x03, 0x01}, want: wire.ErrUnexpectedEndOfData},
		{name: "truncated array", data: []byte{0x0D, 0x02, 0x00}, want: wire.ErrUnexpectedEndOfData},
		{name: "invalid bool", data: []byte{0x13, 0x02}, want: ErrInvalidBool},
		{name: "truncated string", data: []byte{0x0C, 0x03, 'a'}, want: wire.ErrUnexpectedEndOfData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.data), 0)
			assert.True(t, errors.Is(err, tt.want), "got %v, want %v", err, tt.want)
		})
	}
}

func TestReadDepthGuard(t *testing.T) {
	nested := func(depth int) []byte {
		var data []byte
		for i := 0; i < depth; i++ {
			data = append(data, byte(KindArray), 0x01)
		}
		return append(data, byte(KindNull))
	}

	_, err := Read(bytes.NewReader(nested(4)), 4)
	require.NoError(t, err)

	_, err = Read(bytes.NewReader(nested(5)), 4)
	assert.True(t, errors.Is(err, wire.ErrMaxDepthExceeded))
}

func TestAppendRejectsOutOfRange(t *testing.T) {
	_, err := Append(nil, NewUInt128(big.NewInt(-1)))
	assert.True(t, errors.Is(err, wire.ErrValueOutOfRange))

	_, err = Append(nil, NewDecimal(KindDecimal32, big.NewInt(1<<40), 0))
	assert.True(t, errors.Is(err, wire.ErrValueOutOfRange))

	_, err = Append(nil, NewIPv4(netip.MustParseAddr("::1")))
	assert.True(t, errors.Is(err, ErrInvalidAddress))

	_, err = Append(nil, Field{Kind: 0x40})
	assert.True(t, errors.Is(err, ErrUnknownFieldTag))
}

func TestString(t *testing.T) {
	tests := []struct {
		field Field
		want  string
	}{
		{field: NewNull(), want: "NULL"},
		{field: NewInt64(-5), want: "-5"},
		{field: NewFloat64(2), want: "2.0"},
		{field: NewFloat64(0.25), want: "0.25"},
		{field: NewDecimal(KindDecimal32, big.NewInt(-1234), 2), want: "-12.34"},
		{field: NewString("it's"), want: `'it\'s'`},
		{field: NewArray(NewUInt64(1), NewUInt64(2)), want: "[1, 2]"},
		{field: NewTuple(NewString("a"), NewNull()), want: "('a', NULL)"},
		{field: NewMap(MapEntry{Key: NewString("k"), Value: NewUInt64(1)}), want: "{'k': 1}"},
		{field: NewPositiveInfinity(), want: "+Inf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.field.String())
	}
}
