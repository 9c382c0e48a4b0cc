package typename

import (
	"math"
	"sort"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/field"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  datatype.Type
	}{
		{input: "UInt8", want: datatype.UInt8},
		{input: "Nullable(String)", want: datatype.NewNullable(datatype.String)},
		{input: " Array ( Nullable ( String ) ) ", want: datatype.NewArray(datatype.NewNullable(datatype.String))},
		{input: "Map(String, Array(UInt64))", want: datatype.NewMap(datatype.String, datatype.NewArray(datatype.UInt64))},
		{input: "FixedString(16)", want: datatype.NewFixedString(16)},
		{input: "Decimal128(38, 10)", want: datatype.NewDecimal(datatype.TypeIDDecimal128, 38, 10)},
		{input: "DateTime", want: datatype.DateTime},
		{input: "DateTime('UTC')", want: datatype.NewDateTimeWithTimeZone("UTC")},
		{input: "DateTime64(3)", want: datatype.NewDateTime64(3, "")},
		{input: "DateTime64(9, 'Asia/Tokyo')", want: datatype.NewDateTime64(9, "Asia/Tokyo")},
		{
			input: "Enum8('a' = 1, 'b' = -128)",
			want:  datatype.NewEnum8(datatype.EnumValue{Name: "a", Value: 1}, datatype.EnumValue{Name: "b", Value: -128}),
		},
		{input: "Enum16('x' = -1000)", want: datatype.NewEnum16(datatype.EnumValue{Name: "x", Value: -1000})},
		{input: "Tuple(UInt8, String)", want: datatype.NewTuple(datatype.UInt8, datatype.String)},
		{input: "Tuple()", want: datatype.NewTuple()},
		{
			input: "Tuple(a UInt8, `b c` Array(String))",
			want: datatype.NewNamedTuple(
				datatype.NamedField{Name: "a", Type: datatype.UInt8},
				datatype.NamedField{Name: "b c", Type: datatype.NewArray(datatype.String)},
			),
		},
		{input: "Nested(k String, v UInt64)", want: datatype.NewNested(datatype.NamedField{Name: "k", Type: datatype.String}, datatype.NamedField{Name: "v", Type: datatype.UInt64})},
		{input: "Function((UInt8, String) -> Bool)", want: datatype.NewFunction([]datatype.Type{datatype.UInt8, datatype.String}, datatype.Bool)},
		{input: "Function(() -> Nothing)", want: datatype.NewFunction(nil, datatype.Nothing)},
		{input: "AggregateFunction(sum, UInt64)", want: datatype.NewAggregateFunction(0, "sum", nil, datatype.UInt64)},
		{
			input: "AggregateFunction(2, quantiles(0.5, 0.9), Float64)",
			want:  datatype.NewAggregateFunction(2, "quantiles", []field.Field{field.NewFloat64(0.5), field.NewFloat64(0.9)}, datatype.Float64),
		},
		{
			input: "AggregateFunction(sumMap([1, -2], ('a', NULL), -Inf), Map(String, UInt64))",
			want: datatype.NewAggregateFunction(0, "sumMap", []field.Field{
				field.NewArray(field.NewUInt64(1), field.NewInt64(-2)),
				field.NewTuple(field.NewString("a"), field.NewNull()),
				field.NewNegativeInfinity(),
			}, datatype.NewMap(datatype.String, datatype.UInt64)),
		},
		{input: "AggregateFunction(count)", want: datatype.NewAggregateFunction(0, "count", nil)},
		{input: "SimpleAggregateFunction(anyLast, String)", want: datatype.NewSimpleAggregateFunction("anyLast", nil, datatype.String)},
		{input: "Variant(String, UInt64)", want: datatype.NewVariant(datatype.String, datatype.UInt64)},
		{input: "Dynamic", want: datatype.NewDynamic(32)},
		{input: "Dynamic(max_types=8)", want: datatype.NewDynamic(8)},
		{input: "IntervalYear", want: datatype.NewInterval(datatype.IntervalYear)},
		{input: "Ring", want: datatype.NewCustom("Ring")},
		{input: "LowCardinality(Nullable(String))", want: datatype.NewLowCardinality(datatype.NewNullable(datatype.String))},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseStringRoundTrip(t *testing.T) {
	types := []datatype.Type{
		datatype.NewArray(datatype.NewLowCardinality(datatype.NewNullable(datatype.String))),
		datatype.NewNamedTuple(datatype.NamedField{Name: "select", Type: datatype.UInt8}, datatype.NamedField{Name: "1st", Type: datatype.String}),
		datatype.NewEnum8(datatype.EnumValue{Name: `it's \ fine`, Value: 3}),
		datatype.NewAggregateFunction(1, "quantilesTiming", []field.Field{field.NewFloat64(0.5), field.NewFloat64(math.Inf(-1))}, datatype.UInt32),
		datatype.NewAggregateFunction(0, "argMax", []field.Field{field.NewString("x"), field.NewNull()}, datatype.String, datatype.DateTime),
		datatype.NewDateTime64(6, "America/New_York"),
		datatype.NewDynamic(0),
		datatype.NewNested(datatype.NamedField{Name: "a", Type: datatype.NewMap(datatype.String, datatype.NewVariant(datatype.Date, datatype.Date32))}),
		datatype.NewFunction([]datatype.Type{datatype.NewFunction(nil, datatype.UInt8)}, datatype.NewTuple(datatype.IPv4, datatype.IPv6)),
	}
	for _, want := range types {
		t.Run(want.String(), func(t *testing.T) {
			got, err := Parse(want.String())
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %s, want %s", got, want)
		})
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"Array",
		"Array(",
		"Array(UInt8",
		"UInt8(3)",
		"Decimal32",
		"Map(String)",
		"Enum8('a' = 1000000)",
		"Enum8('a')",
		"DateTime('UTC'",
		"FixedString(-1)",
		"Nullable(String) extra",
		"Function(UInt8 -> UInt8)",
		"Dynamic(types=3)",
		"Tuple(a UInt8,)",
		"'quoted'",
		"Array(UInt8)?",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.True(t, errors.Is(err, ErrSyntax), "got %v", err)
		})
	}
}

func TestKnownNames(t *testing.T) {
	names := KnownNames()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Contains(t, names, "IntervalYear")
	assert.Contains(t, names, "LowCardinality")
	for _, name := range names {
		typ, err := Parse(name)
		if err != nil {
			assert.True(t, errors.Is(err, ErrSyntax), "%s: got %v", name, err)
			continue
		}
		assert.NotEqual(t, datatype.TypeIDCustom, typ.TypeID, name)
	}
}
