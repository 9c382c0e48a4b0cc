// Package field models the literal values that travel as aggregate
// function parameters, and their binary encoding.
package field

import (
	"fmt"
	"math"
	"math/big"
	"net/netip"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies a Field variant. Its value is the variant's wire tag.
type Kind byte

const (
	KindNull                   Kind = 0x00
	KindUInt64                 Kind = 0x01
	KindInt64                  Kind = 0x02
	KindUInt128                Kind = 0x03
	KindInt128                 Kind = 0x04
	KindUInt128Alt             Kind = 0x05
	KindInt128Alt              Kind = 0x06
	KindFloat64                Kind = 0x07
	KindDecimal32              Kind = 0x08
	KindDecimal64              Kind = 0x09
	KindDecimal128             Kind = 0x0A
	KindDecimal256             Kind = 0x0B
	KindString                 Kind = 0x0C
	KindArray                  Kind = 0x0D
	KindTuple                  Kind = 0x0E
	KindMap                    Kind = 0x0F
	KindIPv4                   Kind = 0x10
	KindIPv6                   Kind = 0x11
	KindUUID                   Kind = 0x12
	KindBool                   Kind = 0x13
	KindObject                 Kind = 0x14
	KindAggregateFunctionState Kind = 0x15
	KindNegativeInfinity       Kind = 0xFE
	KindPositiveInfinity       Kind = 0xFF
)

var kindNames = map[Kind]string{
	KindNull:                   "Null",
	KindUInt64:                 "UInt64",
	KindInt64:                  "Int64",
	KindUInt128:                "UInt128",
	KindInt128:                 "Int128",
	KindUInt128Alt:             "UInt128",
	KindInt128Alt:              "Int128",
	KindFloat64:                "Float64",
	KindDecimal32:              "Decimal32",
	KindDecimal64:              "Decimal64",
	KindDecimal128:             "Decimal128",
	KindDecimal256:             "Decimal256",
	KindString:                 "String",
	KindArray:                  "Array",
	KindTuple:                  "Tuple",
	KindMap:                    "Map",
	KindIPv4:                   "IPv4",
	KindIPv6:                   "IPv6",
	KindUUID:                   "UUID",
	KindBool:                   "Bool",
	KindObject:                 "Object",
	KindAggregateFunctionState: "AggregateFunctionState",
	KindNegativeInfinity:       "NegativeInfinity",
	KindPositiveInfinity:       "PositiveInfinity",
}

func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(0x%02X)", byte(k))
}

// Field is a tagged literal value. Only the members belonging to Kind are
// meaningful.
type Field struct {
	Kind Kind

	UInt  uint64
	Int   int64
	Float float64
	Bool  bool
	// Big holds 128-bit integers and the unscaled value of decimals.
	Big   *big.Int
	Scale uint64
	Str   string
	Data  []byte
	Addr  netip.Addr
	UUID  uuid.UUID

	Elements []Field
	Entries  []MapEntry
	Object   []ObjectEntry
}

type MapEntry struct {
	Key   Field
	Value Field
}

type ObjectEntry struct {
	Key   string
	Value Field
}

func NewNull() Field {
	return Field{Kind: KindNull}
}

func NewUInt64(v uint64) Field {
	return Field{Kind: KindUInt64, UInt: v}
}

func NewInt64(v int64) Field {
	return Field{Kind: KindInt64, Int: v}
}

func NewUInt128(v *big.Int) Field {
	return Field{Kind: KindUInt128, Big: v}
}

func NewInt128(v *big.Int) Field {
	return Field{Kind: KindInt128, Big: v}
}

func NewFloat64(v float64) Field {
	return Field{Kind: KindFloat64, Float: v}
}

// NewDecimal creates a decimal of the given kind holding value * 10^-scale.
func NewDecimal(kind Kind, value *big.Int, scale uint64) Field {
	return Field{Kind: kind, Big: value, Scale: scale}
}

func NewString(v string) Field {
	return Field{Kind: KindString, Str: v}
}

func NewArray(elements ...Field) Field {
	return Field{Kind: KindArray, Elements: elements}
}

func NewTuple(elements ...Field) Field {
	return Field{Kind: KindTuple, Elements: elements}
}

func NewMap(entries ...MapEntry) Field {
	return Field{Kind: KindMap, Entries: entries}
}

func NewIPv4(addr netip.Addr) Field {
	return Field{Kind: KindIPv4, Addr: addr}
}

func NewIPv6(addr netip.Addr) Field {
	return Field{Kind: KindIPv6, Addr: addr}
}

func NewUUID(id uuid.UUID) Field {
	return Field{Kind: KindUUID, UUID: id}
}

func NewBool(v bool) Field {
	return Field{Kind: KindBool, Bool: v}
}

func NewObject(entries ...ObjectEntry) Field {
	return Field{Kind: KindObject, Object: entries}
}

func NewAggregateFunctionState(name string, data []byte) Field {
	return Field{Kind: KindAggregateFunctionState, Str: name, Data: data}
}

func NewNegativeInfinity() Field {
	return Field{Kind: KindNegativeInfinity}
}

func NewPositiveInfinity() Field {
	return Field{Kind: KindPositiveInfinity}
}

func (f Field) Equal(other Field) bool {
	if f.Kind != other.Kind {
		return false
	}
	switch f.Kind {
	case KindNull, KindNegativeInfinity, KindPositiveInfinity:
		return true
	case KindUInt64:
		return f.UInt == other.UInt
	case KindInt64:
		return f.Int == other.Int
	case KindUInt128, KindInt128, KindUInt128Alt, KindInt128Alt:
		return bigOrZero(f.Big).Cmp(bigOrZero(other.Big)) == 0
	case KindFloat64:
		return math.Float64bits(f.Float) == math.Float64bits(other.Float)
	case KindDecimal32, KindDecimal64, KindDecimal128, KindDecimal256:
		return f.Scale == other.Scale && bigOrZero(f.Big).Cmp(bigOrZero(other.Big)) == 0
	case KindString:
		return f.Str == other.Str
	case KindArray, KindTuple:
		if len(f.Elements) != len(other.Elements) {
			return false
		}
		for i := range f.Elements {
			if !f.Elements[i].Equal(other.Elements[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(f.Entries) != len(other.Entries) {
			return false
		}
		for i := range f.Entries {
			if !f.Entries[i].Key.Equal(other.Entries[i].Key) || !f.Entries[i].Value.Equal(other.Entries[i].Value) {
				return false
			}
		}
		return true
	case KindIPv4, KindIPv6:
		return f.Addr == other.Addr
	case KindUUID:
		return f.UUID == other.UUID
	case KindBool:
		return f.Bool == other.Bool
	case KindObject:
		if len(f.Object) != len(other.Object) {
			return false
		}
		for i := range f.Object {
			if f.Object[i].Key != other.Object[i].Key || !f.Object[i].Value.Equal(other.Object[i].Value) {
				return false
			}
		}
		return true
	case KindAggregateFunctionState:
		return f.Str == other.Str && string(f.Data) == string(other.Data)
	}
	return false
}

// String renders the field as a literal.
func (f Field) String() string {
	switch f.Kind {
	case KindNull:
		return "NULL"
	case KindUInt64:
		return strconv.FormatUint(f.UInt, 10)
	case KindInt64:
		return strconv.FormatInt(f.Int, 10)
	case KindUInt128, KindInt128, KindUInt128Alt, KindInt128Alt:
		return bigOrZero(f.Big).String()
	case KindFloat64:
		return formatFloat(f.Float)
	case KindDecimal32, KindDecimal64, KindDecimal128, KindDecimal256:
		return decimal.NewFromBigInt(bigOrZero(f.Big), -int32(f.Scale)).StringFixed(int32(f.Scale))
	case KindString:
		return Quote(f.Str)
	case KindArray:
		return "[" + joinFields(f.Elements) + "]"
	case KindTuple:
		return "(" + joinFields(f.Elements) + ")"
	case KindMap:
		parts := make([]string, len(f.Entries))
		for i, entry := range f.Entries {
			parts[i] = fmt.Sprintf("%s: %s", entry.Key, entry.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindIPv4, KindIPv6:
		return Quote(f.Addr.String())
	case KindUUID:
		return Quote(f.UUID.String())
	case KindBool:
		return strconv.FormatBool(f.Bool)
	case KindObject:
		parts := make([]string, len(f.Object))
		for i, entry := range f.Object {
			parts[i] = fmt.Sprintf("%s: %s", Quote(entry.Key), entry.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindAggregateFunctionState:
		return fmt.Sprintf("AggregateFunctionState(%s, %d bytes)", Quote(f.Str), len(f.Data))
	case KindNegativeInfinity:
		return "-Inf"
	case KindPositiveInfinity:
		return "+Inf"
	}
	return f.Kind.String()
}

// Quote renders s as a single-quoted literal.
func Quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'', '\\':
			sb.WriteByte('\\')
			sb.WriteByte(c)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case 0:
			sb.WriteString(`\0`)
		default:
			sb.WriteByte(c)
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func joinFields(fields []Field) string {
	parts := make([]string, len(fields))
	for i := range fields {
		parts[i] = fields[i].String()
	}
	return strings.Join(parts, ", ")
}

func bigOrZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}
