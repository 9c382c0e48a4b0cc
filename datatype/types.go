// Package datatype describes database column types as immutable recursive
// values.
package datatype

import (
	"fmt"

	"github.com/cube2222/typewire/field"
)

type TypeID int

const (
	TypeIDNothing TypeID = iota
	TypeIDUInt8
	TypeIDUInt16
	TypeIDUInt32
	TypeIDUInt64
	TypeIDUInt128
	TypeIDUInt256
	TypeIDInt8
	TypeIDInt16
	TypeIDInt32
	TypeIDInt64
	TypeIDInt128
	TypeIDInt256
	TypeIDFloat32
	TypeIDFloat64
	TypeIDDate
	TypeIDDate32
	TypeIDDateTime
	TypeIDDateTimeWithTimeZone
	TypeIDDateTime64
	TypeIDDateTime64WithTimeZone
	TypeIDString
	TypeIDFixedString
	TypeIDEnum8
	TypeIDEnum16
	TypeIDDecimal32
	TypeIDDecimal64
	TypeIDDecimal128
	TypeIDDecimal256
	TypeIDUUID
	TypeIDArray
	TypeIDTuple
	TypeIDNamedTuple
	TypeIDSet
	TypeIDInterval
	TypeIDNullable
	TypeIDFunction
	TypeIDAggregateFunction
	TypeIDLowCardinality
	TypeIDMap
	TypeIDIPv4
	TypeIDIPv6
	TypeIDVariant
	TypeIDDynamic
	TypeIDCustom
	TypeIDBool
	TypeIDSimpleAggregateFunction
	TypeIDNested

	NumTypeIDs = iota
)

// Type is a type descriptor. Only the payload belonging to TypeID is
// meaningful. Values are never mutated after construction, so they can be
// shared freely between goroutines.
type Type struct {
	TypeID      TypeID
	FixedString struct {
		Size uint64
	}
	// Decimal is used by Decimal32, Decimal64, Decimal128 and Decimal256.
	Decimal struct {
		Precision uint8
		Scale     uint8
	}
	// DateTime is used by the time zone and DateTime64 variants.
	DateTime struct {
		Precision uint8
		TimeZone  string
	}
	Custom struct {
		Name string
	}
	Array struct {
		Element *Type
	}
	Nullable struct {
		Element *Type
	}
	LowCardinality struct {
		Element *Type
	}
	Map struct {
		Key   *Type
		Value *Type
	}
	Tuple struct {
		Elements []Type
	}
	// Named is used by NamedTuple and Nested.
	Named struct {
		Fields []NamedField
	}
	// Enum is used by Enum8 and Enum16.
	Enum struct {
		Values []EnumValue
	}
	Function struct {
		Arguments []Type
		Return    *Type
	}
	// AggregateFunction is used by AggregateFunction and
	// SimpleAggregateFunction, the latter carries no version.
	AggregateFunction struct {
		Version    uint64
		Name       string
		Parameters []field.Field
		Arguments  []Type
	}
	Variant struct {
		Alternatives []Type
	}
	Dynamic struct {
		MaxTypes uint8
	}
	Interval struct {
		Kind IntervalKind
	}
}

type NamedField struct {
	Name string
	Type Type
}

// EnumValue is one enum member. Enum8 values must fit in an int8.
type EnumValue struct {
	Name  string
	Value int16
}

var (
	Nothing = Type{TypeID: TypeIDNothing}
	UInt8   = Type{TypeID: TypeIDUInt8}
	UInt16  = Type{TypeID: TypeIDUInt16}
	UInt32  = Type{TypeID: TypeIDUInt32}
	UInt64  = Type{TypeID: TypeIDUInt64}
	UInt128 = Type{TypeID: TypeIDUInt128}
	UInt256 = Type{TypeID: TypeIDUInt256}
	Int8    = Type{TypeID: TypeIDInt8}
	Int16   = Type{TypeID: TypeIDInt16}
	Int32   = Type{TypeID: TypeIDInt32}
	Int64   = Type{TypeID: TypeIDInt64}
	Int128  = Type{TypeID: TypeIDInt128}
	Int256  = Type{TypeID: TypeIDInt256}
	Float32 = Type{TypeID: TypeIDFloat32}
	Float64 = Type{TypeID: TypeIDFloat64}
	Date    = Type{TypeID: TypeIDDate}
	Date32  = Type{TypeID: TypeIDDate32}
	// DateTime without a time zone.
	DateTime = Type{TypeID: TypeIDDateTime}
	String   = Type{TypeID: TypeIDString}
	UUID     = Type{TypeID: TypeIDUUID}
	Set      = Type{TypeID: TypeIDSet}
	Bool     = Type{TypeID: TypeIDBool}
	IPv4     = Type{TypeID: TypeIDIPv4}
	IPv6     = Type{TypeID: TypeIDIPv6}
)

func NewFixedString(size uint64) Type {
	t := Type{TypeID: TypeIDFixedString}
	t.FixedString.Size = size
	return t
}

// NewDecimal creates a decimal type. id must be one of the Decimal type ids.
func NewDecimal(id TypeID, precision, scale uint8) Type {
	t := Type{TypeID: id}
	t.Decimal.Precision = precision
	t.Decimal.Scale = scale
	return t
}

func NewDateTimeWithTimeZone(timeZone string) Type {
	t := Type{TypeID: TypeIDDateTimeWithTimeZone}
	t.DateTime.TimeZone = timeZone
	return t
}

// NewDateTime64 creates a DateTime64 type, with a time zone if one is given.
func NewDateTime64(precision uint8, timeZone string) Type {
	t := Type{TypeID: TypeIDDateTime64}
	if timeZone != "" {
		t.TypeID = TypeIDDateTime64WithTimeZone
	}
	t.DateTime.Precision = precision
	t.DateTime.TimeZone = timeZone
	return t
}

func NewCustom(name string) Type {
	t := Type{TypeID: TypeIDCustom}
	t.Custom.Name = name
	return t
}

func NewArray(element Type) Type {
	t := Type{TypeID: TypeIDArray}
	t.Array.Element = &element
	return t
}

func NewNullable(element Type) Type {
	t := Type{TypeID: TypeIDNullable}
	t.Nullable.Element = &element
	return t
}

func NewLowCardinality(element Type) Type {
	t := Type{TypeID: TypeIDLowCardinality}
	t.LowCardinality.Element = &element
	return t
}

func NewMap(key, value Type) Type {
	t := Type{TypeID: TypeIDMap}
	t.Map.Key = &key
	t.Map.Value = &value
	return t
}

func NewTuple(elements ...Type) Type {
	t := Type{TypeID: TypeIDTuple}
	t.Tuple.Elements = elements
	return t
}

func NewNamedTuple(fields ...NamedField) Type {
	t := Type{TypeID: TypeIDNamedTuple}
	t.Named.Fields = fields
	return t
}

func NewNested(fields ...NamedField) Type {
	t := Type{TypeID: TypeIDNested}
	t.Named.Fields = fields
	return t
}

func NewEnum8(values ...EnumValue) Type {
	t := Type{TypeID: TypeIDEnum8}
	t.Enum.Values = values
	return t
}

func NewEnum16(values ...EnumValue) Type {
	t := Type{TypeID: TypeIDEnum16}
	t.Enum.Values = values
	return t
}

func NewFunction(arguments []Type, result Type) Type {
	t := Type{TypeID: TypeIDFunction}
	t.Function.Arguments = arguments
	t.Function.Return = &result
	return t
}

func NewAggregateFunction(version uint64, name string, parameters []field.Field, arguments ...Type) Type {
	t := Type{TypeID: TypeIDAggregateFunction}
	t.AggregateFunction.Version = version
	t.AggregateFunction.Name = name
	t.AggregateFunction.Parameters = parameters
	t.AggregateFunction.Arguments = arguments
	return t
}

func NewSimpleAggregateFunction(name string, parameters []field.Field, arguments ...Type) Type {
	t := Type{TypeID: TypeIDSimpleAggregateFunction}
	t.AggregateFunction.Name = name
	t.AggregateFunction.Parameters = parameters
	t.AggregateFunction.Arguments = arguments
	return t
}

func NewVariant(alternatives ...Type) Type {
	t := Type{TypeID: TypeIDVariant}
	t.Variant.Alternatives = alternatives
	return t
}

func NewDynamic(maxTypes uint8) Type {
	t := Type{TypeID: TypeIDDynamic}
	t.Dynamic.MaxTypes = maxTypes
	return t
}

func NewInterval(kind IntervalKind) Type {
	t := Type{TypeID: TypeIDInterval}
	t.Interval.Kind = kind
	return t
}

// Children returns the direct child types in encoding order.
func (t Type) Children() []Type {
	switch t.TypeID {
	case TypeIDArray:
		return deref(t.Array.Element)
	case TypeIDNullable:
		return deref(t.Nullable.Element)
	case TypeIDLowCardinality:
		return deref(t.LowCardinality.Element)
	case TypeIDMap:
		return append(deref(t.Map.Key), deref(t.Map.Value)...)
	case TypeIDTuple:
		return t.Tuple.Elements
	case TypeIDNamedTuple, TypeIDNested:
		out := make([]Type, len(t.Named.Fields))
		for i := range t.Named.Fields {
			out[i] = t.Named.Fields[i].Type
		}
		return out
	case TypeIDFunction:
		return append(append([]Type{}, t.Function.Arguments...), deref(t.Function.Return)...)
	case TypeIDAggregateFunction, TypeIDSimpleAggregateFunction:
		return t.AggregateFunction.Arguments
	case TypeIDVariant:
		return t.Variant.Alternatives
	}
	return nil
}

func deref(t *Type) []Type {
	if t == nil {
		return nil
	}
	return []Type{*t}
}

// Depth is the nesting depth of t. A type without children has depth 0.
func (t Type) Depth() int {
	max := -1
	for _, child := range t.Children() {
		if d := child.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

func (t Type) Equal(other Type) bool {
	if t.TypeID != other.TypeID {
		return false
	}
	switch t.TypeID {
	case TypeIDFixedString:
		return t.FixedString.Size == other.FixedString.Size
	case TypeIDDecimal32, TypeIDDecimal64, TypeIDDecimal128, TypeIDDecimal256:
		return t.Decimal == other.Decimal
	case TypeIDDateTimeWithTimeZone, TypeIDDateTime64, TypeIDDateTime64WithTimeZone:
		return t.DateTime == other.DateTime
	case TypeIDCustom:
		return t.Custom.Name == other.Custom.Name
	case TypeIDNamedTuple, TypeIDNested:
		if len(t.Named.Fields) != len(other.Named.Fields) {
			return false
		}
		for i := range t.Named.Fields {
			if t.Named.Fields[i].Name != other.Named.Fields[i].Name {
				return false
			}
		}
	case TypeIDEnum8, TypeIDEnum16:
		if len(t.Enum.Values) != len(other.Enum.Values) {
			return false
		}
		for i := range t.Enum.Values {
			if t.Enum.Values[i] != other.Enum.Values[i] {
				return false
			}
		}
		return true
	case TypeIDFunction:
		if len(t.Function.Arguments) != len(other.Function.Arguments) {
			return false
		}
	case TypeIDAggregateFunction, TypeIDSimpleAggregateFunction:
		a, b := t.AggregateFunction, other.AggregateFunction
		if a.Version != b.Version || a.Name != b.Name || len(a.Parameters) != len(b.Parameters) {
			return false
		}
		for i := range a.Parameters {
			if !a.Parameters[i].Equal(b.Parameters[i]) {
				return false
			}
		}
	case TypeIDDynamic:
		return t.Dynamic.MaxTypes == other.Dynamic.MaxTypes
	case TypeIDInterval:
		return t.Interval.Kind == other.Interval.Kind
	}

	children, otherChildren := t.Children(), other.Children()
	if len(children) != len(otherChildren) {
		return false
	}
	for i := range children {
		if !children[i].Equal(otherChildren[i]) {
			return false
		}
	}
	return true
}

func (id TypeID) String() string {
	if id >= 0 && int(id) < len(typeIDNames) {
		return typeIDNames[id]
	}
	return fmt.Sprintf("TypeID(%d)", int(id))
}

var typeIDNames = [NumTypeIDs]string{
	TypeIDNothing:                 "Nothing",
	TypeIDUInt8:                   "UInt8",
	TypeIDUInt16:                  "UInt16",
	TypeIDUInt32:                  "UInt32",
	TypeIDUInt64:                  "UInt64",
	TypeIDUInt128:                 "UInt128",
	TypeIDUInt256:                 "UInt256",
	TypeIDInt8:                    "Int8",
	TypeIDInt16:                   "Int16",
	TypeIDInt32:                   "Int32",
	TypeIDInt64:                   "Int64",
	TypeIDInt128:                  "Int128",
	TypeIDInt256:                  "Int256",
	TypeIDFloat32:                 "Float32",
	TypeIDFloat64:                 "Float64",
	TypeIDDate:                    "Date",
	TypeIDDate32:                  "Date32",
	TypeIDDateTime:                "DateTime",
	TypeIDDateTimeWithTimeZone:    "DateTimeWithTimeZone",
	TypeIDDateTime64:              "DateTime64",
	TypeIDDateTime64WithTimeZone:  "DateTime64WithTimeZone",
	TypeIDString:                  "String",
	TypeIDFixedString:             "FixedString",
	TypeIDEnum8:                   "Enum8",
	TypeIDEnum16:                  "Enum16",
	TypeIDDecimal32:               "Decimal32",
	TypeIDDecimal64:               "Decimal64",
	TypeIDDecimal128:              "Decimal128",
	TypeIDDecimal256:              "Decimal256",
	TypeIDUUID:                    "UUID",
	TypeIDArray:                   "Array",
	TypeIDTuple:                   "Tuple",
	TypeIDNamedTuple:              "NamedTuple",
	TypeIDSet:                     "Set",
	TypeIDInterval:                "Interval",
	TypeIDNullable:                "Nullable",
	TypeIDFunction:                "Function",
	TypeIDAggregateFunction:       "AggregateFunction",
	TypeIDLowCardinality:          "LowCardinality",
	TypeIDMap:                     "Map",
	TypeIDIPv4:                    "IPv4",
	TypeIDIPv6:                    "IPv6",
	TypeIDVariant:                 "Variant",
	TypeIDDynamic:                 "Dynamic",
	TypeIDCustom:                  "Custom",
	TypeIDBool:                    "Bool",
	TypeIDSimpleAggregateFunction: "SimpleAggregateFunction",
	TypeIDNested:                  "Nested",
}
