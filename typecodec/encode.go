package typecodec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/field"
	"github.com/cube2222/typewire/wire"
)

// Encode returns the binary encoding of t.
func Encode(t datatype.Type) ([]byte, error) {
	return Append(nil, t)
}

// EncodeTo writes the binary encoding of t to w.
func EncodeTo(w io.Writer, t datatype.Type) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, "couldn't write encoded type")
	}
	return nil
}

// Append appends the binary encoding of t to dst. The type is written
// depth-first: a tag, the kind's fixed parameters, then every child.
func Append(dst []byte, t datatype.Type) ([]byte, error) {
	tag, ok := TagOf(t.TypeID)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTypeTag, "type id %d", int(t.TypeID))
	}
	dst = append(dst, byte(tag))

	var err error
	switch t.TypeID {
	case datatype.TypeIDDateTimeWithTimeZone:
		dst = wire.AppendString(dst, t.DateTime.TimeZone)

	case datatype.TypeIDDateTime64:
		dst = append(dst, t.DateTime.Precision)

	case datatype.TypeIDDateTime64WithTimeZone:
		dst = append(dst, t.DateTime.Precision)
		dst = wire.AppendString(dst, t.DateTime.TimeZone)

	case datatype.TypeIDFixedString:
		dst = wire.AppendVarUInt(dst, t.FixedString.Size)

	case datatype.TypeIDDecimal32, datatype.TypeIDDecimal64, datatype.TypeIDDecimal128, datatype.TypeIDDecimal256:
		dst = append(dst, t.Decimal.Precision, t.Decimal.Scale)

	case datatype.TypeIDEnum8, datatype.TypeIDEnum16:
		dst = wire.AppendVarUInt(dst, uint64(len(t.Enum.Values)))
		for _, v := range t.Enum.Values {
			dst = wire.AppendString(dst, v.Name)
			if t.TypeID == datatype.TypeIDEnum16 {
				dst = binary.LittleEndian.AppendUint16(dst, uint16(v.Value))
				continue
			}
			if v.Value < math.MinInt8 || v.Value > math.MaxInt8 {
				return nil, errors.Wrapf(ErrInvalidEnumValueWidth, "Enum8 value %s = %d", v.Name, v.Value)
			}
			dst = append(dst, byte(int8(v.Value)))
		}

	case datatype.TypeIDCustom:
		dst = wire.AppendString(dst, t.Custom.Name)

	case datatype.TypeIDArray:
		dst, err = appendChild(dst, t.Array.Element)

	case datatype.TypeIDNullable:
		dst, err = appendChild(dst, t.Nullable.Element)

	case datatype.TypeIDLowCardinality:
		dst, err = appendChild(dst, t.LowCardinality.Element)

	case datatype.TypeIDMap:
		if dst, err = appendChild(dst, t.Map.Key); err != nil {
			return nil, err
		}
		dst, err = appendChild(dst, t.Map.Value)

	case datatype.TypeIDTuple:
		dst, err = appendList(dst, t.Tuple.Elements)

	case datatype.TypeIDNamedTuple, datatype.TypeIDNested:
		dst = wire.AppendVarUInt(dst, uint64(len(t.Named.Fields)))
		for i := range t.Named.Fields {
			dst = wire.AppendString(dst, t.Named.Fields[i].Name)
			if dst, err = Append(dst, t.Named.Fields[i].Type); err != nil {
				return nil, err
			}
		}

	case datatype.TypeIDFunction:
		if dst, err = appendList(dst, t.Function.Arguments); err != nil {
			return nil, err
		}
		dst, err = appendChild(dst, t.Function.Return)

	case datatype.TypeIDAggregateFunction, datatype.TypeIDSimpleAggregateFunction:
		if t.TypeID == datatype.TypeIDAggregateFunction {
			dst = wire.AppendVarUInt(dst, t.AggregateFunction.Version)
		}
		dst = wire.AppendString(dst, t.AggregateFunction.Name)
		dst = wire.AppendVarUInt(dst, uint64(len(t.AggregateFunction.Parameters)))
		for i := range t.AggregateFunction.Parameters {
			if dst, err = field.Append(dst, t.AggregateFunction.Parameters[i]); err != nil {
				return nil, errors.Wrapf(err, "couldn't encode parameter %d of %s", i, t.AggregateFunction.Name)
			}
		}
		dst, err = appendList(dst, t.AggregateFunction.Arguments)

	case datatype.TypeIDVariant:
		dst, err = appendList(dst, t.Variant.Alternatives)

	case datatype.TypeIDDynamic:
		dst = append(dst, t.Dynamic.MaxTypes)

	case datatype.TypeIDInterval:
		code, ok := IntervalCodeOf(t.Interval.Kind)
		if !ok {
			return nil, errors.Wrapf(ErrInvalidIntervalKind, "interval kind %d", int(t.Interval.Kind))
		}
		dst = append(dst, code)
	}
	if err != nil {
		return nil, err
	}
	return dst, nil
}

func appendChild(dst []byte, child *datatype.Type) ([]byte, error) {
	if child == nil {
		return nil, ErrIncompleteType
	}
	return Append(dst, *child)
}

func appendList(dst []byte, types []datatype.Type) ([]byte, error) {
	dst = wire.AppendVarUInt(dst, uint64(len(types)))
	var err error
	for i := range types {
		if dst, err = Append(dst, types[i]); err != nil {
			return nil, err
		}
	}
	return dst, nil
}
