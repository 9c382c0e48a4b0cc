package typecodec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/cube2222/typewire/datatype"
	"github.com/cube2222/typewire/field"
	"github.com/cube2222/typewire/wire"
)

// DefaultMaxDepth bounds type nesting when a Decoder doesn't set MaxDepth.
const DefaultMaxDepth = 1000

// Preallocation hint cap for counts read from untrusted input.
const maxPreallocation = 64

// Decoder holds decoding limits. The zero value is ready to use.
type Decoder struct {
	// MaxDepth is the deepest nesting level accepted, the top-level type
	// being level 0. It also bounds nesting inside aggregate function
	// parameters.
	MaxDepth int
	// AllowTrailingData makes Decode ignore bytes left after the type.
	AllowTrailingData bool
}

// Decode decodes a single type which must span the whole of data.
func Decode(data []byte) (datatype.Type, error) {
	return Decoder{}.Decode(data)
}

// DecodeFrom decodes one type from r, leaving r positioned right after it.
func DecodeFrom(r wire.Reader) (datatype.Type, error) {
	return Decoder{}.DecodeFrom(r)
}

func (d Decoder) Decode(data []byte) (datatype.Type, error) {
	r := bytes.NewReader(data)
	t, err := d.DecodeFrom(r)
	if err != nil {
		return datatype.Type{}, err
	}
	if !d.AllowTrailingData && r.Len() > 0 {
		return datatype.Type{}, errors.Wrapf(ErrTrailingData, "%d bytes left", r.Len())
	}
	return t, nil
}

func (d Decoder) DecodeFrom(r wire.Reader) (datatype.Type, error) {
	state := decodeState{r: r, maxDepth: d.maxDepth()}
	return state.decode(0)
}

// DecodeReader decodes one type from any io.Reader. Readers without
// ReadByte are buffered, so more bytes than the type occupies may be
// consumed from them.
func (d Decoder) DecodeReader(r io.Reader) (datatype.Type, error) {
	if wr, ok := r.(wire.Reader); ok {
		return d.DecodeFrom(wr)
	}
	return d.DecodeFrom(bufio.NewReader(r))
}

func (d Decoder) maxDepth() int {
	if d.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return d.MaxDepth
}

type decodeState struct {
	r        wire.Reader
	maxDepth int
}

func (s *decodeState) decode(depth int) (datatype.Type, error) {
	if depth > s.maxDepth {
		return datatype.Type{}, errors.Wrapf(ErrMaxDepthExceeded, "limit %d", s.maxDepth)
	}
	b, err := wire.ReadByte(s.r)
	if err != nil {
		return datatype.Type{}, errors.Wrap(err, "couldn't read type tag")
	}
	id, ok := TypeIDOf(Tag(b))
	if !ok {
		return datatype.Type{}, errors.Wrapf(ErrUnknownTypeTag, "tag 0x%02X", b)
	}

	t := datatype.Type{TypeID: id}
	switch id {
	case datatype.TypeIDDateTimeWithTimeZone:
		if t.DateTime.TimeZone, err = wire.ReadString(s.r); err != nil {
			return datatype.Type{}, errors.Wrap(err, "couldn't read DateTime time zone")
		}

	case datatype.TypeIDDateTime64, datatype.TypeIDDateTime64WithTimeZone:
		if t.DateTime.Precision, err = wire.ReadByte(s.r); err != nil {
			return datatype.Type{}, errors.Wrap(err, "couldn't read DateTime64 precision")
		}
		if id == datatype.TypeIDDateTime64WithTimeZone {
			if t.DateTime.TimeZone, err = wire.ReadString(s.r); err != nil {
				return datatype.Type{}, errors.Wrap(err, "couldn't read DateTime64 time zone")
			}
		}

	case datatype.TypeIDFixedString:
		if t.FixedString.Size, err = wire.ReadVarUInt(s.r); err != nil {
			return datatype.Type{}, errors.Wrap(err, "couldn't read FixedString size")
		}

	case datatype.TypeIDDecimal32, datatype.TypeIDDecimal64, datatype.TypeIDDecimal128, datatype.TypeIDDecimal256:
		if t.Decimal.Precision, err = wire.ReadByte(s.r); err != nil {
			return datatype.Type{}, errors.Wrapf(err, "couldn't read %s precision", id)
		}
		if t.Decimal.Scale, err = wire.ReadByte(s.r); err != nil {
			return datatype.Type{}, errors.Wrapf(err, "couldn't read %s scale", id)
		}

	case datatype.TypeIDEnum8, datatype.TypeIDEnum16:
		if t.Enum.Values, err = s.decodeEnumValues(id); err != nil {
			return datatype.Type{}, err
		}

	case datatype.TypeIDCustom:
		if t.Custom.Name, err = wire.ReadString(s.r); err != nil {
			return datatype.Type{}, errors.Wrap(err, "couldn't read custom type name")
		}

	case datatype.TypeIDArray:
		t.Array.Element, err = s.decodeChild(depth)

	case datatype.TypeIDNullable:
		t.Nullable.Element, err = s.decodeChild(depth)

	case datatype.TypeIDLowCardinality:
		t.LowCardinality.Element, err = s.decodeChild(depth)

	case datatype.TypeIDMap:
		if t.Map.Key, err = s.decodeChild(depth); err != nil {
			return datatype.Type{}, err
		}
		t.Map.Value, err = s.decodeChild(depth)

	case datatype.TypeIDTuple:
		t.Tuple.Elements, err = s.decodeList(depth, "tuple element count")

	case datatype.TypeIDNamedTuple, datatype.TypeIDNested:
		t.Named.Fields, err = s.decodeNamedFields(depth)

	case datatype.TypeIDFunction:
		if t.Function.Arguments, err = s.decodeList(depth, "function argument count"); err != nil {
			return datatype.Type{}, err
		}
		t.Function.Return, err = s.decodeChild(depth)

	case datatype.TypeIDAggregateFunction, datatype.TypeIDSimpleAggregateFunction:
		err = s.decodeAggregateFunction(&t, depth)

	case datatype.TypeIDVariant:
		t.Variant.Alternatives, err = s.decodeList(depth, "variant count")

	case datatype.TypeIDDynamic:
		if t.Dynamic.MaxTypes, err = wire.ReadByte(s.r); err != nil {
			return datatype.Type{}, errors.Wrap(err, "couldn't read Dynamic max types")
		}

	case datatype.TypeIDInterval:
		code, err := wire.ReadByte(s.r)
		if err != nil {
			return datatype.Type{}, errors.Wrap(err, "couldn't read interval kind")
		}
		kind, ok := IntervalKindOf(code)
		if !ok {
			return datatype.Type{}, errors.Wrapf(ErrInvalidIntervalKind, "code 0x%02X", code)
		}
		t.Interval.Kind = kind
	}
	if err != nil {
		return datatype.Type{}, err
	}
	return t, nil
}

func (s *decodeState) decodeChild(depth int) (*datatype.Type, error) {
	child, err := s.decode(depth + 1)
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (s *decodeState) decodeList(depth int, what string) ([]datatype.Type, error) {
	n, err := wire.ReadVarUInt(s.r)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read %s", what)
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]datatype.Type, 0, preallocation(n))
	for i := uint64(0); i < n; i++ {
		child, err := s.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

func (s *decodeState) decodeNamedFields(depth int) ([]datatype.NamedField, error) {
	n, err := wire.ReadVarUInt(s.r)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read field count")
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]datatype.NamedField, 0, preallocation(n))
	for i := uint64(0); i < n; i++ {
		name, err := wire.ReadString(s.r)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't read name of field %d", i)
		}
		child, err := s.decode(depth + 1)
		if err != nil {
			return nil, err
		}
		out = append(out, datatype.NamedField{Name: name, Type: child})
	}
	return out, nil
}

// Duplicate names are forwarded as-is.
func (s *decodeState) decodeEnumValues(id datatype.TypeID) ([]datatype.EnumValue, error) {
	n, err := wire.ReadVarUInt(s.r)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't read %s value count", id)
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]datatype.EnumValue, 0, preallocation(n))
	for i := uint64(0); i < n; i++ {
		name, err := wire.ReadString(s.r)
		if err != nil {
			return nil, errors.Wrapf(err, "couldn't read name of %s value %d", id, i)
		}
		var value int16
		if id == datatype.TypeIDEnum8 {
			b, err := wire.ReadByte(s.r)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't read %s value %s", id, name)
			}
			value = int16(int8(b))
		} else {
			u, err := wire.ReadUint16(s.r)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't read %s value %s", id, name)
			}
			value = int16(u)
		}
		out = append(out, datatype.EnumValue{Name: name, Value: value})
	}
	return out, nil
}

func (s *decodeState) decodeAggregateFunction(t *datatype.Type, depth int) error {
	var err error
	if t.TypeID == datatype.TypeIDAggregateFunction {
		if t.AggregateFunction.Version, err = wire.ReadVarUInt(s.r); err != nil {
			return errors.Wrap(err, "couldn't read aggregate function version")
		}
	}
	if t.AggregateFunction.Name, err = wire.ReadString(s.r); err != nil {
		return errors.Wrap(err, "couldn't read aggregate function name")
	}
	n, err := wire.ReadVarUInt(s.r)
	if err != nil {
		return errors.Wrap(err, "couldn't read aggregate function parameter count")
	}
	if n > 0 {
		t.AggregateFunction.Parameters = make([]field.Field, 0, preallocation(n))
	}
	for i := uint64(0); i < n; i++ {
		param, err := field.Read(s.r, s.maxDepth)
		if err != nil {
			return errors.Wrapf(err, "couldn't read parameter %d of %s", i, t.AggregateFunction.Name)
		}
		t.AggregateFunction.Parameters = append(t.AggregateFunction.Parameters, param)
	}
	t.AggregateFunction.Arguments, err = s.decodeList(depth, "aggregate function argument count")
	return err
}

func preallocation(n uint64) int {
	if n > maxPreallocation {
		return maxPreallocation
	}
	return int(n)
}
