package field

import (
	"encoding/binary"
	"math"
	"net/netip"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/cube2222/typewire/wire"
)

var (
	ErrUnknownFieldTag = errors.New("field: unknown field tag")
	ErrInvalidBool     = errors.New("field: invalid bool value")
	ErrInvalidAddress  = errors.New("field: address family doesn't match kind")
)

// DefaultMaxDepth bounds the nesting of arrays, tuples, maps and objects.
const DefaultMaxDepth = 1000

var decimalSizes = map[Kind]int{
	KindDecimal32:  4,
	KindDecimal64:  8,
	KindDecimal128: 16,
	KindDecimal256: 32,
}

// Append appends the binary encoding of f to dst.
func Append(dst []byte, f Field) ([]byte, error) {
	if !f.Kind.Valid() {
		return nil, errors.Wrapf(ErrUnknownFieldTag, "kind 0x%02X", byte(f.Kind))
	}
	dst = append(dst, byte(f.Kind))

	var err error
	switch f.Kind {
	case KindNull, KindNegativeInfinity, KindPositiveInfinity:

	case KindUInt64:
		dst = wire.AppendVarUInt(dst, f.UInt)

	case KindInt64:
		dst = wire.AppendVarInt(dst, f.Int)

	case KindUInt128, KindUInt128Alt:
		dst, err = wire.AppendBigInt(dst, f.Big, 16, false)

	case KindInt128, KindInt128Alt:
		dst, err = wire.AppendBigInt(dst, f.Big, 16, true)

	case KindFloat64:
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(f.Float))

	case KindDecimal32, KindDecimal64, KindDecimal128, KindDecimal256:
		dst = wire.AppendVarUInt(dst, f.Scale)
		dst, err = wire.AppendBigInt(dst, f.Big, decimalSizes[f.Kind], true)

	case KindString:
		dst = wire.AppendString(dst, f.Str)

	case KindArray, KindTuple:
		dst = wire.AppendVarUInt(dst, uint64(len(f.Elements)))
		for i := range f.Elements {
			if dst, err = Append(dst, f.Elements[i]); err != nil {
				return nil, err
			}
		}

	case KindMap:
		dst = wire.AppendVarUInt(dst, uint64(len(f.Entries)))
		for i := range f.Entries {
			if dst, err = Append(dst, f.Entries[i].Key); err != nil {
				return nil, err
			}
			if dst, err = Append(dst, f.Entries[i].Value); err != nil {
				return nil, err
			}
		}

	case KindIPv4:
		if !f.Addr.Is4() {
			return nil, errors.Wrapf(ErrInvalidAddress, "IPv4 field holds %s", f.Addr)
		}
		a := f.Addr.As4()
		dst = binary.LittleEndian.AppendUint32(dst, binary.BigEndian.Uint32(a[:]))

	case KindIPv6:
		if !f.Addr.Is6() {
			return nil, errors.Wrapf(ErrInvalidAddress, "IPv6 field holds %s", f.Addr)
		}
		a := f.Addr.As16()
		dst = append(dst, a[:]...)

	case KindUUID:
		dst = binary.LittleEndian.AppendUint64(dst, binary.BigEndian.Uint64(f.UUID[:8]))
		dst = binary.LittleEndian.AppendUint64(dst, binary.BigEndian.Uint64(f.UUID[8:]))

	case KindBool:
		if f.Bool {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}

	case KindObject:
		dst = wire.AppendVarUInt(dst, uint64(len(f.Object)))
		for i := range f.Object {
			dst = wire.AppendString(dst, f.Object[i].Key)
			if dst, err = Append(dst, f.Object[i].Value); err != nil {
				return nil, err
			}
		}

	case KindAggregateFunctionState:
		dst = wire.AppendString(dst, f.Str)
		dst = wire.AppendBytes(dst, f.Data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't encode %s field", f.Kind)
	}
	return dst, nil
}

// Read decodes one field from r, consuming exactly its bytes.
func Read(r wire.Reader, maxDepth int) (Field, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return read(r, 0, maxDepth)
}

func read(r wire.Reader, depth, maxDepth int) (Field, error) {
	if depth > maxDepth {
		return Field{}, wire.ErrMaxDepthExceeded
	}
	tag, err := wire.ReadByte(r)
	if err != nil {
		return Field{}, err
	}
	kind := Kind(tag)
	if !kind.Valid() {
		return Field{}, errors.Wrapf(ErrUnknownFieldTag, "tag 0x%02X", tag)
	}

	f := Field{Kind: kind}
	switch kind {
	case KindNull, KindNegativeInfinity, KindPositiveInfinity:

	case KindUInt64:
		f.UInt, err = wire.ReadVarUInt(r)

	case KindInt64:
		f.Int, err = wire.ReadVarInt(r)

	case KindUInt128, KindUInt128Alt:
		f.Big, err = wire.ReadBigInt(r, 16, false)

	case KindInt128, KindInt128Alt:
		f.Big, err = wire.ReadBigInt(r, 16, true)

	case KindFloat64:
		var bits uint64
		bits, err = wire.ReadUint64(r)
		f.Float = math.Float64frombits(bits)

	case KindDecimal32, KindDecimal64, KindDecimal128, KindDecimal256:
		if f.Scale, err = wire.ReadVarUInt(r); err != nil {
			break
		}
		f.Big, err = wire.ReadBigInt(r, decimalSizes[kind], true)

	case KindString:
		f.Str, err = wire.ReadString(r)

	case KindArray, KindTuple:
		var n uint64
		if n, err = wire.ReadVarUInt(r); err != nil {
			break
		}
		for i := uint64(0); i < n; i++ {
			var element Field
			if element, err = read(r, depth+1, maxDepth); err != nil {
				return Field{}, err
			}
			f.Elements = append(f.Elements, element)
		}

	case KindMap:
		var n uint64
		if n, err = wire.ReadVarUInt(r); err != nil {
			break
		}
		for i := uint64(0); i < n; i++ {
			var entry MapEntry
			if entry.Key, err = read(r, depth+1, maxDepth); err != nil {
				return Field{}, err
			}
			if entry.Value, err = read(r, depth+1, maxDepth); err != nil {
				return Field{}, err
			}
			f.Entries = append(f.Entries, entry)
		}

	case KindIPv4:
		var v uint32
		if v, err = wire.ReadUint32(r); err != nil {
			break
		}
		var a [4]byte
		binary.BigEndian.PutUint32(a[:], v)
		f.Addr = netip.AddrFrom4(a)

	case KindIPv6:
		var raw []byte
		if raw, err = wire.ReadFixed(r, 16); err != nil {
			break
		}
		f.Addr = netip.AddrFrom16([16]byte(raw))

	case KindUUID:
		var hi, lo uint64
		if hi, err = wire.ReadUint64(r); err != nil {
			break
		}
		if lo, err = wire.ReadUint64(r); err != nil {
			break
		}
		var id uuid.UUID
		binary.BigEndian.PutUint64(id[:8], hi)
		binary.BigEndian.PutUint64(id[8:], lo)
		f.UUID = id

	case KindBool:
		var b byte
		if b, err = wire.ReadByte(r); err != nil {
			break
		}
		switch b {
		case 0:
		case 1:
			f.Bool = true
		default:
			return Field{}, errors.Wrapf(ErrInvalidBool, "byte 0x%02X", b)
		}

	case KindObject:
		var n uint64
		if n, err = wire.ReadVarUInt(r); err != nil {
			break
		}
		for i := uint64(0); i < n; i++ {
			var entry ObjectEntry
			if entry.Key, err = wire.ReadString(r); err != nil {
				return Field{}, err
			}
			if entry.Value, err = read(r, depth+1, maxDepth); err != nil {
				return Field{}, err
			}
			f.Object = append(f.Object, entry)
		}

	case KindAggregateFunctionState:
		if f.Str, err = wire.ReadString(r); err != nil {
			break
		}
		f.Data, err = wire.ReadBytes(r)
	}
	if err != nil {
		return Field{}, err
	}
	return f, nil
}
