// Package wire holds the primitive encodings shared by the type and field
// codecs: base-128 variable-length integers, length-prefixed strings and
// fixed-width little-endian integers.
package wire

import (
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrUnexpectedEndOfData = errors.New("wire: unexpected end of data")
	ErrMaxDepthExceeded    = errors.New("wire: max depth exceeded")
	ErrVarUIntOverflow     = errors.New("wire: varuint overflows 64 bits")
	ErrValueOutOfRange     = errors.New("wire: value out of range")
)

// Reader is the read cursor every decoder advances.
type Reader interface {
	io.Reader
	io.ByteReader
}

// Strings up to this size are read with a single allocation,
// longer ones grow with the data actually present.
const directReadLimit = 4096

func AppendVarUInt(dst []byte, v uint64) []byte {
	return binary.AppendUvarint(dst, v)
}

// AppendVarInt writes v zig-zag encoded.
func AppendVarInt(dst []byte, v int64) []byte {
	return binary.AppendVarint(dst, v)
}

func AppendString(dst []byte, s string) []byte {
	dst = AppendVarUInt(dst, uint64(len(s)))
	return append(dst, s...)
}

func AppendBytes(dst []byte, b []byte) []byte {
	dst = AppendVarUInt(dst, uint64(len(b)))
	return append(dst, b...)
}

func ReadVarUInt(r io.ByteReader) (uint64, error) {
	v, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, translate(err)
	}
	return v, nil
}

func ReadVarInt(r io.ByteReader) (int64, error) {
	v, err := binary.ReadVarint(r)
	if err != nil {
		return 0, translate(err)
	}
	return v, nil
}

func ReadByte(r io.ByteReader) (byte, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, translate(err)
	}
	return b, nil
}

// ReadFixed reads exactly n bytes.
func ReadFixed(r io.Reader, n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, translate(err)
	}
	return buf, nil
}

func ReadString(r Reader) (string, error) {
	n, err := ReadVarUInt(r)
	if err != nil {
		return "", err
	}
	if n <= directReadLimit {
		buf, err := ReadFixed(r, int(n))
		if err != nil {
			return "", err
		}
		return string(buf), nil
	}
	if n > math.MaxInt64 {
		return "", ErrUnexpectedEndOfData
	}
	var sb strings.Builder
	if _, err := io.CopyN(&sb, r, int64(n)); err != nil {
		return "", translate(err)
	}
	return sb.String(), nil
}

func ReadBytes(r Reader) ([]byte, error) {
	s, err := ReadString(r)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func ReadUint16(r io.Reader) (uint16, error) {
	buf, err := ReadFixed(r, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}

func ReadUint32(r io.Reader) (uint32, error) {
	buf, err := ReadFixed(r, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func ReadUint64(r io.Reader) (uint64, error) {
	buf, err := ReadFixed(r, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf), nil
}

func translate(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrUnexpectedEndOfData
	}
	// binary.ReadUvarint reports overflow with an unexported error.
	if strings.Contains(err.Error(), "overflow") {
		return ErrVarUIntOverflow
	}
	return err
}

// AppendBigInt writes v as a size-byte little-endian two's complement
// integer. Unsigned values must lie in [0, 2^(8*size)), signed values in
// [-2^(8*size-1), 2^(8*size-1)).
func AppendBigInt(dst []byte, v *big.Int, size int, signed bool) ([]byte, error) {
	if v == nil {
		v = new(big.Int)
	}
	bits := uint(size * 8)
	lo, hi := new(big.Int), new(big.Int).Lsh(big.NewInt(1), bits)
	if signed {
		hi.Rsh(hi, 1)
		lo.Neg(hi)
	}
	if v.Cmp(lo) < 0 || v.Cmp(hi) >= 0 {
		return nil, errors.Wrapf(ErrValueOutOfRange, "%s doesn't fit %d bytes", v, size)
	}
	u := new(big.Int).Set(v)
	if u.Sign() < 0 {
		u.Add(u, new(big.Int).Lsh(big.NewInt(1), bits))
	}
	be := u.FillBytes(make([]byte, size))
	for i := len(be) - 1; i >= 0; i-- {
		dst = append(dst, be[i])
	}
	return dst, nil
}

// ReadBigInt reads a size-byte little-endian integer written by AppendBigInt.
func ReadBigInt(r io.Reader, size int, signed bool) (*big.Int, error) {
	le, err := ReadFixed(r, size)
	if err != nil {
		return nil, err
	}
	be := make([]byte, size)
	for i := range le {
		be[size-1-i] = le[i]
	}
	v := new(big.Int).SetBytes(be)
	if signed && size > 0 && be[0]&0x80 != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), uint(size*8)))
	}
	return v, nil
}
