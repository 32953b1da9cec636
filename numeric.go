package bitstream

import (
	"encoding/binary"
	"fmt"
	"math"
)

func registerIntegers(r *Registry) {
	for _, t := range []Type{Int8, Int16, Int32, Int64} {
		r.Register(t, intWriter(t, true), intReader(t, true))
	}
	for _, t := range []Type{UInt8, UInt16, UInt32, UInt64} {
		r.Register(t, intWriter(t, false), intReader(t, false))
	}
}

func registerFloat(r *Registry) {
	r.Register(Float64, writeFloat64, readFloat64)
}

// intValue reports v as a sign-extended 64-bit integer. huge marks
// unsigned inputs above MaxInt64, which no signed width can hold.
func intValue(v any) (i int64, huge bool, ok bool) {
	switch x := v.(type) {
	case int:
		return int64(x), false, true
	case int8:
		return int64(x), false, true
	case int16:
		return int64(x), false, true
	case int32:
		return int64(x), false, true
	case int64:
		return x, false, true
	case uint:
		return int64(x), uint64(x) > math.MaxInt64, true
	case uint8:
		return int64(x), false, true
	case uint16:
		return int64(x), false, true
	case uint32:
		return int64(x), false, true
	case uint64:
		return int64(x), x > math.MaxInt64, true
	}
	return 0, false, false
}

// uintValue reports v as a 64-bit unsigned integer. neg marks negative
// signed inputs, which no unsigned width can hold.
func uintValue(v any) (u uint64, neg bool, ok bool) {
	i, huge, ok := intValue(v)
	if !ok {
		return 0, false, false
	}
	if huge {
		return uint64(i), false, true
	}
	return uint64(i), i < 0, true
}

func fitsSigned(i int64, width int) bool {
	if width >= 64 {
		return true
	}
	min := int64(-1) << (width - 1)
	return i >= min && i <= -min-1
}

func fitsUnsigned(u uint64, width int) bool {
	return width >= 64 || u < uint64(1)<<width
}

func overflowErr(v any, t Type) error {
	return fmt.Errorf("%w: %v does not fit %s", ErrOverflow, v, t)
}

// coerceInt coerces an integer scalar to the low t.Width bits of its
// two's-complement encoding. ok reports whether v is an integer at all;
// err reports a range failure for a value that is one.
func coerceInt(v any, t Type, signed bool) (bits uint64, ok bool, err error) {
	if signed {
		i, huge, ok := intValue(v)
		if !ok {
			return 0, false, nil
		}
		if huge || !fitsSigned(i, t.Width) {
			return 0, true, overflowErr(v, t)
		}
		return uint64(i), true, nil
	}
	u, neg, ok := uintValue(v)
	if !ok {
		return 0, false, nil
	}
	if neg || !fitsUnsigned(u, t.Width) {
		return 0, true, overflowErr(v, t)
	}
	return u, true, nil
}

// bulkAppend encodes vs into a pooled scratch buffer, size bytes per
// element, and splices the whole run into b with one AppendBytes call.
func bulkAppend[T any](b *BitBuffer, vs []T, size int, put func([]byte, T)) {
	if len(vs) == 0 {
		return
	}
	total := len(vs) * size
	buf, pooled := getScratch(total)
	defer putScratch(pooled)
	for i, v := range vs {
		put(buf[i*size:], v)
	}
	b.AppendBytes(buf, total*8)
}

// decodeSlice decodes n elements of size bytes each from raw.
func decodeSlice[T any](raw []byte, n, size int, get func([]byte) T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = get(raw[i*size:])
	}
	return out
}

// bulkIntAppend handles the slice whose element type matches the tag
// exactly; everything else falls through to the flatten path.
func bulkIntAppend(b *BitBuffer, t Type, v any) bool {
	switch x := v.(type) {
	case []int8:
		if t != Int8 {
			return false
		}
		bulkAppend(b, x, 1, func(d []byte, v int8) { d[0] = byte(v) })
	case []byte:
		if t != UInt8 {
			return false
		}
		b.AppendBytes(x, len(x)*8)
	case []int16:
		if t != Int16 {
			return false
		}
		bulkAppend(b, x, 2, func(d []byte, v int16) { binary.BigEndian.PutUint16(d, uint16(v)) })
	case []uint16:
		if t != UInt16 {
			return false
		}
		bulkAppend(b, x, 2, binary.BigEndian.PutUint16)
	case []int32:
		if t != Int32 {
			return false
		}
		bulkAppend(b, x, 4, func(d []byte, v int32) { binary.BigEndian.PutUint32(d, uint32(v)) })
	case []uint32:
		if t != UInt32 {
			return false
		}
		bulkAppend(b, x, 4, binary.BigEndian.PutUint32)
	case []int64:
		if t != Int64 {
			return false
		}
		bulkAppend(b, x, 8, func(d []byte, v int64) { binary.BigEndian.PutUint64(d, uint64(v)) })
	case []uint64:
		if t != UInt64 {
			return false
		}
		bulkAppend(b, x, 8, binary.BigEndian.PutUint64)
	default:
		return false
	}
	return true
}

func intWriter(t Type, signed bool) WriterFunc {
	return func(b *BitBuffer, v any) error {
		// Scalar path: no slice wrapper, stack scratch only.
		bits, ok, err := coerceInt(v, t, signed)
		if err != nil {
			return err
		}
		if ok {
			b.AppendUint(bits, t.Width)
			return nil
		}
		// Matching typed slice: batch encode, single splice.
		if bulkIntAppend(b, t, v) {
			return nil
		}
		// Nested or foreign-typed input: flatten and coerce per leaf.
		return writeIntLeaves(b, t, signed, flattenValue(nil, v))
	}
}

// writeIntLeaves validates every leaf before the first append so that a
// failing write leaves the buffer untouched.
func writeIntLeaves(b *BitBuffer, t Type, signed bool, leaves []any) error {
	vals := make([]uint64, len(leaves))
	for i, leaf := range leaves {
		bits, ok, err := coerceInt(leaf, t, signed)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: cannot encode %T as %s", ErrType, leaf, t)
		}
		vals[i] = bits
	}
	for _, bits := range vals {
		b.AppendUint(bits, t.Width)
	}
	return nil
}

func intScalar(u uint64, width int, signed bool) any {
	if signed {
		switch width {
		case 8:
			return int8(u)
		case 16:
			return int16(u)
		case 32:
			return int32(u)
		default:
			return int64(u)
		}
	}
	switch width {
	case 8:
		return uint8(u)
	case 16:
		return uint16(u)
	case 32:
		return uint32(u)
	default:
		return u
	}
}

func intReader(t Type, signed bool) ReaderFunc {
	width := t.Width
	return func(b *BitBuffer, n int) (any, error) {
		if n < 0 {
			u, err := b.ReadUint(width)
			if err != nil {
				return nil, err
			}
			return intScalar(u, width, signed), nil
		}
		raw, err := b.ReadBytes(n * width)
		if err != nil {
			return nil, err
		}
		if signed {
			switch width {
			case 8:
				return decodeSlice(raw, n, 1, func(d []byte) int8 { return int8(d[0]) }), nil
			case 16:
				return decodeSlice(raw, n, 2, func(d []byte) int16 { return int16(binary.BigEndian.Uint16(d)) }), nil
			case 32:
				return decodeSlice(raw, n, 4, func(d []byte) int32 { return int32(binary.BigEndian.Uint32(d)) }), nil
			default:
				return decodeSlice(raw, n, 8, func(d []byte) int64 { return int64(binary.BigEndian.Uint64(d)) }), nil
			}
		}
		switch width {
		case 8:
			return raw[:n:n], nil
		case 16:
			return decodeSlice(raw, n, 2, binary.BigEndian.Uint16), nil
		case 32:
			return decodeSlice(raw, n, 4, binary.BigEndian.Uint32), nil
		default:
			return decodeSlice(raw, n, 8, binary.BigEndian.Uint64), nil
		}
	}
}

// floatValue coerces v to a float64. Integer inputs convert by value.
func floatValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	if i, huge, ok := intValue(v); ok {
		if huge {
			return float64(uint64(i)), true
		}
		return float64(i), true
	}
	return 0, false
}

func writeFloat64(b *BitBuffer, v any) error {
	if f, ok := floatValue(v); ok {
		b.AppendUint(math.Float64bits(f), 64)
		return nil
	}
	if x, ok := v.([]float64); ok {
		bulkAppend(b, x, 8, func(d []byte, v float64) { binary.BigEndian.PutUint64(d, math.Float64bits(v)) })
		return nil
	}
	leaves := flattenValue(nil, v)
	vals := make([]float64, len(leaves))
	for i, leaf := range leaves {
		f, ok := floatValue(leaf)
		if !ok {
			return fmt.Errorf("%w: cannot encode %T as %s", ErrType, leaf, Float64)
		}
		vals[i] = f
	}
	for _, f := range vals {
		b.AppendUint(math.Float64bits(f), 64)
	}
	return nil
}

func readFloat64(b *BitBuffer, n int) (any, error) {
	if n < 0 {
		u, err := b.ReadUint(64)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(u), nil
	}
	raw, err := b.ReadBytes(n * 64)
	if err != nil {
		return nil, err
	}
	return decodeSlice(raw, n, 8, func(d []byte) float64 { return math.Float64frombits(binary.BigEndian.Uint64(d)) }), nil
}
