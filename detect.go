package bitstream

import (
	"fmt"
	"reflect"
)

// detectValue maps a value's concrete type to a built-in tag. It covers
// booleans, the fixed-width numeric scalars and their 1-D slices, native
// floats, text and raw bytes. []byte and []uint8 are the same type in Go,
// so both resolve to the bytes codec; the bit output is identical to a
// uint8 write either way.
func detectValue(v any) (Type, bool) {
	switch v.(type) {
	case bool, []bool:
		return Bool, true
	case int8, []int8:
		return Int8, true
	case uint8:
		return UInt8, true
	case int16, []int16:
		return Int16, true
	case uint16, []uint16:
		return UInt16, true
	case int32, []int32:
		return Int32, true
	case uint32, []uint32:
		return UInt32, true
	case int64, []int64:
		return Int64, true
	case uint64, []uint64:
		return UInt64, true
	case float64, []float64:
		return Float64, true
	case string:
		return Str, true
	case []byte:
		return Bytes, true
	}
	return Type{}, false
}

// ResolveWrite picks the codec for a value with no explicit tag, applying
// the detection predicates in fixed order: booleans, tagged fixed-width
// numerics (scalar or 1-D slice), native floats, text and raw bytes, then
// nested sequences flattened depth-first with a homogeneity check.
// Platform-width int/uint and float32 carry no fixed-width tag and fail
// with ErrUnknownType.
//
// An empty nesting names no element type; ResolveWrite reports it as
// (nil, nil) and the caller writes nothing.
func (r *Registry) ResolveWrite(v any) (*CodecEntry, error) {
	if t, ok := detectValue(v); ok {
		return r.Lookup(t)
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		leaves := flattenValue(nil, v)
		if len(leaves) == 0 {
			return nil, nil
		}
		t, ok := detectValue(leaves[0])
		if !ok {
			return nil, fmt.Errorf("%w: no codec for %T", ErrUnknownType, leaves[0])
		}
		for _, leaf := range leaves[1:] {
			lt, ok := detectValue(leaf)
			if !ok {
				return nil, fmt.Errorf("%w: no codec for %T", ErrUnknownType, leaf)
			}
			if lt != t {
				return nil, fmt.Errorf("%w: mixed element types %s and %s", ErrType, t, lt)
			}
		}
		return r.Lookup(t)
	}
	return nil, fmt.Errorf("%w: no codec for %T", ErrUnknownType, v)
}

// flattenValue appends the depth-first, left-to-right leaf sequence of v
// to dst. Slices and arrays are descended into; strings and byte slices
// are leaves.
func flattenValue(dst []any, v any) []any {
	switch v.(type) {
	case string, []byte:
		return append(dst, v)
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		for i := 0; i < rv.Len(); i++ {
			dst = flattenValue(dst, rv.Index(i).Interface())
		}
		return dst
	}
	return append(dst, v)
}
