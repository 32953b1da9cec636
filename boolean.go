package bitstream

import (
	"fmt"
	"reflect"
)

func registerBool(r *Registry) {
	r.Register(Bool, writeBool, readBool)
}

// writeBool encodes each datum as one bit. A slice or array is a holder
// of multiple data: one bit per top-level element, each coerced with
// truthValue. Everything else is a single datum.
func writeBool(b *BitBuffer, v any) error {
	switch x := v.(type) {
	case bool:
		b.AppendBit(x)
		return nil
	case []bool:
		b.AppendBits(x)
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		bits := make([]bool, rv.Len())
		for i := range bits {
			bit, err := truthValue(rv.Index(i).Interface())
			if err != nil {
				return err
			}
			bits[i] = bit
		}
		b.AppendBits(bits)
		return nil
	}
	bit, err := truthValue(v)
	if err != nil {
		return err
	}
	b.AppendBit(bit)
	return nil
}

// truthValue coerces one datum to a bit. Numerics are true when nonzero,
// text when non-empty, and a nested sequence collapses to true when any
// of its leaves is nonzero (an empty sequence is false).
func truthValue(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return len(x) > 0, nil
	case []byte:
		return len(x) > 0, nil
	case float32:
		return x != 0, nil
	case float64:
		return x != 0, nil
	}
	if i, huge, ok := intValue(v); ok {
		return huge || i != 0, nil
	}
	rv := reflect.ValueOf(v)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		for _, leaf := range flattenValue(nil, v) {
			bit, err := truthValue(leaf)
			if err != nil {
				return false, err
			}
			if bit {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("%w: cannot coerce %T to bool", ErrType, v)
}

func readBool(b *BitBuffer, n int) (any, error) {
	if n < 0 {
		bit, err := b.ReadBit()
		if err != nil {
			return nil, err
		}
		return bit, nil
	}
	raw, err := b.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	out := make([]bool, n)
	for i := range out {
		out[i] = raw[i>>3]&(0x80>>(i&7)) != 0
	}
	return out, nil
}
