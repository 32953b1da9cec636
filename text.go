package bitstream

import "fmt"

func registerText(r *Registry) {
	r.Register(Str, writeStr, readStr)
	r.Register(Bytes, writeBytes, readBytes)
}

// checkLatin1 verifies that every rune of s fits in one byte.
func checkLatin1(s string) error {
	for _, c := range s {
		if c > 0xFF {
			return fmt.Errorf("%w: rune %q outside the single-byte range", ErrValue, c)
		}
	}
	return nil
}

// appendLatin1 appends one byte per rune. The string is validated and
// packed into a scratch buffer before anything reaches the store, so a
// failure appends nothing.
func appendLatin1(b *BitBuffer, s string) error {
	if len(s) == 0 {
		return nil
	}
	buf, pooled := getScratch(len(s))
	defer putScratch(pooled)
	n := 0
	for _, c := range s {
		if c > 0xFF {
			return fmt.Errorf("%w: rune %q outside the single-byte range", ErrValue, c)
		}
		buf[n] = byte(c)
		n++
	}
	b.AppendBytes(buf[:n], n*8)
	return nil
}

func writeStr(b *BitBuffer, v any) error {
	switch x := v.(type) {
	case string:
		return appendLatin1(b, x)
	case []byte:
		b.AppendBytes(x, len(x)*8)
		return nil
	}
	leaves := flattenValue(nil, v)
	for _, leaf := range leaves {
		switch x := leaf.(type) {
		case string:
			if err := checkLatin1(x); err != nil {
				return err
			}
		case []byte:
		default:
			return fmt.Errorf("%w: cannot encode %T as %s", ErrType, leaf, Str)
		}
	}
	for _, leaf := range leaves {
		switch x := leaf.(type) {
		case string:
			_ = appendLatin1(b, x)
		case []byte:
			b.AppendBytes(x, len(x)*8)
		}
	}
	return nil
}

func readStr(b *BitBuffer, n int) (any, error) {
	if n < 0 {
		n = 1
	}
	raw, err := b.ReadBytes(n * 8)
	if err != nil {
		return nil, err
	}
	runes := make([]rune, n)
	for i, c := range raw[:n] {
		runes[i] = rune(c)
	}
	return string(runes), nil
}

func writeBytes(b *BitBuffer, v any) error {
	switch x := v.(type) {
	case []byte:
		b.AppendBytes(x, len(x)*8)
		return nil
	case string:
		return appendLatin1(b, x)
	}
	leaves := flattenValue(nil, v)
	for _, leaf := range leaves {
		switch x := leaf.(type) {
		case string:
			if err := checkLatin1(x); err != nil {
				return err
			}
		case []byte:
		default:
			_, ok, err := coerceInt(leaf, UInt8, false)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: cannot encode %T as %s", ErrType, leaf, Bytes)
			}
		}
	}
	for _, leaf := range leaves {
		switch x := leaf.(type) {
		case string:
			_ = appendLatin1(b, x)
		case []byte:
			b.AppendBytes(x, len(x)*8)
		default:
			bits, _, _ := coerceInt(leaf, UInt8, false)
			b.AppendUint(bits, 8)
		}
	}
	return nil
}

func readBytes(b *BitBuffer, n int) (any, error) {
	if n < 0 {
		u, err := b.ReadUint(8)
		if err != nil {
			return nil, err
		}
		return byte(u), nil
	}
	raw, err := b.ReadBytes(n * 8)
	if err != nil {
		return nil, err
	}
	return raw[:n:n], nil
}
