package bitstream

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// BitBuffer is a growable, bit-addressable store with independent append
// and consume positions. Bits are MSB-first within each byte. The append
// side extends length; the consume side advances cursor and never exceeds
// length. Consumed bits remain in the store but are never re-emitted.
//
// Invariant: every bit at or after length is zero, so appends can splice
// into the partially filled last byte with a plain OR.
type BitBuffer struct {
	data   []byte
	length int // total bits appended
	cursor int // bits consumed, cursor <= length
}

// NewBitBuffer returns an empty buffer.
func NewBitBuffer() *BitBuffer {
	return &BitBuffer{}
}

// Len returns the number of unread bits.
func (b *BitBuffer) Len() int { return b.length - b.cursor }

// grow extends the backing store to hold bits more bits, doubling the
// capacity when it must reallocate so appends stay O(1) amortized.
func (b *BitBuffer) grow(bits int) {
	need := byteCount(b.length + bits)
	if need <= len(b.data) {
		return
	}
	if need <= cap(b.data) {
		old := len(b.data)
		b.data = b.data[:need]
		// Bytes past the old length may hold stale bits from a rollback.
		clear(b.data[old:])
		return
	}
	c := 2 * cap(b.data)
	if c < need {
		c = need
	}
	data := make([]byte, need, c)
	copy(data, b.data)
	b.data = data
}

// AppendBit appends a single bit.
func (b *BitBuffer) AppendBit(bit bool) {
	b.grow(1)
	if bit {
		b.data[b.length>>3] |= 0x80 >> (b.length & 7)
	}
	b.length++
}

// AppendBits appends an ordered sequence of bits.
func (b *BitBuffer) AppendBits(bits []bool) {
	if len(bits) == 0 {
		return
	}
	buf, pooled := getScratch(byteCount(len(bits)))
	defer putScratch(pooled)
	clear(buf)
	for i, bit := range bits {
		if bit {
			buf[i>>3] |= 0x80 >> (i & 7)
		}
	}
	b.AppendBytes(buf, len(bits))
}

// AppendUint appends the width least significant bits of v, most
// significant bit first. width must be between 1 and 64.
func (b *BitBuffer) AppendUint(v uint64, width int) {
	var scratch [8]byte
	binary.BigEndian.PutUint64(scratch[:], v<<(64-width))
	b.AppendBytes(scratch[:byteCount(width)], width)
}

// AppendBytes appends the first bitCount bits of raw, MSB-first. When the
// current end is byte-aligned the bytes are copied directly; otherwise
// each byte is spliced across the boundary of the partially filled last
// byte with shift+mask. raw is never retained.
func (b *BitBuffer) AppendBytes(raw []byte, bitCount int) {
	if bitCount <= 0 {
		return
	}
	b.grow(bitCount)
	n := b.length >> 3
	offset := b.length & 7
	m := byteCount(bitCount)
	rem := bitCount & 7

	if offset == 0 {
		copy(b.data[n:n+m], raw[:m])
		if rem != 0 {
			// Strip stray input bits beyond bitCount to keep the
			// zero-tail invariant.
			b.data[n+m-1] &= ^byte(0) << (8 - rem)
		}
	} else {
		for i := 0; i < m; i++ {
			c := raw[i]
			if i == m-1 && rem != 0 {
				c &= ^byte(0) << (8 - rem)
			}
			b.data[n+i] |= c >> offset
			if n+i+1 < len(b.data) {
				b.data[n+i+1] |= c << (8 - offset)
			}
		}
	}
	b.length += bitCount
}

// ReadBit consumes and returns one bit.
func (b *BitBuffer) ReadBit() (bool, error) {
	if b.cursor >= b.length {
		return false, ErrEndOfStream
	}
	bit := b.data[b.cursor>>3]&(0x80>>(b.cursor&7)) != 0
	b.cursor++
	return bit, nil
}

// ReadUint consumes width bits and returns them as the least significant
// bits of the result, preserving stream order. width must be at most 64.
func (b *BitBuffer) ReadUint(width int) (uint64, error) {
	if width > b.Len() {
		return 0, ErrEndOfStream
	}
	var scratch [8]byte
	b.copyBits(scratch[:], b.cursor, width)
	b.cursor += width
	return binary.BigEndian.Uint64(scratch[:]) >> (64 - width), nil
}

// ReadBytes consumes bitCount bits and returns them MSB-aligned in a
// fresh slice of byteCount(bitCount) bytes; trailing bits are zero.
// On failure nothing is consumed.
func (b *BitBuffer) ReadBytes(bitCount int) ([]byte, error) {
	if bitCount < 0 {
		return nil, ErrValue
	}
	if bitCount > b.Len() {
		return nil, ErrEndOfStream
	}
	out := make([]byte, byteCount(bitCount))
	b.copyBits(out, b.cursor, bitCount)
	b.cursor += bitCount
	return out, nil
}

// copyBits extracts the bit window [from, from+bits) into dst,
// MSB-aligned, without touching the cursor. dst must hold at least
// byteCount(bits) bytes.
func (b *BitBuffer) copyBits(dst []byte, from, bits int) {
	if bits == 0 {
		return
	}
	n := from >> 3
	offset := from & 7
	m := byteCount(bits)
	if offset == 0 {
		copy(dst[:m], b.data[n:])
	} else {
		for i := 0; i < m; i++ {
			c := b.data[n+i] << offset
			if n+i+1 < len(b.data) {
				c |= b.data[n+i+1] >> (8 - offset)
			}
			dst[i] = c
		}
	}
	if rem := bits & 7; rem != 0 {
		dst[m-1] &= ^byte(0) << (8 - rem)
	}
}

// truncate rolls the append side back to bitLen bits, re-zeroing the tail
// of the last partial byte so later appends can splice into it.
func (b *BitBuffer) truncate(bitLen int) {
	if bitLen >= b.length {
		return
	}
	b.length = bitLen
	n := byteCount(bitLen)
	clear(b.data[n:])
	b.data = b.data[:n]
	if rem := bitLen & 7; rem != 0 {
		b.data[n-1] &= ^byte(0) << (8 - rem)
	}
	if b.cursor > b.length {
		b.cursor = b.length
	}
}

// Equal reports whether the unread windows of both buffers hold the same
// bits. Capacity and absolute offsets do not participate.
func (b *BitBuffer) Equal(other *BitBuffer) bool {
	n := b.Len()
	if n != other.Len() {
		return false
	}
	if n == 0 {
		return true
	}
	left := make([]byte, byteCount(n))
	right := make([]byte, byteCount(n))
	b.copyBits(left, b.cursor, n)
	other.copyBits(right, other.cursor, n)
	return bytes.Equal(left, right)
}

// Copy returns a buffer with a fully independent backing store and the
// same append and consume positions.
func (b *BitBuffer) Copy() *BitBuffer {
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return &BitBuffer{data: data, length: b.length, cursor: b.cursor}
}

// Render returns the unread window as a string of '0' and '1' characters
// in write order.
func (b *BitBuffer) Render() string {
	var sb strings.Builder
	sb.Grow(b.Len())
	for i := b.cursor; i < b.length; i++ {
		if b.data[i>>3]&(0x80>>(i&7)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (b *BitBuffer) String() string { return b.Render() }
