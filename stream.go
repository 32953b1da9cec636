// Package bitstream is a bit-level binary serialization engine: a
// growable, bit-addressable stream with typed, extensible read and write
// of bits, fixed-width integers, IEEE-754 doubles and text, without the
// caller performing any bit shifting.
package bitstream

import "fmt"

// Stream combines one BitBuffer with a codec registry. A stream is a
// single-owner value: it is not safe for concurrent mutation without
// external synchronization.
type Stream struct {
	buf BitBuffer
	reg *Registry
}

// New returns an empty stream backed by the default registry.
func New() *Stream {
	return &Stream{reg: defaultRegistry}
}

// From returns a stream seeded with data, auto-detecting its type the
// same way Write does.
func From(data any) (*Stream, error) {
	s := New()
	if err := s.Write(data); err != nil {
		return nil, err
	}
	return s, nil
}

// FromAs returns a stream seeded with data encoded under an explicit tag.
func FromAs(data any, t Type) (*Stream, error) {
	s := New()
	if err := s.WriteAs(data, t); err != nil {
		return nil, err
	}
	return s, nil
}

// WithRegistry swaps in another codec registry and returns the stream for
// chaining. Call it before the first write.
func (s *Stream) WithRegistry(r *Registry) *Stream {
	s.reg = r
	return s
}

// Write appends data using the codec picked by auto-detection.
func (s *Stream) Write(data any) error {
	entry, err := s.reg.ResolveWrite(data)
	if err != nil {
		return err
	}
	if entry == nil {
		// Empty nesting: nothing to write.
		return nil
	}
	return s.append(entry, data)
}

// WriteAs appends data using the codec registered for tag t.
func (s *Stream) WriteAs(data any, t Type) error {
	entry, err := s.reg.Lookup(t)
	if err != nil {
		return err
	}
	return s.append(entry, data)
}

// append runs a codec writer atomically: when the writer fails the buffer
// is rolled back to its length before the call.
func (s *Stream) append(entry *CodecEntry, data any) error {
	mark := s.buf.length
	if err := entry.Write(&s.buf, data); err != nil {
		s.buf.truncate(mark)
		return err
	}
	return nil
}

// Read consumes one scalar of tag t and returns it in the codec's scalar
// representation.
func (s *Stream) Read(t Type) (any, error) {
	entry, err := s.reg.Lookup(t)
	if err != nil {
		return nil, err
	}
	return entry.Read(&s.buf, -1)
}

// ReadN consumes n scalars of tag t and returns them as the codec's
// sequence representation. A failing read consumes nothing.
func (s *Stream) ReadN(t Type, n int) (any, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrValue, n)
	}
	entry, err := s.reg.Lookup(t)
	if err != nil {
		return nil, err
	}
	return entry.Read(&s.buf, n)
}

// Len returns the number of unread bits.
func (s *Stream) Len() int { return s.buf.Len() }

// Equal reports bitwise equality of the unread windows of both streams.
func (s *Stream) Equal(other *Stream) bool {
	return s.buf.Equal(&other.buf)
}

// Copy returns a stream with a fully independent backing store; its
// cursors do not alias the original's.
func (s *Stream) Copy() *Stream {
	return &Stream{buf: *s.buf.Copy(), reg: s.reg}
}

// String renders the unread bits as '0'/'1' characters in write order.
// A fully consumed or empty stream renders as "".
func (s *Stream) String() string { return s.buf.Render() }
