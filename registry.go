package bitstream

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
)

// Kind classifies the element kind of a type tag.
type Kind uint8

const (
	KindBool Kind = iota + 1
	KindInt
	KindUint
	KindFloat
	KindStr
	KindBytes
)

// Type is a codec tag: an element kind plus a fixed bit width per scalar.
// The built-in tags form a closed set; downstream code may introduce new
// tags by registering codecs for them.
type Type struct {
	Kind  Kind
	Width int
}

var (
	Bool    = Type{KindBool, 1}
	Int8    = Type{KindInt, 8}
	UInt8   = Type{KindUint, 8}
	Int16   = Type{KindInt, 16}
	UInt16  = Type{KindUint, 16}
	Int32   = Type{KindInt, 32}
	UInt32  = Type{KindUint, 32}
	Int64   = Type{KindInt, 64}
	UInt64  = Type{KindUint, 64}
	Float64 = Type{KindFloat, 64}
	Str     = Type{KindStr, 8}
	Bytes   = Type{KindBytes, 8}
)

func (t Type) String() string {
	switch t {
	case Bool:
		return "bool"
	case Float64:
		return "float64"
	case Str:
		return "str"
	case Bytes:
		return "bytes"
	}
	switch t.Kind {
	case KindInt:
		return fmt.Sprintf("int%d", t.Width)
	case KindUint:
		return fmt.Sprintf("uint%d", t.Width)
	}
	return fmt.Sprintf("type(kind=%d, width=%d)", t.Kind, t.Width)
}

// WriterFunc appends the encoding of v to b. Writers accept a single
// scalar of the codec's kind, a flat slice of such scalars, or an
// arbitrarily nested structure of the above.
type WriterFunc func(b *BitBuffer, v any) error

// ReaderFunc decodes n scalars from b. n < 0 requests exactly one scalar
// in the codec's scalar representation; n >= 0 yields a sequence of n.
// A failing read must consume nothing.
type ReaderFunc func(b *BitBuffer, n int) (any, error)

// CodecEntry pairs a type tag with its writer and reader.
type CodecEntry struct {
	Type  Type
	Write WriterFunc
	Read  ReaderFunc
}

// Registry maps type tags to codecs. A registry may be shared by many
// streams; it is expected to be populated during startup and treated as
// read-mostly afterwards.
type Registry struct {
	codecs *xsync.Map[Type, *CodecEntry]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: xsync.NewMap[Type, *CodecEntry]()}
}

// Register installs the codec for tag t, replacing any previous entry.
func (r *Registry) Register(t Type, w WriterFunc, rd ReaderFunc) {
	r.codecs.Store(t, &CodecEntry{Type: t, Write: w, Read: rd})
}

// Lookup resolves an explicit type tag.
func (r *Registry) Lookup(t Type) (*CodecEntry, error) {
	if e, ok := r.codecs.Load(t); ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownType, t)
}

var defaultRegistry = NewRegistry()

func init() {
	registerBuiltins(defaultRegistry)
}

// registerBuiltins installs the bool, integer, float64, str and bytes
// codecs into r.
func registerBuiltins(r *Registry) {
	registerBool(r)
	registerIntegers(r)
	registerFloat(r)
	registerText(r)
}

// DefaultRegistry returns the process-wide registry holding the built-in
// codecs. New streams use it unless given another registry.
func DefaultRegistry() *Registry { return defaultRegistry }
