package bitstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type StreamTestSuite struct {
	suite.Suite
	stream *Stream
}

// SetupTest runs before each test in the suite, ensuring a clean state.
func (s *StreamTestSuite) SetupTest() {
	s.stream = New()
}

func (s *StreamTestSuite) TestEndToEnd() {
	st := s.stream
	s.Require().NoError(st.WriteAs(true, Bool))
	s.Assert().Equal("1", st.String())

	s.Require().NoError(st.WriteAs(false, Bool))
	s.Assert().Equal("10", st.String())

	s.Require().NoError(st.WriteAs(-128, Int8))
	s.Assert().Equal("1010000000", st.String())

	s.Require().NoError(st.WriteAs("AB", Str))
	s.Assert().Equal("10100000000100000101000010", st.String())

	bits, err := st.ReadN(Bool, 2)
	s.Require().NoError(err)
	s.Assert().Equal([]bool{true, false}, bits)
	s.Assert().Equal("100000000100000101000010", st.String())

	ints, err := st.ReadN(Int8, 1)
	s.Require().NoError(err)
	s.Assert().Equal([]int8{-128}, ints)

	text, err := st.ReadN(Str, 2)
	s.Require().NoError(err)
	s.Assert().Equal("AB", text)
	s.Assert().Equal("", st.String())
	s.Assert().Equal(0, st.Len())
}

func (s *StreamTestSuite) TestEqualityAcrossRepresentations() {
	bare, err := From(1.0)
	s.Require().NoError(err)
	tagged, err := FromAs(1.0, Float64)
	s.Require().NoError(err)
	listed, err := From([]float64{1.0})
	s.Require().NoError(err)

	s.Assert().True(bare.Equal(tagged))
	s.Assert().True(bare.Equal(listed))
	s.Assert().True(tagged.Equal(listed))
}

func (s *StreamTestSuite) TestExhaustion() {
	st := s.stream
	s.Require().NoError(st.WriteAs(int8(7), Int8))

	_, err := st.ReadN(Int8, 2)
	s.Require().ErrorIs(err, ErrEndOfStream)
	s.Assert().Equal(8, st.Len(), "failed read leaves the unread length unchanged")

	_, err = st.Read(Float64)
	s.Require().ErrorIs(err, ErrEndOfStream)
	s.Assert().Equal(8, st.Len())

	v, err := st.Read(Int8)
	s.Require().NoError(err)
	s.Assert().Equal(int8(7), v)
}

func (s *StreamTestSuite) TestCopyIndependence() {
	st := s.stream
	s.Require().NoError(st.Write([]bool{true, false, true}))

	dup := st.Copy()
	s.Require().True(st.Equal(dup))

	_, err := st.Read(Bool)
	s.Require().NoError(err)
	s.Require().NoError(dup.Write(false))

	s.Assert().Equal("01", st.String())
	s.Assert().Equal("1010", dup.String())
}

func (s *StreamTestSuite) TestAtomicWrites() {
	st := s.stream
	s.Require().NoError(st.Write(true))

	s.T().Run("MixedLeaves", func(t *testing.T) {
		err := st.WriteAs([]any{int8(1), "x"}, Int8)
		require.ErrorIs(t, err, ErrType)
		assert.Equal(t, "1", st.String())
	})

	s.T().Run("OverflowAfterValidLeaf", func(t *testing.T) {
		err := st.WriteAs([]any{1, 300}, Int8)
		require.ErrorIs(t, err, ErrOverflow)
		assert.Equal(t, "1", st.String())
	})

	s.T().Run("BadRuneAfterValidLeaf", func(t *testing.T) {
		err := st.WriteAs([]any{"ok", "€"}, Str)
		require.ErrorIs(t, err, ErrValue)
		assert.Equal(t, "1", st.String())
	})

	s.T().Run("BufferStillUsable", func(t *testing.T) {
		require.NoError(t, st.WriteAs(int8(-128), Int8))
		assert.Equal(t, "110000000", st.String())
	})
}

func (s *StreamTestSuite) TestUnknownTag() {
	_, err := s.stream.Read(Type{KindFloat, 32})
	s.Assert().ErrorIs(err, ErrUnknownType)

	err = s.stream.WriteAs(1.0, Type{KindFloat, 32})
	s.Assert().ErrorIs(err, ErrUnknownType)
}

func (s *StreamTestSuite) TestNegativeCount() {
	_, err := s.stream.ReadN(Bool, -1)
	s.Assert().ErrorIs(err, ErrValue)
}

func (s *StreamTestSuite) TestEmptyWrites() {
	st := s.stream
	s.Require().NoError(st.Write([]any{}))
	s.Require().NoError(st.Write([]bool{}))
	s.Require().NoError(st.WriteAs("", Str))
	s.Assert().Equal(0, st.Len())
}

func (s *StreamTestSuite) TestZeroCountReads() {
	st := s.stream
	s.Require().NoError(st.Write("A"))

	bits, err := st.ReadN(Bool, 0)
	s.Require().NoError(err)
	s.Assert().Empty(bits)

	text, err := st.ReadN(Str, 0)
	s.Require().NoError(err)
	s.Assert().Equal("", text)
	s.Assert().Equal(8, st.Len())
}

func TestStreamTestSuite(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}

func TestSeededConstruction(t *testing.T) {
	seeded, err := From([]bool{true, false})
	require.NoError(t, err)
	assert.Equal(t, "10", seeded.String())

	_, err = From(struct{}{})
	assert.ErrorIs(t, err, ErrUnknownType)

	tagged, err := FromAs(65, UInt8)
	require.NoError(t, err)
	assert.Equal(t, "01000001", tagged.String())
}

func TestScalarVersusSingletonEquality(t *testing.T) {
	scalar, err := From(int32(42))
	require.NoError(t, err)
	singleton, err := From([]int32{42})
	require.NoError(t, err)
	assert.True(t, scalar.Equal(singleton))
}
