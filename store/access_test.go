package store

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessors_Simple(t *testing.T) {
	// 24 bytes hold 5+1+4+8 = 18 bytes of fields.
	s := New(24, 100)
	s.CheckIndex(8)
	s.CheckIndex(12)

	s.SetUint8(8, 5, 2)
	s.SetInt32(9, 5, 0xfffff)
	s.SetFloat64(10, 5, 0.123456789)
	assert.Equal(t, uint8(2), s.Uint8(8, 5))
	assert.Equal(t, int32(0xfffff), s.Int32(9, 5))
	assert.Equal(t, 0.123456789, s.Float64(10, 5))

	s.SetUint8(11, 3, 2)
	s.SetInt32(11, 3+1, 0xfffff)
	s.SetFloat64(11, 3+1+4, 0.123456789)
	assert.Equal(t, uint8(2), s.Uint8(11, 3))
	assert.Equal(t, int32(0xfffff), s.Int32(11, 3+1))
	assert.Equal(t, 0.123456789, s.Float64(11, 3+1+4))
}

func TestAccessors_Int32Sign(t *testing.T) {
	s := New(24, 100)
	s.CheckIndex(10)

	maxUint := uint32(0xFFFFFFFF)
	s.SetInt32(10, 0, -123456)
	s.SetInt32(10, 4, math.MaxInt32)
	s.SetInt32(10, 8, int32(maxUint))

	assert.Equal(t, int32(-123456), s.Int32(10, 0))
	assert.Equal(t, int32(math.MaxInt32), s.Int32(10, 4))
	assert.Equal(t, int32(-1), s.Int32(10, 8), "0xFFFFFFFF reads back as -1")

	assert.Equal(t, uint32(0xFFFFFFFF-123456+1), uint32(s.Int32(10, 0)))
	assert.Equal(t, uint32(math.MaxInt32), uint32(s.Int32(10, 4)))
	assert.Equal(t, maxUint, uint32(s.Int32(10, 8)))
}

func TestAccessors_Bytes(t *testing.T) {
	s := New(24, 100)
	s.CheckIndex(10)

	s.SetUint8(10, 12, 0xAA)
	s.SetUint8(10, 13, 0x55)
	s.SetUint8(10, 14, 0xFF)
	s.SetUint8(10, 15, 0x00)

	assert.Equal(t, uint8(0xAA), s.Uint8(10, 12))
	assert.Equal(t, uint8(0x55), s.Uint8(10, 13))
	assert.Equal(t, uint8(0xFF), s.Uint8(10, 14))
	assert.Equal(t, uint8(0x00), s.Uint8(10, 15))
	assert.NotZero(t, s.Int32(10, 12))

	// RGBA packed into one 32-bit field.
	s.SetUint8(10, 16, 0xFF)
	s.SetUint8(10, 17, 0x80)
	s.SetUint8(10, 18, 0x20)
	s.SetUint8(10, 19, 0xFF)
	assert.Equal(t, uint8(0x80), s.Uint8(10, 17))
	assert.Equal(t, uint8(0x20), s.Uint8(10, 18))

	packed := uint32(s.Int32(10, 16))
	want := ByteOrder.Uint32([]byte{0xFF, 0x80, 0x20, 0xFF})
	assert.Equal(t, want, packed)
}

func TestAccessors_RoundTrip(t *testing.T) {
	s := New(32, 1000)
	s.CheckIndex(100)
	s.CheckIndex(400)

	for i := 100; i <= 400; i++ {
		s.SetUint8(i, 0, uint8(i))
		s.SetInt32(i, 4, int32(-i*7919))
		s.SetFloat64(i, 8, float64(i)/3)
		s.SetFloat64(i, 16, -float64(i))
		s.SetInt32(i, 24, int32(i))
		s.SetInt32(i, 28, math.MinInt32+int32(i))
	}
	for i := 100; i <= 400; i++ {
		require.Equal(t, uint8(i), s.Uint8(i, 0))
		require.Equal(t, int32(-i*7919), s.Int32(i, 4))
		require.Equal(t, float64(i)/3, s.Float64(i, 8))
		require.Equal(t, -float64(i), s.Float64(i, 16))
		require.Equal(t, int32(i), s.Int32(i, 24))
		require.Equal(t, math.MinInt32+int32(i), s.Int32(i, 28))
	}
}

func TestAccessors_SpecialFloats(t *testing.T) {
	s := New(8, 10)
	s.CheckIndex(0)
	s.CheckIndex(2)

	s.SetFloat64(0, 0, math.Inf(1))
	s.SetFloat64(1, 0, math.NaN())
	s.SetFloat64(2, 0, math.Copysign(0, -1))

	assert.True(t, math.IsInf(s.Float64(0, 0), 1))
	assert.True(t, math.IsNaN(s.Float64(1, 0)))
	assert.True(t, math.Signbit(s.Float64(2, 0)))
}

func TestBytes(t *testing.T) {
	s := New(16, 10)
	s.CheckIndex(3)
	s.SetUint8(3, 15, 1)

	rec := s.Bytes(3)
	require.Len(t, rec, 16)
	assert.Equal(t, uint8(1), rec[15])

	rec[0] = 9
	assert.Equal(t, uint8(9), s.Uint8(3, 0))
}

func BenchmarkCheckIndex_Append(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s := New(16, 1<<20)
		for r := 0; r < 10000; r++ {
			s.CheckIndex(r)
		}
	}
}

func BenchmarkInsertRange(b *testing.B) {
	s := New(16, 1<<20)
	s.CheckIndex(0)
	s.CheckIndex(10000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.InsertRange(5000, 1)
		s.DeleteRange(5000, 1)
	}
}
