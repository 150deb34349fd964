package store

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_StructSizeAlignment(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	for size := 1; size <= 64; size++ {
		s := New(size, 10, WithLogger(logger))
		assert.Equal(t, ((size+7)>>3)<<3, s.StructSize(), "size %d", size)
		assert.Zero(t, s.StructSize()%8)
	}
	assert.Contains(t, logs.String(), "structSize must be a multiple of 8")

	logs.Reset()
	New(24, 10, WithLogger(logger))
	assert.Empty(t, logs.String(), "aligned sizes are not reported")

	assert.Equal(t, MinStructSize, AlignStructSize(0))
	assert.Equal(t, MinStructSize, AlignStructSize(-3))
}

func TestCheckIndex(t *testing.T) {
	s := New(8, 100)
	assert.False(t, s.HasIndex(10))
	assert.Equal(t, -1, s.MaxIndex())
	assert.Equal(t, -1, s.MinIndex())
	assert.False(t, s.HasIndex(200))
	assert.False(t, s.HasIndex(-1))
	assert.Zero(t, s.AllocatedCount())

	s.CheckIndex(10)
	assert.False(t, s.HasIndex(9))
	assert.True(t, s.HasIndex(10))
	assert.False(t, s.HasIndex(11))
	assert.Equal(t, 10, s.MinIndex())
	assert.Equal(t, 10, s.MaxIndex())
	assert.Equal(t, InitialCapacity, s.AllocatedCount())

	s.CheckIndex(200)
	assert.False(t, s.HasIndex(200))
	assert.Equal(t, 10, s.MinIndex())
	assert.Equal(t, 100, s.MaxIndex())

	s.CheckIndex(15)
	assert.True(t, s.HasIndex(15))
	assert.True(t, s.HasIndex(16))
	assert.Equal(t, 10, s.MinIndex())
	assert.Equal(t, 100, s.MaxIndex())

	s.CheckIndex(5)
	assert.False(t, s.HasIndex(4))
	assert.True(t, s.HasIndex(5))
	assert.Equal(t, 5, s.MinIndex())
	assert.Equal(t, 100, s.MaxIndex())

	last := s.MinIndex() + s.AllocatedCount() - 1
	s.CheckIndex(last)
	s.SetUint8(last, 0, 1)
	assert.Equal(t, 5, s.MinIndex())
	assert.Equal(t, 100, s.MaxIndex())
	assert.Equal(t, uint8(1), s.Uint8(last, 0))
}

func TestCheckIndex_Growth(t *testing.T) {
	s := New(16, 1000)
	s.CheckIndex(0)
	require.Equal(t, 32, s.AllocatedCount())

	// Within capacity: no reallocation.
	s.CheckIndex(31)
	assert.Equal(t, 32, s.AllocatedCount())

	// 1.5x growth.
	s.CheckIndex(32)
	assert.Equal(t, 48, s.AllocatedCount())

	// Requested size wins over 1.5x.
	s.CheckIndex(200)
	assert.Equal(t, 201, s.AllocatedCount())

	// Capped at the remaining index space.
	s.CheckIndex(5000)
	assert.Equal(t, 1001, s.AllocatedCount())
	assert.Equal(t, 1000, s.MaxIndex())
}

func TestCheckIndex_LowerGrowthPreservesRecords(t *testing.T) {
	s := New(8, 100)
	s.CheckIndex(20)
	s.CheckIndex(22)
	s.SetUint8(20, 0, 1)
	s.SetUint8(21, 0, 2)
	s.SetUint8(22, 0, 3)

	s.CheckIndex(17)
	assert.Equal(t, 17, s.MinIndex())
	assert.Equal(t, 22, s.MaxIndex())
	assert.Equal(t, InitialCapacity+3, s.AllocatedCount())
	for i := 17; i < 20; i++ {
		assert.Equal(t, uint8(0), s.Uint8(i, 0))
	}
	assert.Equal(t, uint8(1), s.Uint8(20, 0))
	assert.Equal(t, uint8(2), s.Uint8(21, 0))
	assert.Equal(t, uint8(3), s.Uint8(22, 0))

	s.CheckIndex(-4)
	assert.Equal(t, 0, s.MinIndex())
	assert.Equal(t, uint8(1), s.Uint8(20, 0))
}

func TestCheckIndex_Monotonic(t *testing.T) {
	s := New(8, 500)
	prevA, prevB := -1, -1
	for _, idx := range []int{250, 260, 240, 300, 100, 499, 0, 120} {
		s.CheckIndex(idx)
		require.True(t, s.HasIndex(idx))
		if prevA != -1 {
			assert.LessOrEqual(t, s.MinIndex(), prevA)
			assert.GreaterOrEqual(t, s.MaxIndex(), prevB)
		}
		prevA, prevB = s.MinIndex(), s.MaxIndex()
		assert.GreaterOrEqual(t, s.AllocatedCount(), s.Count())
		assert.Zero(t, s.ByteSize()%8)
	}
}

func TestProjectedBytes(t *testing.T) {
	s := New(8, 100)
	for _, idx := range []int{10, 11, 60, 200, 3, 50, -1} {
		want := s.ProjectedBytes(idx)
		s.CheckIndex(idx)
		assert.Equal(t, want, s.ByteSize(), "index %d", idx)
	}
}

func TestClone(t *testing.T) {
	s := New(8, 100)
	s.CheckIndex(5)
	s.CheckIndex(15)
	s.SetUint8(5, 0, 1)
	s.SetUint8(10, 0, 2)
	s.SetUint8(15, 0, 3)

	c := s.Clone()
	assert.Equal(t, 5, c.MinIndex())
	assert.Equal(t, 15, c.MaxIndex())
	assert.Equal(t, s.ByteSize(), c.ByteSize())
	assert.Equal(t, uint8(1), c.Uint8(5, 0))
	assert.Equal(t, uint8(2), c.Uint8(10, 0))
	assert.Equal(t, uint8(3), c.Uint8(15, 0))

	// Independent storage.
	c.SetUint8(10, 0, 42)
	s.SetUint8(5, 0, 7)
	assert.Equal(t, uint8(2), s.Uint8(10, 0))
	assert.Equal(t, uint8(1), c.Uint8(5, 0))

	c.DeleteRange(0, 100)
	assert.Equal(t, 5, s.MinIndex())
	assert.Equal(t, 15, s.MaxIndex())

	empty := New(8, 10).Clone()
	assert.Equal(t, -1, empty.MinIndex())
	assert.Zero(t, empty.AllocatedCount())
}

func TestGrowHook(t *testing.T) {
	var total int
	s := New(8, 1000, WithGrowHook(func(oldBytes, newBytes int) {
		total += newBytes - oldBytes
	}))

	s.CheckIndex(10)
	assert.Equal(t, s.ByteSize(), total)

	s.CheckIndex(500)
	assert.Equal(t, s.ByteSize(), total)

	s.CheckIndex(0)
	assert.Equal(t, s.ByteSize(), total)

	s.DeleteRange(0, 1001)
	assert.Zero(t, total)
	assert.Zero(t, s.ByteSize())
}

func TestRestore(t *testing.T) {
	s := New(8, 100)
	s.CheckIndex(3)
	s.CheckIndex(6)
	for i := 3; i <= 6; i++ {
		s.SetUint8(i, 0, uint8(i))
	}

	data := append([]byte(nil), s.LiveBytes()...)
	r := New(8, 100)
	r.Restore(3, 6, data)
	assert.Equal(t, 3, r.MinIndex())
	assert.Equal(t, 6, r.MaxIndex())
	for i := 3; i <= 6; i++ {
		assert.Equal(t, uint8(i), r.Uint8(i, 0))
	}

	r.Restore(5, 200, data)
	assert.Equal(t, -1, r.MinIndex())
}
