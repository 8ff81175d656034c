package alloc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLimited[T any](t *testing.T, inner Allocator[T], b *Budget) *Limited[T] {
	t.Helper()
	l, err := NewLimited(inner, b)
	require.NoError(t, err)
	return l
}

func TestLimited(t *testing.T) {
	b := NewBudget(LimitConfig{MemoryLimitBytes: 64})
	l := mustLimited[int64](t, nil, b)
	assert.Same(t, b, l.Budget())

	buf, err := l.Allocate(6)
	require.NoError(t, err)
	assert.Equal(t, int64(48), b.Used())

	_, err = l.Allocate(4)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, int64(48), b.Used())

	l.Deallocate(buf)
	assert.Zero(t, b.Used())

	buf, err = l.Allocate(8)
	require.NoError(t, err)
	assert.Equal(t, int64(64), b.Limit())
	l.Deallocate(buf)
}

func TestLimited_InnerFailureRefunds(t *testing.T) {
	b := NewBudget(LimitConfig{MemoryLimitBytes: 1024})
	inner := NewTracking[int64](nil)
	inner.FailNext(nil)

	l := mustLimited[int64](t, inner, b)
	_, err := l.Allocate(4)
	assert.ErrorIs(t, err, ErrOutOfMemory)
	assert.Zero(t, b.Used())
}

func TestLimited_Equal(t *testing.T) {
	b1 := NewBudget(LimitConfig{})
	b2 := NewBudget(LimitConfig{})

	assert.True(t, mustLimited[int](t, nil, b1).Equal(mustLimited[int](t, nil, b1)))
	assert.False(t, mustLimited[int](t, nil, b1).Equal(mustLimited[int](t, nil, b2)))
	assert.False(t, mustLimited[int](t, nil, b1).Equal(Heap[int]{}))
}

func TestLimited_RejectsArena(t *testing.T) {
	b := NewBudget(LimitConfig{MemoryLimitBytes: 1 << 20})
	a, err := NewArena(ArenaConfig{ChunkSize: 4096, Budget: b})
	require.NoError(t, err)
	defer a.Free()

	inner, err := ArenaFor[int64](a)
	require.NoError(t, err)

	l, err := NewLimited[int64](inner, b)
	require.ErrorIs(t, err, ErrArenaInner)
	assert.Nil(t, l)
	assert.Equal(t, int64(4096), b.Used(), "only the mapped chunk is charged")
}

func TestBudget_Wait(t *testing.T) {
	b := NewBudget(LimitConfig{MemoryLimitBytes: 100})
	require.NoError(t, b.Wait(t.Context(), 100))

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, b.Wait(ctx, 1), ErrOutOfMemory)

	b.ReleaseMemory(100)
	assert.Zero(t, b.Used())
}

func TestBudget_Nil(t *testing.T) {
	var b *Budget
	assert.NoError(t, b.AcquireMemory(1<<40))
	assert.NoError(t, b.Wait(t.Context(), 1))
	b.ReleaseMemory(1)
	assert.Zero(t, b.Used())
	assert.Zero(t, b.Peak())
	assert.Zero(t, b.Limit())

	l := mustLimited[int](t, nil, nil)
	buf, err := l.Allocate(1000)
	require.NoError(t, err)
	assert.Len(t, buf, 1000)
}
