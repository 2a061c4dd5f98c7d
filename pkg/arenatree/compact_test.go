package arenatree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactLeafInsertAndGet(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	l.Insert(3, 30)
	l.Insert(1, 10)
	l.Insert(2, 20)

	assert.Equal(t, 3, l.Len())
	v, ok := l.Get(2)
	require.True(t, ok)
	assert.Equal(t, int64(20), v)

	_, ok = l.Get(9)
	assert.False(t, ok)
}

func TestCompactLeafInsertOverwrites(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	l.Insert(1, 10)
	prev, had := l.Insert(1, 11)
	assert.True(t, had)
	assert.Equal(t, int64(10), prev)
	assert.Equal(t, 1, l.Len())
}

func TestCompactLeafRemove(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	l.Insert(1, 10)
	l.Insert(2, 20)
	l.Insert(3, 30)

	v, removed, underfull := l.Remove(2, 4)
	assert.True(t, removed)
	assert.Equal(t, int64(20), v)
	assert.False(t, underfull, "two keys left equals minOccupancy(4)")

	_, removed, _ = l.Remove(99, 4)
	assert.False(t, removed)
}

func TestCompactLeafSplit(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	for i := int32(1); i <= 7; i++ {
		l.Insert(i, int64(i)*10)
	}
	require.Equal(t, 7, l.Len())

	sep, right := l.Split()
	assert.Equal(t, int32(4), sep)
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, 4, right.Len())
	v, ok := right.Get(4)
	require.True(t, ok)
	assert.Equal(t, int64(40), v)
}

func TestCompactLeafSplitPreservesNext(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	l.next = Handle(42)
	for i := int32(1); i <= 7; i++ {
		l.Insert(i, 0)
	}
	_, right := l.Split()
	assert.Equal(t, Handle(42), right.next)
}

func TestCompactLeafBorrowAndAccept(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	l.Insert(1, 10)
	l.Insert(2, 20)
	l.Insert(3, 30)

	k, v, ok := l.BorrowLast(4)
	require.True(t, ok)
	assert.Equal(t, int32(3), k)
	assert.Equal(t, int64(30), v)
	assert.Equal(t, 2, l.Len())

	other := NewCompactLeaf[int32, int64]()
	other.AcceptFromRight(k, v)
	assert.Equal(t, 1, other.Len())
	gotV, ok := other.Get(3)
	require.True(t, ok)
	assert.Equal(t, int64(30), gotV)

	other.AcceptFromLeft(0, 0)
	assert.Equal(t, 2, other.Len())
	gotV, ok = other.Get(0)
	require.True(t, ok)
	assert.Equal(t, int64(0), gotV)
}

func TestCompactLeafBorrowRespectsMinOccupancy(t *testing.T) {
	l := NewCompactLeaf[int32, int64]()
	l.Insert(1, 10)
	l.Insert(2, 20)
	_, _, ok := l.BorrowFirst(4)
	assert.False(t, ok, "minOccupancy(4) == 2, borrowing would underflow")
}

func TestCompactLeafMergeFrom(t *testing.T) {
	left := NewCompactLeaf[int32, int64]()
	left.Insert(1, 10)
	left.Insert(2, 20)
	right := NewCompactLeaf[int32, int64]()
	right.Insert(3, 30)
	right.next = Handle(9)

	newNext := left.MergeFrom(right)
	assert.Equal(t, 3, left.Len())
	assert.Equal(t, Handle(9), newNext)
	v, ok := left.Get(3)
	require.True(t, ok)
	assert.Equal(t, int64(30), v)
	assert.Equal(t, 0, right.Len())
}
