package arenatree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocateGet(t *testing.T) {
	a := NewArena[string]()

	h1 := a.Allocate("one")
	h2 := a.Allocate("two")

	v1, ok := a.Get(h1)
	require.True(t, ok)
	assert.Equal(t, "one", *v1)

	v2, ok := a.Get(h2)
	require.True(t, ok)
	assert.Equal(t, "two", *v2)

	assert.Equal(t, 2, a.Capacity())
	assert.Equal(t, 2, a.Allocated())
	assert.Equal(t, 0, a.Free())
}

func TestArenaGetMissing(t *testing.T) {
	a := NewArena[int]()
	_, ok := a.Get(NilHandle)
	assert.False(t, ok)

	_, ok = a.Get(Handle(0))
	assert.False(t, ok)

	h := a.Allocate(42)
	a.Deallocate(h)
	_, ok = a.Get(h)
	assert.False(t, ok)
}

func TestArenaDeallocateReusesSlot(t *testing.T) {
	a := NewArena[int]()
	h1 := a.Allocate(1)
	h2 := a.Allocate(2)
	a.Allocate(3)

	_, ok := a.Deallocate(h2)
	require.True(t, ok)
	assert.Equal(t, 1, a.Free())

	h4 := a.Allocate(4)
	assert.Equal(t, h2, h4, "LIFO free list should hand back the most recently freed slot")
	assert.Equal(t, 3, a.Capacity())
	assert.Equal(t, 3, a.Allocated())

	v, ok := a.Get(h1)
	require.True(t, ok)
	assert.Equal(t, 1, *v)
}

func TestArenaDeallocateNotAllocated(t *testing.T) {
	a := NewArena[int]()
	_, ok := a.Deallocate(Handle(5))
	assert.False(t, ok)

	h := a.Allocate(1)
	a.Deallocate(h)
	_, ok = a.Deallocate(h)
	assert.False(t, ok, "double deallocate is a no-op")
}

func TestArenaEach(t *testing.T) {
	a := NewArena[int]()
	h1 := a.Allocate(10)
	h2 := a.Allocate(20)
	a.Allocate(30)
	a.Deallocate(h2)

	seen := make(map[Handle]int)
	a.Each(func(h Handle, v *int) bool {
		seen[h] = *v
		return true
	})

	assert.Len(t, seen, 2)
	assert.Equal(t, 10, seen[h1])
	assert.NotContains(t, seen, h2)
}

func TestArenaEachStopsEarly(t *testing.T) {
	a := NewArena[int]()
	for i := 0; i < 5; i++ {
		a.Allocate(i)
	}
	count := 0
	a.Each(func(h Handle, v *int) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestArenaClear(t *testing.T) {
	a := NewArena[int]()
	a.Allocate(1)
	a.Allocate(2)
	a.Clear()
	assert.Equal(t, 0, a.Capacity())
	assert.Equal(t, 0, a.Allocated())
}

func TestArenaShrink(t *testing.T) {
	a := NewArena[int]()
	a.Allocate(1)
	h2 := a.Allocate(2)
	a.Allocate(3)
	a.Deallocate(h2)
	h3 := Handle(2)
	a.Deallocate(h3)

	a.Shrink()
	assert.Equal(t, 1, a.Capacity())
	assert.Equal(t, 1, a.Allocated())
	assert.Equal(t, 0, a.Free())
}

func TestArenaCompactRemapsHandles(t *testing.T) {
	a := NewArena[string]()
	h1 := a.Allocate("a")
	h2 := a.Allocate("b")
	h3 := a.Allocate("c")
	a.Deallocate(h2)

	remap := a.Compact()
	assert.Equal(t, 2, a.Capacity())
	assert.Equal(t, 2, a.Allocated())

	nh1, ok := remap[h1]
	require.True(t, ok)
	v, ok := a.Get(nh1)
	require.True(t, ok)
	assert.Equal(t, "a", *v)

	nh3, ok := remap[h3]
	require.True(t, ok)
	v, ok = a.Get(nh3)
	require.True(t, ok)
	assert.Equal(t, "c", *v)

	_, ok = remap[h2]
	assert.False(t, ok, "a freed handle has no remap entry")
}

func TestArenaUtilizationAndFragmentation(t *testing.T) {
	a := NewArena[int]()
	assert.Equal(t, 1.0, a.Utilization())
	assert.Equal(t, 0.0, a.Fragmentation())

	h1 := a.Allocate(1)
	a.Allocate(2)
	a.Allocate(3)
	a.Allocate(4)
	a.Deallocate(h1)

	assert.InDelta(t, 0.75, a.Utilization(), 0.0001)
	assert.InDelta(t, 0.25, a.Fragmentation(), 0.0001)
}

func TestArenaAllocateGrowthPreservesOtherPointers(t *testing.T) {
	a := NewArena[[8]int]()
	h := a.Allocate([8]int{1})
	for i := 0; i < 64; i++ {
		a.Allocate([8]int{i + 2})
	}
	v, ok := a.Get(h)
	require.True(t, ok)
	assert.Equal(t, 1, v[0], "repeated growth must not corrupt earlier slots")
}
