package arenatree

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[K cmp.Ordered, V any](it *Iterator[K, V]) []KeyValue[K, V] {
	var out []KeyValue[K, V]
	for {
		kv, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, kv)
	}
}

func TestIterFullRange(t *testing.T) {
	tr, _ := New[int, int](4)
	for _, k := range []int{5, 3, 1, 4, 2} {
		tr.Insert(k, k*10)
	}
	got := drain(tr.Iter())
	require.Len(t, got, 5)
	for i, kv := range got {
		assert.Equal(t, i+1, kv.Key)
		assert.Equal(t, (i+1)*10, kv.Value)
	}
}

func TestIterOnEmptyTree(t *testing.T) {
	tr, _ := New[int, int](4)
	got := drain(tr.Iter())
	assert.Empty(t, got)
}

func TestRangeIncludedBothEnds(t *testing.T) {
	tr, _ := New[int, int](4)
	for i := 0; i < 20; i++ {
		tr.Insert(i, i)
	}
	got := drain(tr.Range(Included(5), Included(10)))
	var keys []int
	for _, kv := range got {
		keys = append(keys, kv.Key)
	}
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10}, keys)
}

func TestRangeExcludedStart(t *testing.T) {
	tr, _ := New[int, int](4)
	for i := 0; i < 10; i++ {
		tr.Insert(i, i)
	}
	got := drain(tr.Range(Excluded(5), Included(7)))
	var keys []int
	for _, kv := range got {
		keys = append(keys, kv.Key)
	}
	assert.Equal(t, []int{6, 7}, keys)
}

func TestRangeUnboundedStart(t *testing.T) {
	tr, _ := New[int, int](4)
	for i := 0; i < 10; i++ {
		tr.Insert(i, i)
	}
	got := drain(tr.Range(Unbounded[int](), Excluded(3)))
	var keys []int
	for _, kv := range got {
		keys = append(keys, kv.Key)
	}
	assert.Equal(t, []int{0, 1, 2}, keys)
}

func TestRangeStartAboveAllKeysIsEmpty(t *testing.T) {
	tr, _ := New[int, int](4)
	for i := 0; i < 5; i++ {
		tr.Insert(i, i)
	}
	got := drain(tr.Range(Included(100), Unbounded[int]()))
	assert.Empty(t, got)
}

func TestRangeCrossesMultipleLeafBoundaries(t *testing.T) {
	tr, _ := New[int, int](4)
	for i := 0; i < 100; i++ {
		tr.Insert(i, i)
	}
	got := drain(tr.Range(Included(10), Excluded(90)))
	assert.Len(t, got, 80)
	assert.Equal(t, 10, got[0].Key)
	assert.Equal(t, 89, got[len(got)-1].Key)
}

func TestKeysAndValuesProjections(t *testing.T) {
	tr, _ := New[int, string](4)
	tr.Insert(1, "a")
	tr.Insert(2, "b")

	ki := tr.Keys()
	var keys []int
	for {
		k, ok := ki.Next()
		if !ok {
			break
		}
		keys = append(keys, k)
	}
	assert.Equal(t, []int{1, 2}, keys)

	vi := tr.Values()
	var values []string
	for {
		v, ok := vi.Next()
		if !ok {
			break
		}
		values = append(values, v)
	}
	assert.Equal(t, []string{"a", "b"}, values)
}

func TestIteratorExhaustionIsSticky(t *testing.T) {
	tr, _ := New[int, int](4)
	tr.Insert(1, 1)
	it := tr.Iter()
	_, ok := it.Next()
	require.True(t, ok)
	_, ok = it.Next()
	require.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok, "a spent iterator stays spent")
}
