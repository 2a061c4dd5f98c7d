package arenatree

import "cmp"

// BoundKind discriminates the three shapes a range endpoint can take.
type BoundKind uint8

const (
	// BoundUnbounded means "no limit on this side".
	BoundUnbounded BoundKind = iota
	// BoundIncluded means the key itself is part of the range.
	BoundIncluded
	// BoundExcluded means the key is the edge but not part of the range.
	BoundExcluded
)

// Bound is one endpoint of a range query: Included(k), Excluded(k), or
// Unbounded.
type Bound[K cmp.Ordered] struct {
	Kind BoundKind
	Key  K
}

// Included returns a bound that includes k.
func Included[K cmp.Ordered](k K) Bound[K] { return Bound[K]{Kind: BoundIncluded, Key: k} }

// Excluded returns a bound that stops just short of k.
func Excluded[K cmp.Ordered](k K) Bound[K] { return Bound[K]{Kind: BoundExcluded, Key: k} }

// Unbounded returns a bound with no limit.
func Unbounded[K cmp.Ordered]() Bound[K] { return Bound[K]{Kind: BoundUnbounded} }

// Iterator produces a lazy, finite, ascending sequence of key/value pairs.
// It caches a direct reference to the current leaf and an index within it;
// no arena access occurs per item while iteration stays within one leaf, and
// an arena access occurs only when advancing across a leaf boundary.
//
// Any mutation of the tree while an Iterator is live invalidates it; the
// type does nothing to detect or prevent this, per spec.md §4.6/§5 —
// enforcing it is the caller's responsibility.
type Iterator[K cmp.Ordered, V any] struct {
	tree *Tree[K, V]
	leaf *leaf[K, V]
	idx  int
	end  Bound[K]
	done bool
}

// Iter returns an iterator over every entry in ascending key order.
func (t *Tree[K, V]) Iter() *Iterator[K, V] {
	return t.Range(Unbounded[K](), Unbounded[K]())
}

// Range returns an iterator over entries whose key satisfies both bounds,
// in ascending key order. Construction performs at most one branch descent
// to locate the starting leaf/index; advancement thereafter walks the leaf
// chain directly, bypassing the branch structure.
func (t *Tree[K, V]) Range(start, end Bound[K]) *Iterator[K, V] {
	var leafHandle Handle
	var idx int

	switch start.Kind {
	case BoundUnbounded:
		leafHandle = t.leftmostLeaf(t.root)
		idx = 0
	default:
		ref := t.root
		for ref.Kind == BranchKind {
			b := t.getBranch(ref.Handle)
			ref = b.children[b.findChildIndex(start.Key)]
		}
		leafHandle = ref.Handle
		l := t.getLeaf(leafHandle)
		i, found := l.search(start.Key)
		if start.Kind == BoundExcluded && found {
			i++
		}
		idx = i
	}

	return &Iterator[K, V]{tree: t, leaf: t.getLeaf(leafHandle), idx: idx, end: end}
}

func satisfiesEnd[K cmp.Ordered](key K, end Bound[K]) bool {
	switch end.Kind {
	case BoundIncluded:
		return key <= end.Key
	case BoundExcluded:
		return key < end.Key
	default:
		return true
	}
}

// Next advances the iterator and returns the next pair in ascending key
// order, or (zero, false) once the range or the tree is exhausted. Once
// Next reports exhaustion it never yields further items thereafter.
func (it *Iterator[K, V]) Next() (KeyValue[K, V], bool) {
	for {
		if it.done || it.leaf == nil {
			return KeyValue[K, V]{}, false
		}
		if it.idx >= len(it.leaf.keys) {
			next := it.leaf.next
			if next == NilHandle {
				it.done = true
				it.leaf = nil
				return KeyValue[K, V]{}, false
			}
			it.leaf = it.tree.getLeaf(next)
			it.idx = 0
			continue
		}
		key := it.leaf.keys[it.idx]
		if !satisfiesEnd(key, it.end) {
			it.done = true
			it.leaf = nil
			return KeyValue[K, V]{}, false
		}
		kv := KeyValue[K, V]{Key: key, Value: it.leaf.values[it.idx]}
		it.idx++
		return kv, true
	}
}

// KeyIterator projects an Iterator onto its keys.
type KeyIterator[K cmp.Ordered, V any] struct{ inner *Iterator[K, V] }

// Next returns the next key in ascending order, or (zero, false) when
// exhausted.
func (ki *KeyIterator[K, V]) Next() (K, bool) {
	kv, ok := ki.inner.Next()
	return kv.Key, ok
}

// ValueIterator projects an Iterator onto its values.
type ValueIterator[K cmp.Ordered, V any] struct{ inner *Iterator[K, V] }

// Next returns the next value in ascending key order, or (zero, false) when
// exhausted.
func (vi *ValueIterator[K, V]) Next() (V, bool) {
	kv, ok := vi.inner.Next()
	return kv.Value, ok
}

// Keys returns a projection of Iter onto keys only.
func (t *Tree[K, V]) Keys() *KeyIterator[K, V] { return &KeyIterator[K, V]{inner: t.Iter()} }

// Values returns a projection of Iter onto values only.
func (t *Tree[K, V]) Values() *ValueIterator[K, V] { return &ValueIterator[K, V]{inner: t.Iter()} }
