package arenatree

import "cmp"

// compactFanout is the fixed fan-out of the compact leaf variant,
// independent of any runtime-configured branching factor. It is sized so
// that a CompactLeaf of machine-word-sized K/V (e.g. int64/uint64) stays
// close to one 64-byte cache line: 6 inline (key, value) pairs plus an
// occupancy count and a next handle comfortably fit two cache lines for
// 8-byte keys/values, and exactly one for 4-byte ones. The array is sized
// one entry larger than the nominal fan-out so insert can reach a
// transient overfull state identical to the standard leaf's, ready for
// split.
const compactFanout = 6

// CompactLeaf is a cache-line-oriented alternative to leaf: the same
// sorted-run-plus-next-handle contract, but backed by fixed inline arrays
// instead of slices, avoiding a heap allocation per node body. It
// implements the same get/insert/split/remove/borrow/accept/merge
// operations as leaf with identical invariants and semantics — see
// spec.md §9 ("Compact / alternate node layouts"). It is not wired into
// Tree[K,V]'s arena by default (see DESIGN.md); it is a standalone,
// fully tested component demonstrating the layout choice.
type CompactLeaf[K cmp.Ordered, V any] struct {
	n      uint8
	keys   [compactFanout + 1]K
	values [compactFanout + 1]V
	next   Handle
}

// NewCompactLeaf returns an empty compact leaf.
func NewCompactLeaf[K cmp.Ordered, V any]() *CompactLeaf[K, V] {
	return &CompactLeaf[K, V]{next: NilHandle}
}

// Len returns the number of pairs currently stored.
func (l *CompactLeaf[K, V]) Len() int { return int(l.n) }

func (l *CompactLeaf[K, V]) search(key K) (idx int, found bool) {
	n := int(l.n)
	for idx = 0; idx < n; idx++ {
		if l.keys[idx] == key {
			return idx, true
		}
		if l.keys[idx] > key {
			return idx, false
		}
	}
	return n, false
}

// Get performs a point lookup.
func (l *CompactLeaf[K, V]) Get(key K) (V, bool) {
	var zero V
	idx, found := l.search(key)
	if !found {
		return zero, false
	}
	return l.values[idx], true
}

// Insert writes key/value into sorted position, overwriting the prior value
// if key is already present. The caller must check Len() against the
// tree's capacity afterward and call Split if overfull, exactly as with the
// standard leaf.
func (l *CompactLeaf[K, V]) Insert(key K, value V) (prev V, hadPrev bool) {
	idx, found := l.search(key)
	if found {
		prev = l.values[idx]
		l.values[idx] = value
		return prev, true
	}
	n := int(l.n)
	for i := n; i > idx; i-- {
		l.keys[i] = l.keys[i-1]
		l.values[i] = l.values[i-1]
	}
	l.keys[idx] = key
	l.values[idx] = value
	l.n++
	return prev, false
}

// Remove deletes key in place if present. underfull reports whether the
// resulting length dropped below minOccupancy(capacity).
func (l *CompactLeaf[K, V]) Remove(key K, capacity int) (value V, removed, underfull bool) {
	idx, found := l.search(key)
	if !found {
		return value, false, false
	}
	value = l.values[idx]
	n := int(l.n)
	for i := idx; i < n-1; i++ {
		l.keys[i] = l.keys[i+1]
		l.values[i] = l.values[i+1]
	}
	l.n--
	return value, true, int(l.n) < minOccupancy(capacity)
}

// Split moves the upper half of l into a freshly constructed right leaf,
// using the same n/2-left split point as the standard leaf. The returned
// separator is the right leaf's first key.
func (l *CompactLeaf[K, V]) Split() (sep K, right *CompactLeaf[K, V]) {
	n := int(l.n)
	mid := n / 2
	right = NewCompactLeaf[K, V]()
	for i := mid; i < n; i++ {
		right.keys[i-mid] = l.keys[i]
		right.values[i-mid] = l.values[i]
	}
	right.n = uint8(n - mid)
	right.next = l.next
	l.n = uint8(mid)
	sep = right.keys[0]
	return sep, right
}

// BorrowFirst removes and returns the first pair, only when doing so keeps
// l at or above minOccupancy(capacity).
func (l *CompactLeaf[K, V]) BorrowFirst(capacity int) (k K, v V, ok bool) {
	if int(l.n) <= minOccupancy(capacity) {
		return k, v, false
	}
	k, v = l.keys[0], l.values[0]
	n := int(l.n)
	for i := 0; i < n-1; i++ {
		l.keys[i] = l.keys[i+1]
		l.values[i] = l.values[i+1]
	}
	l.n--
	return k, v, true
}

// BorrowLast removes and returns the last pair, only when doing so keeps l
// at or above minOccupancy(capacity).
func (l *CompactLeaf[K, V]) BorrowLast(capacity int) (k K, v V, ok bool) {
	if int(l.n) <= minOccupancy(capacity) {
		return k, v, false
	}
	last := int(l.n) - 1
	k, v = l.keys[last], l.values[last]
	l.n--
	return k, v, true
}

// AcceptFromLeft prepends a pair, used when borrowing from a left sibling.
func (l *CompactLeaf[K, V]) AcceptFromLeft(k K, v V) {
	n := int(l.n)
	for i := n; i > 0; i-- {
		l.keys[i] = l.keys[i-1]
		l.values[i] = l.values[i-1]
	}
	l.keys[0], l.values[0] = k, v
	l.n++
}

// AcceptFromRight appends a pair, used when borrowing from a right sibling.
func (l *CompactLeaf[K, V]) AcceptFromRight(k K, v V) {
	l.keys[l.n], l.values[l.n] = k, v
	l.n++
}

// MergeFrom appends all of other's pairs to l and adopts other's next,
// leaving other empty. Returns l's new next handle (other's old one). The
// caller is responsible for bounds-checking that l.Len()+other.Len() fits
// within the fixed array before calling, exactly as the standard leaf's
// mergeFrom relies on the engine only ever merging two siblings whose
// combined occupancy is at most capacity.
func (l *CompactLeaf[K, V]) MergeFrom(other *CompactLeaf[K, V]) Handle {
	n, on := int(l.n), int(other.n)
	for i := 0; i < on; i++ {
		l.keys[n+i] = other.keys[i]
		l.values[n+i] = other.values[i]
	}
	l.n = uint8(n + on)
	l.next = other.next
	other.n = 0
	return l.next
}
