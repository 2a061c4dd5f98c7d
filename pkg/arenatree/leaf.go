package arenatree

import (
	"cmp"
	"sort"
)

// leaf stores a sorted run of up to capacity key/value pairs plus a next
// handle chaining it to the leaf holding the next greater keys. An empty
// leaf is legal only when it is the sole root.
type leaf[K cmp.Ordered, V any] struct {
	keys   []K
	values []V
	next   Handle
}

func newLeaf[K cmp.Ordered, V any](capacity int) *leaf[K, V] {
	return &leaf[K, V]{
		keys:   make([]K, 0, capacity+1),
		values: make([]V, 0, capacity+1),
		next:   NilHandle,
	}
}

// minOccupancy is the minimum key/separator count for any non-root node of
// the given branching factor: ceil(capacity/2).
func minOccupancy(capacity int) int {
	return (capacity + 1) / 2
}

// search returns the index of key if present, and the index at which it
// would be inserted to keep keys strictly increasing otherwise.
func (l *leaf[K, V]) search(key K) (idx int, found bool) {
	idx = sort.Search(len(l.keys), func(i int) bool { return l.keys[i] >= key })
	found = idx < len(l.keys) && l.keys[idx] == key
	return idx, found
}

func (l *leaf[K, V]) get(key K) (V, bool) {
	var zero V
	idx, found := l.search(key)
	if !found {
		return zero, false
	}
	return l.values[idx], true
}

func (l *leaf[K, V]) getPtr(key K) (*V, bool) {
	idx, found := l.search(key)
	if !found {
		return nil, false
	}
	return &l.values[idx], true
}

// insert writes key/value into sorted position, overwriting the prior value
// if key is already present. It returns the prior value, if any. The caller
// is responsible for checking overfull state (len > capacity) and invoking
// split afterward.
func (l *leaf[K, V]) insert(key K, value V) (prev V, hadPrev bool) {
	idx, found := l.search(key)
	if found {
		prev = l.values[idx]
		l.values[idx] = value
		return prev, true
	}
	l.keys = append(l.keys, key)
	l.values = append(l.values, value)
	copy(l.keys[idx+1:], l.keys[idx:])
	copy(l.values[idx+1:], l.values[idx:])
	l.keys[idx] = key
	l.values[idx] = value
	return prev, false
}

// remove deletes key in place if present. underfull reports whether the
// resulting length dropped below the minimum occupancy for capacity.
func (l *leaf[K, V]) remove(key K, capacity int) (value V, removed, underfull bool) {
	idx, found := l.search(key)
	if !found {
		return value, false, false
	}
	value = l.values[idx]
	l.keys = append(l.keys[:idx], l.keys[idx+1:]...)
	l.values = append(l.values[:idx], l.values[idx+1:]...)
	return value, true, len(l.keys) < minOccupancy(capacity)
}

// split moves the upper half of l into a freshly constructed right leaf: the
// left side keeps n/2 entries (n is the overfull count, capacity+1 at the
// moment of split) and the right side gets the remainder, n-n/2, which is
// never smaller than n/2. The returned separator is the right leaf's first
// key. The caller is responsible for allocating the right leaf in the arena
// and rewriting l.next to point to it; the right leaf's next already carries
// l's original next.
func (l *leaf[K, V]) split(capacity int) (sep K, right *leaf[K, V]) {
	n := len(l.keys)
	mid := n / 2
	right = newLeaf[K, V](capacity)
	right.keys = append(right.keys, l.keys[mid:]...)
	right.values = append(right.values, l.values[mid:]...)
	right.next = l.next
	l.keys = l.keys[:mid]
	l.values = l.values[:mid]
	sep = right.keys[0]
	return sep, right
}

// borrowFirst removes and returns the first pair, only valid when doing so
// keeps l at or above minOccupancy(capacity).
func (l *leaf[K, V]) borrowFirst(capacity int) (k K, v V, ok bool) {
	if len(l.keys) <= minOccupancy(capacity) {
		return k, v, false
	}
	k, v = l.keys[0], l.values[0]
	l.keys = l.keys[1:]
	l.values = l.values[1:]
	return k, v, true
}

// borrowLast removes and returns the last pair, only valid when doing so
// keeps l at or above minOccupancy(capacity).
func (l *leaf[K, V]) borrowLast(capacity int) (k K, v V, ok bool) {
	if len(l.keys) <= minOccupancy(capacity) {
		return k, v, false
	}
	last := len(l.keys) - 1
	k, v = l.keys[last], l.values[last]
	l.keys = l.keys[:last]
	l.values = l.values[:last]
	return k, v, true
}

func (l *leaf[K, V]) acceptFromLeft(k K, v V) {
	l.keys = append(l.keys, k)
	l.values = append(l.values, v)
	copy(l.keys[1:], l.keys[:len(l.keys)-1])
	copy(l.values[1:], l.values[:len(l.values)-1])
	l.keys[0] = k
	l.values[0] = v
}

func (l *leaf[K, V]) acceptFromRight(k K, v V) {
	l.keys = append(l.keys, k)
	l.values = append(l.values, v)
}

// mergeFrom appends all of other's pairs to l and adopts other's next. other
// is left empty; the caller deallocates it and patches predecessor links.
// Returns other's original next handle (now l's next).
func (l *leaf[K, V]) mergeFrom(other *leaf[K, V]) Handle {
	l.keys = append(l.keys, other.keys...)
	l.values = append(l.values, other.values...)
	l.next = other.next
	other.keys = nil
	other.values = nil
	return l.next
}
