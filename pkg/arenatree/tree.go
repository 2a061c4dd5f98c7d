package arenatree

import (
	"cmp"

	"github.com/cockroachdb/errors"
)

// MinCapacity is the smallest branching factor construction accepts.
const MinCapacity = 4

// DefaultCapacity is used by NewDefault; a reasonable middle ground for
// small-to-medium trees.
const DefaultCapacity = 16

// Tree is an ordered map of K to V backed by a B+ tree of arena-allocated
// leaf and branch nodes. It is single-writer, single-reader-at-a-time by
// contract: the zero value is not usable, construct with New or Empty.
type Tree[K cmp.Ordered, V any] struct {
	capacity int
	root     NodeRef
	leaves   *Arena[leaf[K, V]]
	branches *Arena[branch[K]]
	length   int

	// Diagnostic counters, exposed via Stats; non-semantic.
	splits     int
	merges     int
	rebalances int
}

// New constructs a tree with the given branching factor. It fails with
// ErrInvalidCapacity if capacity is below MinCapacity.
func New[K cmp.Ordered, V any](capacity int) (*Tree[K, V], error) {
	if capacity < MinCapacity {
		return nil, ErrInvalidCapacity
	}
	return newTree[K, V](capacity), nil
}

// Empty constructs a tree whose root is a freshly allocated empty leaf. It
// is equivalent to New and exists to match the vocabulary of spec.md §6;
// some callers prefer the name when emphasizing that the returned tree
// holds no entries yet (which is always true right after construction).
func Empty[K cmp.Ordered, V any](capacity int) (*Tree[K, V], error) {
	return New[K, V](capacity)
}

// NewDefault constructs a tree with DefaultCapacity.
func NewDefault[K cmp.Ordered, V any]() *Tree[K, V] {
	t, _ := New[K, V](DefaultCapacity)
	return t
}

func newTree[K cmp.Ordered, V any](capacity int) *Tree[K, V] {
	t := &Tree[K, V]{
		capacity: capacity,
		leaves:   NewArena[leaf[K, V]](),
		branches: NewArena[branch[K]](),
	}
	rootHandle := t.leaves.Allocate(*newLeaf[K, V](capacity))
	t.root = NodeRef{Kind: LeafKind, Handle: rootHandle}
	return t
}

// Capacity returns the tree's branching factor.
func (t *Tree[K, V]) Capacity() int { return t.capacity }

// Len returns the number of key/value pairs stored.
func (t *Tree[K, V]) Len() int { return t.length }

// IsEmpty reports whether the tree holds no entries.
func (t *Tree[K, V]) IsEmpty() bool { return t.length == 0 }

// Clear resets the tree to a fresh empty leaf root, releasing all arena
// storage. Any outstanding iterator is invalidated.
func (t *Tree[K, V]) Clear() {
	t.leaves.Clear()
	t.branches.Clear()
	rootHandle := t.leaves.Allocate(*newLeaf[K, V](t.capacity))
	t.root = NodeRef{Kind: LeafKind, Handle: rootHandle}
	t.length = 0
}

func (t *Tree[K, V]) getLeaf(h Handle) *leaf[K, V] {
	l, ok := t.leaves.Get(h)
	if !ok {
		panic(integrityFault(&arenaError{op: "get-leaf", h: h}))
	}
	return l
}

func (t *Tree[K, V]) getBranch(h Handle) *branch[K] {
	b, ok := t.branches.Get(h)
	if !ok {
		panic(integrityFault(&arenaError{op: "get-branch", h: h}))
	}
	return b
}

// leftmostLeaf descends from ref along child index 0 until it reaches a
// leaf, returning that leaf's handle.
func (t *Tree[K, V]) leftmostLeaf(ref NodeRef) Handle {
	for ref.Kind == BranchKind {
		b := t.getBranch(ref.Handle)
		if len(b.children) == 0 {
			panic(integrityFault(&nodeError{reason: "branch with no children while descending leftmost"}))
		}
		ref = b.children[0]
	}
	return ref.Handle
}

// ContainsKey reports whether key is present.
func (t *Tree[K, V]) ContainsKey(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// Get performs a point lookup, descending from the root and consulting
// branches via findChildIndex, then binary-searching the leaf.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	ref := t.root
	for ref.Kind == BranchKind {
		b := t.getBranch(ref.Handle)
		ref = b.children[b.findChildIndex(key)]
	}
	return t.getLeaf(ref.Handle).get(key)
}

// MustGet returns the value for key, or ErrKeyNotFound if key is absent.
// It is a strict counterpart to Get for callers that want a definite error
// rather than a boolean.
func (t *Tree[K, V]) MustGet(key K) (V, error) {
	v, ok := t.Get(key)
	if !ok {
		return v, errors.Mark(errors.Newf("arenatree: key %v not found", key), ErrKeyNotFound)
	}
	return v, nil
}

// GetMut returns a pointer to the stored value for key, or (nil, false) if
// absent. The pointer is valid until the next mutation of the tree.
func (t *Tree[K, V]) GetMut(key K) (*V, bool) {
	ref := t.root
	for ref.Kind == BranchKind {
		b := t.getBranch(ref.Handle)
		ref = b.children[b.findChildIndex(key)]
	}
	return t.getLeaf(ref.Handle).getPtr(key)
}

// KeyValue is a key/value pair, returned by GetKeyValue, FirstKeyValue,
// LastKeyValue, PopFirst, PopLast, and yielded by iterators.
type KeyValue[K cmp.Ordered, V any] struct {
	Key   K
	Value V
}

// GetKeyValue returns the stored (key, value) pair matching key, if present.
func (t *Tree[K, V]) GetKeyValue(key K) (KeyValue[K, V], bool) {
	v, ok := t.Get(key)
	if !ok {
		return KeyValue[K, V]{}, false
	}
	return KeyValue[K, V]{Key: key, Value: v}, true
}

// FirstKeyValue returns the pair with the smallest key, if any.
func (t *Tree[K, V]) FirstKeyValue() (KeyValue[K, V], bool) {
	h := t.leftmostLeaf(t.root)
	l := t.getLeaf(h)
	if len(l.keys) == 0 {
		return KeyValue[K, V]{}, false
	}
	return KeyValue[K, V]{Key: l.keys[0], Value: l.values[0]}, true
}

// LastKeyValue returns the pair with the largest key, if any.
func (t *Tree[K, V]) LastKeyValue() (KeyValue[K, V], bool) {
	ref := t.root
	for ref.Kind == BranchKind {
		b := t.getBranch(ref.Handle)
		ref = b.children[len(b.children)-1]
	}
	l := t.getLeaf(ref.Handle)
	if len(l.keys) == 0 {
		return KeyValue[K, V]{}, false
	}
	last := len(l.keys) - 1
	return KeyValue[K, V]{Key: l.keys[last], Value: l.values[last]}, true
}

// splitResult carries a promoted separator and new right sibling up through
// the recursive insert, mirroring the "Split?" signal of spec.md §4.4.
type splitResult[K cmp.Ordered] struct {
	sep      K
	right    NodeRef
	hasSplit bool
}

// Insert adds or replaces the value for key, returning the prior value if
// any. A leaf overflow triggers a split whose separator/right-sibling is
// threaded back up through each branch on the path; if the root itself
// split, a fresh root branch is allocated above both halves.
func (t *Tree[K, V]) Insert(key K, value V) (prev V, hadPrev bool) {
	prev, hadPrev, sr := t.insert(t.root, key, value)
	if sr.hasSplit {
		newRootHandle := t.branches.Allocate(branch[K]{
			keys:     []K{sr.sep},
			children: []NodeRef{t.root, sr.right},
		})
		t.root = NodeRef{Kind: BranchKind, Handle: newRootHandle}
	}
	if !hadPrev {
		t.length++
	}
	return prev, hadPrev
}

func (t *Tree[K, V]) insert(ref NodeRef, key K, value V) (prev V, hadPrev bool, sr splitResult[K]) {
	if ref.Kind == LeafKind {
		l := t.getLeaf(ref.Handle)
		prev, hadPrev = l.insert(key, value)
		if len(l.keys) > t.capacity {
			sep, right := l.split(t.capacity)
			rightHandle := t.leaves.Allocate(*right)
			// l may have been relocated by arena growth; re-fetch before patching next.
			l = t.getLeaf(ref.Handle)
			l.next = rightHandle
			t.splits++
			sr = splitResult[K]{sep: sep, right: NodeRef{Kind: LeafKind, Handle: rightHandle}, hasSplit: true}
		}
		return prev, hadPrev, sr
	}

	b := t.getBranch(ref.Handle)
	idx := b.findChildIndex(key)
	child := b.children[idx]
	prev, hadPrev, childSplit := t.insert(child, key, value)
	if !childSplit.hasSplit {
		return prev, hadPrev, sr
	}

	b = t.getBranch(ref.Handle)
	b.insertChild(idx, childSplit.sep, childSplit.right)
	if len(b.keys) > t.capacity {
		sep, right := b.split(t.capacity)
		rightHandle := t.branches.Allocate(*right)
		t.splits++
		sr = splitResult[K]{sep: sep, right: NodeRef{Kind: BranchKind, Handle: rightHandle}, hasSplit: true}
	}
	return prev, hadPrev, sr
}
