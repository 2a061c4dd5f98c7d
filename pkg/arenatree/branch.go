package arenatree

import (
	"cmp"
	"sort"
)

// branch is an interior node holding len(keys) separators and len(keys)+1
// child references. All children of a well-formed branch share one NodeKind.
type branch[K cmp.Ordered] struct {
	keys     []K
	children []NodeRef
}

func newBranch[K cmp.Ordered](capacity int) *branch[K] {
	return &branch[K]{
		keys:     make([]K, 0, capacity+1),
		children: make([]NodeRef, 0, capacity+2),
	}
}

// childKind returns the NodeKind shared by this branch's children. It is
// undefined (returns LeafKind) for a branch with no children, which must
// never occur outside of construction.
func (b *branch[K]) childKind() NodeKind {
	if len(b.children) == 0 {
		return LeafKind
	}
	return b.children[0].Kind
}

// findChildIndex returns i such that the subtree rooted at children[i] is
// the unique one that can hold key, under the convention that a key equal
// to a separator routes right: the greatest i with keys[i-1] <= key when
// i > 0, and key < keys[i] when i < len(keys).
func (b *branch[K]) findChildIndex(key K) int {
	return sort.Search(len(b.keys), func(i int) bool { return key < b.keys[i] })
}

// insertChild inserts newChild to the right of children[at] and sep at
// position at among keys. The caller is responsible for checking overfull
// state (len(keys) > capacity) and invoking split afterward.
func (b *branch[K]) insertChild(at int, sep K, newChild NodeRef) {
	var zeroKey K
	b.keys = append(b.keys, zeroKey)
	copy(b.keys[at+1:], b.keys[at:len(b.keys)-1])
	b.keys[at] = sep

	b.children = append(b.children, NodeRef{})
	copy(b.children[at+2:], b.children[at+1:len(b.children)-1])
	b.children[at+1] = newChild
}

// split moves the upper half of b to a freshly constructed right branch,
// promoting the middle separator into the parent instead of keeping it on
// either side. n is the transient overfull key count (capacity+1 at the
// moment of split); mid := (n-1)/2 leaves capacity/2 (rounded down)
// separators on the left and n-mid-1 on the right. For even capacity both
// sides hold exactly minOccupancy(capacity); for odd capacity the left side
// holds one separator fewer. See DESIGN.md for the odd-capacity case.
func (b *branch[K]) split(capacity int) (sep K, right *branch[K]) {
	n := len(b.keys)
	mid := (n - 1) / 2
	sep = b.keys[mid]

	right = newBranch[K](capacity)
	right.keys = append(right.keys, b.keys[mid+1:]...)
	right.children = append(right.children, b.children[mid+1:]...)

	b.keys = b.keys[:mid]
	b.children = b.children[:mid+1]
	return sep, right
}

// borrowFirst removes and returns the leftmost (separator, child) pair —
// keys[0] and children[0] — only valid when doing so keeps b at or above
// minOccupancy(capacity) separators. The caller promotes the returned key
// into the parent separator vacated by the sibling losing this pair.
func (b *branch[K]) borrowFirst(capacity int) (sep K, child NodeRef, ok bool) {
	if len(b.keys) <= minOccupancy(capacity) {
		return sep, NodeRef{}, false
	}
	sep, child = b.keys[0], b.children[0]
	b.keys = b.keys[1:]
	b.children = b.children[1:]
	return sep, child, true
}

// borrowLast removes and returns the rightmost (separator, child) pair —
// keys[len-1] and children[len-1] — only valid when doing so keeps b at or
// above minOccupancy(capacity) separators.
func (b *branch[K]) borrowLast(capacity int) (sep K, child NodeRef, ok bool) {
	if len(b.keys) <= minOccupancy(capacity) {
		return sep, NodeRef{}, false
	}
	lastKey := len(b.keys) - 1
	lastChild := len(b.children) - 1
	sep, child = b.keys[lastKey], b.children[lastChild]
	b.keys = b.keys[:lastKey]
	b.children = b.children[:lastChild]
	return sep, child, true
}

// acceptFromLeft prepends sep and child, used when borrowing the left
// sibling's last child: sep becomes the parent's rotated-down separator,
// child becomes this branch's new leftmost child.
func (b *branch[K]) acceptFromLeft(sep K, child NodeRef) {
	b.keys = append(b.keys, sep)
	copy(b.keys[1:], b.keys[:len(b.keys)-1])
	b.keys[0] = sep

	b.children = append(b.children, NodeRef{})
	copy(b.children[1:], b.children[:len(b.children)-1])
	b.children[0] = child
}

// acceptFromRight appends sep and child, used when borrowing the right
// sibling's first child.
func (b *branch[K]) acceptFromRight(sep K, child NodeRef) {
	b.keys = append(b.keys, sep)
	b.children = append(b.children, child)
}

// mergeFrom appends separator then all of other's keys and children. other
// is left empty; the caller deallocates it.
func (b *branch[K]) mergeFrom(separator K, other *branch[K]) {
	b.keys = append(b.keys, separator)
	b.keys = append(b.keys, other.keys...)
	b.children = append(b.children, other.children...)
	other.keys = nil
	other.children = nil
}
