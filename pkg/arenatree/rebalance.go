package arenatree

// Remove deletes the value for key, if present, returning it. Underflow at
// the leaf propagates up through rebalanceChild at each branch on the path;
// once the recursion unwinds, the root is collapsed while it is a branch
// with zero separators.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	value, removed, _ := t.removeRec(t.root, key)
	if removed {
		t.length--
		t.collapseRoot()
	}
	return value, removed
}

// RemoveEntry deletes key if present and returns the removed (key, value)
// pair.
func (t *Tree[K, V]) RemoveEntry(key K) (KeyValue[K, V], bool) {
	value, removed := t.Remove(key)
	if !removed {
		return KeyValue[K, V]{}, false
	}
	return KeyValue[K, V]{Key: key, Value: value}, true
}

// PopFirst removes and returns the pair with the smallest key, if any.
func (t *Tree[K, V]) PopFirst() (KeyValue[K, V], bool) {
	first, ok := t.FirstKeyValue()
	if !ok {
		return KeyValue[K, V]{}, false
	}
	t.Remove(first.Key)
	return first, true
}

// PopLast removes and returns the pair with the largest key, if any.
func (t *Tree[K, V]) PopLast() (KeyValue[K, V], bool) {
	last, ok := t.LastKeyValue()
	if !ok {
		return KeyValue[K, V]{}, false
	}
	t.Remove(last.Key)
	return last, true
}

func (t *Tree[K, V]) removeRec(ref NodeRef, key K) (value V, removed, underfull bool) {
	if ref.Kind == LeafKind {
		l := t.getLeaf(ref.Handle)
		return l.remove(key, t.capacity)
	}

	b := t.getBranch(ref.Handle)
	idx := b.findChildIndex(key)
	child := b.children[idx]
	value, removed, childUnderfull := t.removeRec(child, key)
	if !removed {
		return value, false, false
	}
	if childUnderfull {
		t.rebalanceChild(ref.Handle, idx)
	}
	// No allocation occurs between obtaining b and here (rebalancing only
	// deallocates), so b is still the correct pointer; refetched anyway to
	// keep the "never hold a borrow across a mutation without re-deriving
	// it" discipline visible at the call site.
	b = t.getBranch(ref.Handle)
	underfull = len(b.keys) < minOccupancy(t.capacity)
	return value, true, underfull
}

// rebalanceChild fixes up the underfull child at index idx of the branch
// named by parentHandle, following the protocol of spec.md §4.5: try
// borrowing from the left sibling, then the right, then merge. Ties prefer
// the left sibling, except at idx == 0 where only the right is available.
func (t *Tree[K, V]) rebalanceChild(parentHandle Handle, idx int) {
	b := t.getBranch(parentHandle)
	switch b.children[idx].Kind {
	case LeafKind:
		t.rebalanceLeafChild(b, idx)
	case BranchKind:
		t.rebalanceBranchChild(b, idx)
	}
}

func (t *Tree[K, V]) rebalanceLeafChild(b *branch[K], idx int) {
	capacity := t.capacity

	if idx > 0 {
		left := t.getLeaf(b.children[idx-1].Handle)
		if len(left.keys) > minOccupancy(capacity) {
			k, v, _ := left.borrowLast(capacity)
			child := t.getLeaf(b.children[idx].Handle)
			child.acceptFromLeft(k, v)
			b.keys[idx-1] = child.keys[0]
			t.rebalances++
			return
		}
	}

	if idx < len(b.children)-1 {
		right := t.getLeaf(b.children[idx+1].Handle)
		if len(right.keys) > minOccupancy(capacity) {
			k, v, _ := right.borrowFirst(capacity)
			child := t.getLeaf(b.children[idx].Handle)
			child.acceptFromRight(k, v)
			b.keys[idx] = right.keys[0]
			t.rebalances++
			return
		}
	}

	if idx > 0 {
		left := t.getLeaf(b.children[idx-1].Handle)
		child := t.getLeaf(b.children[idx].Handle)
		left.mergeFrom(child)
		t.leaves.Deallocate(b.children[idx].Handle)
		b.keys = append(b.keys[:idx-1], b.keys[idx:]...)
		b.children = append(b.children[:idx], b.children[idx+1:]...)
		t.merges++
		return
	}

	right := t.getLeaf(b.children[idx+1].Handle)
	child := t.getLeaf(b.children[idx].Handle)
	child.mergeFrom(right)
	t.leaves.Deallocate(b.children[idx+1].Handle)
	b.keys = append(b.keys[:idx], b.keys[idx+1:]...)
	b.children = append(b.children[:idx+1], b.children[idx+2:]...)
	t.merges++
}

func (t *Tree[K, V]) rebalanceBranchChild(b *branch[K], idx int) {
	capacity := t.capacity

	if idx > 0 {
		left := t.getBranch(b.children[idx-1].Handle)
		if len(left.keys) > minOccupancy(capacity) {
			sepFromLeft, childFromLeft, _ := left.borrowLast(capacity)
			child := t.getBranch(b.children[idx].Handle)
			child.acceptFromLeft(b.keys[idx-1], childFromLeft)
			b.keys[idx-1] = sepFromLeft
			t.rebalances++
			return
		}
	}

	if idx < len(b.children)-1 {
		right := t.getBranch(b.children[idx+1].Handle)
		if len(right.keys) > minOccupancy(capacity) {
			sepFromRight, childFromRight, _ := right.borrowFirst(capacity)
			child := t.getBranch(b.children[idx].Handle)
			child.acceptFromRight(b.keys[idx], childFromRight)
			b.keys[idx] = sepFromRight
			t.rebalances++
			return
		}
	}

	if idx > 0 {
		left := t.getBranch(b.children[idx-1].Handle)
		child := t.getBranch(b.children[idx].Handle)
		left.mergeFrom(b.keys[idx-1], child)
		t.branches.Deallocate(b.children[idx].Handle)
		b.keys = append(b.keys[:idx-1], b.keys[idx:]...)
		b.children = append(b.children[:idx], b.children[idx+1:]...)
		t.merges++
		return
	}

	right := t.getBranch(b.children[idx+1].Handle)
	child := t.getBranch(b.children[idx].Handle)
	child.mergeFrom(b.keys[idx], right)
	t.branches.Deallocate(b.children[idx+1].Handle)
	b.keys = append(b.keys[:idx], b.keys[idx+1:]...)
	b.children = append(b.children[:idx+1], b.children[idx+2:]...)
	t.merges++
}

// collapseRoot promotes the root's single child, or replaces a childless
// root branch with a fresh empty leaf, repeating until the root is a leaf
// or a branch with at least one separator. A branch root with zero
// separators and more than one child never occurs outside of a bug.
func (t *Tree[K, V]) collapseRoot() {
	for t.root.Kind == BranchKind {
		b := t.getBranch(t.root.Handle)
		if len(b.keys) > 0 {
			return
		}
		oldHandle := t.root.Handle
		switch len(b.children) {
		case 1:
			t.root = b.children[0]
		case 0:
			t.root = NodeRef{Kind: LeafKind, Handle: t.leaves.Allocate(*newLeaf[K, V](t.capacity))}
		default:
			panic(integrityFault(&nodeError{reason: "root branch has zero separators but multiple children"}))
		}
		t.branches.Deallocate(oldHandle)
	}
}
