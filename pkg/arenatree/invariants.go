package arenatree

import (
	"github.com/cockroachdb/errors"
)

// Check verifies every quantified invariant from spec.md §8: per-node
// occupancy and ordering, branch child-kind uniformity and subtree key
// bounds, leaf-chain integrity (visits every leaf exactly once in
// ascending order and terminates at the sentinel), the reported length
// against the sum of leaf occupancies, and arena reachability (every
// handle named by a node reference resolves to an allocated slot, and no
// allocated slot is unreachable from the root or the leaf chain).
//
// It is a post-condition verifier for tests and guarded paths, not part of
// the hot path; a non-nil return is marked ErrDataIntegrity and indicates a
// bug in the engine rather than caller misuse.
func (t *Tree[K, V]) Check() error {
	reachableLeaves := make(map[Handle]bool)
	reachableBranches := make(map[Handle]bool)

	count, err := t.checkNode(t.root, nil, nil, true, reachableLeaves, reachableBranches)
	if err != nil {
		return errors.Mark(err, ErrDataIntegrity)
	}
	if count != t.length {
		return errors.Mark(errors.Newf("arenatree: reported length %d but subtree holds %d keys", t.length, count), ErrDataIntegrity)
	}

	if err := t.checkLeafChain(reachableLeaves); err != nil {
		return errors.Mark(err, ErrDataIntegrity)
	}

	var arenaErr error
	t.leaves.Each(func(h Handle, _ *leaf[K, V]) bool {
		if !reachableLeaves[h] {
			arenaErr = errors.Newf("arenatree: leaf slot %d is allocated but unreachable", h)
			return false
		}
		return true
	})
	if arenaErr != nil {
		return errors.Mark(arenaErr, ErrDataIntegrity)
	}
	t.branches.Each(func(h Handle, _ *branch[K]) bool {
		if !reachableBranches[h] {
			arenaErr = errors.Newf("arenatree: branch slot %d is allocated but unreachable", h)
			return false
		}
		return true
	})
	if arenaErr != nil {
		return errors.Mark(arenaErr, ErrDataIntegrity)
	}

	return nil
}

// checkNode recursively validates ref and everything beneath it, where lo
// and hi (nil meaning unbounded) are the closed-below/open-above key bounds
// the subtree must respect (lo <= key < hi), and isRoot exempts ref from minimum occupancy.
// It returns the number of keys found in the subtree's leaves.
func (t *Tree[K, V]) checkNode(ref NodeRef, lo, hi *K, isRoot bool, reachableLeaves, reachableBranches map[Handle]bool) (int, error) {
	if ref.Kind == LeafKind {
		l, ok := t.leaves.Get(ref.Handle)
		if !ok {
			return 0, errors.Newf("arenatree: leaf handle %d does not resolve", ref.Handle)
		}
		reachableLeaves[ref.Handle] = true

		n := len(l.keys)
		if !isRoot && n < minOccupancy(t.capacity) {
			return 0, errors.Newf("arenatree: leaf %d underfull: %d keys, minimum %d", ref.Handle, n, minOccupancy(t.capacity))
		}
		if n > t.capacity {
			return 0, errors.Newf("arenatree: leaf %d overfull: %d keys, capacity %d", ref.Handle, n, t.capacity)
		}
		for i := 1; i < n; i++ {
			if !(l.keys[i-1] < l.keys[i]) {
				return 0, errors.Newf("arenatree: leaf %d keys not strictly increasing at index %d", ref.Handle, i)
			}
		}
		for _, k := range l.keys {
			if lo != nil && k < *lo {
				return 0, errors.Newf("arenatree: leaf %d key below subtree lower bound", ref.Handle)
			}
			if hi != nil && !(k < *hi) {
				return 0, errors.Newf("arenatree: leaf %d key at or above subtree upper bound", ref.Handle)
			}
		}
		return n, nil
	}

	b, ok := t.branches.Get(ref.Handle)
	if !ok {
		return 0, errors.Newf("arenatree: branch handle %d does not resolve", ref.Handle)
	}
	reachableBranches[ref.Handle] = true

	nk := len(b.keys)
	if !isRoot && nk < minOccupancy(t.capacity) {
		return 0, errors.Newf("arenatree: branch %d underfull: %d separators, minimum %d", ref.Handle, nk, minOccupancy(t.capacity))
	}
	if nk > t.capacity {
		return 0, errors.Newf("arenatree: branch %d overfull: %d separators, capacity %d", ref.Handle, nk, t.capacity)
	}
	if len(b.children) != nk+1 {
		return 0, errors.Newf("arenatree: branch %d has %d children, expected %d", ref.Handle, len(b.children), nk+1)
	}
	for i := 1; i < nk; i++ {
		if !(b.keys[i-1] < b.keys[i]) {
			return 0, errors.Newf("arenatree: branch %d separators not strictly increasing at index %d", ref.Handle, i)
		}
	}
	kind := b.children[0].Kind
	for _, c := range b.children {
		if c.Kind != kind {
			return 0, errors.Newf("arenatree: branch %d mixes child kinds", ref.Handle)
		}
	}

	total := 0
	for i, child := range b.children {
		childLo, childHi := lo, hi
		if i > 0 {
			childLo = &b.keys[i-1]
		}
		if i < nk {
			childHi = &b.keys[i]
		}
		n, err := t.checkNode(child, childLo, childHi, false, reachableLeaves, reachableBranches)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// checkLeafChain walks the leaf chain from the leftmost leaf, verifying it
// visits every reachable leaf exactly once in ascending key order and
// terminates at the sentinel.
func (t *Tree[K, V]) checkLeafChain(reachableLeaves map[Handle]bool) error {
	seen := make(map[Handle]bool, len(reachableLeaves))
	h := t.leftmostLeaf(t.root)
	var prevKey *K
	count := 0

	for h != NilHandle {
		if seen[h] {
			return errors.Newf("arenatree: leaf chain revisits slot %d (cycle)", h)
		}
		seen[h] = true
		l, ok := t.leaves.Get(h)
		if !ok {
			return errors.Newf("arenatree: leaf chain handle %d does not resolve", h)
		}
		for _, k := range l.keys {
			if prevKey != nil && !(*prevKey < k) {
				return errors.Newf("arenatree: leaf chain not strictly ascending at slot %d", h)
			}
			kk := k
			prevKey = &kk
		}
		count += len(l.keys)
		h = l.next
	}

	if count != t.length {
		return errors.Newf("arenatree: leaf chain holds %d keys but tree reports %d", count, t.length)
	}
	if len(seen) != len(reachableLeaves) {
		return errors.Newf("arenatree: leaf chain visits %d leaves but %d are reachable from the root", len(seen), len(reachableLeaves))
	}
	for h := range reachableLeaves {
		if !seen[h] {
			return errors.Newf("arenatree: leaf %d is reachable from the root but absent from the leaf chain", h)
		}
	}
	return nil
}
